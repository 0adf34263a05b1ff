// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"github.com/cpmech/terrafem/apierr"
	"github.com/cpmech/terrafem/asm"
	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/event"
	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/mesh"
	"github.com/cpmech/terrafem/phase"
	"github.com/cpmech/terrafem/shp"
)

// BuildSolver reconstructs a phase.Solver from a SolverRequest's mesh,
// material table and load/water tables, per spec §6: every element is
// recomputed once via ele.Compute against its baseline material, mirroring
// the work generate_mesh's caller would otherwise have to redo.
func BuildSolver(req SolverRequest) (*phase.Solver, *apierr.Error) {
	if len(req.Mesh.Nodes) == 0 || len(req.Mesh.Elements) == 0 {
		return nil, apierr.New(apierr.ValEmptyMesh, "solver request carries an empty mesh")
	}
	if len(req.Mesh.Elements) > mesh.DefaultMaxElements {
		return nil, apierr.New(apierr.ValOverElementLim, "")
	}

	materials := make(map[int]*mat.Material, len(req.Materials))
	for i := range req.Materials {
		m := req.Materials[i]
		materials[i] = &m
	}

	water, err := buildWaterTable(req.WaterLevel, req.WaterLevels)
	if err != nil {
		return nil, apierr.New(apierr.SysInternalError, err.Error())
	}

	nodes := make([][2]float64, len(req.Mesh.Nodes))
	copy(nodes, req.Mesh.Nodes)

	thickness := req.Thickness
	if thickness <= 0 {
		thickness = 1
	}

	baseline := make(map[int]int, len(req.Mesh.ElementMaterials))
	for _, em := range req.Mesh.ElementMaterials {
		baseline[em.PolygonID] = em.MaterialID
	}

	elements := make([]*ele.Element, len(req.Mesh.Elements))
	for i, conn := range req.Mesh.Elements {
		em := req.Mesh.ElementMaterials[i]
		m, ok := materials[em.MaterialID]
		if !ok {
			return nil, apierr.New(apierr.SysInternalError, "unknown baseline material id")
		}
		coords := make([][2]float64, len(conn))
		for j, n := range conn {
			coords[j] = nodes[n]
		}
		kind := shp.T3
		if len(conn) == 6 {
			kind = shp.T6
		}
		e, cerr := ele.Compute(kind, conn, em.PolygonID, coords, m, water[""], thickness)
		if cerr != nil {
			return nil, apierr.New(apierr.SolverUnstableGeom, cerr.Error())
		}
		elements[i] = e
	}

	dofs := &asm.DofSet{
		NNodes:    len(nodes),
		FullFixed: make(map[int]bool, len(req.Mesh.BoundaryConditions.FullFixed)),
		RollerX:   make(map[int]bool, len(req.Mesh.BoundaryConditions.NormalFixed)),
	}
	for _, bc := range req.Mesh.BoundaryConditions.FullFixed {
		dofs.FullFixed[bc.Node] = true
	}
	for _, bc := range req.Mesh.BoundaryConditions.NormalFixed {
		dofs.RollerX[bc.Node] = true
	}

	pointLoads := buildPointLoads(req)
	lineLoads := buildLineLoads(req)

	s := phase.NewSolver(nodes, elements, baseline, materials, water, dofs, pointLoads, lineLoads, thickness, mesh.DefaultMaxElements)
	return s, nil
}

// buildWaterTable resolves the default ("") and named water-level
// polylines of a SolverRequest (spec §6 water_level / water_levels).
func buildWaterTable(flat []Vertex, named []WaterLevelInput) (map[string]geom.Polyline, error) {
	water := make(map[string]geom.Polyline, len(named)+1)
	def, err := toPolyline(flat)
	if err != nil {
		return nil, err
	}
	water[""] = def
	for _, wl := range named {
		p, err := toPolyline(wl.Points)
		if err != nil {
			return nil, err
		}
		water[wl.ID] = p
	}
	return water, nil
}

// buildPointLoads joins a SolverRequest's resolved point-load assignments
// with their (fx, fy) magnitudes.
func buildPointLoads(req SolverRequest) []phase.PointLoad {
	byID := make(map[string]PointLoadInput, len(req.PointLoads))
	for _, pl := range req.PointLoads {
		byID[pl.ID] = pl
	}
	out := make([]phase.PointLoad, 0, len(req.Mesh.PointLoadAssignments))
	for _, a := range req.Mesh.PointLoadAssignments {
		pl, ok := byID[a.PointLoadID]
		if !ok {
			continue
		}
		out = append(out, phase.PointLoad{ID: a.PointLoadID, NodeID: a.AssignedNodeID - 1, Fx: pl.Fx, Fy: pl.Fy})
	}
	return out
}

// buildLineLoads joins a SolverRequest's resolved line-load assignments
// with their (fx, fy) magnitudes.
func buildLineLoads(req SolverRequest) []phase.LineLoad {
	byID := make(map[string]LineLoadInput, len(req.LineLoads))
	for _, ll := range req.LineLoads {
		byID[ll.ID] = ll
	}
	out := make([]phase.LineLoad, 0, len(req.Mesh.LineLoadAssignments))
	for _, a := range req.Mesh.LineLoadAssignments {
		ll, ok := byID[a.LineLoadID]
		if !ok {
			continue
		}
		edge := make([]int, len(a.EdgeNodes))
		for i, n := range a.EdgeNodes {
			edge[i] = n - 1
		}
		out = append(out, phase.LineLoad{ID: a.LineLoadID, ElementIdx: a.ElementID - 1, EdgeNodes: edge, Fx: ll.Fx, Fy: ll.Fy})
	}
	return out
}

// toPhaseSpecs converts the wire PhaseRequest list into phase.Spec values.
func toPhaseSpecs(phases []PhaseRequest) []phase.Spec {
	out := make([]phase.Spec, len(phases))
	for i, p := range phases {
		overrides := make(map[int]int, len(p.MaterialOverrides))
		for _, mo := range p.MaterialOverrides {
			overrides[mo.PolygonIndex] = mo.MaterialID
		}
		out[i] = phase.Spec{
			ID: p.ID, Name: p.Name, Type: phase.Type(p.PhaseType), ParentID: p.ParentID,
			ActivePolygons: p.ActivePolygonIdxs, ActiveLoadIDs: p.ActiveLoadIDs,
			ResetDisplacements: p.ResetDisplacements, MaterialOverrides: overrides,
			ActiveWaterLevelID: p.ActiveWaterLevelID,
		}
	}
	return out
}

// toSolverSettings converts the wire SolverSettings into phase.Settings.
func toSolverSettings(s SolverSettings) phase.Settings {
	return phase.Settings{
		MaxIterations: s.MaxIterations, MinDesiredIterations: s.MinDesiredIterations,
		MaxDesiredIterations: s.MaxDesiredIterations, InitialStepSize: s.InitialStepSize,
		Tolerance: s.Tolerance, MaxLoadFraction: s.MaxLoadFraction,
		MaxSteps: s.MaxSteps, MaxDisplacementLimit: s.MaxDisplacementLimit,
	}
}

// Solve implements spec §6's solve(SolverRequest) -> stream of SolverEvent:
// it validates settings, builds the solver, runs every phase in order and
// emits the closing "final" event once all phases have been processed (or
// the run aborted on a per-phase fatal error).
func Solve(req SolverRequest, sink event.Sink) bool {
	settings := toSolverSettings(req.Settings)
	if verr := settings.Validate(len(req.Mesh.Elements), mesh.DefaultMaxElements); verr != nil {
		res := event.PhaseResultContent{Success: false, Error: verr.Error()}
		sink.Emit(event.Event{Type: event.Log, Content: verr.Error()})
		sink.Emit(event.Event{Type: event.Final, Content: event.FinalContent{Success: false, Phases: []event.PhaseResultContent{res}}})
		return false
	}

	s, berr := BuildSolver(req)
	if berr != nil {
		sink.Emit(event.Event{Type: event.Log, Content: berr.Error()})
		sink.Emit(event.Event{Type: event.Final, Content: event.FinalContent{Success: false}})
		return false
	}

	ok, results := s.Run(toPhaseSpecs(req.Phases), settings, sink)
	var lines []string
	for _, r := range results {
		if r.Error != "" {
			lines = append(lines, r.Error)
		}
	}
	sink.Emit(event.Event{Type: event.Final, Content: event.FinalContent{Success: ok, Phases: results, Log: lines}})
	return ok
}
