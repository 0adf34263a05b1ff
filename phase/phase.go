// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phase implements the staged, incremental phase solver of spec
// §4.6/§4.7: material reset/override at phase start, active-element/dof
// recomputation, the one-shot K0 geostatic phase, the M-stage adaptive
// Newton-Raphson Plastic/Safety phase with the strength-reduction driving
// loop, and the incremental external-force assembly. It generalizes the
// teacher's (cpmech/gofem) fem.Domain.SetStage stage-to-stage activation
// and backup/restore idiom from a time-stepping loop to the spec's
// load-fraction loop.
package phase

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/apierr"
	"github.com/cpmech/terrafem/asm"
	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/event"
	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/mc"
)

// Type is a phase's processing mode, per spec §6 PhaseRequest.phase_type.
type Type string

const (
	Plastic        Type = "plastic"
	K0Procedure    Type = "k0_procedure"
	SafetyAnalysis Type = "safety_analysis"
	Flow           Type = "flow"
	GravityLoading Type = "gravity_loading"
)

// PointLoad is a resolved point load ready for ΔF_external assembly.
type PointLoad struct {
	ID     string
	NodeID int
	Fx, Fy float64
}

// LineLoad is a resolved line load (element edge) ready for ΔF_external
// assembly.
type LineLoad struct {
	ID         string
	ElementIdx int
	EdgeNodes  []int // [corner,corner] (T3) or [corner,corner,midpoint] (T6)
	Fx, Fy     float64
}

// Spec is one phase's request (spec §6 PhaseRequest).
type Spec struct {
	ID                 string
	Name               string
	Type               Type
	ParentID           string
	ActivePolygons     []int
	ActiveLoadIDs      []string
	ResetDisplacements bool
	MaterialOverrides  map[int]int // polygon index -> material id
	ActiveWaterLevelID string
}

// Settings are the solver's numerical controls (spec §6 SolverRequest.settings).
type Settings struct {
	MaxIterations        int
	MinDesiredIterations int
	MaxDesiredIterations int
	InitialStepSize      float64
	Tolerance            float64
	MaxLoadFraction      float64
	MaxSteps             int
	MaxDisplacementLimit float64
}

// Validate enforces the pre-flight bounds of spec §5.
func (s Settings) Validate(nElements, elementCap int) *apierr.Error {
	if s.Tolerance < 0.001 || s.Tolerance > 0.1 {
		return apierr.New(apierr.ValToleranceOOB, "")
	}
	if s.MaxIterations < 1 || s.MaxIterations > 100 {
		return apierr.New(apierr.ValIterationsOOB, "")
	}
	if s.InitialStepSize < 0.001 || s.InitialStepSize > 1 {
		return apierr.New(apierr.ValStepSizeOOB, "")
	}
	if s.MaxLoadFraction != 0 && (s.MaxLoadFraction < 0.01 || s.MaxLoadFraction > 1) {
		return apierr.New(apierr.ValLoadFracOOB, "")
	}
	if s.MaxSteps < 1 || s.MaxSteps > 1000 {
		return apierr.New(apierr.ValMaxStepsOOB, "")
	}
	if s.MinDesiredIterations > s.MaxDesiredIterations && s.MaxDesiredIterations > 0 {
		return apierr.New(apierr.ValIterMismatch, "")
	}
	if nElements > elementCap {
		return apierr.New(apierr.ValOverElementLim, "")
	}
	return nil
}

// GPState is the mutable per-Gauss-point state carried across phases:
// stress, strain and excess pore pressure, plus the last-evaluated yield
// flag (spec §4.4, §4.6).
type GPState struct {
	Sigma    mc.Stress
	Eps      mc.Stress
	PExcess  float64
	Yielded  bool
}

// Solver owns the immutable mesh/material tables and the mutable running
// state (displacements, per-GP history, active set) across a sequence of
// phases.
type Solver struct {
	Nodes      [][2]float64
	Elements   []*ele.Element
	Baseline   map[int]int        // polygon index -> baseline material id
	Materials  map[int]*mat.Material // material id -> material
	Water      map[string]geom.Polyline
	Dofs       *asm.DofSet
	PointLoads []PointLoad
	LineLoads  []LineLoad
	Thickness  float64
	ElementCap int

	U              []float64 // global displacement, 2*nnodes
	GP             [][]GPState
	ActivePolygons map[int]bool
	ActiveLoadIDs  map[string]bool
}

// NewSolver builds a Solver from a generated mesh's elements and the
// material/water/load tables resolved against it. All elements start
// with their baseline material's K_e/F_g/D already computed by the
// caller (mesh.GenerateT3/GenerateT6 + ele.Compute).
func NewSolver(nodes [][2]float64, elements []*ele.Element, baseline map[int]int, materials map[int]*mat.Material, water map[string]geom.Polyline, dofs *asm.DofSet, pointLoads []PointLoad, lineLoads []LineLoad, thickness float64, elementCap int) *Solver {
	s := &Solver{
		Nodes: nodes, Elements: elements, Baseline: baseline, Materials: materials,
		Water: water, Dofs: dofs, PointLoads: pointLoads, LineLoads: lineLoads,
		Thickness: thickness, ElementCap: elementCap,
	}
	s.U = make([]float64, 2*dofs.NNodes)
	s.GP = make([][]GPState, len(elements))
	for i, e := range elements {
		s.GP[i] = make([]GPState, len(e.GPs))
	}
	s.ActivePolygons = make(map[int]bool)
	s.ActiveLoadIDs = make(map[string]bool)
	return s
}

// waterFor resolves the active water-level polyline for a phase; falls
// back to the default ("") entry when the phase doesn't override it.
func (s *Solver) waterFor(id string) geom.Polyline {
	if id != "" {
		if w, ok := s.Water[id]; ok {
			return w
		}
	}
	return s.Water[""]
}

// resetAndOverrideMaterials implements spec §4.6 Step 0: for non-Safety
// phases every element reverts to its baseline material, then every
// (polygon, material id) override recomputes K_e/F_g/D/quadrature for
// that polygon's elements, preserving stress/strain state.
func (s *Solver) resetAndOverrideMaterials(ph Spec) error {
	current := make(map[int]int, len(s.Baseline))
	for poly, matID := range s.Baseline {
		current[poly] = matID
	}
	if ph.Type != SafetyAnalysis {
		for i, e := range s.Elements {
			matID := s.Baseline[e.PolygonIdx]
			if err := s.recomputeElement(i, matID); err != nil {
				return err
			}
		}
	}
	for poly, matID := range ph.MaterialOverrides {
		for i, e := range s.Elements {
			if e.PolygonIdx != poly {
				continue
			}
			if err := s.recomputeElement(i, matID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Solver) recomputeElement(idx int, materialID int) error {
	e := s.Elements[idx]
	m, ok := s.Materials[materialID]
	if !ok {
		return chk.Err("phase: unknown material id %d", materialID)
	}
	coords := make([][2]float64, len(e.Nodes))
	for i, n := range e.Nodes {
		coords[i] = s.Nodes[n]
	}
	water := s.waterFor("")
	nw, err := ele.Compute(e.Kind, e.Nodes, e.PolygonIdx, coords, m, water, s.Thickness)
	if err != nil {
		return err
	}
	s.Elements[idx] = nw
	return nil
}

// Run processes every phase in input order, emitting the events of spec
// §6, and returns the per-phase results plus overall success.
func (s *Solver) Run(phases []Spec, settings Settings, sink event.Sink) (bool, []event.PhaseResultContent) {
	var results []event.PhaseResultContent
	overallOK := true
	for _, ph := range phases {
		event.Logf(sink, "phase %s (%s) start", ph.ID, ph.Type)

		if err := s.resetAndOverrideMaterials(ph); err != nil {
			res := event.PhaseResultContent{PhaseID: ph.ID, Success: false, Error: err.Error()}
			results = append(results, res)
			sink.Emit(event.Event{Type: event.PhaseResult, Content: res})
			overallOK = false
			break
		}

		parentActivePolygons := copyIntSet(s.ActivePolygons)
		parentActiveLoads := copyStrSet(s.ActiveLoadIDs)
		s.ActivePolygons = toIntSet(ph.ActivePolygons)
		s.ActiveLoadIDs = toStrSet(ph.ActiveLoadIDs)

		fm := asm.BuildFreeMap(s.Elements, s.ActivePolygons, s.Dofs)

		var res event.PhaseResultContent
		switch ph.Type {
		case K0Procedure:
			res = s.runK0(ph, fm, sink)
		default:
			dF := s.externalForceDelta(ph, parentActivePolygons, parentActiveLoads, fm)
			res = s.runIncremental(ph, settings, fm, dF, sink)
		}
		results = append(results, res)
		sink.Emit(event.Event{Type: event.PhaseResult, Content: res})
		if !res.Success {
			overallOK = false
			break
		}
	}
	return overallOK, results
}

// displacementReport builds the wire-facing per-node displacement list
// (spec §6 PhaseResult.displacements), 1-based node ids.
func (s *Solver) displacementReport() []event.Displacement {
	out := make([]event.Displacement, len(s.Nodes))
	for i := range s.Nodes {
		out[i] = event.Displacement{ID: i + 1, Ux: s.U[2*i], Uy: s.U[2*i+1]}
	}
	return out
}

// stressReport builds the wire-facing per-(element,Gauss-point) stress
// list (spec §6 PhaseResult.stresses) for every currently-active element,
// 1-based element ids, tagging every record with the phase's reached
// m_stage.
func (s *Solver) stressReport(mStage float64) []event.StressPoint {
	var out []event.StressPoint
	for ei, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		m := e.Mat
		totalStressBranch := m.Drainage == mat.NonPorous || m.Drainage == mat.UndrainedC
		for gi, gd := range e.GPs {
			gp := s.GP[ei][gi]
			pTotal := gd.PWPSteady + gp.PExcess
			sigZZ := mc.SigmaZZ(gp.Sigma, m.Nu, pTotal, totalStressBranch)
			out = append(out, event.StressPoint{
				ElementID: ei + 1, GPID: gi + 1,
				SigXX: gp.Sigma[0], SigYY: gp.Sigma[1], SigXY: gp.Sigma[2], SigZZ: sigZZ,
				PwpSteady: gd.PWPSteady, PwpExcess: gp.PExcess, PwpTotal: pTotal,
				IsYielded: gp.Yielded, MStage: mStage,
			})
		}
	}
	return out
}

func copyIntSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStrSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toIntSet(xs []int) map[int]bool {
	out := make(map[int]bool, len(xs))
	for _, x := range xs {
		out[x] = true
	}
	return out
}

func toStrSet(xs []string) map[string]bool {
	out := make(map[string]bool, len(xs))
	for _, x := range xs {
		out[x] = true
	}
	return out
}
