// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"github.com/cpmech/terrafem/apierr"
	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/mesh"
)

// GenerateMesh implements spec §6's generate_mesh(MeshRequest) -> MeshResponse:
// it adapts the wire request into the mesh package's inputs, runs the
// triangulator and assembles the wire-facing response, including the
// 1-based load/element ids the wire format requires.
func GenerateMesh(req MeshRequest) MeshResponse {
	polys := make([]mesh.Polygon, len(req.Polygons))
	for i, p := range req.Polygons {
		polys[i] = mesh.Polygon{
			Vertices:             toPoints(p.Vertices),
			MaterialID:           p.MaterialID,
			MeshSize:             p.MeshSize,
			BoundaryRefineFactor: p.BoundaryRefinementFactor,
		}
	}

	materials := make(map[int]*mat.Material, len(req.Materials))
	for i := range req.Materials {
		m := req.Materials[i]
		materials[i] = &m
	}

	global := mesh.Settings{
		MeshSize:             req.MeshSettings.MeshSize,
		BoundaryRefineFactor: req.MeshSettings.BoundaryRefinementFactor,
		MaxElements:          req.MeshSettings.MaxElements,
	}

	pointLoads := make([]mesh.PointLoadSpec, len(req.PointLoads))
	for i, pl := range req.PointLoads {
		pointLoads[i] = mesh.PointLoadSpec{ID: pl.ID, X: pl.X, Y: pl.Y, Fx: pl.Fx, Fy: pl.Fy}
	}
	lineLoads := make([]mesh.LineLoadSpec, len(req.LineLoads))
	for i, ll := range req.LineLoads {
		lineLoads[i] = mesh.LineLoadSpec{ID: ll.ID, X1: ll.X1, Y1: ll.Y1, X2: ll.X2, Y2: ll.Y2, Fx: ll.Fx, Fy: ll.Fy}
	}

	if len(polys) == 0 {
		return MeshResponse{Error: apierr.New(apierr.ValEmptyMesh, "no polygons given").Error()}
	}

	var m *mesh.Mesh
	var err error
	if req.Quadratic {
		m, err = mesh.GenerateT6(polys, global, materials, pointLoads, lineLoads)
	} else {
		m, err = mesh.GenerateT3(polys, global, materials, pointLoads, lineLoads)
	}
	if err != nil {
		return MeshResponse{Error: err.Error()}
	}

	return toMeshResponse(m, materials)
}

// toMeshResponse converts a generated mesh.Mesh into the wire MeshResponse
// shape, resolving 1-based ids where spec §6 requires them.
func toMeshResponse(m *mesh.Mesh, materials map[int]*mat.Material) MeshResponse {
	nodes := make([][2]float64, len(m.Nodes))
	for i, n := range m.Nodes {
		nodes[i] = [2]float64{n.X, n.Y}
	}

	elements := make([][]int, len(m.Elements))
	elemMaterials := make([]ElementMaterial, len(m.Elements))
	for i, e := range m.Elements {
		elements[i] = append([]int(nil), e.Nodes...)
		em := ElementMaterial{ElementID: i + 1, PolygonID: e.PolygonIdx, MaterialID: e.MaterialID}
		if mt, ok := materials[e.MaterialID]; ok {
			em.Material = *mt
		}
		elemMaterials[i] = em
	}

	fullFixed := make([]BCEntry, len(m.FullFixed))
	for i, n := range m.FullFixed {
		fullFixed[i] = BCEntry{Node: n}
	}
	rollerX := make([]BCEntry, len(m.RollerX))
	for i, n := range m.RollerX {
		rollerX[i] = BCEntry{Node: n}
	}

	pointAssigns := make([]PointLoadAssignment, len(m.PointLoadAssigns))
	for i, a := range m.PointLoadAssigns {
		pointAssigns[i] = PointLoadAssignment{PointLoadID: a.PointLoadID, AssignedNodeID: a.NodeID + 1}
	}
	lineAssigns := make([]LineLoadAssignment, len(m.LineLoadAssigns))
	for i, a := range m.LineLoadAssigns {
		edgeNodes := make([]int, len(a.EdgeNodes))
		for j, n := range a.EdgeNodes {
			edgeNodes[j] = n + 1
		}
		lineAssigns[i] = LineLoadAssignment{LineLoadID: a.LineLoadID, ElementID: a.ElementIdx + 1, EdgeNodes: edgeNodes}
	}

	return MeshResponse{
		Nodes:    nodes,
		Elements: elements,
		BoundaryConditions: BoundaryConditions{
			FullFixed:   fullFixed,
			NormalFixed: rollerX,
		},
		PointLoadAssignments: pointAssigns,
		LineLoadAssignments:  lineAssigns,
		ElementMaterials:     elemMaterials,
	}
}

// toPoints converts wire vertices to geom.Point.
func toPoints(vs []Vertex) []geom.Point {
	out := make([]geom.Point, len(vs))
	for i, v := range vs {
		out[i] = geom.Point{X: v.X, Y: v.Y}
	}
	return out
}

// toPolyline builds a geom.Polyline from wire vertices, falling back to a
// flat polyline at y=0 when empty (mirroring mesh/pslg.go's "0 means use
// default" convention).
func toPolyline(vs []Vertex) (geom.Polyline, error) {
	if len(vs) == 0 {
		return geom.NewPolyline([]geom.Point{{X: -1e9, Y: 0}, {X: 1e9, Y: 0}})
	}
	return geom.NewPolyline(toPoints(vs))
}
