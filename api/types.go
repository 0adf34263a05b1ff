// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package api implements the wire request/response records of spec §6:
// generate_mesh(MeshRequest) -> MeshResponse and solve(SolverRequest) ->
// stream of SolverEvent. The JSON-tag shape follows the teacher's
// (cpmech/gofem) inp.Data/inp.Material style, narrowed from a (.sim) file
// format to a single in-process request/response pair.
package api

import "github.com/cpmech/terrafem/mat"

// Vertex is an (x, y) pair on the wire.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PolygonInput is one material region of a MeshRequest.
type PolygonInput struct {
	Vertices                 []Vertex `json:"vertices"`
	MeshSize                 float64  `json:"meshSize,omitempty"`
	BoundaryRefinementFactor float64  `json:"boundaryRefinementFactor,omitempty"`
	MaterialID                int     `json:"materialId"`
}

// PointLoadInput is one point load input to MeshRequest/SolverRequest.
type PointLoadInput struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
}

// LineLoadInput is one line load input to MeshRequest/SolverRequest.
type LineLoadInput struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
}

// MeshSettings are the mesh generator's global controls (spec §4.1).
type MeshSettings struct {
	MeshSize                 float64 `json:"meshSize"`
	BoundaryRefinementFactor float64 `json:"boundaryRefinementFactor"`
	MaxElements              int     `json:"maxElements,omitempty"`
}

// WaterLevelInput is one named water-table polyline.
type WaterLevelInput struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Points []Vertex `json:"points"`
}

// MeshRequest is the generate_mesh input of spec §6.
type MeshRequest struct {
	Polygons     []PolygonInput    `json:"polygons"`
	Materials    []mat.Material    `json:"materials"`
	PointLoads   []PointLoadInput  `json:"pointLoads"`
	LineLoads    []LineLoadInput   `json:"lineLoads"`
	MeshSettings MeshSettings      `json:"meshSettings"`
	WaterLevel   []Vertex          `json:"waterLevel,omitempty"`
	WaterLevels  []WaterLevelInput `json:"waterLevels,omitempty"`
	Quadratic    bool              `json:"quadratic"`
	Thickness    float64           `json:"thickness,omitempty"`
}

// BCEntry is one boundary-condition-tagged node.
type BCEntry struct {
	Node int `json:"node"`
}

// BoundaryConditions is the MeshResponse.boundary_conditions record.
type BoundaryConditions struct {
	FullFixed  []BCEntry `json:"full_fixed"`
	NormalFixed []BCEntry `json:"normal_fixed"`
}

// PointLoadAssignment is one resolved point load (spec §6, 1-based node id
// on the wire).
type PointLoadAssignment struct {
	PointLoadID    string `json:"point_load_id"`
	AssignedNodeID int    `json:"assigned_node_id"`
}

// LineLoadAssignment is one resolved line load (spec §6, 1-based ids).
type LineLoadAssignment struct {
	LineLoadID string `json:"line_load_id"`
	ElementID  int    `json:"element_id"`
	EdgeNodes  []int  `json:"edge_nodes"`
}

// ElementMaterial is one element's resolved material (spec §6, 1-based
// element id, 0-based polygon id). MaterialID is an additive convenience
// field (not named by spec §6) carrying the index into the request's
// materials list, so a SolverRequest built from this MeshResponse can
// reconstruct each element's baseline material without a value match.
type ElementMaterial struct {
	ElementID  int          `json:"element_id"`
	Material   mat.Material `json:"material"`
	PolygonID  int          `json:"polygon_id"`
	MaterialID int          `json:"material_id"`
}

// MeshResponse is the generate_mesh output of spec §6.
type MeshResponse struct {
	Nodes                 [][2]float64          `json:"nodes"`
	Elements               [][]int              `json:"elements"`
	BoundaryConditions      BoundaryConditions   `json:"boundary_conditions"`
	PointLoadAssignments    []PointLoadAssignment `json:"point_load_assignments"`
	LineLoadAssignments     []LineLoadAssignment  `json:"line_load_assignments"`
	ElementMaterials        []ElementMaterial     `json:"element_materials"`
	Error                   string                `json:"error,omitempty"`
}

// MaterialOverride is one (polygon_index -> material_id) pair of a
// PhaseRequest.
type MaterialOverride struct {
	PolygonIndex int `json:"polygon_index"`
	MaterialID   int `json:"material_id"`
}

// PhaseRequest is one stage of a SolverRequest (spec §6).
type PhaseRequest struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	PhaseType          string              `json:"phase_type"`
	ParentID           string              `json:"parent_id,omitempty"`
	ActivePolygonIdxs  []int               `json:"active_polygon_indices"`
	ActiveLoadIDs      []string            `json:"active_load_ids"`
	ResetDisplacements bool                `json:"reset_displacements"`
	MaterialOverrides  []MaterialOverride  `json:"material_overrides,omitempty"`
	ActiveWaterLevelID string              `json:"active_water_level_id,omitempty"`
}

// SolverSettings are the solver's numerical controls (spec §6).
type SolverSettings struct {
	MaxIterations        int     `json:"max_iterations"`
	MinDesiredIterations int     `json:"min_desired_iterations"`
	MaxDesiredIterations int     `json:"max_desired_iterations"`
	InitialStepSize      float64 `json:"initial_step_size"`
	Tolerance            float64 `json:"tolerance"`
	MaxLoadFraction      float64 `json:"max_load_fraction,omitempty"`
	MaxSteps             int     `json:"max_steps"`
	MaxDisplacementLimit float64 `json:"max_displacement_limit,omitempty"`
}

// SolverRequest is the solve() input of spec §6.
type SolverRequest struct {
	Mesh        MeshResponse      `json:"mesh"`
	Phases      []PhaseRequest    `json:"phases"`
	Settings    SolverSettings    `json:"settings"`
	PointLoads  []PointLoadInput  `json:"pointLoads"`
	LineLoads   []LineLoadInput   `json:"lineLoads"`
	WaterLevel  []Vertex          `json:"waterLevel,omitempty"`
	WaterLevels []WaterLevelInput `json:"waterLevels,omitempty"`
	Materials   []mat.Material    `json:"materials"`
	Thickness   float64           `json:"thickness,omitempty"`
}
