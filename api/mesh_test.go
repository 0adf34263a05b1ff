// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/mat"
)

func unitSquareRequest() MeshRequest {
	return MeshRequest{
		Polygons: []PolygonInput{
			{
				Vertices:   []Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
				MaterialID: 0,
			},
		},
		Materials: []mat.Material{
			{Name: "clay", EDrained: 1e4, Nu: 0.3, GammaSat: 18, GammaUnsat: 16, Cohesion: 5, PhiDeg: 25, Drainage: mat.Drained},
		},
		MeshSettings: MeshSettings{MeshSize: 0.5, BoundaryRefinementFactor: 1},
	}
}

func Test_generate_mesh_basic(tst *testing.T) {
	chk.PrintTitle("generate_mesh_basic")
	req := unitSquareRequest()
	resp := GenerateMesh(req)
	if resp.Error != "" {
		tst.Errorf("unexpected error: %v", resp.Error)
		return
	}
	if len(resp.Elements) == 0 {
		tst.Errorf("expected at least one element")
	}
	if len(resp.BoundaryConditions.FullFixed) == 0 {
		tst.Errorf("expected full-fixed nodes at y=0")
	}
	for _, em := range resp.ElementMaterials {
		if em.Material.Name != "clay" {
			tst.Errorf("expected element material name 'clay', got %q", em.Material.Name)
		}
	}
}

func Test_generate_mesh_empty_polygons(tst *testing.T) {
	chk.PrintTitle("generate_mesh_empty_polygons")
	resp := GenerateMesh(MeshRequest{})
	if resp.Error == "" {
		tst.Errorf("expected an error for an empty mesh request")
	}
}

func Test_generate_mesh_unknown_material(tst *testing.T) {
	chk.PrintTitle("generate_mesh_unknown_material")
	req := unitSquareRequest()
	req.Polygons[0].MaterialID = 7
	resp := GenerateMesh(req)
	if resp.Error == "" {
		tst.Errorf("expected an error for an unknown material id")
	}
}
