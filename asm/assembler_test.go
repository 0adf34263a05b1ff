// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/shp"
)

func twoElemMesh(tst *testing.T) []*ele.Element {
	m := &mat.Material{EDrained: 1000, Nu: 0.3, GammaUnsat: 18, Drainage: mat.Drained}
	water, _ := geom.NewPolyline([]geom.Point{{-1e6, -1e6}, {1e6, -1e6}})
	// unit square split into two T3 triangles: nodes 0=(0,0) 1=(1,0) 2=(1,1) 3=(0,1)
	coordsOf := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	e1, err := ele.Compute(shp.T3, []int{0, 1, 2}, 0, []([2]float64){coordsOf[0], coordsOf[1], coordsOf[2]}, m, water, 1)
	if err != nil {
		tst.Fatalf("e1: %v", err)
	}
	e2, err := ele.Compute(shp.T3, []int{0, 2, 3}, 0, []([2]float64){coordsOf[0], coordsOf[2], coordsOf[3]}, m, water, 1)
	if err != nil {
		tst.Fatalf("e2: %v", err)
	}
	return []*ele.Element{e1, e2}
}

func Test_free_map01(tst *testing.T) {
	chk.PrintTitle("free_map01")
	elems := twoElemMesh(tst)
	dofs := &DofSet{NNodes: 4, FullFixed: map[int]bool{0: true}, RollerX: map[int]bool{3: true}}
	fm := BuildFreeMap(elems, map[int]bool{0: true}, dofs)
	// node 0 fully fixed (2 dofs gone), node 3 roller in x (1 dof gone):
	// total 8 dofs - 2 - 1 = 5 free
	if fm.Nfree() != 5 {
		tst.Errorf("expected 5 free dofs, got %d", fm.Nfree())
	}
}

func Test_assemble_K_shape(tst *testing.T) {
	chk.PrintTitle("assemble_K_shape")
	elems := twoElemMesh(tst)
	dofs := &DofSet{NNodes: 4, FullFixed: map[int]bool{0: true, 1: true}, RollerX: map[int]bool{}}
	fm := BuildFreeMap(elems, map[int]bool{0: true}, dofs)
	Kb := AssembleK(elems, map[int]bool{0: true}, fm)
	_ = Kb
	if fm.Nfree() != 4 {
		// nodes 0,1 fully fixed => only nodes 2,3 remain, 2 dofs each: 4 free.
		tst.Errorf("expected 4 free dofs, got %d", fm.Nfree())
	}
	for _, e := range elems {
		n := e.Ndof()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if d := e.K[i][j] - e.K[j][i]; d > 1e-9 || d < -1e-9 {
					tst.Errorf("element K not symmetric at (%d,%d)", i, j)
				}
			}
		}
	}
}
