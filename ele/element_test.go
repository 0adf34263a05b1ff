// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/shp"
)

func Test_t3_area_and_weights(tst *testing.T) {
	chk.PrintTitle("t3_area_and_weights")
	m := &mat.Material{EDrained: 1000, Nu: 0.3, GammaUnsat: 18, Drainage: mat.Drained}
	coords := [][2]float64{{0, 0}, {4, 0}, {0, 3}}
	water, _ := geom.NewPolyline([]geom.Point{{-1e6, -1e6}, {1e6, -1e6}})
	e, err := Compute(shp.T3, []int{0, 1, 2}, 0, coords, m, water, 1)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	chk.Scalar(tst, "area", 1e-12, e.Area, 6.0)
	chk.Scalar(tst, "single Gauss point", 1e-15, float64(len(e.GPs)), 1.0)
}

func Test_gravity_load_sums_to_weight(tst *testing.T) {
	chk.PrintTitle("gravity_load_sums_to_weight")
	m := &mat.Material{EDrained: 50000, Nu: 0.3, GammaSat: 18, GammaUnsat: 18, Drainage: mat.Drained}
	coords := [][2]float64{{0, 0}, {10, 0}, {10, 5}, {0, 5}, {0, 0}, {0, 0}}
	// split rectangle into two T6 triangles would need 6 real nodes; use a
	// single T3 triangle covering half the rectangle instead.
	tri := [][2]float64{{0, 0}, {10, 0}, {0, 5}}
	water, _ := geom.NewPolyline([]geom.Point{{-1e6, 1e6}, {1e6, 1e6}}) // water table far above: fully submerged
	e, err := Compute(shp.T3, []int{0, 1, 2}, 0, tri, m, water, 1)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	var totalFy float64
	for i := 0; i < len(e.Nodes); i++ {
		totalFy += e.Fg[2*i+1]
	}
	chk.Scalar(tst, "total gravity force == -gamma*A", 1e-9, totalFy, -18*e.Area)
	_ = coords
}

func Test_t3_sheared_patch(tst *testing.T) {
	chk.PrintTitle("t3_sheared_patch")
	// sheared (non-axis-aligned) triangle: a transposed Jinv in
	// shp.PhysicalGrads would pass on right triangles but fail here.
	m := &mat.Material{EDrained: 1000, Nu: 0.3, GammaUnsat: 18, Drainage: mat.Drained}
	coords := [][2]float64{{0, 0}, {1, 1}, {0, 2}}
	water, _ := geom.NewPolyline([]geom.Point{{-1e6, -1e6}, {1e6, -1e6}})
	e, err := Compute(shp.T3, []int{0, 1, 2}, 0, coords, m, water, 1)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	// impose the linear displacement field ux = 2x+3y, uy = 4x-y and
	// verify B reproduces its exact constant strain.
	u := make([]float64, 6)
	for i, c := range coords {
		u[2*i] = 2*c[0] + 3*c[1]
		u[2*i+1] = 4*c[0] - c[1]
	}
	B := e.GPs[0].B
	var eps [3]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 6; c++ {
			eps[r] += B[r][c] * u[c]
		}
	}
	chk.Scalar(tst, "eps_xx", 1e-12, eps[0], 2.0)
	chk.Scalar(tst, "eps_yy", 1e-12, eps[1], -1.0)
	chk.Scalar(tst, "gamma_xy", 1e-12, eps[2], 3.0+4.0)
}

func Test_D_matrix_symmetric(tst *testing.T) {
	chk.PrintTitle("D_matrix_symmetric")
	m := &mat.Material{EDrained: 10000, Nu: 0.25, Drainage: mat.Drained}
	D := DMatrix(m)
	chk.Scalar(tst, "D symmetric 01<->10", 1e-12, D[0][1], D[1][0])
	if D[0][0] <= 0 {
		tst.Errorf("expected positive D[0][0], got %v", D[0][0])
	}
}
