// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_t3_kronecker(tst *testing.T) {
	chk.PrintTitle("t3_kronecker")
	CheckKronecker(tst, T3, 1e-14)
	CheckPartitionOfUnity(tst, T3, 0.2, 0.3, 1e-14)
	CheckGradByFiniteDiff(tst, T3, 0.2, 0.3, 1e-6)
}

func Test_t6_kronecker(tst *testing.T) {
	chk.PrintTitle("t6_kronecker")
	CheckKronecker(tst, T6, 1e-13)
	CheckPartitionOfUnity(tst, T6, 0.2, 0.3, 1e-13)
	CheckGradByFiniteDiff(tst, T6, 0.2, 0.3, 1e-6)
}

func Test_gauss_points01(tst *testing.T) {
	chk.PrintTitle("gauss_points01")
	gps := GaussPoints(T6)
	if len(gps) != 3 {
		tst.Errorf("expected 3 Gauss points for T6, got %d", len(gps))
	}
	sum := 0.0
	for _, gp := range gps {
		sum += gp.W
	}
	chk.Scalar(tst, "sum of weights", 1e-15, sum, 0.5)
}

func Test_jacobian01(tst *testing.T) {
	chk.PrintTitle("jacobian01")
	// right triangle with legs 4 and 3: area = 6
	X := [][2]float64{{0, 0}, {4, 0}, {0, 3}}
	_, dNdr, dNds := FuncsT3(1.0/3.0, 1.0/3.0)
	J, detJ, err := Jacobian(X, dNdr, dNds)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	_ = J
	chk.Scalar(tst, "detJ matches 2*area", 1e-12, detJ, 12.0)
}

func Test_physical_grads_sheared(tst *testing.T) {
	chk.PrintTitle("physical_grads_sheared")
	// sheared triangle: x(r,s)=r, y(r,s)=r+2s, so nodes are
	// {0,0},{1,1},{0,2} under the T3 map. Not axis-aligned: catches a
	// transposed Jinv that a right-triangle patch would miss.
	X := [][2]float64{{0, 0}, {1, 1}, {0, 2}}
	_, dNdr, dNds := FuncsT3(1.0/3.0, 1.0/3.0)
	J, detJ, err := Jacobian(X, dNdr, dNds)
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	chk.Scalar(tst, "detJ", 1e-12, detJ, 2.0)
	Jinv := InvJacobian(J, detJ)
	dNdx, dNdy := PhysicalGrads(Jinv, dNdr, dNds)
	// dN/dx = dN/dr - (dN/ds)/2, dN/dy = (dN/ds)/2, from x=r,y=r+2s
	for i := range dNdr {
		wantDx := dNdr[i] - dNds[i]/2
		wantDy := dNds[i] / 2
		chk.Scalar(tst, "dNdx", 1e-12, dNdx[i], wantDx)
		chk.Scalar(tst, "dNdy", 1e-12, dNdy[i], wantDy)
	}
}
