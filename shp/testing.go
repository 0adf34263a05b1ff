// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// nodalNatCoords returns the natural (r,s) coordinates of each node for the
// given element kind, used by CheckPartitionOfUnity and CheckKronecker.
func nodalNatCoords(k Kind) (rs [][2]float64) {
	if k == T3 {
		return [][2]float64{{0, 0}, {1, 0}, {0, 1}}
	}
	return [][2]float64{{0, 0}, {1, 0}, {0, 1}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}
}

// CheckKronecker checks that N_i evaluates to 1 at node i and 0 at every
// other node, the defining (Kronecker-delta) property of a nodal shape
// function basis.
func CheckKronecker(tst *testing.T, k Kind, tol float64) {
	rs := nodalNatCoords(k)
	for i, node := range rs {
		N, _, _ := Funcs(k, node[0], node[1])
		for j, v := range N {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(v-want) > tol {
				tst.Errorf("%s: N[%d] at node %d = %v, want %v", k, j, i, v, want)
			}
		}
	}
}

// CheckPartitionOfUnity checks that the shape functions sum to 1 and their
// gradients sum to 0 at an arbitrary interior point.
func CheckPartitionOfUnity(tst *testing.T, k Kind, r, s, tol float64) {
	N, dNdr, dNds := Funcs(k, r, s)
	sum, sumR, sumS := 0.0, 0.0, 0.0
	for i := range N {
		sum += N[i]
		sumR += dNdr[i]
		sumS += dNds[i]
	}
	chk.Scalar(tst, "sum(N)", tol, sum, 1.0)
	chk.Scalar(tst, "sum(dNdr)", tol, sumR, 0.0)
	chk.Scalar(tst, "sum(dNds)", tol, sumS, 0.0)
}

// CheckGradByFiniteDiff compares the analytical natural gradients against a
// central finite-difference approximation at (r,s).
func CheckGradByFiniteDiff(tst *testing.T, k Kind, r, s, tol float64) {
	const h = 1e-6
	_, dNdr, dNds := Funcs(k, r, s)
	Np, _, _ := Funcs(k, r+h, s)
	Nm, _, _ := Funcs(k, r-h, s)
	for i := range Np {
		num := (Np[i] - Nm[i]) / (2 * h)
		if math.Abs(num-dNdr[i]) > tol {
			tst.Errorf("%s: dN[%d]/dr analytical=%v numerical=%v", k, i, dNdr[i], num)
		}
	}
	Np, _, _ = Funcs(k, r, s+h)
	Nm, _, _ = Funcs(k, r, s-h)
	for i := range Np {
		num := (Np[i] - Nm[i]) / (2 * h)
		if math.Abs(num-dNds[i]) > tol {
			tst.Errorf("%s: dN[%d]/ds analytical=%v numerical=%v", k, i, dNds[i], num)
		}
	}
}
