// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shp implements the T3 (constant-strain) and T6 (quadratic)
// triangular shape functions and their Gauss quadrature rules, as used by
// the element kernels in package ele.
package shp

import "github.com/cpmech/gosl/chk"

// Kind identifies a triangular element family.
type Kind int

const (
	T3 Kind = iota
	T6
)

func (k Kind) String() string {
	if k == T6 {
		return "T6"
	}
	return "T3"
}

// Nverts returns the number of nodes for the given element kind.
func (k Kind) Nverts() int {
	if k == T6 {
		return 6
	}
	return 3
}

// GaussPoint is one quadrature point in triangle-area (natural) coordinates,
// given as (r,s) with the third barycentric coordinate t=1-r-s implicit.
type GaussPoint struct {
	R, S, W float64
}

// GaussPoints returns the quadrature rule for the given element kind: a
// single centroid point (weight 1/2) for T3, and the 3-point rule of spec
// §3 for T6 — barycentric (1/6,1/6,2/3) and permutations, each weight 1/6.
func GaussPoints(k Kind) []GaussPoint {
	if k == T3 {
		return []GaussPoint{{R: 1.0 / 3.0, S: 1.0 / 3.0, W: 0.5}}
	}
	const w = 1.0 / 6.0
	return []GaussPoint{
		{R: 1.0 / 6.0, S: 1.0 / 6.0, W: w},
		{R: 2.0 / 3.0, S: 1.0 / 6.0, W: w},
		{R: 1.0 / 6.0, S: 2.0 / 3.0, W: w},
	}
}

// FuncsT3 returns the 3 linear shape functions and their constant natural
// gradients (dN/dr, dN/ds) at area coordinates (r,s), t=1-r-s.
func FuncsT3(r, s float64) (N []float64, dNdr, dNds []float64) {
	t := 1 - r - s
	N = []float64{t, r, s}
	dNdr = []float64{-1, 1, 0}
	dNds = []float64{-1, 0, 1}
	return
}

// FuncsT6 returns the 6 quadratic shape functions, ordered {c1,c2,c3,m12,m23,m31}
// as spec §3 requires, and their natural gradients at (r,s), t=1-r-s.
func FuncsT6(r, s float64) (N []float64, dNdr, dNds []float64) {
	t := 1 - r - s
	N = []float64{
		t * (2*t - 1),
		r * (2*r - 1),
		s * (2*s - 1),
		4 * r * t,
		4 * r * s,
		4 * s * t,
	}
	dNdr = []float64{
		-(4*t - 1),
		4*r - 1,
		0,
		4 * (t - r),
		4 * s,
		-4 * s,
	}
	dNds = []float64{
		-(4*t - 1),
		0,
		4*s - 1,
		-4 * r,
		4 * r,
		4 * (t - s),
	}
	return
}

// Funcs dispatches to FuncsT3 or FuncsT6 by kind.
func Funcs(k Kind, r, s float64) (N []float64, dNdr, dNds []float64) {
	if k == T3 {
		return FuncsT3(r, s)
	}
	return FuncsT6(r, s)
}

// Jacobian computes the 2x2 natural-to-physical Jacobian
//
//	J = [ dx/dr  dy/dr ]
//	    [ dx/ds  dy/ds ]
//
// from nodal physical coordinates X ([nverts]x,y pairs) and natural
// gradients dNdr, dNds, and returns its determinant. An error is returned
// if det(J) <= 1e-10, per spec §4.2.
func Jacobian(X [][2]float64, dNdr, dNds []float64) (J [2][2]float64, detJ float64, err error) {
	for i := range dNdr {
		J[0][0] += dNdr[i] * X[i][0]
		J[0][1] += dNdr[i] * X[i][1]
		J[1][0] += dNds[i] * X[i][0]
		J[1][1] += dNds[i] * X[i][1]
	}
	detJ = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	if detJ <= 1e-10 {
		return J, detJ, chk.Err("element Jacobian is non-positive or singular: det(J)=%v", detJ)
	}
	return
}

// InvJacobian returns the inverse of a 2x2 Jacobian with the given determinant.
func InvJacobian(J [2][2]float64, detJ float64) (Jinv [2][2]float64) {
	Jinv[0][0] = J[1][1] / detJ
	Jinv[0][1] = -J[0][1] / detJ
	Jinv[1][0] = -J[1][0] / detJ
	Jinv[1][1] = J[0][0] / detJ
	return
}

// PhysicalGrads transforms natural shape-function gradients to physical
// (x,y) gradients using the inverse Jacobian: [dN/dx; dN/dy] = Jinv * [dN/dr; dN/ds].
func PhysicalGrads(Jinv [2][2]float64, dNdr, dNds []float64) (dNdx, dNdy []float64) {
	n := len(dNdr)
	dNdx = make([]float64, n)
	dNdy = make([]float64, n)
	for i := 0; i < n; i++ {
		dNdx[i] = Jinv[0][0]*dNdr[i] + Jinv[0][1]*dNds[i]
		dNdy[i] = Jinv[1][0]*dNdr[i] + Jinv[1][1]*dNds[i]
	}
	return
}
