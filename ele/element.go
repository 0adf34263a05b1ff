// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the T3 and T6 plane-strain element kernels: the
// strain-displacement operator B, the elastic constitutive matrix D, the
// element stiffness K_e, the gravity load vector F_g and the Gauss-point
// pore-pressure cache, per spec §4.2. It follows the teacher's
// (cpmech/gofem) struct-of-arrays scratchpad convention: each Element owns
// its own dense K/B/D arrays, allocated once and reused across phases,
// narrowed from the teacher's generic multi-physics Elem interface down to
// the two element kinds this engine needs.
package ele

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/shp"
)

// GaussData caches everything computed at one quadrature point: the
// strain-displacement operator B (3 x 2*nverts), the Jacobian determinant,
// physical coordinates, integration weight and the steady pore pressure.
type GaussData struct {
	R, S      float64     // natural coordinates
	W         float64     // Gauss weight
	X, Y      float64     // physical coordinates
	DetJ      float64     // Jacobian determinant
	B         [][]float64 // [3][2*nverts] strain-displacement operator
	N         []float64   // shape functions at this point (used for F_g and PWP interpolation)
	PWPSteady float64     // steady pore pressure p_steady at this point
}

// Element holds the immutable, precomputed per-element data owned by the
// element-kernel layer: connectivity, polygon (region) index, quadrature
// cache, stiffness and gravity-load vector. Mutable phase state (stress,
// strain, excess PWP, yield flag) lives in the phase package, not here.
type Element struct {
	Kind       shp.Kind
	Nodes      []int // node indices, T6 order {c1,c2,c3,m12,m23,m31}
	PolygonIdx int
	Mat        *mat.Material // material currently bound to this element

	Area float64 // element area (sum of w*detJ)
	GPs  []GaussData
	K    [][]float64 // [2n][2n] element stiffness
	Fg   []float64   // [2n] gravity load vector
	D    [3][3]float64
}

// Ndof returns the number of element DOFs (2 per node).
func (e *Element) Ndof() int { return 2 * len(e.Nodes) }

// DMatrix computes the plane-strain elastic constitutive matrix, per spec
// §4.2: the modulus is selected by drainage type (m.E() already implements
// that selection).
func DMatrix(m *mat.Material) [3][3]float64 {
	E := m.E()
	nu := m.Nu
	factor := E / ((1 + nu) * (1 - 2*nu))
	var D [3][3]float64
	D[0][0] = factor * (1 - nu)
	D[0][1] = factor * nu
	D[1][0] = factor * nu
	D[1][1] = factor * (1 - nu)
	D[2][2] = factor * (1 - 2*nu) / 2
	return D
}

// Compute builds K, Fg, the Gauss-point cache and D for one element, given
// its nodal physical coordinates (in connectivity order), its material and
// the active water-level polyline. thickness defaults to 1 when <= 0.
func Compute(kind shp.Kind, nodes []int, polygonIdx int, coords [][2]float64, m *mat.Material, water geom.Polyline, thickness float64) (*Element, error) {
	if thickness <= 0 {
		thickness = 1
	}
	n := len(nodes)
	e := &Element{Kind: kind, Nodes: append([]int(nil), nodes...), PolygonIdx: polygonIdx, Mat: m}
	e.D = DMatrix(m)
	e.K = la.MatAlloc(2*n, 2*n)
	e.Fg = make([]float64, 2*n)

	gps := shp.GaussPoints(kind)
	e.GPs = make([]GaussData, len(gps))

	for gi, gp := range gps {
		N, dNdr, dNds := shp.Funcs(kind, gp.R, gp.S)
		J, detJ, err := shp.Jacobian(coords, dNdr, dNds)
		if err != nil {
			return nil, chk.Err("element with nodes %v: %v", nodes, err)
		}
		Jinv := shp.InvJacobian(J, detJ)
		dNdx, dNdy := shp.PhysicalGrads(Jinv, dNdr, dNds)

		// physical coordinates at this Gauss point
		var x, y float64
		for i := 0; i < n; i++ {
			x += N[i] * coords[i][0]
			y += N[i] * coords[i][1]
		}

		// strain-displacement operator B (3 x 2n)
		B := la.MatAlloc(3, 2*n)
		for i := 0; i < n; i++ {
			B[0][2*i] = dNdx[i]
			B[1][2*i+1] = dNdy[i]
			B[2][2*i] = dNdy[i]
			B[2][2*i+1] = dNdx[i]
		}

		waterY := water.Eval(x)
		gd := GaussData{
			R: gp.R, S: gp.S, W: gp.W,
			X: x, Y: y, DetJ: detJ,
			B: B, N: append([]float64(nil), N...),
			PWPSteady: m.SteadyPWP(y, waterY),
		}
		e.GPs[gi] = gd

		wdv := gp.W * detJ * thickness
		e.Area += gp.W * detJ

		// K_e += Bᵀ D B * w * detJ * t
		addBtDBscaled(e.K, B, e.D, wdv)

		// gravity load: Fg += Nᵀ(0,-gamma) dV
		gamma := m.UnitWeight(y, waterY)
		for i := 0; i < n; i++ {
			e.Fg[2*i+1] += -gamma * N[i] * wdv
		}
	}
	return e, nil
}

// ComputeK builds an element stiffness matrix from an arbitrary elasticity
// matrix D, reusing the element's cached Gauss-point B/detJ data. Used by
// the phase solver to build the drainage-penalized K_e variant for
// UndrainedA/UndrainedB elements (spec §4.4(ii), §4.5) without recomputing
// the quadrature cache.
func (e *Element) ComputeK(D [3][3]float64, thickness float64) [][]float64 {
	if thickness <= 0 {
		thickness = 1
	}
	K := la.MatAlloc(e.Ndof(), e.Ndof())
	for _, gd := range e.GPs {
		wdv := gd.W * gd.DetJ * thickness
		addBtDBscaled(K, gd.B, D, wdv)
	}
	return K
}

// addBtDBscaled accumulates scale * Bᵀ D B into K.
func addBtDBscaled(K [][]float64, B [][]float64, D [3][3]float64, scale float64) {
	ndof := len(B[0])
	// DB = D * B  (3 x ndof)
	var DB [3][]float64
	for r := 0; r < 3; r++ {
		DB[r] = make([]float64, ndof)
		for c := 0; c < ndof; c++ {
			DB[r][c] = D[r][0]*B[0][c] + D[r][1]*B[1][c] + D[r][2]*B[2][c]
		}
	}
	for i := 0; i < ndof; i++ {
		for j := 0; j < ndof; j++ {
			var sum float64
			for r := 0; r < 3; r++ {
				sum += B[r][i] * DB[r][j]
			}
			K[i][j] += scale * sum
		}
	}
}

// IntForce computes the internal force vector F_int = sum_gp Bᵀσ_gp * w * detJ * t
// for the given per-Gauss-point stresses (each a 3-vector [sxx,syy,sxy]).
func (e *Element) IntForce(sigmas [][3]float64, thickness float64) []float64 {
	if thickness <= 0 {
		thickness = 1
	}
	f := make([]float64, e.Ndof())
	for gi, gd := range e.GPs {
		wdv := gd.W * gd.DetJ * thickness
		s := sigmas[gi]
		for i := 0; i < e.Ndof(); i++ {
			f[i] += wdv * (gd.B[0][i]*s[0] + gd.B[1][i]*s[1] + gd.B[2][i]*s[2])
		}
	}
	return f
}
