// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the sparse global stiffness and internal-force
// assembly of spec §4.5, narrowed from the teacher's (cpmech/gofem)
// multi-physics fem.Domain/fem.Element pairing (Kb *la.Triplet, AddToKb,
// AddToRhs) down to single-field plane-strain displacement assembly over a
// per-phase active-element set.
package asm

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/mc"
)

// DofSet records which global dofs (2*node + {0:x,1:y}) are fixed by
// essential boundary conditions, per spec §4.1 step 6.
type DofSet struct {
	NNodes    int
	FullFixed map[int]bool // node id -> fully fixed (ux and uy)
	RollerX   map[int]bool // node id -> roller fixed in x only
}

// IsFixed reports whether global dof (2*node+comp, comp 0=x 1=y) is
// constrained by an essential boundary condition.
func (d *DofSet) IsFixed(node, comp int) bool {
	if d.FullFixed[node] {
		return true
	}
	if comp == 0 && d.RollerX[node] {
		return true
	}
	return false
}

// FreeMap maps global dofs to a compacted 0..nfree-1 index, restricted to
// dofs attached to at least one active element and not fixed, per spec
// §4.5 ("Active-dof selection").
type FreeMap struct {
	NTotal  int   // 2*NNodes
	Global2 []int // global dof -> free index, or -1 if not free
	Free2   []int // free index -> global dof
}

// BuildFreeMap computes the active-dof set for the given active elements.
func BuildFreeMap(elements []*ele.Element, activePolygons map[int]bool, dofs *DofSet) *FreeMap {
	ntotal := 2 * dofs.NNodes
	attached := make([]bool, ntotal)
	for _, e := range elements {
		if !activePolygons[e.PolygonIdx] {
			continue
		}
		for _, n := range e.Nodes {
			attached[2*n] = true
			attached[2*n+1] = true
		}
	}
	fm := &FreeMap{NTotal: ntotal, Global2: make([]int, ntotal)}
	for g := 0; g < ntotal; g++ {
		node, comp := g/2, g%2
		if attached[g] && !dofs.IsFixed(node, comp) {
			fm.Global2[g] = len(fm.Free2)
			fm.Free2 = append(fm.Free2, g)
		} else {
			fm.Global2[g] = -1
		}
	}
	return fm
}

// Nfree returns the number of free dofs.
func (fm *FreeMap) Nfree() int { return len(fm.Free2) }

// AssembleK builds the free-free global stiffness triplet by summing
// element K_e contributions over active elements, per spec §4.5. It always
// uses each element's elastic e.K; the drainage-penalized UndrainedA/B
// stiffness is not included here and is passed to AssembleKCustom instead.
func AssembleK(elements []*ele.Element, activePolygons map[int]bool, fm *FreeMap) *la.Triplet {
	maxNNZ := 0
	for _, e := range elements {
		if activePolygons[e.PolygonIdx] {
			maxNNZ += e.Ndof() * e.Ndof()
		}
	}
	Kb := new(la.Triplet)
	Kb.Init(fm.Nfree(), fm.Nfree(), maxNNZ)
	for _, e := range elements {
		if !activePolygons[e.PolygonIdx] {
			continue
		}
		gdofs := elemGlobalDofs(e)
		for i, gi := range gdofs {
			fi := fm.Global2[gi]
			if fi < 0 {
				continue
			}
			for j, gj := range gdofs {
				fj := fm.Global2[gj]
				if fj < 0 {
					continue
				}
				Kb.Put(fi, fj, e.K[i][j])
			}
		}
	}
	return Kb
}

// AssembleKCustom builds the global stiffness like AssembleK but lets the
// caller substitute an element's local stiffness via override, keyed by
// element index. Used for the drainage-penalized K_e variant that spec
// §4.5 requires for UndrainedA/UndrainedB elements; elements absent from
// override fall back to their precomputed elastic e.K.
func AssembleKCustom(elements []*ele.Element, activePolygons map[int]bool, fm *FreeMap, override map[int][][]float64) *la.Triplet {
	maxNNZ := 0
	for _, e := range elements {
		if activePolygons[e.PolygonIdx] {
			maxNNZ += e.Ndof() * e.Ndof()
		}
	}
	Kb := new(la.Triplet)
	Kb.Init(fm.Nfree(), fm.Nfree(), maxNNZ)
	for ei, e := range elements {
		if !activePolygons[e.PolygonIdx] {
			continue
		}
		K := e.K
		if kOv, ok := override[ei]; ok {
			K = kOv
		}
		gdofs := elemGlobalDofs(e)
		for i, gi := range gdofs {
			fi := fm.Global2[gi]
			if fi < 0 {
				continue
			}
			for j, gj := range gdofs {
				fj := fm.Global2[gj]
				if fj < 0 {
					continue
				}
				Kb.Put(fi, fj, K[i][j])
			}
		}
	}
	return Kb
}

// AssembleFint builds the free-subset global internal-force vector F_int =
// sum over active Gauss points of Bᵀσ_new * detJ * w * t, given the
// per-element per-Gauss-point stresses.
func AssembleFint(elements []*ele.Element, activePolygons map[int]bool, sigmas map[int][]mc.Stress, thickness float64, fm *FreeMap) []float64 {
	F := make([]float64, fm.Nfree())
	for ei, e := range elements {
		if !activePolygons[e.PolygonIdx] {
			continue
		}
		sig := sigmas[ei]
		sig3 := make([][3]float64, len(sig))
		for i, s := range sig {
			sig3[i] = [3]float64(s)
		}
		fe := e.IntForce(sig3, thickness)
		gdofs := elemGlobalDofs(e)
		for i, gi := range gdofs {
			fi := fm.Global2[gi]
			if fi < 0 {
				continue
			}
			F[fi] += fe[i]
		}
	}
	return F
}

// AssembleVector scatters a dense per-element nodal vector (e.g. a gravity
// load or a stress-release force) into the free-subset global vector.
func AssembleVector(e *ele.Element, local []float64, fm *FreeMap, out []float64) {
	gdofs := elemGlobalDofs(e)
	for i, gi := range gdofs {
		fi := fm.Global2[gi]
		if fi < 0 {
			continue
		}
		out[fi] += local[i]
	}
}

func elemGlobalDofs(e *ele.Element) []int {
	gdofs := make([]int, e.Ndof())
	for i, n := range e.Nodes {
		gdofs[2*i] = 2 * n
		gdofs[2*i+1] = 2*n + 1
	}
	return gdofs
}
