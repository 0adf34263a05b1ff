// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phase

import (
	"github.com/cpmech/terrafem/asm"
)

// externalForceDelta implements spec §4.7: ΔF_external is built once per
// phase from the parent phase's state (gravity changes, excavation stress
// release, load changes), assembled into the free-dof subset.
func (s *Solver) externalForceDelta(ph Spec, parentActivePolygons map[int]bool, parentActiveLoads map[string]bool, fm *asm.FreeMap) []float64 {
	dF := make([]float64, fm.Nfree())

	// gravity changes
	for _, e := range s.Elements {
		becameActive := s.ActivePolygons[e.PolygonIdx] && !parentActivePolygons[e.PolygonIdx]
		becameInactive := !s.ActivePolygons[e.PolygonIdx] && parentActivePolygons[e.PolygonIdx]
		switch {
		case becameActive:
			asm.AssembleVector(e, e.Fg, fm, dF)
		case becameInactive:
			neg := make([]float64, len(e.Fg))
			for i, v := range e.Fg {
				neg[i] = -v
			}
			asm.AssembleVector(e, neg, fm, dF)
		}
	}

	// excavation stress release: elements that deactivate this phase
	// release the internal force their last-committed stress exerted.
	for ei, e := range s.Elements {
		becameInactive := !s.ActivePolygons[e.PolygonIdx] && parentActivePolygons[e.PolygonIdx]
		if !becameInactive {
			continue
		}
		sigmas := make([][3]float64, len(s.GP[ei]))
		for gi, g := range s.GP[ei] {
			sigmas[gi] = [3]float64(g.Sigma)
		}
		fint := e.IntForce(sigmas, s.Thickness)
		asm.AssembleVector(e, fint, fm, dF)
	}

	// load changes: set difference of active load ids
	newLoadIDs := make(map[string]bool)
	for id := range s.ActiveLoadIDs {
		if !parentActiveLoads[id] {
			newLoadIDs[id] = true
		}
	}
	droppedLoadIDs := make(map[string]bool)
	for id := range parentActiveLoads {
		if !s.ActiveLoadIDs[id] {
			droppedLoadIDs[id] = true
		}
	}

	applyPoint := func(pl PointLoad, sign float64) {
		g0, g1 := 2*pl.NodeID, 2*pl.NodeID+1
		if fi := fm.Global2[g0]; fi >= 0 {
			dF[fi] += sign * pl.Fx
		}
		if fi := fm.Global2[g1]; fi >= 0 {
			dF[fi] += sign * pl.Fy
		}
	}
	for _, pl := range s.PointLoads {
		if newLoadIDs[pl.ID] {
			applyPoint(pl, 1)
		}
		if droppedLoadIDs[pl.ID] {
			applyPoint(pl, -1)
		}
	}

	applyLine := func(ll LineLoad, sign float64) {
		weights := edgeWeights(len(ll.EdgeNodes))
		for i, node := range ll.EdgeNodes {
			g0, g1 := 2*node, 2*node+1
			w := weights[i]
			if fi := fm.Global2[g0]; fi >= 0 {
				dF[fi] += sign * w * ll.Fx
			}
			if fi := fm.Global2[g1]; fi >= 0 {
				dF[fi] += sign * w * ll.Fy
			}
		}
	}
	for _, ll := range s.LineLoads {
		if newLoadIDs[ll.ID] {
			applyLine(ll, 1)
		}
		if droppedLoadIDs[ll.ID] {
			applyLine(ll, -1)
		}
	}

	return dF
}

// edgeWeights returns the nodal distribution weights for a line load over
// an edge: parabolic (1/6, 1/6, 2/3) for a T6 edge (corner, corner,
// midpoint), equal (1/2, 1/2) for a T3 edge, per spec §4.7.
func edgeWeights(n int) []float64 {
	if n == 3 {
		return []float64{1.0 / 6, 1.0 / 6, 2.0 / 3}
	}
	return []float64{0.5, 0.5}
}
