// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phase

import (
	"math"

	"github.com/cpmech/terrafem/asm"
	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/event"
	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/mc"
)

// k0Substeps is the number of upward-marching substeps used to integrate
// total vertical stress, per spec §4.6 step 2(a) ("≈20 substeps").
const k0Substeps = 20

// runK0 implements the one-shot K0 geostatic initialization phase of spec
// §4.6 step 2(a): no displacement is solved; every active Gauss point's
// stress is set directly from the overburden integral and the material's
// K0 coefficient.
func (s *Solver) runK0(ph Spec, fm *asm.FreeMap, sink event.Sink) event.PhaseResultContent {
	water := s.waterFor(ph.ActiveWaterLevelID)
	var stresses []event.StressPoint

	for ei, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		m := e.Mat
		surfaceY := s.surfaceYAt(elementCentroidX(s, e))

		for gi, gd := range e.GPs {
			pSteady := gd.PWPSteady
			sigmaV := s.integrateOverburden(gd.X, gd.Y, surfaceY, water)
			sigmaVPrime := sigmaV - pSteady
			k0 := m.K0()
			sigmaHPrime := k0 * sigmaVPrime
			sigmaH := sigmaHPrime + pSteady

			st := mc.Stress{sigmaH, sigmaV, 0}
			s.GP[ei][gi] = GPState{Sigma: st, Eps: mc.Stress{}, PExcess: 0, Yielded: false}

			totalStressBranch := m.Drainage == mat.NonPorous || m.Drainage == mat.UndrainedC
			sigZZ := mc.SigmaZZ(st, m.Nu, pSteady, totalStressBranch)
			stresses = append(stresses, event.StressPoint{
				ElementID: ei + 1, GPID: gi + 1,
				SigXX: sigmaH, SigYY: sigmaV, SigXY: 0, SigZZ: sigZZ,
				PwpSteady: pSteady, PwpExcess: 0, PwpTotal: pSteady,
				IsYielded: false, MStage: 1,
			})
		}
	}

	event.Logf(sink, "phase %s (k0_procedure) committed %d gauss points", ph.ID, len(stresses))
	return event.PhaseResultContent{
		PhaseID: ph.ID, Success: true,
		Stresses: stresses, ReachedMStage: 1,
	}
}

// elementCentroidX returns the x-coordinate of the average of e's corner
// nodes, used to locate the soil column for the overburden scan.
func elementCentroidX(s *Solver, e *ele.Element) float64 {
	var x float64
	for i := 0; i < 3; i++ {
		x += s.Nodes[e.Nodes[i]][0]
	}
	return x / 3
}

// surfaceYAt scans every active element's vertical extent and returns the
// highest y at which an active element's bounding box covers x, per spec
// §4.6 step 2(a) ("find the free-surface y above x by scanning active
// elements' vertical extents").
func (s *Solver) surfaceYAt(x float64) float64 {
	best := math.Inf(-1)
	for _, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		minX, maxX, maxY := cornerBBox(s, e)
		if x < minX-1e-9 || x > maxX+1e-9 {
			continue
		}
		if maxY > best {
			best = maxY
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// cornerBBox returns an element's corner-node x-range and maximum y.
func cornerBBox(s *Solver, e *ele.Element) (minX, maxX, maxY float64) {
	minX, maxX = math.Inf(1), math.Inf(-1)
	maxY = math.Inf(-1)
	for i := 0; i < 3; i++ {
		n := e.Nodes[i]
		c := s.Nodes[n]
		minX = math.Min(minX, c[0])
		maxX = math.Max(maxX, c[0])
		maxY = math.Max(maxY, c[1])
	}
	return
}

// enclosingUnitWeight returns the unit weight to use at (x,y): it locates
// the active element whose corner triangle contains the point and asks
// its material for gamma_sat/gamma_unsat by comparing y to the water
// table; falls back to the active element with the nearest centroid when no
// triangle exactly contains the point (e.g. substep sampling lands
// exactly on an element boundary).
func (s *Solver) enclosingUnitWeight(x, y float64, water geom.Polyline) float64 {
	var fallbackGamma float64
	bestDist := math.Inf(1)
	for _, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		a := geom.Point{X: s.Nodes[e.Nodes[0]][0], Y: s.Nodes[e.Nodes[0]][1]}
		b := geom.Point{X: s.Nodes[e.Nodes[1]][0], Y: s.Nodes[e.Nodes[1]][1]}
		c := geom.Point{X: s.Nodes[e.Nodes[2]][0], Y: s.Nodes[e.Nodes[2]][1]}
		m := e.Mat
		waterY := water.Eval(x)
		gamma := m.UnitWeight(y, waterY)
		if geom.PointInTriangle(geom.Point{X: x, Y: y}, a, b, c, 1e-6) {
			return gamma
		}
		if d := math.Hypot(x-(a.X+b.X+c.X)/3, y-(a.Y+b.Y+c.Y)/3); d < bestDist {
			bestDist = d
			fallbackGamma = gamma
		}
	}
	return fallbackGamma
}

// integrateOverburden marches upward from (gpX, gpY) to surfaceY in
// k0Substeps increments, summing gamma*dy sampled at each substep's
// enclosing active element, per spec §4.6 step 2(a). The result is
// negative (compressive, tensile-positive convention): self-weight of the
// soil column above a point always compresses it.
func (s *Solver) integrateOverburden(gpX, gpY, surfaceY float64, water geom.Polyline) float64 {
	if surfaceY <= gpY {
		return 0
	}
	dy := (surfaceY - gpY) / k0Substeps
	var sigmaV float64
	for i := 0; i < k0Substeps; i++ {
		yMid := gpY + dy*(float64(i)+0.5)
		gamma := s.enclosingUnitWeight(gpX, yMid, water)
		sigmaV -= gamma * dy
	}
	return sigmaV
}
