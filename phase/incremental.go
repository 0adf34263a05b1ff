// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phase

import (
	"math"

	"github.com/cpmech/terrafem/apierr"
	"github.com/cpmech/terrafem/asm"
	"github.com/cpmech/terrafem/ele"
	"github.com/cpmech/terrafem/event"
	"github.com/cpmech/terrafem/mat"
	"github.com/cpmech/terrafem/mc"
)

// Step-size floors below which a Plastic/Safety phase is declared failed,
// per spec §4.6(b).
const (
	plasticStepFloor = 1e-4
	safetyStepFloor  = 1e-3
)

// runIncremental implements spec §4.6(b): the M-stage adaptive-step
// Newton-Raphson loop shared by Plastic and Safety-Analysis phases. For
// Safety phases the strength-reduction method (spec §4.3) is folded into
// the same loop: xi starts at 1 and grows open-endedly, reducing (c, phi,
// su) at the current xi before every constitutive evaluation, until no
// step size above the floor converges.
func (s *Solver) runIncremental(ph Spec, settings Settings, fm *asm.FreeMap, dF []float64, sink event.Sink) event.PhaseResultContent {
	isSafety := ph.Type == SafetyAnalysis

	xi := 0.0
	if isSafety {
		xi = 1.0
	}
	dxi := settings.InitialStepSize
	floor := plasticStepFloor
	if isSafety {
		floor = safetyStepFloor
	}

	fIntInitial := asm.AssembleFint(s.Elements, s.ActivePolygons, s.sigmaMapFromGP(), s.Thickness, fm)
	penaltyK := s.buildPenaltyOverride()

	phaseU := make([]float64, fm.NTotal)
	var stepPoints []event.StepPointContent
	stepCount := 0

	for {
		if !isSafety && xi >= 1-1e-12 {
			break
		}
		if stepCount >= settings.MaxSteps {
			return s.failPhase(ph, apierr.New(apierr.SolverStepLimit, ""), xi, stepPoints)
		}
		step := dxi
		if !isSafety && xi+step > 1 {
			step = 1 - xi
		}
		xiTrial := xi + step

		result := s.newtonStep(settings, fm, dF, fIntInitial, xiTrial, isSafety, penaltyK)

		if result.numErr != nil {
			return s.failPhase(ph, result.numErr, xi, stepPoints)
		}

		if !result.converged {
			dxi *= 0.5
			if dxi < floor {
				code := apierr.SolverCutbackLimit
				if isSafety {
					code = apierr.SRMLimitReached
				}
				return s.failPhase(ph, apierr.New(code, ""), xi, stepPoints)
			}
			event.Logf(sink, "phase %s step at xi=%.4f diverged after %d iterations, halving step to %.4g", ph.ID, xiTrial, result.iters, dxi)
			continue
		}

		maxDisp := 0.0
		for _, v := range result.duGlobal {
			if d := math.Abs(v); d > maxDisp {
				maxDisp = d
			}
		}
		if settings.MaxDisplacementLimit > 0 && maxDisp > settings.MaxDisplacementLimit {
			return s.failPhase(ph, apierr.New(apierr.NumOverflow, "step displacement exceeded max_displacement_limit"), xi, stepPoints)
		}

		s.commitStep(result)
		for i := range phaseU {
			phaseU[i] += result.duGlobal[i]
		}
		xi = xiTrial
		stepCount++
		sp := event.StepPointContent{MStage: xi, MaxDisp: maxDisp}
		stepPoints = append(stepPoints, sp)
		sink.Emit(event.Event{Type: event.StepPoint, Content: sp})

		if settings.MinDesiredIterations > 0 && result.iters < settings.MinDesiredIterations {
			dxi *= 1.2
		} else if settings.MaxDesiredIterations > 0 && result.iters > settings.MaxDesiredIterations {
			dxi *= 0.5
		}
		if settings.MaxLoadFraction > 0 && dxi > settings.MaxLoadFraction {
			dxi = settings.MaxLoadFraction
		}
	}

	if ph.ResetDisplacements {
		copy(s.U, phaseU)
	} else {
		for i := range s.U {
			s.U[i] += phaseU[i]
		}
	}

	event.Logf(sink, "phase %s (%s) committed at m_stage=%.4f after %d steps", ph.ID, ph.Type, xi, stepCount)
	return event.PhaseResultContent{
		PhaseID: ph.ID, Success: true,
		Displacements: s.displacementReport(),
		Stresses:      s.stressReport(xi),
		ReachedMStage: xi,
		StepPoints:    stepPoints,
	}
}

// failPhase builds the failed PhaseResultContent of spec §6/§7 for a
// Plastic/Safety phase that could not converge or hit a fatal numerical
// condition; the step-size floor (or max-steps cap) is reported as the
// ξ at which the phase gave up.
func (s *Solver) failPhase(ph Spec, err *apierr.Error, xi float64, stepPoints []event.StepPointContent) event.PhaseResultContent {
	return event.PhaseResultContent{
		PhaseID: ph.ID, Success: false,
		ReachedMStage: xi,
		StepPoints:    stepPoints,
		StepFailedAt:  xi,
		Error:         err.Error(),
	}
}

// sigmaMapFromGP snapshots the currently-committed per-Gauss-point stress
// of every element, keyed by element index, for assembling F_int.
func (s *Solver) sigmaMapFromGP() map[int][]mc.Stress {
	out := make(map[int][]mc.Stress, len(s.GP))
	for ei, gps := range s.GP {
		arr := make([]mc.Stress, len(gps))
		for gi, g := range gps {
			arr[gi] = g.Sigma
		}
		out[ei] = arr
	}
	return out
}

// buildPenaltyOverride computes the drainage-penalized stiffness K_e (spec
// §4.4(ii), §4.5) for every active element whose current material is
// UndrainedA or UndrainedB. Computed once per phase since materials are
// fixed for the phase's duration (only reassigned at phase start, spec
// §4.6 Step 0).
func (s *Solver) buildPenaltyOverride() map[int][][]float64 {
	override := make(map[int][][]float64)
	for ei, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		m := e.Mat
		if m.Drainage != mat.UndrainedA && m.Drainage != mat.UndrainedB {
			continue
		}
		penalty := mc.Penalty(m.EDrained, m.Nu)
		DTot := e.D
		DTot[0][0] += penalty
		DTot[0][1] += penalty
		DTot[1][0] += penalty
		DTot[1][1] += penalty
		override[ei] = e.ComputeK(DTot, s.Thickness)
	}
	return override
}

// stepResult is the outcome of one Newton-Raphson step at a fixed target
// load fraction xiTrial.
type stepResult struct {
	converged bool
	iters     int
	numErr    *apierr.Error

	duGlobal []float64 // nodal displacement increment accrued by this step

	sigma   map[int][]mc.Stress
	eps     map[int][]mc.Stress
	pExcess map[int][]float64
	yielded map[int][]bool
}

// newtonStep runs the inner Newton-Raphson iteration of spec §4.6(b) for
// one step targeting load fraction xiTrial, starting from the solver's
// currently-committed per-Gauss-point state. It never mutates s.GP; the
// caller commits the result only when converged.
func (s *Solver) newtonStep(settings Settings, fm *asm.FreeMap, dF, fIntInitial []float64, xiTrial float64, isSafety bool, penaltyK map[int][][]float64) stepResult {
	n := len(s.Elements)

	sigmaStart := make(map[int][]mc.Stress, n)
	epsStart := make(map[int][]mc.Stress, n)
	pExcessStart := make(map[int][]float64, n)

	sigmaTrial := make(map[int][]mc.Stress, n)
	epsTrial := make(map[int][]mc.Stress, n)
	pExcessTrial := make(map[int][]float64, n)
	yielded := make(map[int][]bool, n)

	for ei, e := range s.Elements {
		if !s.ActivePolygons[e.PolygonIdx] {
			continue
		}
		ng := len(e.GPs)
		ss := make([]mc.Stress, ng)
		es := make([]mc.Stress, ng)
		ps := make([]float64, ng)
		for gi, g := range s.GP[ei] {
			ss[gi] = g.Sigma
			es[gi] = g.Eps
			ps[gi] = g.PExcess
		}
		sigmaStart[ei], epsStart[ei], pExcessStart[ei] = ss, es, ps
		sigmaTrial[ei] = append([]mc.Stress(nil), ss...)
		epsTrial[ei] = append([]mc.Stress(nil), es...)
		pExcessTrial[ei] = append([]float64(nil), ps...)
		yielded[ei] = make([]bool, ng)
	}

	duGlobal := make([]float64, fm.NTotal)

	combined := make([]float64, len(dF))
	for i := range dF {
		combined[i] = fIntInitial[i] + xiTrial*dF[i]
	}
	denom := math.Max(1, vecNorm(combined))

	maxIter := settings.MaxIterations
	if maxIter <= 0 {
		maxIter = 1
	}

	for iter := 0; iter < maxIter; iter++ {
		fIntTrial := asm.AssembleFint(s.Elements, s.ActivePolygons, sigmaTrial, s.Thickness, fm)
		R := make([]float64, fm.Nfree())
		for i := range R {
			R[i] = fIntInitial[i] + xiTrial*dF[i] - fIntTrial[i]
		}
		resNorm := vecNorm(R)
		if math.IsNaN(resNorm) || math.IsInf(resNorm, 0) {
			return stepResult{numErr: apierr.New(apierr.NumNaNDetected, "residual is NaN/Inf")}
		}
		if resNorm/denom < settings.Tolerance {
			return stepResult{
				converged: true, iters: iter,
				duGlobal: duGlobal,
				sigma:    sigmaTrial, eps: epsTrial, pExcess: pExcessTrial, yielded: yielded,
			}
		}

		Kb := asm.AssembleKCustom(s.Elements, s.ActivePolygons, fm, penaltyK)
		dxFree, err := asm.SolveLinear(Kb, R)
		if err != nil {
			return stepResult{numErr: apierr.New(apierr.SolverSingularMatrix, err.Error())}
		}
		for fi, v := range dxFree {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return stepResult{numErr: apierr.New(apierr.NumOverflow, "displacement increment overflowed")}
			}
			duGlobal[fm.Free2[fi]] += v
		}

		for ei, e := range s.Elements {
			if !s.ActivePolygons[e.PolygonIdx] {
				continue
			}
			local := elementLocalDu(e, duGlobal)
			m := e.Mat
			elastic := m.Model != mat.MohrCoulomb
			c, phi, su := m.Cohesion, m.PhiRad(), m.SuUndr
			if isSafety {
				c, phi, su = mc.Reduce(c, phi, su, xiTrial)
			}
			for gi, gd := range e.GPs {
				deps := matVecB(gd.B, local)
				epsCand := addStress(epsStart[ei][gi], deps)
				sigStart := sigmaStart[ei][gi]

				switch m.Drainage {
				case mat.Drained, mat.NonPorous:
					sigNew, y := mc.UpdateDrained(e.D, sigStart, epsStart[ei][gi], epsCand, gd.PWPSteady, c, phi, elastic)
					sigmaTrial[ei][gi] = sigNew
					yielded[ei][gi] = y
				case mat.UndrainedA:
					penalty := mc.Penalty(m.EDrained, m.Nu)
					sigNew, pexNew, y := mc.UpdateUndrainedAB(e.D, penalty, sigStart, epsStart[ei][gi], epsCand, pExcessStart[ei][gi], gd.PWPSteady, c, phi, elastic)
					sigmaTrial[ei][gi] = sigNew
					pExcessTrial[ei][gi] = pexNew
					yielded[ei][gi] = y
				case mat.UndrainedB:
					penalty := mc.Penalty(m.EDrained, m.Nu)
					sigNew, pexNew, y := mc.UpdateUndrainedAB(e.D, penalty, sigStart, epsStart[ei][gi], epsCand, pExcessStart[ei][gi], gd.PWPSteady, su, 0, elastic)
					sigmaTrial[ei][gi] = sigNew
					pExcessTrial[ei][gi] = pexNew
					yielded[ei][gi] = y
				case mat.UndrainedC:
					sigNew, y := mc.UpdateUndrainedC(e.D, sigStart, epsStart[ei][gi], epsCand, su, elastic)
					sigmaTrial[ei][gi] = sigNew
					yielded[ei][gi] = y
				}
				epsTrial[ei][gi] = epsCand
			}
		}
	}

	return stepResult{converged: false, iters: maxIter}
}

// commitStep writes a converged step's trial state into the solver's
// per-Gauss-point history (spec §4.6(b): "on success, commit sigma, eps,
// p_excess").
func (s *Solver) commitStep(r stepResult) {
	for ei, sigArr := range r.sigma {
		for gi := range sigArr {
			s.GP[ei][gi].Sigma = r.sigma[ei][gi]
			s.GP[ei][gi].Eps = r.eps[ei][gi]
			if r.pExcess[ei] != nil {
				s.GP[ei][gi].PExcess = r.pExcess[ei][gi]
			}
			s.GP[ei][gi].Yielded = r.yielded[ei][gi]
		}
	}
}

// elementLocalDu gathers an element's nodal displacement increment from
// the global vector, in the element's own dof ordering.
func elementLocalDu(e *ele.Element, duGlobal []float64) []float64 {
	local := make([]float64, e.Ndof())
	for i, n := range e.Nodes {
		local[2*i] = duGlobal[2*n]
		local[2*i+1] = duGlobal[2*n+1]
	}
	return local
}

// matVecB evaluates the strain increment B*local at one Gauss point.
func matVecB(B [][]float64, local []float64) mc.Stress {
	var out mc.Stress
	for r := 0; r < 3; r++ {
		var sum float64
		for c, v := range local {
			sum += B[r][c] * v
		}
		out[r] = sum
	}
	return out
}

// addStress returns a+b componentwise.
func addStress(a, b mc.Stress) mc.Stress {
	return mc.Stress{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// vecNorm returns the Euclidean norm of v.
func vecNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
