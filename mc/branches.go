// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mc

import "math"

// Penalty computes the volumetric-penalty stiffness used by the
// UndrainedA/UndrainedB branches, per spec §4.4(ii): min(Kw/n, 10*Kskel)
// with Kw = 2.2e6 kPa, n = 0.3 and Kskel = E'/(3(1-2nu)). The spec pins the
// cap at 10x Kskel (see SPEC_FULL.md / DESIGN.md Open Question decisions)
// rather than the 5x figure that appears in some of the source's files.
func Penalty(ePrime, nu float64) float64 {
	const Kw = 2.2e6
	const porosity = 0.3
	Kskel := ePrime / (3 * (1 - 2*nu))
	return math.Min(Kw/porosity, 10*Kskel)
}

func matVec(D [3][3]float64, v Stress) (out Stress) {
	for i := 0; i < 3; i++ {
		out[i] = D[i][0]*v[0] + D[i][1]*v[1] + D[i][2]*v[2]
	}
	return
}

func sub(a, b Stress) Stress {
	return Stress{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add(a, b Stress) Stress {
	return Stress{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func pVec(p float64) Stress { return Stress{p, p, 0} }

// UpdateDrained implements spec §4.4 branch (i), used for Drained and
// NonPorous drainage: effective-stress update against a known steady PWP.
// When elastic is true (material model is LinearElastic, not MohrCoulomb)
// the return-map is skipped and the trial stress is reported directly,
// never yielded.
func UpdateDrained(D [3][3]float64, sigStart, epsStart, epsCand Stress, pSteady, c, phi float64, elastic bool) (sigNew Stress, yielded bool) {
	deps := sub(epsCand, epsStart)
	sigPrimeStart := sub(sigStart, pVec(pSteady))
	sigPrimeTrial := add(sigPrimeStart, matVec(D, deps))
	sigPrimeNew, y := sigPrimeTrial, false
	if !elastic {
		sigPrimeNew, y = ReturnMap(sigPrimeTrial, c, phi)
	}
	sigNew = add(sigPrimeNew, pVec(pSteady))
	return sigNew, y
}

// UpdateUndrainedAB implements spec §4.4 branch (ii), shared by UndrainedA
// (strength = c,phi) and UndrainedB (strength = su,0): effective-stress
// update with a volumetric-penalty excess pore pressure.
func UpdateUndrainedAB(D [3][3]float64, penalty float64, sigStart, epsStart, epsCand Stress, pExcessStart, pSteady, strength1, strength2 float64, elastic bool) (sigNew Stress, pExcessNew float64, yielded bool) {
	deps := sub(epsCand, epsStart)
	DTot := D
	DTot[0][0] += penalty
	DTot[0][1] += penalty
	DTot[1][0] += penalty
	DTot[1][1] += penalty

	sigTrialTot := add(sigStart, matVec(DTot, deps))
	depsVol := deps[0] + deps[1]
	pExcessNew = pExcessStart + penalty*depsVol
	pTot := pSteady + pExcessNew

	sigPrimeTrial := sub(sigTrialTot, pVec(pTot))
	sigPrimeNew, y := sigPrimeTrial, false
	if !elastic {
		sigPrimeNew, y = ReturnMap(sigPrimeTrial, strength1, strength2)
	}
	sigNew = add(sigPrimeNew, pVec(pTot))
	return sigNew, pExcessNew, y
}

// UpdateUndrainedC implements spec §4.4 branch (iii): total-stress update
// against undrained shear strength su, with no pore-pressure bookkeeping.
func UpdateUndrainedC(D [3][3]float64, sigStart, epsStart, epsCand Stress, su float64, elastic bool) (sigNew Stress, yielded bool) {
	deps := sub(epsCand, epsStart)
	sigTrial := add(sigStart, matVec(D, deps))
	if elastic {
		return sigTrial, false
	}
	return ReturnMap(sigTrial, su, 0)
}

// SigmaZZ derives the out-of-plane stress for reporting (spec §6):
// NonPorous and UndrainedC use nu*(sxx+syy); other drainages use
// nu*(sxx+syy-2*pTotal) + pTotal.
func SigmaZZ(sig Stress, nu, pTotal float64, totalStressBranch bool) float64 {
	if totalStressBranch {
		return nu * (sig[0] + sig[1])
	}
	return nu*(sig[0]+sig[1]-2*pTotal) + pTotal
}
