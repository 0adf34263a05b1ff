// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mc implements the Mohr-Coulomb yield function, the radial
// return-mapping stress corrector (with tension cut-off), the drainage-type
// stress-update branches of spec §4.4 and the strength-reduction method
// (SRM) used by Safety-Analysis phases. The stress updates are plain
// functions, one per drainage branch (no model interface and no CalcD:
// callers use the element's elastic D), and the Mohr-Coulomb math is
// written fresh: none of the forks in the retrieval
// pack carry a Mohr-Coulomb model (only Drucker-Prager, von-Mises and
// hyperelastic variants survive the prune), so there is no teacher Go
// source for this specific yield surface to adapt line-by-line.
package mc

import "math"

// EpsYield is the admissibility tolerance on f(sigma), per spec §4.3.
const EpsYield = 1e-6

// Stress is a plane-strain stress or strain triple (xx, yy, xy), tensile
// positive per spec convention.
type Stress [3]float64

// YieldF evaluates the Mohr-Coulomb yield function in principal-stress
// form (spec §4.3). f <= EpsYield is elastic.
func YieldF(sig Stress, c, phi float64) float64 {
	sBar, r := invariants(sig)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	sMax := sBar + r
	sMin := sBar - r
	return (sMax - sMin) + (sMax+sMin)*sinPhi - 2*c*cosPhi
}

// invariants returns the mean stress sigma_bar and the deviatoric radius r
// of the 2x2 in-plane stress state.
func invariants(sig Stress) (sBar, r float64) {
	sBar = (sig[0] + sig[1]) / 2
	dx := (sig[0] - sig[1]) / 2
	r = math.Hypot(dx, sig[2])
	return
}

// ReturnMap applies the radial, principal-plane return-mapping corrector of
// spec §4.3 to a trial stress with f(trial) > 0, returning the corrected
// stress and whether the point is reported as yielded (always true when
// this function actually performs a correction).
func ReturnMap(trial Stress, c, phi float64) (corrected Stress, yielded bool) {
	f := YieldF(trial, c, phi)
	if f <= EpsYield {
		return trial, false
	}

	sBar, r := invariants(trial)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	pTrial := sBar
	qTarget := 2*c*cosPhi - 2*pTrial*sinPhi

	if qTarget < 0 {
		qTarget = 0
		if sinPhi > 1e-12 {
			pTrial = c * cosPhi / sinPhi
		}
	}

	var cos2t, sin2t float64
	if r > 1e-12 {
		cos2t = (trial[0] - trial[1]) / (2 * r)
		sin2t = trial[2] / r
	} else {
		cos2t, sin2t = 1, 0
	}

	var s float64
	if r > 1e-12 {
		s = qTarget / (2 * r)
		s = math.Max(0, math.Min(1, s))
	}
	rStar := s * r

	corrected[0] = pTrial + rStar*cos2t
	corrected[1] = pTrial - rStar*cos2t
	corrected[2] = rStar * sin2t
	return corrected, true
}

// Reduce applies the strength-reduction method of spec §4.3 at load
// fraction xi >= 1: c -> c/xi, phi -> atan(tan(phi)/xi), su -> su/xi.
func Reduce(c, phi, su, xi float64) (cR, phiR, suR float64) {
	if xi <= 0 {
		xi = 1
	}
	cR = c / xi
	phiR = math.Atan(math.Tan(phi) / xi)
	suR = su / xi
	return
}
