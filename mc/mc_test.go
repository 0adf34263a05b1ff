// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mc

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_yield_elastic_origin(tst *testing.T) {
	chk.PrintTitle("yield_elastic_origin")
	c, phi := 10.0, 20.0*math.Pi/180
	f := YieldF(Stress{-50, -50, 0}, c, phi)
	if f > EpsYield {
		tst.Errorf("expected elastic state, f=%v", f)
	}
}

func Test_return_map_admissible(tst *testing.T) {
	chk.PrintTitle("return_map_admissible")
	c, phi := 5.0, 20.0*math.Pi/180
	trial := Stress{20, -200, 80} // strongly violates MC
	corrected, yielded := ReturnMap(trial, c, phi)
	if !yielded {
		tst.Errorf("expected yielding")
	}
	f := YieldF(corrected, c, phi)
	if f > 1e-3 {
		tst.Errorf("corrected stress not admissible: f=%v", f)
	}
}

func Test_return_map_tension_cutoff(tst *testing.T) {
	chk.PrintTitle("return_map_tension_cutoff")
	c, phi := 5.0, 25.0*math.Pi/180
	trial := Stress{500, 500, 0} // pure isotropic tension, far past the apex
	corrected, yielded := ReturnMap(trial, c, phi)
	if !yielded {
		tst.Errorf("expected yielding at tension cutoff")
	}
	f := YieldF(corrected, c, phi)
	if f > 1e-3 {
		tst.Errorf("tension-cutoff stress not admissible: f=%v", f)
	}
	// corrected stress should sit at (or below) the apex, i.e. nearly
	// isotropic with p <= c*cot(phi)
	apex := c * math.Cos(phi) / math.Sin(phi)
	if corrected[0] > apex+1e-6 || corrected[1] > apex+1e-6 {
		tst.Errorf("expected capped mean stress near apex %v, got %v", apex, corrected)
	}
}

func Test_srm_reduce(tst *testing.T) {
	chk.PrintTitle("srm_reduce")
	c, phi, su := 10.0, 30.0*math.Pi/180, 15.0
	cR, phiR, suR := Reduce(c, phi, su, 2.0)
	chk.Scalar(tst, "c halves", 1e-12, cR, 5.0)
	chk.Scalar(tst, "su halves", 1e-12, suR, 7.5)
	if phiR >= phi {
		tst.Errorf("expected reduced friction angle, got %v vs %v", phiR, phi)
	}
}

func Test_penalty_cap(tst *testing.T) {
	chk.PrintTitle("penalty_cap")
	p := Penalty(10000, 0.3)
	Kskel := 10000.0 / (3 * (1 - 2*0.3))
	if p > 10*Kskel+1e-9 {
		tst.Errorf("penalty exceeds 10x Kskel cap: %v > %v", p, 10*Kskel)
	}
}
