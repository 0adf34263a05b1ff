// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_k0_fallbacks(tst *testing.T) {
	chk.PrintTitle("k0_fallbacks")

	m1 := &Material{PhiDeg: 30}
	chk.Scalar(tst, "K0 from phi", 1e-9, m1.K0(), 0.5)

	m2 := &Material{Nu: 0.25}
	chk.Scalar(tst, "K0 from nu", 1e-9, m2.K0(), 0.25/0.75)

	m3 := &Material{K0Given: true, K0Override: 0.7}
	chk.Scalar(tst, "K0 override", 1e-9, m3.K0(), 0.7)
}

func Test_steady_pwp01(tst *testing.T) {
	chk.PrintTitle("steady_pwp01")
	m := &Material{Drainage: Drained}
	p := m.SteadyPWP(-2, 0)
	chk.Scalar(tst, "pwp at 2m depth", 1e-9, p, -2*GammaWater)

	mNP := &Material{Drainage: NonPorous}
	chk.Scalar(tst, "nonporous pwp is zero", 1e-12, mNP.SteadyPWP(-5, 0), 0)
}

func Test_validate01(tst *testing.T) {
	chk.PrintTitle("validate01")
	m := &Material{Nu: 0.6}
	_, err := m.Validate()
	if err == nil {
		tst.Errorf("expected error for nu=0.6")
	}
}
