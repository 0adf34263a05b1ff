// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mat implements the material data model: elastic and strength
// parameters, drainage types and the constitutive-model selector, plus the
// invariant checks spec'd for §3 of the engine's data model.
package mat

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Drainage identifies the pore-pressure/strength branch used by the
// constitutive update (see spec §4.4).
type Drainage int

const (
	Drained Drainage = iota
	UndrainedA
	UndrainedB
	UndrainedC
	NonPorous
)

func (d Drainage) String() string {
	switch d {
	case Drained:
		return "Drained"
	case UndrainedA:
		return "UndrainedA"
	case UndrainedB:
		return "UndrainedB"
	case UndrainedC:
		return "UndrainedC"
	case NonPorous:
		return "NonPorous"
	default:
		return "Unknown"
	}
}

// IsPorous reports whether the drainage type carries a steady pore
// pressure from the water table (Drained or UndrainedA only, per spec §4.2).
func (d Drainage) IsPorous() bool {
	return d == Drained || d == UndrainedA
}

// Model identifies the stress-strain law applied at a Gauss point.
type Model int

const (
	LinearElastic Model = iota
	MohrCoulomb
)

func (m Model) String() string {
	if m == MohrCoulomb {
		return "MohrCoulomb"
	}
	return "LinearElastic"
}

// GammaWater is the unit weight of water in kN/m^3 (spec §4.2).
const GammaWater = 9.81

// Material holds the elastic, strength and drainage data for one polygonal
// region, mirroring the teacher's inp.Material JSON-tag shape narrowed to
// the plane-strain/Mohr-Coulomb core.
type Material struct {
	Name string `json:"name"`

	// elastic moduli
	EDrained   float64 `json:"eDrained"`   // E' (effective-stress modulus)
	EUndrained float64 `json:"eUndrained"` // E  (total-stress modulus)
	Nu         float64 `json:"nu"`         // Poisson's ratio

	// unit weights
	GammaSat   float64 `json:"gammaSat"`
	GammaUnsat float64 `json:"gammaUnsat"`

	// strength
	Cohesion  float64 `json:"cohesion"`  // c (kPa)
	PhiDeg    float64 `json:"phi"`       // friction angle, degrees on the wire
	PsiDeg    float64 `json:"psi"`       // dilation angle, degrees on the wire
	SuUndr    float64 `json:"suUndrained"` // undrained shear strength s_u

	// K0
	K0Given    bool    `json:"-"`
	K0Override float64 `json:"k0,omitempty"`

	Drainage Drainage `json:"drainageType"`
	Model    Model    `json:"constitutiveModel"`
}

// UnmarshalJSON decodes a wire Material, setting K0Given when the "k0"
// field is present (K0Override alone can't distinguish "given as 0" from
// "absent" since it carries omitempty).
func (m *Material) UnmarshalJSON(data []byte) error {
	type alias Material
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Material(a)
	var presence map[string]json.RawMessage
	if err := json.Unmarshal(data, &presence); err != nil {
		return err
	}
	if _, ok := presence["k0"]; ok {
		m.K0Given = true
	}
	return nil
}

// PhiRad returns the friction angle in radians.
func (m *Material) PhiRad() float64 { return m.PhiDeg * math.Pi / 180 }

// PsiRad returns the dilation angle in radians.
func (m *Material) PsiRad() float64 { return m.PsiDeg * math.Pi / 180 }

// E returns the Young's modulus to use for the elastic D matrix, selected
// per drainage type (spec §4.2): total-stress E for UndrainedC/NonPorous,
// drained E' otherwise.
func (m *Material) E() float64 {
	if m.Drainage == UndrainedC || m.Drainage == NonPorous {
		return m.EUndrained
	}
	return m.EDrained
}

// Validate checks the invariants of spec §3, returning a descriptive error
// on violation. Warnings (psi > phi) are returned via the warn return value
// instead of failing validation, matching the source's warn-not-reject
// stance.
func (m *Material) Validate() (warn string, err error) {
	if !(m.Nu > 0 && m.Nu < 0.5) {
		return "", chk.Err("material %q: nu must satisfy 0 < nu < 0.5, got %v", m.Name, m.Nu)
	}
	if m.GammaSat > 0 && m.GammaUnsat > 0 && m.GammaSat < m.GammaUnsat {
		return "", chk.Err("material %q: gammaSat (%v) must be >= gammaUnsat (%v)", m.Name, m.GammaSat, m.GammaUnsat)
	}
	if m.Cohesion < 0 {
		return "", chk.Err("material %q: cohesion must be >= 0, got %v", m.Name, m.Cohesion)
	}
	if m.PsiDeg < 0 || m.PsiDeg > m.PhiDeg {
		warn = chk.Err("material %q: dilation angle psi=%v should satisfy 0 <= psi <= phi=%v", m.Name, m.PsiDeg, m.PhiDeg).Error()
	}
	return warn, nil
}

// K0 returns the K0 coefficient to use for geostatic initialization (spec
// §4.6 step 2(a)): the material's own override if given, else 1-sin(phi)
// if phi>0, else nu/(1-nu) (capped at nu<=0.499), else 0.5.
func (m *Material) K0() float64 {
	if m.K0Given {
		return m.K0Override
	}
	phi := m.PhiRad()
	if m.PhiDeg > 0 {
		return 1 - math.Sin(phi)
	}
	nu := math.Min(m.Nu, 0.499)
	if nu > 0 {
		return nu / (1 - nu)
	}
	return 0.5
}

// UnitWeight returns gamma_sat or gamma_unsat for the given quadrature
// point depth relative to the water table, per spec §4.2: NonPorous always
// uses gamma_unsat; other drainages use gamma_sat when below the water
// table.
func (m *Material) UnitWeight(gpY, waterY float64) float64 {
	if m.Drainage == NonPorous {
		return m.GammaUnsat
	}
	if gpY <= waterY {
		return m.GammaSat
	}
	return m.GammaUnsat
}

// SteadyPWP returns the steady pore pressure at a Gauss point, per spec
// §4.2: negative (compressive) below the water table for porous drainage
// types, zero otherwise.
func (m *Material) SteadyPWP(gpY, waterY float64) float64 {
	if !m.Drainage.IsPorous() {
		return 0
	}
	if gpY <= waterY {
		return -GammaWater * (waterY - gpY)
	}
	return 0
}
