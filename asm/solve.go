// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/cpmech/gosl/la"
)

// SolveLinear factorizes Kb and solves Kb*x = rhs once, using the same
// la.LinSol sparse direct interface the teacher names in inp/sim.go's
// LinSolData ("mumps"/"umfpack"), narrowed here to a single-shot
// init+factorize+solve+free call since the phase Newton loop re-solves
// against a fixed tangent every iteration rather than keeping a live
// domain-level solver handle.
func SolveLinear(Kb *la.Triplet, rhs []float64) ([]float64, error) {
	solver := la.GetSolver("umfpack")
	defer solver.Free()
	symmetric, verbose, timing := false, false, false
	if err := solver.InitR(Kb, symmetric, verbose, timing); err != nil {
		return nil, err
	}
	if err := solver.Fact(); err != nil {
		return nil, err
	}
	x := make([]float64, len(rhs))
	if err := solver.SolveR(x, rhs, false); err != nil {
		return nil, err
	}
	return x, nil
}
