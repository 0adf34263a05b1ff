// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/event"
	"github.com/cpmech/terrafem/mat"
)

// recordingSink captures every emitted event for inspection in tests,
// avoiding the console noise of event.IoSink.
type recordingSink struct {
	events []event.Event
}

func (s *recordingSink) Emit(e event.Event) { s.events = append(s.events, e) }

func (s *recordingSink) final() (event.FinalContent, bool) {
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Type == event.Final {
			return s.events[i].Content.(event.FinalContent), true
		}
	}
	return event.FinalContent{}, false
}

// gravityColumnRequest builds a 1x5m single-material column (spec §8
// scenario 1: self-weight-only, gamma_unsat=18 kN/m^3, expect sigma_yy ~
// -gamma*depth at the base).
func gravityColumnRequest() SolverRequest {
	meshReq := MeshRequest{
		Polygons: []PolygonInput{
			{
				Vertices:   []Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 5}, {X: 0, Y: 5}},
				MaterialID: 0,
			},
		},
		Materials: []mat.Material{
			{Name: "sand", EDrained: 2e4, Nu: 0.3, GammaSat: 19, GammaUnsat: 18, Drainage: mat.Drained, Model: mat.LinearElastic},
		},
		MeshSettings: MeshSettings{MeshSize: 1, BoundaryRefinementFactor: 1},
	}
	meshResp := GenerateMesh(meshReq)

	return SolverRequest{
		Mesh: meshResp,
		Phases: []PhaseRequest{
			{
				ID: "p1", Name: "self-weight", PhaseType: "gravity_loading",
				ActivePolygonIdxs: []int{0},
			},
		},
		Settings: SolverSettings{
			MaxIterations: 20, InitialStepSize: 1, Tolerance: 0.01, MaxSteps: 10,
		},
		Materials: meshReq.Materials,
	}
}

func Test_solve_gravity_column(tst *testing.T) {
	chk.PrintTitle("solve_gravity_column")
	req := gravityColumnRequest()
	sink := &recordingSink{}
	ok := Solve(req, sink)
	if !ok {
		fin, _ := sink.final()
		tst.Errorf("expected solve to succeed, got phases: %+v", fin.Phases)
		return
	}
	fin, hasFinal := sink.final()
	if !hasFinal {
		tst.Errorf("expected a final event")
		return
	}
	if len(fin.Phases) != 1 || !fin.Phases[0].Success {
		tst.Errorf("expected one successful phase, got %+v", fin.Phases)
		return
	}
	var maxAbsSigYY float64
	for _, sp := range fin.Phases[0].Stresses {
		if d := math.Abs(sp.SigYY); d > maxAbsSigYY {
			maxAbsSigYY = d
		}
	}
	// deepest Gauss points should approach gamma*H = 18*5 = 90 kPa in magnitude
	if maxAbsSigYY < 50 || maxAbsSigYY > 95 {
		tst.Errorf("expected max |sigma_yy| near 90 kPa, got %v", maxAbsSigYY)
	}
}

func Test_solve_rejects_bad_settings(tst *testing.T) {
	chk.PrintTitle("solve_rejects_bad_settings")
	req := gravityColumnRequest()
	req.Settings.Tolerance = 10 // out of [0.001, 0.1]
	sink := &recordingSink{}
	if Solve(req, sink) {
		tst.Errorf("expected solve to reject an out-of-bounds tolerance")
	}
}
