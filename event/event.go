// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event implements the solve() progress-event stream of spec §6:
// a phase-start log, zero-or-more step-point/log events, a phase-result
// per phase and a closing final event. The shape mirrors the teacher's
// (cpmech/gofem) io.Pf-based progress printing, generalized from direct
// stdout writes into a Sink interface so a caller can consume the stream
// programmatically instead of only watching console output.
package event

import (
	"fmt"

	"github.com/cpmech/gosl/io"
)

// Type identifies one SolverEvent's payload shape (spec §6).
type Type string

const (
	Log         Type = "log"
	StepPoint   Type = "step_point"
	PhaseResult Type = "phase_result"
	Final       Type = "final"
)

// StepPointContent is the payload of a StepPoint event.
type StepPointContent struct {
	MStage  float64 `json:"m_stage"`
	MaxDisp float64 `json:"max_disp"`
}

// Displacement is one reported nodal displacement (1-based node id, per
// the wire convention of spec §6).
type Displacement struct {
	ID int     `json:"id"`
	Ux float64 `json:"ux"`
	Uy float64 `json:"uy"`
}

// StressPoint is one reported Gauss-point stress state (1-based element
// id, per spec §6).
type StressPoint struct {
	ElementID int     `json:"element_id"`
	GPID      int     `json:"gp_id"`
	SigXX     float64 `json:"sig_xx"`
	SigYY     float64 `json:"sig_yy"`
	SigXY     float64 `json:"sig_xy"`
	SigZZ     float64 `json:"sig_zz"`
	PwpSteady float64 `json:"pwp_steady"`
	PwpExcess float64 `json:"pwp_excess"`
	PwpTotal  float64 `json:"pwp_total"`
	IsYielded bool    `json:"is_yielded"`
	MStage    float64 `json:"m_stage"`
}

// PhaseResultContent is the payload of a PhaseResult event.
type PhaseResultContent struct {
	PhaseID        string         `json:"phase_id"`
	Success        bool           `json:"success"`
	Displacements  []Displacement `json:"displacements,omitempty"`
	Stresses       []StressPoint  `json:"stresses,omitempty"`
	ReachedMStage  float64        `json:"reached_m_stage"`
	StepPoints     []StepPointContent `json:"step_points,omitempty"`
	StepFailedAt   float64        `json:"step_failed_at,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// FinalContent is the payload of the closing Final event.
type FinalContent struct {
	Success bool                  `json:"success"`
	Phases  []PhaseResultContent  `json:"phases"`
	Log     []string              `json:"log"`
}

// Event is one record of the solve() progress stream.
type Event struct {
	Type    Type        `json:"type"`
	Content interface{} `json:"content"`
}

// Sink receives the ordered event stream of one solve.
type Sink interface {
	Emit(Event)
}

// IoSink is the default Sink: it prints every event with gosl/io.Pf,
// mirroring the teacher's console-progress idiom, and also buffers the
// log lines it prints. The buffer is not exposed, and the Final event's
// log is built by the caller without it.
type IoSink struct {
	lines []string
}

// NewIoSink returns an empty IoSink.
func NewIoSink() *IoSink { return &IoSink{} }

// Emit implements Sink.
func (s *IoSink) Emit(e Event) {
	switch e.Type {
	case Log:
		msg := fmt.Sprintf("%v", e.Content)
		s.lines = append(s.lines, msg)
		io.Pf("%s\n", msg)
	case StepPoint:
		c := e.Content.(StepPointContent)
		io.Pfcyan("  step m=%.4f max|du|=%.6g\n", c.MStage, c.MaxDisp)
	case PhaseResult:
		c := e.Content.(PhaseResultContent)
		if c.Success {
			io.Pfgreen(">> phase %s done (m=%.4f)\n", c.PhaseID, c.ReachedMStage)
		} else {
			io.Pfred(">> phase %s failed: %s\n", c.PhaseID, c.Error)
		}
	case Final:
		io.Pf(">> solve finished\n")
	}
}

// Logf records a formatted log-type event, the pattern every phase uses
// for its start-of-phase and retry/divergence narration.
func Logf(sink Sink, format string, args ...interface{}) {
	sink.Emit(Event{Type: Log, Content: fmt.Sprintf(format, args...)})
}
