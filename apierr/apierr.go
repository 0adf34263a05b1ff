// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package apierr implements the caller-facing error taxonomy of spec §6/§7:
// stable VAL_*/SLV_*/NUM_*/SRM_*/SYS_* codes, each with a title and a
// description, ported from original_source/backend/error.py's
// ErrorCode/ERROR_CATALOG.
package apierr

import "fmt"

// Code is a stable error code, e.g. "VAL_1001".
type Code string

const (
	ValToleranceOOB    Code = "VAL_1001"
	ValIterationsOOB   Code = "VAL_1002"
	ValStepSizeOOB     Code = "VAL_1003"
	ValLoadFracOOB     Code = "VAL_1004"
	ValMaxStepsOOB     Code = "VAL_1005"
	ValIterMismatch    Code = "VAL_1006"
	ValEmptyMesh       Code = "VAL_1101"
	ValOverElementLim  Code = "VAL_1102"

	SolverDiverged      Code = "SLV_2001"
	SolverMaxIterations Code = "SLV_2002"
	SolverStepLimit     Code = "SLV_2003"
	SolverCutbackLimit  Code = "SLV_2004"
	SolverSingularMatrix Code = "SLV_2101"
	SolverUnstableGeom  Code = "SLV_2102"

	NumOverflow     Code = "NUM_3001"
	NumNaNDetected  Code = "NUM_3002"
	SRMLimitReached Code = "SRM_3101"

	SysOverloadPrevention Code = "SYS_9001"
	SysTimeout            Code = "SYS_9002"
	SysInternalError      Code = "SYS_9999"
)

type catalogEntry struct {
	Title       string
	Description string
}

var catalog = map[Code]catalogEntry{
	ValToleranceOOB: {
		"Tolerance Out of Bounds",
		"The convergence tolerance (eps) must be between 0.001 and 0.1. Values outside this range may cause instability or excessive calculation time.",
	},
	ValIterationsOOB: {
		"Max Iterations Out of Bounds",
		"Maximum iterations per step must be between 1 and 100. High values can hang the server, while low values may prevent convergence.",
	},
	ValStepSizeOOB: {
		"Initial Step Size Out of Bounds",
		"The initial MStage step size must be between 0.001 and 1.0.",
	},
	ValLoadFracOOB: {
		"Max Load Fraction Out of Bounds",
		"The maximum load fraction for adaptive stepping must be between 0.01 and 1.0.",
	},
	ValMaxStepsOOB: {
		"Max Total Steps Out of Bounds",
		"The maximum number of allowed load increments must be between 1 and 1000 to prevent infinite loops.",
	},
	ValIterMismatch: {
		"Iteration Range Mismatch",
		"The minimum desired iterations cannot be greater than the maximum desired iterations.",
	},
	ValEmptyMesh: {
		"Empty Mesh Generated",
		"The mesh generator produced zero elements. This usually happens if the input polygons are overlapping, crossing, or have invalid coordinates.",
	},
	ValOverElementLim: {
		"Element Count Exceeds Limit",
		"The mesh contains more than 4000 elements. This exceeds the maximum allowed element count for performance reasons.",
	},
	SolverDiverged: {
		"Convergence Failure (Divergence)",
		"The solver failed to reach equilibrium. The residual forces are increasing, indicating a possible collapse or unstable model configuration.",
	},
	SolverMaxIterations: {
		"Max Iterations Reached",
		"The step failed to converge within the allotted number of iterations. Try reducing the step size or increasing tolerance.",
	},
	SolverStepLimit: {
		"Maximum Steps Reached",
		"The solver reached the maximum allowed number of load increments (MStage steps) without completing the phase.",
	},
	SolverCutbackLimit: {
		"Step Size Limit Reached",
		"The solver attempted to reduce the step size to find equilibrium, but the size became too small to continue. The model is likely at a physical limit state (failure).",
	},
	SolverSingularMatrix: {
		"Singular Stiffness Matrix",
		"The global stiffness matrix is not invertible. This usually means the model is not properly restrained (missing boundary conditions) or has detached elements.",
	},
	SolverUnstableGeom: {
		"Unstable Geometry",
		"The mesh geometry is degenerate enough that the solver cannot proceed (zero or negative element area).",
	},
	NumOverflow: {
		"Numerical Overflow",
		"A calculation result exceeded the floating-point limits. This often happens near a catastrophic failure point in the soil.",
	},
	NumNaNDetected: {
		"Invalid Numerical Result",
		"A NaN or infinite value was detected in stress, displacement, or residual.",
	},
	SRMLimitReached: {
		"SRM Limit State",
		"Safety analysis stopped because the model reached a critical failure state where further strength reduction is impossible.",
	},
	SysOverloadPrevention: {
		"Overload Prevention",
		"Calculation blocked because the requested settings would likely exceed server safety or memory limits.",
	},
	SysTimeout: {
		"Timeout",
		"The operation did not complete within the allotted time.",
	},
	SysInternalError: {
		"Internal Error",
		"An unexpected internal error occurred.",
	},
}

// Error is one caller-facing error: a stable code plus its title and
// description, per spec §6 ("Each error includes a stable code, a title,
// and a description").
type Error struct {
	Code        Code
	Title       string
	Description string
	Detail      string // extra context appended by the call site, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", e.Code, e.Title, e.Description, e.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Title, e.Description)
}

// New builds an Error for code, optionally appending a detail string
// (e.g. the offending field's value).
func New(code Code, detail string) *Error {
	entry, ok := catalog[code]
	if !ok {
		entry = catalogEntry{"Unknown Error", "An unspecified error occurred."}
	}
	return &Error{Code: code, Title: entry.Title, Description: entry.Description, Detail: detail}
}
