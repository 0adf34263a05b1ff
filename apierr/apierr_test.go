// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package apierr

import (
	"strings"
	"testing"
)

func Test_known_code_has_catalog_entry(tst *testing.T) {
	err := New(ValToleranceOOB, "tolerance=5")
	if !strings.Contains(err.Error(), "VAL_1001") {
		tst.Errorf("expected code in message, got %q", err.Error())
	}
	if err.Title == "" || err.Description == "" {
		tst.Errorf("expected non-empty title/description")
	}
}

func Test_unknown_code_falls_back(tst *testing.T) {
	err := New(Code("NOT_A_CODE"), "")
	if err.Title != "Unknown Error" {
		tst.Errorf("expected fallback title, got %q", err.Title)
	}
}
