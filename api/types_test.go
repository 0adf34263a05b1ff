// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"encoding/json"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/mat"
)

func Test_mesh_request_json_roundtrip(tst *testing.T) {
	chk.PrintTitle("mesh_request_json_roundtrip")
	req := unitSquareRequest()
	buf, err := json.Marshal(req)
	if err != nil {
		tst.Errorf("marshal failed: %v", err)
		return
	}
	var back MeshRequest
	if err := json.Unmarshal(buf, &back); err != nil {
		tst.Errorf("unmarshal failed: %v", err)
		return
	}
	if len(back.Polygons) != 1 || back.Polygons[0].MaterialID != 0 {
		tst.Errorf("polygon roundtrip mismatch: %+v", back.Polygons)
	}
	if len(back.Materials) != 1 || back.Materials[0].Name != "clay" {
		tst.Errorf("material roundtrip mismatch: %+v", back.Materials)
	}
}

func Test_material_k0_presence_via_json(tst *testing.T) {
	chk.PrintTitle("material_k0_presence_via_json")
	var withK0 mat.Material
	if err := json.Unmarshal([]byte(`{"name":"fill","k0":0.55}`), &withK0); err != nil {
		tst.Errorf("unmarshal failed: %v", err)
		return
	}
	if !withK0.K0Given || withK0.K0Override != 0.55 {
		tst.Errorf("expected K0Given=true, K0Override=0.55, got %+v", withK0)
	}

	var withoutK0 mat.Material
	if err := json.Unmarshal([]byte(`{"name":"fill"}`), &withoutK0); err != nil {
		tst.Errorf("unmarshal failed: %v", err)
		return
	}
	if withoutK0.K0Given {
		tst.Errorf("expected K0Given=false when k0 is absent")
	}
}
