// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/terrafem/api"
	"github.com/cpmech/terrafem/event"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// message
	io.PfWhite("\nTerraFEM -- staged plane-strain geotechnical FEM\n\n")

	// request filenamepath
	meshOnly := flag.Bool("mesh", false, "run generate_mesh only and print the MeshResponse")
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a request filename. Ex.: run.json")
	}

	buf, err := io.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read request file %q: %v", fnamepath, err)
	}

	if *meshOnly {
		runMesh(buf)
		return
	}
	runSolve(buf)
}

// runMesh decodes buf as an api.MeshRequest, runs generate_mesh and writes
// the MeshResponse to stdout as JSON.
func runMesh(buf []byte) {
	var req api.MeshRequest
	if err := json.Unmarshal(buf, &req); err != nil {
		chk.Panic("cannot decode mesh request: %v", err)
	}
	resp := api.GenerateMesh(req)
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		chk.Panic("cannot encode mesh response: %v", err)
	}
	io.Pf("%s\n", out)
	if resp.Error != "" {
		os.Exit(1)
	}
}

// runSolve decodes buf as an api.SolverRequest, runs solve() and streams
// every event to the console via event.IoSink, exiting non-zero on failure.
func runSolve(buf []byte) {
	var req api.SolverRequest
	if err := json.Unmarshal(buf, &req); err != nil {
		chk.Panic("cannot decode solver request: %v", err)
	}
	sink := event.NewIoSink()
	if !api.Solve(req, sink) {
		os.Exit(1)
	}
}
