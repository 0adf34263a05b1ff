// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_resolve_point_loads_kdtree(tst *testing.T) {
	nodes := []Node{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	pls := []PointLoadSpec{{ID: "A", X: 9, Y: 1}, {ID: "B", X: 1, Y: 9}}
	out := ResolvePointLoads(nodes, pls)
	require.Len(tst, out, 2)
	assert.Equal(tst, 1, out[0].NodeID) // nearest to (10,0)
	assert.Equal(tst, 3, out[1].NodeID) // nearest to (0,10)
}

func Test_resolve_line_loads_t3_edge(tst *testing.T) {
	m := &Mesh{
		Nodes: []Node{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Elements: []Element{
			{Nodes: []int{0, 1, 2}},
			{Nodes: []int{0, 2, 3}},
		},
	}
	ll := []LineLoadSpec{{ID: "L1", X1: 0, Y1: 0, X2: 10, Y2: 0, Fy: -5}}
	out := ResolveLineLoads(m, ll)
	require.Len(tst, out, 1)
	assert.Equal(tst, 0, out[0].ElementIdx)
	assert.ElementsMatch(tst, []int{0, 1}, out[0].EdgeNodes)
}
