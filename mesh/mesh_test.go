// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/terrafem/geom"
)

func unitSquare(materialID int) Polygon {
	return Polygon{
		Vertices: []geom.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		},
		MaterialID: materialID,
	}
}

func Test_generate_t3_basic(tst *testing.T) {
	polys := []Polygon{unitSquare(0)}
	settings := Settings{MeshSize: 4, BoundaryRefineFactor: 1, MaxElements: 500}
	m, err := GenerateT3(polys, settings, nil, nil, nil)
	require.NoError(tst, err)
	assert.NotEmpty(tst, m.Elements)
	for _, e := range m.Elements {
		assert.Len(tst, e.Nodes, 3)
		assert.Equal(tst, 0, e.PolygonIdx)
	}
}

func Test_generate_t6_midpoints_shared(tst *testing.T) {
	polys := []Polygon{unitSquare(0)}
	settings := Settings{MeshSize: 5, BoundaryRefineFactor: 1, MaxElements: 500}
	m, err := GenerateT6(polys, settings, nil, nil, nil)
	require.NoError(tst, err)
	for _, e := range m.Elements {
		assert.Len(tst, e.Nodes, 6)
	}
	// every interior edge's midpoint node must be shared by both adjacent
	// elements, i.e. the total midpoint-node count is strictly less than
	// 3 * nElements whenever more than one triangle is produced.
	if len(m.Elements) > 1 {
		seen := make(map[int]bool)
		for _, e := range m.Elements {
			for _, n := range e.Nodes[3:] {
				seen[n] = true
			}
		}
		assert.Less(tst, len(seen), 3*len(m.Elements))
	}
}

func Test_generate_boundary_tags(tst *testing.T) {
	polys := []Polygon{unitSquare(0)}
	settings := Settings{MeshSize: 4, BoundaryRefineFactor: 1, MaxElements: 500}
	m, err := GenerateT3(polys, settings, nil, nil, nil)
	require.NoError(tst, err)
	assert.NotEmpty(tst, m.FullFixed)
	assert.NotEmpty(tst, m.RollerX)
	for _, i := range m.FullFixed {
		assert.InDelta(tst, 0, m.Nodes[i].Y, BCTol)
	}
}

func Test_generate_empty_region_fails(tst *testing.T) {
	_, err := GenerateT3(nil, Settings{MeshSize: 1}, nil, nil, nil)
	assert.Error(tst, err)
}

func Test_generate_element_cap(tst *testing.T) {
	polys := []Polygon{unitSquare(0)}
	settings := Settings{MeshSize: 0.3, BoundaryRefineFactor: 1, MaxElements: 10}
	_, err := GenerateT3(polys, settings, nil, nil, nil)
	assert.Error(tst, err)
}

func Test_point_load_resolves_to_nearest_node(tst *testing.T) {
	polys := []Polygon{unitSquare(0)}
	settings := Settings{MeshSize: 4, BoundaryRefineFactor: 1, MaxElements: 500}
	pl := []PointLoadSpec{{ID: "P1", X: 0.1, Y: 0.1, Fy: -10}}
	m, err := GenerateT3(polys, settings, nil, pl, nil)
	require.NoError(tst, err)
	require.Len(tst, m.PointLoadAssigns, 1)
	assigned := m.Nodes[m.PointLoadAssigns[0].NodeID]
	assert.InDelta(tst, 0, assigned.X, 1.0)
	assert.InDelta(tst, 0, assigned.Y, 1.0)
}
