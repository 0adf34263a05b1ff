// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements the unstructured triangular mesh generator of
// spec §4.1: PSLG construction from polygonal material regions, a
// Delaunay triangulation of the PSLG vertices with area-driven refinement,
// boundary condition tagging and point/line load resolution. The PSLG
// segments are recorded but not enforced by the triangulator: an element
// may cross a region boundary, and each element takes the region that
// contains its centroid. The algorithm shape
// (normalize PSLG -> seed triangulation -> incremental insertion -> legalize
// -> classify -> refine) is grounded on the retrieval pack's
// other_examples/iceisfun-gomesh cdt-builder.go reference file; none of the
// example repos' teacher (cpmech/gofem) ships a Go mesh generator of its
// own, since the real gofem reads externally-generated Gmsh meshes.
package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/terrafem/geom"
)

// Polygon is one material region: a CCW vertex loop, a material id and
// optional per-region size controls (spec §4.1 input).
type Polygon struct {
	Vertices            []geom.Point
	MaterialID          int
	MeshSize            float64 // 0 means "use the global default"
	BoundaryRefineFactor float64 // 0 means "use the global default"
}

// PointLoadSpec is an input point load to be resolved to a mesh node.
type PointLoadSpec struct {
	ID   string
	X, Y float64
	Fx, Fy float64
}

// LineLoadSpec is an input line load to be resolved to element edges.
type LineLoadSpec struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Fx, Fy         float64
}

// Settings are the mesh generator's global controls (spec §4.1 input).
type Settings struct {
	MeshSize             float64
	BoundaryRefineFactor float64
	MaxElements          int // cap, per spec §4.1 edge case; 0 uses DefaultMaxElements
}

// DefaultMaxElements is the runaway-cost cap of spec §4.1 ("~4000").
const DefaultMaxElements = 4000

// pslg is the planar straight-line graph built from the input polygons:
// a deduplicated vertex list plus a segment list (pairs of vertex indices).
type pslg struct {
	verts    []geom.Point
	index    map[[2]int64]int // rounded-coordinate key -> vertex index
	segments [][2]int
}

// roundKey rounds a coordinate to 6 decimals (spec §4.1 step 1) for vertex
// deduplication.
func roundKey(p geom.Point) [2]int64 {
	const scale = 1e6
	return [2]int64{int64(math.Round(p.X * scale)), int64(math.Round(p.Y * scale))}
}

func newPSLG() *pslg {
	return &pslg{index: make(map[[2]int64]int)}
}

// addVertex returns the index of p, inserting it if not already present
// (within the 6-decimal rounding tolerance).
func (g *pslg) addVertex(p geom.Point) int {
	k := roundKey(p)
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.verts)
	g.verts = append(g.verts, p)
	g.index[k] = i
	return i
}

func (g *pslg) addSegment(a, b int) {
	if a == b {
		return
	}
	g.segments = append(g.segments, [2]int{a, b})
}

// edgeLength returns the target discretization length for a region, per
// spec §4.1 step 1: mesh_size / max(refinement_factor, 0.1).
func edgeLength(meshSize, refineFactor float64) float64 {
	return meshSize / math.Max(refineFactor, 0.1)
}

// buildPSLG discretizes every polygon boundary at its target edge length
// and inserts the point-load coordinates as required vertices (spec §4.1
// steps 1-2).
func buildPSLG(polys []Polygon, global Settings, pointLoads []PointLoadSpec) (*pslg, error) {
	g := newPSLG()
	for _, poly := range polys {
		if len(poly.Vertices) < 3 {
			return nil, fmt.Errorf("polygon with material %d has fewer than 3 vertices", poly.MaterialID)
		}
		ms := poly.MeshSize
		if ms <= 0 {
			ms = global.MeshSize
		}
		rf := poly.BoundaryRefineFactor
		if rf <= 0 {
			rf = global.BoundaryRefineFactor
		}
		if rf <= 0 {
			rf = 1
		}
		L := edgeLength(ms, rf)
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			a := poly.Vertices[i]
			b := poly.Vertices[(i+1)%n]
			discretizeEdge(g, a, b, L)
		}
	}
	for _, pl := range pointLoads {
		g.addVertex(geom.Point{X: pl.X, Y: pl.Y})
	}
	return g, nil
}

// discretizeEdge inserts vertices and segments along a-b spaced at
// approximately L, always including the endpoints.
func discretizeEdge(g *pslg, a, b geom.Point, L float64) {
	length := geom.Length(a, b)
	n := 1
	if L > 0 {
		n = int(math.Max(1, math.Round(length/L)))
	}
	prev := g.addVertex(a)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		var p geom.Point
		if i == n {
			p = b
		} else {
			p = geom.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
		}
		cur := g.addVertex(p)
		g.addSegment(prev, cur)
		prev = cur
	}
}

// sortedVertexOrder returns the vertex indices 0..n-1, i.e. the
// deterministic PSLG insertion order (polygon boundaries in input order,
// then point-load vertices); coordinates are not re-sorted.
func sortedVertexOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Ints(order)
	return order
}
