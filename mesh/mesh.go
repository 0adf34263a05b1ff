// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"
	"math"

	"github.com/cpmech/terrafem/geom"
	"github.com/cpmech/terrafem/mat"
)

// BCTol is the spatial tolerance used to classify boundary nodes (spec
// §4.1 step 6).
const BCTol = 1e-3

// MinAngleDeg is the refinement's minimum interior angle target (spec §4.1
// step 4).
const MinAngleDeg = 20.0

// Node is a generated mesh vertex.
type Node struct {
	X, Y float64
}

// Element is a generated mesh triangle: T3 (3 nodes) or T6 (6 nodes,
// corners followed by edge midpoints 12,23,31), tagged with its source
// region.
type Element struct {
	Nodes      []int
	PolygonIdx int
	MaterialID int
}

// PointLoadAssignment resolves a point load to its nearest mesh node.
type PointLoadAssignment struct {
	PointLoadID string
	NodeID      int // 0-based
}

// LineLoadAssignment resolves a line load to one element edge.
type LineLoadAssignment struct {
	LineLoadID string
	ElementIdx int
	EdgeNodes  []int // ordered node triple (corner, corner, midpoint) for T6
}

// Mesh is the generator's output (spec §4.1 / §6 MeshResponse, pre-wire).
type Mesh struct {
	Nodes              []Node
	Elements           []Element
	FullFixed          []int
	RollerX            []int
	PointLoadAssigns   []PointLoadAssignment
	LineLoadAssigns    []LineLoadAssignment
}

// GenerateT3 builds a conforming quality triangulation from the given
// material regions, per spec §4.1, emitting T3 (3-node) elements.
func GenerateT3(polys []Polygon, global Settings, materials map[int]*mat.Material, pointLoads []PointLoadSpec, lineLoads []LineLoadSpec) (*Mesh, error) {
	return generate(polys, global, materials, pointLoads, lineLoads, false)
}

// GenerateT6 is GenerateT3 followed by midpoint-node promotion to 6-node
// quadratic triangles.
func GenerateT6(polys []Polygon, global Settings, materials map[int]*mat.Material, pointLoads []PointLoadSpec, lineLoads []LineLoadSpec) (*Mesh, error) {
	return generate(polys, global, materials, pointLoads, lineLoads, true)
}

func generate(polys []Polygon, global Settings, materials map[int]*mat.Material, pointLoads []PointLoadSpec, lineLoads []LineLoadSpec, quadratic bool) (*Mesh, error) {
	if len(polys) == 0 {
		return nil, fmt.Errorf("mesh: no regions given")
	}
	if materials != nil {
		for i, poly := range polys {
			if _, ok := materials[poly.MaterialID]; !ok {
				return nil, fmt.Errorf("mesh: polygon %d references unknown material id %d", i, poly.MaterialID)
			}
		}
	}
	g, err := buildPSLG(polys, global, pointLoads)
	if err != nil {
		return nil, err
	}

	// region seeds, carrying (attribute = region index, A_max = 0.5*mesh_size^2)
	seeds := make([]regionSeed, len(polys))
	for i, poly := range polys {
		ms := poly.MeshSize
		if ms <= 0 {
			ms = global.MeshSize
		}
		ip := geom.InteriorPoint(poly.Vertices, 1e-9)
		seeds[i] = regionSeed{p: ip, Amax: 0.5 * ms * ms}
	}

	order := sortedVertexOrder(len(g.verts))
	boundaryPts := make([]geom.Point, len(order))
	for i, idx := range order {
		boundaryPts[i] = g.verts[idx]
	}

	c := buildDelaunay(boundaryPts, nil)

	// area/quality refinement: insert circumcenters of triangles that
	// violate either the minimum-angle target or their region's A_max,
	// stopping at the element cap (spec §4.1 steps 3-4).
	cap := global.MaxElements
	if cap <= 0 {
		cap = DefaultMaxElements
	}
	for pass := 0; pass < 8*cap; pass++ {
		worst := -1
		for i, t := range c.tris {
			if c.isCover(t.v[0]) || c.isCover(t.v[1]) || c.isCover(t.v[2]) {
				continue
			}
			a, b, cc := c.pts[t.v[0]], c.pts[t.v[1]], c.pts[t.v[2]]
			area := geom.TriangleArea(a, b, cc)
			if area < 1e-12 {
				continue
			}
			centroid := geom.Centroid([]geom.Point{a, b, cc})
			amax := regionAmax(centroid, polys, seeds)
			needsRefine := c.minAngleDeg(t) < MinAngleDeg
			if amax > 0 && area > amax {
				needsRefine = true
			}
			if needsRefine {
				worst = i
				break
			}
		}
		if worst < 0 {
			break
		}
		if len(c.tris)-coverTriCount(c) >= cap {
			break
		}
		t := c.tris[worst]
		p := c.circumcenter(t)
		pi := len(c.pts)
		c.pts = append(c.pts, p)
		c.insert(pi)
	}
	c.removeSuperTriangle()

	// classify by region (centroid point-in-polygon) and drop triangles
	// outside every region, plus degenerate ones (spec §4.1 edge case).
	var elems []Element
	for _, t := range c.tris {
		tn := c.ccwOf(t)
		a, b, cc := c.pts[tn.v[0]], c.pts[tn.v[1]], c.pts[tn.v[2]]
		area := geom.TriangleArea(a, b, cc)
		if area < 1e-12 {
			continue
		}
		centroid := geom.Centroid([]geom.Point{a, b, cc})
		regionIdx := classify(centroid, polys)
		if regionIdx < 0 {
			continue
		}
		elems = append(elems, Element{
			Nodes:      []int{tn.v[0], tn.v[1], tn.v[2]},
			PolygonIdx: regionIdx,
			MaterialID: polys[regionIdx].MaterialID,
		})
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("mesh: no elements produced")
	}
	if len(elems) > cap {
		return nil, fmt.Errorf("mesh: element count %d exceeds cap %d", len(elems), cap)
	}

	nodes := make([]Node, len(c.pts))
	for i, p := range c.pts {
		nodes[i] = Node{X: p.X, Y: p.Y}
	}

	m := &Mesh{Nodes: nodes, Elements: elems}

	if quadratic {
		promoteToT6(m, c.pts)
	}

	tagBoundaries(m)
	m.PointLoadAssigns = ResolvePointLoads(m.Nodes, pointLoads)
	m.LineLoadAssigns = ResolveLineLoads(m, lineLoads)

	return m, nil
}

func coverTriCount(c *cdt) int {
	n := 0
	for _, t := range c.tris {
		if c.isCover(t.v[0]) || c.isCover(t.v[1]) || c.isCover(t.v[2]) {
			n++
		}
	}
	return n
}

// regionSeed is the interior representative point and area cap attached
// to one region (spec §4.1 step 3).
type regionSeed struct {
	p    geom.Point
	Amax float64
}

// regionAmax returns the A_max of the region containing p, or 0 (no cap)
// if p lies in none.
func regionAmax(p geom.Point, polys []Polygon, seeds []regionSeed) float64 {
	idx := classify(p, polys)
	if idx < 0 {
		return 0
	}
	return seeds[idx].Amax
}

// classify returns the index of the region containing p, or -1.
func classify(p geom.Point, polys []Polygon) int {
	for i, poly := range polys {
		if geom.PointInPolygon(p, poly.Vertices, 1e-7) {
			return i
		}
	}
	return -1
}

// midKey rounds an edge's midpoint coordinate the same way buildPSLG
// dedups vertices, so shared edges between adjacent T3 triangles promote
// to the same midpoint node.
func midKey(a, b geom.Point) [2]int64 {
	mid := geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return roundKey(mid)
}

// promoteToT6 adds one midpoint node per unique triangle edge and expands
// every element's node list to the 6-node (corners + 12,23,31 midpoints)
// ordering of spec §4.2.
func promoteToT6(m *Mesh, pts []geom.Point) {
	midIdx := make(map[[2]int64]int)
	getMid := func(ia, ib int) int {
		a, b := m.nodeCoord(ia), m.nodeCoord(ib)
		k := midKey(a, b)
		if idx, ok := midIdx[k]; ok {
			return idx
		}
		idx := len(m.Nodes)
		m.Nodes = append(m.Nodes, Node{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
		midIdx[k] = idx
		return idx
	}
	for i, e := range m.Elements {
		n1, n2, n3 := e.Nodes[0], e.Nodes[1], e.Nodes[2]
		m12 := getMid(n1, n2)
		m23 := getMid(n2, n3)
		m31 := getMid(n3, n1)
		m.Elements[i].Nodes = []int{n1, n2, n3, m12, m23, m31}
	}
}

func (m *Mesh) nodeCoord(i int) geom.Point {
	return geom.Point{X: m.Nodes[i].X, Y: m.Nodes[i].Y}
}

// tagBoundaries classifies full-fixed (y = y_min) and roller-x (x = x_min
// or x_max) nodes, per spec §4.1 step 6. Only nodes referenced by an
// element are considered, so the leftover super-triangle corners and
// Steiner points outside every region neither set the extents nor get
// tagged.
func tagBoundaries(m *Mesh) {
	used := make([]bool, len(m.Nodes))
	for _, e := range m.Elements {
		for _, n := range e.Nodes {
			used[n] = true
		}
	}
	minX, maxX, minY := math.Inf(1), math.Inf(-1), math.Inf(1)
	for i, n := range m.Nodes {
		if !used[i] {
			continue
		}
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
	}
	for i, n := range m.Nodes {
		if !used[i] {
			continue
		}
		if math.Abs(n.Y-minY) <= BCTol {
			m.FullFixed = append(m.FullFixed, i)
		}
		if math.Abs(n.X-minX) <= BCTol || math.Abs(n.X-maxX) <= BCTol {
			m.RollerX = append(m.RollerX, i)
		}
	}
}

