// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdPoint is one mesh node wrapped as a kdtree.Comparable, carrying its
// node id so nearest-neighbour queries can report it back.
type kdPoint struct {
	x, y float64
	id   int
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	}
	panic("mesh: illegal kdtree dimension")
}

func (p kdPoint) Dims() int { return 2 }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	return math.Hypot(p.x-q.x, p.y-q.y)
}

// kdPoints is the node collection adapted to kdtree.Interface.
type kdPoints []kdPoint

func (ps kdPoints) Index(i int) kdtree.Comparable { return ps[i] }
func (ps kdPoints) Len() int                      { return len(ps) }
func (ps kdPoints) Slice(start, end int) kdtree.Interface { return ps[start:end] }

// Pivot partitions ps along dimension d and returns the median index, per
// the kdtree.Interface contract. A full sort is used rather than a
// quickselect partition since the mesh node counts this solver targets
// (≈ DefaultMaxElements nodes) make the simpler implementation adequate.
func (ps kdPoints) Pivot(d kdtree.Dim) int {
	sort.Slice(ps, func(i, j int) bool {
		switch d {
		case 0:
			return ps[i].x < ps[j].x
		case 1:
			return ps[i].y < ps[j].y
		}
		return false
	})
	return len(ps) / 2
}

// ResolvePointLoads assigns each point load to its nearest mesh node via a
// k-d tree nearest-neighbour query (spec §4.1 step 7).
func ResolvePointLoads(nodes []Node, pointLoads []PointLoadSpec) []PointLoadAssignment {
	if len(nodes) == 0 || len(pointLoads) == 0 {
		return nil
	}
	pts := make(kdPoints, len(nodes))
	for i, n := range nodes {
		pts[i] = kdPoint{x: n.X, y: n.Y, id: i}
	}
	tree := kdtree.New(pts, false)
	out := make([]PointLoadAssignment, 0, len(pointLoads))
	for _, pl := range pointLoads {
		q := kdPoint{x: pl.X, y: pl.Y}
		nearest, _ := tree.Nearest(q)
		kp := nearest.(kdPoint)
		out = append(out, PointLoadAssignment{PointLoadID: pl.ID, NodeID: kp.id})
	}
	return out
}

// ResolveLineLoads matches each line load to every element edge whose two
// corner nodes lie on the load's segment, recording the ordered node
// triple (corner, corner, midpoint) for T6 parabolic distribution (spec
// §4.1 step 7, §4.7). T3 edges record only their two corner nodes, since
// the parabolic weighting only applies to T6 edges (the Open Question decision in
// DESIGN.md reduces T3 line loads to their two corner nodes with equal
// tributary-length weighting at the solver layer).
func ResolveLineLoads(m *Mesh, lineLoads []LineLoadSpec) []LineLoadAssignment {
	const tol = 1e-6
	var out []LineLoadAssignment
	for _, ll := range lineLoads {
		x1, y1, x2, y2 := ll.X1, ll.Y1, ll.X2, ll.Y2
		for ei, e := range m.Elements {
			edges := elementEdges(e)
			for _, edge := range edges {
				a, b := m.nodeCoord(edge[0]), m.nodeCoord(edge[1])
				if pointOnSegment(a.X, a.Y, x1, y1, x2, y2, tol) && pointOnSegment(b.X, b.Y, x1, y1, x2, y2, tol) {
					nodes := []int{edge[0], edge[1]}
					if len(edge) == 3 {
						nodes = append(nodes, edge[2])
					}
					out = append(out, LineLoadAssignment{LineLoadID: ll.ID, ElementIdx: ei, EdgeNodes: nodes})
				}
			}
		}
	}
	return out
}

// elementEdges returns the corner-node pairs (plus midpoint, for T6) of
// each of the three edges of e, in (1-2, 2-3, 3-1) order.
func elementEdges(e Element) [][]int {
	n := e.Nodes
	if len(n) == 6 {
		return [][]int{
			{n[0], n[1], n[3]},
			{n[1], n[2], n[4]},
			{n[2], n[0], n[5]},
		}
	}
	return [][]int{
		{n[0], n[1]},
		{n[1], n[2]},
		{n[2], n[0]},
	}
}

func pointOnSegment(px, py, x1, y1, x2, y2, tol float64) bool {
	vx, vy := x2-x1, y2-y1
	wx, wy := px-x1, py-y1
	L2 := vx*vx + vy*vy
	if L2 < 1e-18 {
		return math.Hypot(wx, wy) <= tol
	}
	t := (wx*vx + wy*vy) / L2
	if t < -tol || t > 1+tol {
		return false
	}
	cx, cy := x1+t*vx, y1+t*vy
	return math.Hypot(px-cx, py-cy) <= tol
}
