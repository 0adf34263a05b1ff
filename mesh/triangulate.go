// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/terrafem/geom"
)

// tri is one triangle of the working triangulation, referencing vertex
// indices into the shared point list. Vertex order is not guaranteed CCW
// during incremental insertion; callers normalize via ccwOf() when needed.
type tri struct {
	v [3]int
}

// cdt is the incremental-insertion Delaunay triangulator: it owns the
// shared point list (PSLG vertices, then the three super-triangle corners,
// then any later-inserted points) and the current triangle list. The
// insertion/legalization pipeline follows the Build() shape of the
// retrieval pack's gomesh cdt-builder.go reference file (seed cover,
// incremental insert, implicit legalization via circumcircle retest,
// classify-and-remove-cover at the end).
type cdt struct {
	pts      []geom.Point
	tris     []tri
	coverIdx [3]int // indices of the three super-triangle corners
}

// isCover reports whether vertex index i is one of the three super-triangle
// corners.
func (c *cdt) isCover(i int) bool {
	return i == c.coverIdx[0] || i == c.coverIdx[1] || i == c.coverIdx[2]
}

const coverMargin = 0.5 // 50% margin around the bounding box, matching the reference Build()'s DefaultBuildOptions

func newCDT(boundaryPts []geom.Point) *cdt {
	c := &cdt{pts: append([]geom.Point(nil), boundaryPts...)}
	minX, minY := boundaryPts[0].X, boundaryPts[0].Y
	maxX, maxY := minX, minY
	for _, p := range boundaryPts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	dx, dy := maxX-minX, maxY-minY
	if dx < 1e-9 {
		dx = 1
	}
	if dy < 1e-9 {
		dy = 1
	}
	d := math.Max(dx, dy) * (2 + coverMargin)
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	base := len(c.pts)
	c.coverIdx = [3]int{base, base + 1, base + 2}
	c.pts = append(c.pts,
		geom.Point{X: cx - 2*d, Y: cy - d},
		geom.Point{X: cx + 2*d, Y: cy - d},
		geom.Point{X: cx, Y: cy + 2*d},
	)
	c.tris = []tri{{v: c.coverIdx}}
	return c
}

// insert adds point index pi (already present in c.pts) via Bowyer-Watson:
// remove every triangle whose circumcircle contains the point, then
// re-triangulate the resulting star-shaped cavity.
func (c *cdt) insert(pi int) {
	p := c.pts[pi]
	bad := make([]bool, len(c.tris))
	anyBad := false
	for i, t := range c.tris {
		if c.inCircumcircle(t, p) {
			bad[i] = true
			anyBad = true
		}
	}
	if !anyBad {
		return
	}
	// boundary of the cavity: edges that belong to exactly one bad triangle
	type edge struct{ a, b int }
	count := make(map[edge]int)
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		count[edge{a, b}]++
	}
	for i, t := range c.tris {
		if !bad[i] {
			continue
		}
		add(t.v[0], t.v[1])
		add(t.v[1], t.v[2])
		add(t.v[2], t.v[0])
	}
	var boundary [][2]int
	for i, t := range c.tris {
		if !bad[i] {
			continue
		}
		es := [3][2]int{{t.v[0], t.v[1]}, {t.v[1], t.v[2]}, {t.v[2], t.v[0]}}
		for _, e := range es {
			a, b := e[0], e[1]
			k := edge{a, b}
			if a > b {
				k = edge{b, a}
			}
			if count[k] == 1 {
				boundary = append(boundary, [2]int{a, b})
			}
		}
	}
	newTris := c.tris[:0:0]
	for i, t := range c.tris {
		if !bad[i] {
			newTris = append(newTris, t)
		}
	}
	for _, e := range boundary {
		newTris = append(newTris, tri{v: [3]int{e[0], e[1], pi}})
	}
	c.tris = newTris
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of
// triangle t, using the standard determinant predicate.
func (c *cdt) inCircumcircle(t tri, p geom.Point) bool {
	a, b, cc := c.pts[t.v[0]], c.pts[t.v[1]], c.pts[t.v[2]]
	// ensure CCW orientation for the determinant sign convention
	if geom.SignedArea2(a, b, cc) < 0 {
		b, cc = cc, b
	}
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := cc.X-p.X, cc.Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 1e-12
}

// removeSuperTriangle drops every triangle touching one of the three cover
// vertices, per the reference Build()'s "remove cover vertices" step.
func (c *cdt) removeSuperTriangle() {
	out := c.tris[:0:0]
	for _, t := range c.tris {
		if c.isCover(t.v[0]) || c.isCover(t.v[1]) || c.isCover(t.v[2]) {
			continue
		}
		out = append(out, t)
	}
	c.tris = out
}

// ccwOf reorders t's vertices to counter-clockwise winding.
func (c *cdt) ccwOf(t tri) tri {
	a, b, cc := c.pts[t.v[0]], c.pts[t.v[1]], c.pts[t.v[2]]
	if geom.SignedArea2(a, b, cc) < 0 {
		return tri{v: [3]int{t.v[0], t.v[2], t.v[1]}}
	}
	return t
}

// circumcenter returns the circumcenter of triangle t, used for Steiner
// point placement during area/quality refinement.
func (c *cdt) circumcenter(t tri) geom.Point {
	a, b, cc := c.pts[t.v[0]], c.pts[t.v[1]], c.pts[t.v[2]]
	d := 2 * (a.X*(b.Y-cc.Y) + b.X*(cc.Y-a.Y) + cc.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-14 {
		return geom.Centroid([]geom.Point{a, b, cc})
	}
	ux := ((a.X*a.X+a.Y*a.Y)*(b.Y-cc.Y) + (b.X*b.X+b.Y*b.Y)*(cc.Y-a.Y) + (cc.X*cc.X+cc.Y*cc.Y)*(a.Y-b.Y)) / d
	uy := ((a.X*a.X+a.Y*a.Y)*(cc.X-b.X) + (b.X*b.X+b.Y*b.Y)*(a.X-cc.X) + (cc.X*cc.X+cc.Y*cc.Y)*(b.X-a.X)) / d
	return geom.Point{X: ux, Y: uy}
}

// minAngleDeg returns the smallest interior angle of t, in degrees.
func (c *cdt) minAngleDeg(t tri) float64 {
	a, b, cc := c.pts[t.v[0]], c.pts[t.v[1]], c.pts[t.v[2]]
	ang := func(p, q, r geom.Point) float64 {
		u := geom.Point{X: q.X - p.X, Y: q.Y - p.Y}
		v := geom.Point{X: r.X - p.X, Y: r.Y - p.Y}
		cosv := u.Dot(v) / (math.Hypot(u.X, u.Y) * math.Hypot(v.X, v.Y))
		cosv = math.Max(-1, math.Min(1, cosv))
		return math.Acos(cosv) * 180 / math.Pi
	}
	return math.Min(ang(a, b, cc), math.Min(ang(b, cc, a), ang(cc, a, b)))
}

// buildDelaunay triangulates the given point set (boundary + interior
// vertices, inserted in the supplied order) and returns the cdt with the
// super-triangle still attached.
func buildDelaunay(boundaryPts []geom.Point, extraPts []geom.Point) *cdt {
	c := newCDT(boundaryPts)
	n := len(boundaryPts)
	for i := 0; i < n; i++ {
		c.insert(i)
	}
	for _, p := range extraPts {
		pi := len(c.pts)
		c.pts = append(c.pts, p)
		// extra points are always appended after the three fixed cover
		// vertices recorded in c.coverIdx, so pi can never collide with them;
		// guard kept for safety since insert() trusts the index blindly.
		if c.isCover(pi) {
			chk.Panic("mesh: internal error, extra point index collides with cover vertices")
		}
		c.insert(pi)
	}
	return c
}
