// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the geometry primitives and predicates used by
// the mesh generator and element kernels: point-in-polygon and
// point-in-triangle tests, segment lengths, triangle areas and the
// water-level polyline sampler.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tol is the default tolerance used by the coincidence/clamping predicates
// in this package.
const Tol = 1e-9

// Point is a 2-D coordinate pair.
type Point struct {
	X, Y float64
}

// Sub returns a-b.
func (a Point) Sub(b Point) Point { return Point{a.X - b.X, a.Y - b.Y} }

// Dot returns the dot product of a and b.
func (a Point) Dot(b Point) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z-component of a × b (both treated as 3-D vectors with z=0).
func (a Point) Cross(b Point) float64 { return a.X*b.Y - a.Y*b.X }

// Length returns the Euclidean distance between a and b.
func Length(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// SignedArea2 returns twice the signed area of the triangle (a,b,c); positive
// for a counter-clockwise ordering.
func SignedArea2(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// TriangleArea returns the (unsigned) area of the triangle (a,b,c).
func TriangleArea(a, b, c Point) float64 {
	return math.Abs(SignedArea2(a, b, c)) / 2
}

// PointInTriangle reports whether p lies inside (or on the boundary, within
// tol) of the triangle (a,b,c), regardless of winding.
func PointInTriangle(p, a, b, c Point, tol float64) bool {
	d1 := SignedArea2(p, a, b)
	d2 := SignedArea2(p, b, c)
	d3 := SignedArea2(p, c, a)
	hasNeg := d1 < -tol || d2 < -tol || d3 < -tol
	hasPos := d1 > tol || d2 > tol || d3 > tol
	return !(hasNeg && hasPos)
}

// PointInPolygon reports whether p lies inside the simple polygon verts
// (CCW or CW, either winding) using a ray-casting test. Points exactly on an
// edge are treated as inside within tol.
func PointInPolygon(p Point, verts []Point, tol float64) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	if onBoundary(p, verts, tol) {
		return true
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := verts[i], verts[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xInt := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xInt {
				inside = !inside
			}
		}
	}
	return inside
}

// onBoundary reports whether p lies on one of the polygon's edges within tol.
func onBoundary(p Point, verts []Point, tol float64) bool {
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if distToSegment(p, verts[j], verts[i]) <= tol {
			return true
		}
	}
	return false
}

func distToSegment(p, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y
	L2 := vx*vx + vy*vy
	if L2 < Tol {
		return math.Hypot(wx, wy)
	}
	t := (wx*vx + wy*vy) / L2
	t = math.Max(0, math.Min(1, t))
	px, py := a.X+t*vx, a.Y+t*vy
	return math.Hypot(p.X-px, p.Y-py)
}

// Centroid returns the area-weighted centroid of a simple polygon. Falls
// back to the vertex average for degenerate (near-zero-area) polygons.
func Centroid(verts []Point) Point {
	n := len(verts)
	if n == 0 {
		return Point{}
	}
	var A, cx, cy float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		cross := verts[j].X*verts[i].Y - verts[i].X*verts[j].Y
		A += cross
		cx += (verts[j].X + verts[i].X) * cross
		cy += (verts[j].Y + verts[i].Y) * cross
	}
	A /= 2
	if math.Abs(A) < 1e-12 {
		var ax, ay float64
		for _, v := range verts {
			ax += v.X
			ay += v.Y
		}
		return Point{ax / float64(n), ay / float64(n)}
	}
	return Point{cx / (6 * A), cy / (6 * A)}
}

// InteriorPoint returns a point inside the (possibly non-convex) simple
// polygon verts. It tries the centroid first and falls back to a
// horizontal-scanline search through the polygon's bounding box, as the
// source mesh generator does for non-convex regions. If no scanline
// midpoint tests inside, it returns the bounding-box centre, which is not
// checked against the polygon.
func InteriorPoint(verts []Point, tol float64) Point {
	c := Centroid(verts)
	if PointInPolygon(c, verts, -tol) {
		return c
	}
	minY, maxY := verts[0].Y, verts[0].Y
	minX, maxX := verts[0].X, verts[0].X
	for _, v := range verts {
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
	}
	const scans = 64
	for i := 1; i < scans; i++ {
		y := minY + (maxY-minY)*float64(i)/float64(scans)
		xs := scanlineCrossings(verts, y)
		for k := 0; k+1 < len(xs); k += 2 {
			mid := (xs[k] + xs[k+1]) / 2
			p := Point{mid, y}
			if PointInPolygon(p, verts, -tol) {
				return p
			}
		}
	}
	return Point{(minX + maxX) / 2, (minY + maxY) / 2}
}

func scanlineCrossings(verts []Point, y float64) []float64 {
	n := len(verts)
	var xs []float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := verts[i], verts[j]
		if (vi.Y > y) != (vj.Y > y) {
			xInt := (vj.X-vi.X)*(y-vi.Y)/(vj.Y-vi.Y) + vi.X
			xs = append(xs, xInt)
		}
	}
	floats.Sort(xs)
	return xs
}

// Polyline is an ordered sequence of (x,y) pairs with strictly increasing x,
// used for water-table levels. It evaluates by linear interpolation and
// clamps to the nearest endpoint outside its domain.
type Polyline struct {
	Pts []Point
}

// NewPolyline builds a Polyline, validating strictly increasing x.
func NewPolyline(pts []Point) (Polyline, error) {
	for i := 1; i < len(pts); i++ {
		if pts[i].X <= pts[i-1].X {
			return Polyline{}, errNonIncreasing
		}
	}
	return Polyline{Pts: pts}, nil
}

var errNonIncreasing = &polylineError{"water-level polyline x-coordinates must strictly increase"}

type polylineError struct{ msg string }

func (e *polylineError) Error() string { return e.msg }

// Eval returns the interpolated y at the given x, clamping to the nearest
// endpoint when x falls outside the polyline's domain. An empty polyline
// evaluates to 0.
func (p Polyline) Eval(x float64) float64 {
	n := len(p.Pts)
	if n == 0 {
		return 0
	}
	if n == 1 || x <= p.Pts[0].X {
		return p.Pts[0].Y
	}
	if x >= p.Pts[n-1].X {
		return p.Pts[n-1].Y
	}
	for i := 1; i < n; i++ {
		if x <= p.Pts[i].X {
			a, b := p.Pts[i-1], p.Pts[i]
			t := (x - a.X) / (b.X - a.X)
			return a.Y + t*(b.Y-a.Y)
		}
	}
	return p.Pts[n-1].Y
}
