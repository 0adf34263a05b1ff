// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_triangle_area01(tst *testing.T) {
	chk.PrintTitle("triangle_area01")
	a := Point{0, 0}
	b := Point{4, 0}
	c := Point{0, 3}
	chk.Scalar(tst, "area", 1e-15, TriangleArea(a, b, c), 6.0)
	chk.Scalar(tst, "signed area (ccw)", 1e-15, SignedArea2(a, b, c), 12.0)
}

func Test_point_in_triangle01(tst *testing.T) {
	chk.PrintTitle("point_in_triangle01")
	a := Point{0, 0}
	b := Point{4, 0}
	c := Point{0, 4}
	if !PointInTriangle(Point{1, 1}, a, b, c, 1e-9) {
		tst.Errorf("expected (1,1) inside triangle")
	}
	if PointInTriangle(Point{3, 3}, a, b, c, 1e-9) {
		tst.Errorf("expected (3,3) outside triangle")
	}
}

func Test_point_in_polygon01(tst *testing.T) {
	chk.PrintTitle("point_in_polygon01")
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !PointInPolygon(Point{5, 5}, square, 1e-9) {
		tst.Errorf("center should be inside")
	}
	if PointInPolygon(Point{15, 5}, square, 1e-9) {
		tst.Errorf("(15,5) should be outside")
	}
	if !PointInPolygon(Point{0, 5}, square, 1e-6) {
		tst.Errorf("boundary point should count as inside")
	}
}

func Test_polyline01(tst *testing.T) {
	chk.PrintTitle("polyline01")
	pl, err := NewPolyline([]Point{{0, 5}, {10, 5}, {20, 0}})
	if err != nil {
		tst.Errorf("unexpected error: %v", err)
		return
	}
	chk.Scalar(tst, "below range clamps", 1e-15, pl.Eval(-5), 5.0)
	chk.Scalar(tst, "above range clamps", 1e-15, pl.Eval(30), 0.0)
	chk.Scalar(tst, "midpoint interpolates", 1e-15, pl.Eval(15), 2.5)
}

func Test_centroid01(tst *testing.T) {
	chk.PrintTitle("centroid01")
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	c := Centroid(square)
	chk.Scalar(tst, "centroid x", 1e-12, c.X, 5.0)
	chk.Scalar(tst, "centroid y", 1e-12, c.Y, 5.0)
}
