package core

import (
	"math"
	"slices"

	"github.com/signalsfoundry/search-planner/model"
)

// distance returns the straight-line distance between two points.
func distance(a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// finite reports whether every coordinate of p is a real number.
func finite(p model.Point) bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FiniteWaypoints reports whether no waypoint carries a NaN or infinite
// coordinate.
func FiniteWaypoints(wps []model.Waypoint) bool {
	for _, wp := range wps {
		if !finite(wp.Position) {
			return false
		}
	}
	return true
}

// SignedArea returns the shoelace area of the polygon in the XY plane.
// It is positive for counter-clockwise winding.
func SignedArea(polygon []model.Point) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		p := polygon[i]
		q := polygon[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// NormalizeWinding returns the polygon in counter-clockwise order, the
// winding under which the interior lies on the left of every edge. The
// input is never modified.
func NormalizeWinding(polygon []model.Point) []model.Point {
	out := slices.Clone(polygon)
	if SignedArea(out) < 0 {
		slices.Reverse(out)
	}
	return out
}

// reversed returns a reversed copy of s.
func reversed[T any](s []T) []T {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
