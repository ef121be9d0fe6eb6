// Package physics provides collision predicates and distance utilities.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle reports whether a point lies strictly within radius of a center.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) < radius*radius
}

// PointInRect reports whether a point lies strictly inside the box with top-left (x,y).
// Points on an edge do not count.
func PointInRect(px, py, x, y, w, h float64) bool {
	return px > x && px < x+w && py > y && py < y+h
}

// WithinSquare reports whether two points are closer than tolerance on both axes.
func WithinSquare(ax, ay, bx, by, tolerance float64) bool {
	return math.Abs(ax-bx) < tolerance && math.Abs(ay-by) < tolerance
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
