// Package geom provides the planar predicates used to keep the link network
// free of crossings: orientation of an ordered point triple, bounding-box
// containment, and the classic orientation-based segment intersection test.
//
// All predicates work on integer coordinates and evaluate the cross product in
// int64, so they are exact (no floating-point tolerance is involved).
//
// Complexity: every function is O(1).
package geom

import "math"

// Point is a station position on the integer grid.
type Point struct {
	X int
	Y int
}

// Orientation classifies the turn made by an ordered triple (p, q, r).
type Orientation int

const (
	// Collinear means p, q and r lie on one line.
	Collinear Orientation = iota

	// Clockwise means p→q→r turns right (positive cross value).
	Clockwise

	// CounterClockwise means p→q→r turns left (negative cross value).
	CounterClockwise
)

// String returns a short lower-case name for o.
func (o Orientation) String() string {
	switch o {
	case Collinear:
		return "collinear"
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return "unknown"
	}
}

// Orient returns the orientation of (p, q, r) from the sign of
//
//	(q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
func Orient(p, q, r Point) Orientation {
	val := int64(q.Y-p.Y)*int64(r.X-q.X) - int64(q.X-p.X)*int64(r.Y-q.Y)
	switch {
	case val == 0:
		return Collinear
	case val > 0:
		return Clockwise
	default:
		return CounterClockwise
	}
}

// OnSegment reports whether q lies inside the axis-aligned bounding box of
// p and r. It is only meaningful once p, q, r are known to be collinear.
func OnSegment(p, q, r Point) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}

// SegmentsIntersect reports whether the closed segments ab and cd share at
// least one point. Touching at an endpoint counts as an intersection.
//
// General case: the endpoints of each segment lie on opposite sides of the
// other. Special cases: a collinear endpoint that lies on the other segment.
func SegmentsIntersect(a, b, c, d Point) bool {
	o1 := Orient(a, b, c)
	o2 := Orient(a, b, d)
	o3 := Orient(c, d, a)
	o4 := Orient(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == Collinear && OnSegment(a, c, b) {
		return true
	}
	if o2 == Collinear && OnSegment(a, d, b) {
		return true
	}
	if o3 == Collinear && OnSegment(c, a, d) {
		return true
	}
	if o4 == Collinear && OnSegment(c, b, d) {
		return true
	}

	return false
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}
