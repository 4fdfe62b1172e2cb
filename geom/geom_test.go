package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsetzer/codingame-fall-2024/geom"
)

func pt(x, y int) geom.Point { return geom.Point{X: x, Y: y} }

func TestOrient(t *testing.T) {
	cases := []struct {
		name    string
		p, q, r geom.Point
		want    geom.Orientation
	}{
		{"collinear horizontal", pt(0, 0), pt(1, 0), pt(5, 0), geom.Collinear},
		{"right turn", pt(0, 0), pt(1, 1), pt(2, 0), geom.Clockwise},
		{"left turn", pt(0, 0), pt(1, 0), pt(1, 1), geom.CounterClockwise},
		{"degenerate point", pt(3, 3), pt(3, 3), pt(3, 3), geom.Collinear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geom.Orient(tc.p, tc.q, tc.r))
		})
	}
}

func TestOrient_LargeCoordinatesDoNotOverflow(t *testing.T) {
	// 2^31-scale products would overflow int32 arithmetic.
	p := pt(0, 0)
	q := pt(1<<30, 1)
	r := pt(0, 1<<30)
	assert.Equal(t, geom.CounterClockwise, geom.Orient(p, q, r))
}

func TestOnSegment(t *testing.T) {
	assert.True(t, geom.OnSegment(pt(0, 0), pt(2, 2), pt(4, 4)))
	assert.True(t, geom.OnSegment(pt(4, 4), pt(4, 4), pt(0, 0)), "endpoint is inside the box")
	assert.False(t, geom.OnSegment(pt(0, 0), pt(5, 5), pt(4, 4)))
}

func TestSegmentsIntersect(t *testing.T) {
	cases := []struct {
		name       string
		a, b, c, d geom.Point
		want       bool
	}{
		{"proper cross", pt(0, 0), pt(10, 10), pt(0, 10), pt(10, 0), true},
		{"parallel", pt(0, 0), pt(10, 0), pt(0, 1), pt(10, 1), false},
		{"disjoint collinear", pt(0, 0), pt(2, 0), pt(3, 0), pt(5, 0), false},
		{"overlapping collinear", pt(0, 0), pt(4, 0), pt(2, 0), pt(6, 0), true},
		{"shared endpoint", pt(0, 0), pt(5, 5), pt(5, 5), pt(10, 0), true},
		{"T junction", pt(0, 0), pt(10, 0), pt(5, 0), pt(5, 5), true},
		{"miss", pt(0, 0), pt(1, 1), pt(3, 0), pt(4, -5), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geom.SegmentsIntersect(tc.a, tc.b, tc.c, tc.d))
			// Symmetric in segment order and in endpoint order.
			assert.Equal(t, tc.want, geom.SegmentsIntersect(tc.c, tc.d, tc.a, tc.b))
			assert.Equal(t, tc.want, geom.SegmentsIntersect(tc.b, tc.a, tc.d, tc.c))
		})
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, geom.Distance(pt(0, 0), pt(3, 4)), 1e-12)
	assert.Zero(t, geom.Distance(pt(7, 7), pt(7, 7)))
}

func TestOrientationString(t *testing.T) {
	assert.Equal(t, "clockwise", geom.Clockwise.String())
	assert.Equal(t, "unknown", geom.Orientation(42).String())
}
