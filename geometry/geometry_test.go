package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	points := []Point{
		NewPoint(0, 0),
		NewPoint(3, 4),
		NewPoint(-6, 22),
		NewPoint(18.5, -3.25),
	}
	for _, a := range points {
		assert.Zero(t, Distance(a, a))
		for _, b := range points {
			assert.Equal(t, Distance(a, b), Distance(b, a))
			assert.GreaterOrEqual(t, Distance(a, b), 0.0)
		}
	}
	assert.InDelta(t, 5.0, Distance(NewPoint(0, 0), NewPoint(3, 4)), 1e-12)
	assert.InDelta(t, 5.0, NewPoint(3, 4).Length(), 1e-12)
}

func TestPointArithmetic(t *testing.T) {
	p := NewPoint(1, 2)
	q := NewPoint(4, 6)

	assert.Equal(t, NewPoint(5, 8), p.Add(q))
	assert.Equal(t, NewPoint(3, 4), q.Sub(p))
	assert.Equal(t, NewPoint(2, 4), p.Scale(2))

	r := NewPoint(1, 0).Rotate(90)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 1, r.Y, 1e-12)
}

func TestDistanceToLine(t *testing.T) {
	s := NewSegment(NewPoint(0, 0), NewPoint(10, 0))
	assert.InDelta(t, 3.0, DistanceToLine(NewPoint(5, 3), s), 1e-12)
	// the line is unbounded, points past the endpoints keep the perpendicular distance
	assert.InDelta(t, 3.0, DistanceToLine(NewPoint(50, -3), s), 1e-12)
}

func TestDistanceToSegment(t *testing.T) {
	s := NewSegment(NewPoint(0, 0), NewPoint(10, 0))
	assert.InDelta(t, 3.0, DistanceToSegment(NewPoint(5, 3), s), 1e-12)
	assert.InDelta(t, 5.0, DistanceToSegment(NewPoint(13, 4), s), 1e-12)
	assert.InDelta(t, 5.0, DistanceToSegment(NewPoint(-3, -4), s), 1e-12)
}

func TestIsInRect(t *testing.T) {
	c1 := NewPoint(18, 40)
	c2 := NewPoint(30, 37)
	inside := NewPoint(24, 38)

	assert.True(t, IsInRect(inside, c1, c2))
	assert.True(t, IsInRect(inside, c2, c1))
	assert.True(t, IsInRect(NewPoint(18, 37), c1, c2), "borders are inside")
	assert.False(t, IsInRect(NewPoint(24, 41), c1, c2))
	assert.False(t, IsInRect(NewPoint(17.9, 38), c1, c2))

	// a degenerate rectangle still contains the points on it
	assert.True(t, IsInRect(NewPoint(5, 0), NewPoint(0, 0), NewPoint(10, 0)))
}

func TestSegmentOverlapSharedEndpoint(t *testing.T) {
	a := NewSegment(NewPoint(0, 0), NewPoint(1, 0))
	b := NewSegment(NewPoint(1, 0), NewPoint(1, 1))

	o := SegmentOverlap(a, b)
	require.True(t, o.Defined)
	assert.True(t, o.Touches)
	assert.InDelta(t, 1.0, o.T, 1e-12)
	assert.InDelta(t, 0.0, o.U, 1e-12)

	o = SegmentOverlap(b, a)
	require.True(t, o.Defined)
	assert.True(t, o.Touches)
	assert.InDelta(t, 0.0, o.T, 1e-12)
	assert.InDelta(t, 1.0, o.U, 1e-12)
}

func TestSegmentOverlapParallel(t *testing.T) {
	a := NewSegment(NewPoint(0, 0), NewPoint(10, 0))
	b := NewSegment(NewPoint(0, 1), NewPoint(10, 1))

	o := SegmentOverlap(a, b)
	assert.False(t, o.Defined)
	assert.False(t, o.Touches)

	// collinear segments are degenerate as well
	c := NewSegment(NewPoint(5, 0), NewPoint(15, 0))
	o = a.Overlap(c)
	assert.False(t, o.Defined)
	assert.False(t, o.Touches)
}

func TestSegmentOverlapCrossing(t *testing.T) {
	ray := NewSegment(NewPoint(0, 0), NewPoint(0, 3))
	wall := NewSegment(NewPoint(-6, 22), NewPoint(18, 22))

	o := ray.Overlap(wall)
	require.True(t, o.Defined)
	assert.False(t, o.Touches, "the wall is beyond the ray end")
	assert.InDelta(t, 22.0/3.0, o.T, 1e-12)
	assert.InDelta(t, 0.25, o.U, 1e-12)
	assert.InDelta(t, 0, Distance(ray.At(o.T), wall.At(o.U)), 1e-9)

	short := NewSegment(NewPoint(-1, 2), NewPoint(1, 2))
	o = ray.Overlap(short)
	require.True(t, o.Defined)
	assert.True(t, o.Touches)
	assert.InDelta(t, 2.0/3.0, o.T, 1e-12)
	assert.InDelta(t, 0.5, o.U, 1e-12)
}

func TestAngles(t *testing.T) {
	assert.InDelta(t, math.Pi/2, Radians(90), 1e-12)
	assert.InDelta(t, 270.0, Degrees(3*math.Pi/2), 1e-12)
}
