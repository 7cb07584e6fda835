package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance under which the determinant of two segments
// is treated as zero (parallel or collinear lines).
const Epsilon = 1e-10

// Point is a 2D coordinate
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec(p)
}

func (p Point) Add(o Point) Point {
	return Point(r2.Add(p.vec(), o.vec()))
}

// Sub returns the displacement from o to p
func (p Point) Sub(o Point) Point {
	return Point(r2.Sub(p.vec(), o.vec()))
}

func (p Point) Scale(f float64) Point {
	return Point(r2.Scale(f, p.vec()))
}

func (p Point) Length() float64 {
	return r2.Norm(p.vec())
}

func (p Point) Dist(o Point) float64 {
	return Distance(p, o)
}

// Rotate returns p rotated counter clockwise around the origin by deg degrees
func (p Point) Rotate(deg float64) Point {
	return Point(r2.Rotate(p.vec(), Radians(deg), r2.Vec{}))
}

func (p Point) IsInRect(c1, c2 Point) bool {
	return IsInRect(p, c1, c2)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}

// Segment is an ordered pair of points, used both for walls and sensor rays
type Segment struct {
	P1 Point `json:"p1" yaml:"p1"`
	P2 Point `json:"p2" yaml:"p2"`
}

func NewSegment(p1, p2 Point) Segment {
	return Segment{P1: p1, P2: p2}
}

func (s Segment) Length() float64 {
	return Distance(s.P1, s.P2)
}

// Direction is the (unnormalized) vector from P1 to P2
func (s Segment) Direction() Point {
	return s.P2.Sub(s.P1)
}

// At returns the point P1 + t*(P2-P1)
func (s Segment) At(t float64) Point {
	return s.P1.Add(s.Direction().Scale(t))
}

func (s Segment) Overlap(o Segment) Overlap {
	return SegmentOverlap(s, o)
}

func (s Segment) DistanceToLine(p Point) float64 {
	return DistanceToLine(p, s)
}

func (s Segment) DistanceToSegment(p Point) float64 {
	return DistanceToSegment(p, s)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s-%s", s.P1, s.P2)
}

// Overlap is the parametric intersection of two segments a and b, treated as
// infinite lines: a.P1 + T*(a.P2-a.P1) == b.P1 + U*(b.P2-b.P1).
// T and U are meaningful only when Defined is true.
type Overlap struct {
	Touches bool
	T       float64
	U       float64
	Defined bool
}

// Distance returns the euclidean distance between a and b
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through s. It is not bounded by the segment endpoints.
func DistanceToLine(p Point, s Segment) float64 {
	l := s.Length()
	if l == 0 {
		return Distance(p, s.P1)
	}
	return math.Abs(r2.Cross(s.Direction().vec(), r2.Sub(s.P1.vec(), p.vec()))) / l
}

// DistanceToSegment returns the distance from p to the closest point of s,
// projecting p on the line and clamping the projection to the segment.
func DistanceToSegment(p Point, s Segment) float64 {
	d := s.Direction().vec()
	l2 := r2.Norm2(d)
	if l2 == 0 {
		return Distance(p, s.P1)
	}
	t := r2.Dot(r2.Sub(p.vec(), s.P1.vec()), d) / l2
	t = math.Max(0, math.Min(1, t))
	return Distance(p, s.At(t))
}

// IsInRect checks if p lies inside the axis aligned rectangle spanned by the
// two corners, borders included. Corners can be given in any order.
func IsInRect(p, c1, c2 Point) bool {
	box := r2.NewBox(c1.X, c1.Y, c2.X, c2.Y)
	return box.Min.X <= p.X && p.X <= box.Max.X &&
		box.Min.Y <= p.Y && p.Y <= box.Max.Y
}

// SegmentOverlap solves the 2x2 system for the intersection of a and b.
// Parallel (or collinear) segments yield an undefined, non touching Overlap.
func SegmentOverlap(a, b Segment) Overlap {
	r := a.Direction().vec()
	s := b.Direction().vec()
	det := r2.Cross(r, s)
	if scalar.EqualWithinAbs(det, 0, Epsilon) {
		return Overlap{}
	}
	qp := r2.Sub(b.P1.vec(), a.P1.vec())
	t := r2.Cross(qp, s) / det
	u := r2.Cross(qp, r) / det
	return Overlap{
		Touches: 0 <= t && t <= 1 && 0 <= u && u <= 1,
		T:       t,
		U:       u,
		Defined: true,
	}
}

func Radians(deg float64) float64 {
	return deg / 180 * math.Pi
}

func Degrees(rad float64) float64 {
	return rad / math.Pi * 180
}
