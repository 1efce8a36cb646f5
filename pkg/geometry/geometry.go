package geometry

import "math"

// SegmentTolerance is the vertical slack, in pixels, accepted by [OnSegment].
const SegmentTolerance = 2.0

// Point is a location on the editor canvas.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle given by its center and half-extents.
type Rect struct {
	Center Point `json:"center" bson:"center"`
	HW     int   `json:"hw" bson:"hw"`
	HH     int   `json:"hh" bson:"hh"`
}

// Contains reports whether p lies inside r. Points on the boundary are inside.
func (r Rect) Contains(p Point) bool {
	return abs(p.X-r.Center.X) <= r.HW && abs(p.Y-r.Center.Y) <= r.HH
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.Center.X - r.HW, Y: r.Center.Y - r.HH} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.Center.X + r.HW, Y: r.Center.Y + r.HH} }

// Segment is a straight line between two points.
type Segment struct {
	A Point `json:"a" bson:"a"`
	B Point `json:"b" bson:"b"`
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Point) Segment { return Segment{A: a, B: b} }

// Hit reports whether p is on s within [SegmentTolerance].
func (s Segment) Hit(p Point) bool { return OnSegment(s.A, s.B, p, SegmentTolerance) }

// OnSegment reports whether p lies on the segment p1-p2.
//
// The test first rejects points outside the segment's bounding box. Axis
// aligned segments then match unconditionally. Otherwise the segment's line
// is evaluated at p.X and the vertical gap must be strictly below tolerance.
func OnSegment(p1, p2, p Point, tolerance float64) bool {
	if min(p1.X, p2.X) > p.X || max(p1.X, p2.X) < p.X {
		return false
	}
	if min(p1.Y, p2.Y) > p.Y || max(p1.Y, p2.Y) < p.Y {
		return false
	}
	if p1.X == p2.X || p1.Y == p2.Y {
		return true
	}
	k := float64(p2.Y-p1.Y) / float64(p2.X-p1.X)
	gap := math.Abs(float64(p1.Y) + k*float64(p.X-p1.X) - float64(p.Y))
	return gap < tolerance
}

// SquaredDistance returns the squared Euclidean distance between p and q.
func SquaredDistance(p, q Point) int {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Sqrt(float64(SquaredDistance(p, q)))
}

// Snap moves v to the nearest multiple of step. Exact halves round up.
func Snap(v, step int) int {
	if step <= 0 {
		return v
	}
	r := v % step
	if r < 0 {
		r += step
	}
	if r < step-r {
		return v - r
	}
	return v + step - r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
