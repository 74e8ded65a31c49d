package dynamo

import "math"

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// Vec2 is an immutable 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle creates a vector from an angle (radians) and magnitude.
func FromAngle(angle, magnitude float64) Vec2 {
	return Vec2{X: magnitude * math.Cos(angle), Y: magnitude * math.Sin(angle)}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

// Mul multiplies componentwise.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{X: v.X * o.X, Y: v.Y * o.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector in v's direction, or the zero vector when
// the length is below Epsilon. It never produces NaN or Inf.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Limit caps the length of v at max.
func (v Vec2) Limit(max float64) Vec2 {
	if v.Len() <= max {
		return v
	}
	return v.Normalize().Scale(max)
}

// Heading is atan2(y, x).
func (v Vec2) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// RandomUnit draws a unit vector from a uniform angle.
func RandomUnit(r Rand) Vec2 {
	return FromAngle(r.Float64()*2*math.Pi, 1)
}

// RandomUnitBox draws two independent samples in [-1, 1] and normalizes them.
// A degenerate draw yields the zero vector.
func RandomUnitBox(r Rand) Vec2 {
	return Vec2{X: Uniform(r, -1, 1), Y: Uniform(r, -1, 1)}.Normalize()
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }
