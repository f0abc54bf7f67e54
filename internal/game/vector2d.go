package game

import "math"

// Vec2 is a 2D vector in table coordinates (origin top-left, y grows downwards).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector, or the zero vector for a zero input.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return v.Times(1.0 / m)
}

func (v Vec2) Invert() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// DominantAxis returns the unit axis vector closest to v, keeping its sign.
func (v Vec2) DominantAxis() Vec2 {
	switch {
	case v.IsZero():
		return Vec2{}
	case math.Abs(v.X) >= math.Abs(v.Y):
		return Vec2{X: math.Copysign(1, v.X)}
	default:
		return Vec2{Y: math.Copysign(1, v.Y)}
	}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Distance is the euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return b.Minus(a).Magnitude()
}
