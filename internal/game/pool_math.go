package game

import "math"

// lineIntersectLine returns the intersection point of segments p1→p2 and p3→p4,
// or false when they are parallel or do not overlap.
func lineIntersectLine(p1, p2, p3, p4 Vec2) (Vec2, bool) {
	a1 := p2.Y - p1.Y
	b1 := p1.X - p2.X
	c1 := p2.X*p1.Y - p1.X*p2.Y

	a2 := p4.Y - p3.Y
	b2 := p3.X - p4.X
	c2 := p4.X*p3.Y - p3.X*p4.Y

	denom := a1*b2 - a2*b1
	if denom == 0 {
		return Vec2{}, false // parallel
	}

	x := (b1*c2 - b2*c1) / denom
	y := (a2*c1 - a1*c2) / denom

	// Check the point lies on both segments (with a little slack for float error)
	const eps = 1e-9
	if (x-p1.X)*(x-p2.X) > eps || (y-p1.Y)*(y-p2.Y) > eps ||
		(x-p3.X)*(x-p4.X) > eps || (y-p3.Y)*(y-p4.Y) > eps {
		return Vec2{}, false
	}

	return Vec2{X: x, Y: y}, true
}

// checkObjectsConverging returns true if two objects are moving toward each other.
// Coincident centres count as converging whenever there is relative motion.
func checkObjectsConverging(posA, posB, velA, velB Vec2) bool {
	relVel := velB.Minus(velA)
	direction := posB.Minus(posA)
	if direction.IsZero() {
		return !relVel.IsZero()
	}
	return relVel.Dot(direction) < 0
}

// findBearing returns the angle in radians of the vector (dx, dy).
func findBearing(dx, dy float64) float64 {
	return math.Atan2(dy, dx)
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
