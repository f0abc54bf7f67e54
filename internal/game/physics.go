package game

import "github.com/playmatatu/cuetable/internal/config"

// PhysicsParams are the per-match constants of the motion and collision model.
type PhysicsParams struct {
	Friction      float64 // per-tick speed multiplier
	StopThreshold float64 // speeds below this snap to zero
	Restitution   float64 // cushion speed multiplier
	BallDamping   float64 // share of its own speed a ball keeps after a ball hit
}

func physicsParams(cfg config.MatchConfig) PhysicsParams {
	return PhysicsParams{
		Friction:      cfg.Friction,
		StopThreshold: cfg.StopThreshold,
		Restitution:   cfg.Restitution,
		BallDamping:   cfg.BallDamping,
	}
}

// PhysicsEngine advances the table one tick at a time and reports contacts on
// the bus. It is the only writer of ball kinematics.
//
// A tick integrates every ball first, then walks all body pairs (i < j) in
// body-list order. Each ball resolves only the first contact found for it in a
// tick; later contacts are picked up on the next tick. There is no sub-stepping.
type PhysicsEngine struct {
	Table  *Table
	Params PhysicsParams

	bus      *Bus
	resolved map[*Ball]bool
}

// NewPhysicsEngine creates a physics engine for a table.
func NewPhysicsEngine(table *Table, params PhysicsParams, bus *Bus) *PhysicsEngine {
	return &PhysicsEngine{
		Table:    table,
		Params:   params,
		bus:      bus,
		resolved: make(map[*Ball]bool),
	}
}

// Step runs one tick: integrate, collide, drop pocketed balls.
func (pe *PhysicsEngine) Step() {
	for _, b := range pe.Table.Balls() {
		pe.integrate(b)
	}
	pe.collide()
	pe.Table.compact()
}

// AllStopped returns true if no ball in play has speed.
func (pe *PhysicsEngine) AllStopped() bool {
	return !pe.Table.AnyMoving()
}

// integrate applies friction and moves the ball by one tick of velocity.
func (pe *PhysicsEngine) integrate(b *Ball) {
	b.prev = b.Position
	if b.Speed < pe.Params.StopThreshold {
		b.Speed = 0
	} else {
		b.Speed *= pe.Params.Friction
	}
	b.Position = b.Position.Plus(b.Velocity())
}

func (pe *PhysicsEngine) collide() {
	clear(pe.resolved)
	bodies := pe.Table.Bodies()

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if !a.IsDynamic() && !b.IsDynamic() {
				continue
			}
			// keep the ball first; statics precede balls in the body list
			if !a.IsDynamic() {
				a, b = b, a
			}
			ball := a.Ball
			if ball.Pocketed || pe.resolved[ball] {
				continue
			}

			switch b.Kind {
			case BodyPocket:
				if pe.ballPocket(ball, b.Pocket) {
					pe.resolved[ball] = true
				}
			case BodyCushion:
				if pe.ballCushion(ball, b.Cushion) {
					pe.resolved[ball] = true
				}
			case BodyBall:
				other := b.Ball
				if other.Pocketed || pe.resolved[other] {
					continue
				}
				if pe.ballBall(ball, other) {
					pe.resolved[ball] = true
					pe.resolved[other] = true
				}
			}
		}
	}
}

// ballPocket captures the ball when its centre is inside the pocket circle.
func (pe *PhysicsEngine) ballPocket(ball *Ball, pocket *Pocket) bool {
	if Distance(ball.Position, pocket.Center) > pocket.Radius {
		return false
	}
	ball.stop()
	pe.bus.Publish(Event{Name: EventPocket, Ball: ball})
	pe.Table.pocketBall(ball)
	return true
}

// ballCushion tests the ball's leading edge against the cushion face. On
// contact the perpendicular axis is inverted, speed scaled by restitution and
// the ball put flush against the face.
func (pe *PhysicsEngine) ballCushion(ball *Ball, c *Cushion) bool {
	if !ball.IsMoving() {
		return false
	}
	face := c.Face()
	r := ball.Radius
	p := &ball.Position
	d := &ball.Direction

	switch c.Edge {
	case EdgeTop:
		if p.Y-r > face || d.Y >= 0 {
			return false
		}
		d.Y = -d.Y
		p.Y = face + r
	case EdgeBottom:
		if p.Y+r < face || d.Y <= 0 {
			return false
		}
		d.Y = -d.Y
		p.Y = face - r
	case EdgeLeft:
		if p.X-r > face || d.X >= 0 {
			return false
		}
		d.X = -d.X
		p.X = face + r
	case EdgeRight:
		if p.X+r < face || d.X <= 0 {
			return false
		}
		d.X = -d.X
		p.X = face - r
	default:
		return false
	}

	ball.Speed *= pe.Params.Restitution
	pe.bus.Publish(Event{Name: EventCushion, Ball: ball})
	return true
}

// ballBall resolves two touching balls. The faster ball is first moved back
// to where it started the tick, then the normal components of the two
// velocities are swapped (tangential parts kept) and each new speed is capped
// at max(other's speed, own speed × BallDamping).
func (pe *PhysicsEngine) ballBall(a, b *Ball) bool {
	if Distance(a.Position, b.Position) > a.Radius+b.Radius {
		return false
	}
	// touching but already separating: nothing to resolve
	if !checkObjectsConverging(a.Position, b.Position, a.Velocity(), b.Velocity()) {
		return false
	}

	mover := a
	if b.Speed > a.Speed {
		mover = b
	}
	mover.Position = mover.prev

	va, vb := a.Velocity(), b.Velocity()
	speedA, speedB := a.Speed, b.Speed

	n := a.Position.Minus(b.Position).Normalize()
	if n.IsZero() {
		// concentric after the retreat: use the closest axis to the approach
		n = vb.Minus(va).DominantAxis()
	}

	if !n.IsZero() {
		an := n.Times(va.Dot(n))
		bn := n.Times(vb.Dot(n))
		newA := va.Minus(an).Plus(bn)
		newB := vb.Minus(bn).Plus(an)

		a.SetVelocity(newA)
		b.SetVelocity(newB)
		a.Speed = min(a.Speed, max(speedB, speedA*pe.Params.BallDamping))
		b.Speed = min(b.Speed, max(speedA, speedB*pe.Params.BallDamping))
	}

	pe.bus.Publish(Event{Name: EventCollide, Ball: a, Other: b})
	return true
}
