package game

import "math"

// Cue turns pointer input into shots. The player pulls back from the cue
// ball: the ball is struck away from the pointer, harder the further the
// pointer is dragged, up to the cue length.
type Cue struct {
	Length   float64
	MaxSpeed float64

	table   *Table
	ball    *Ball
	active  bool
	aiming  bool
	placing bool
	pointer Vec2
}

// CueState is the aiming overlay handed to clients.
type CueState struct {
	Active    bool    `json:"active"`
	Aiming    bool    `json:"aiming"`
	Placing   bool    `json:"placing"`
	Pointer   Vec2    `json:"pointer"`
	Direction Vec2    `json:"direction"` // unit shot direction, zero when idle
	Power     float64 `json:"power"`     // 0..1
	Angle     float64 `json:"angle"`     // radians
	Guide     *Vec2   `json:"guide,omitempty"`
}

// NewCue binds a cue to the table's cue ball.
func NewCue(table *Table, length, maxSpeed float64) *Cue {
	return &Cue{
		Length:   length,
		MaxSpeed: maxSpeed,
		table:    table,
		ball:     table.CueBall(),
		active:   true,
	}
}

func (c *Cue) Active() bool {
	return c.active
}

// SetActive enables or disables input. Disabling drops any aim in progress.
func (c *Cue) SetActive(active bool) {
	c.active = active
	if !active {
		c.aiming = false
		c.placing = false
	}
}

// PointerDown starts aiming, or picks the cue ball up when it is in hand and
// the press lands on it.
func (c *Cue) PointerDown(p Vec2) {
	c.pointer = p
	if !c.active || c.ball == nil {
		return
	}
	if c.ball.InHand && Distance(p, c.ball.Position) <= c.ball.Radius*2 {
		c.placing = true
		return
	}
	c.aiming = true
}

// PointerMove tracks the pointer and drags the cue ball while placing.
func (c *Cue) PointerMove(p Vec2) {
	c.pointer = p
	if c.placing {
		c.Place(p)
	}
}

// PointerUp releases the cue. It returns true when a shot was launched.
func (c *Cue) PointerUp(p Vec2) bool {
	c.pointer = p
	if c.placing {
		c.placing = false
		return false
	}
	if !c.aiming {
		return false
	}
	c.aiming = false

	v := c.ShotVelocity(p)
	if v.IsZero() {
		return false
	}
	c.ball.SetVelocity(v)
	c.ball.InHand = false
	return true
}

// ShotVelocity is the velocity a release at p would give the cue ball.
func (c *Cue) ShotVelocity(p Vec2) Vec2 {
	if c.ball == nil || c.Length <= 0 {
		return Vec2{}
	}
	pull := p.Minus(c.ball.Position)
	dist := math.Min(pull.Magnitude(), c.Length)
	if dist == 0 {
		return Vec2{}
	}
	return pull.Normalize().Invert().Times(dist / c.Length * c.MaxSpeed)
}

// Place moves an in-hand cue ball to p, clamped to the cloth. The move is
// refused when the ball would touch another ball or sit in a pocket.
func (c *Cue) Place(p Vec2) bool {
	if !c.active || c.ball == nil || !c.ball.InHand {
		return false
	}
	pos := c.table.ClampToPlay(p, c.ball.Radius)
	if c.table.Overlaps(pos, c.ball.Radius, c.ball) || c.table.InPocket(pos) {
		return false
	}
	c.ball.Position = pos
	c.ball.prev = pos
	return true
}

// Guide returns where the current aim line first meets a cushion face.
func (c *Cue) Guide() (Vec2, bool) {
	if c.ball == nil {
		return Vec2{}, false
	}
	dir := c.ShotVelocity(c.pointer).Normalize()
	if dir.IsZero() {
		return Vec2{}, false
	}
	from := c.ball.Position
	to := from.Plus(dir.Times(2 * (c.table.Width + c.table.Height)))

	var best Vec2
	found := false
	bestDist := math.Inf(1)
	for i := range c.table.Cushions {
		a, b := c.table.Cushions[i].FaceSegment()
		hit, ok := lineIntersectLine(from, to, a, b)
		if !ok {
			continue
		}
		if d := Distance(from, hit); d < bestDist {
			best, bestDist, found = hit, d, true
		}
	}
	return best, found
}

// State reports the cue overlay for the current pointer position.
func (c *Cue) State() CueState {
	st := CueState{
		Active:  c.active,
		Aiming:  c.aiming,
		Placing: c.placing,
		Pointer: c.pointer,
	}
	if !c.aiming || c.MaxSpeed <= 0 {
		return st
	}
	v := c.ShotVelocity(c.pointer)
	st.Direction = v.Normalize()
	st.Power = v.Magnitude() / c.MaxSpeed
	st.Angle = findBearing(st.Direction.X, st.Direction.Y)
	if g, ok := c.Guide(); ok {
		st.Guide = &g
	}
	return st
}
