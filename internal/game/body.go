package game

// Color is the identity tag that links a ball to its meaning under the rules.
type Color string

const (
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBrown  Color = "brown"
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorBlack  Color = "black"
	ColorAmber  Color = "amber" // sandbox balls
)

// BallKind selects what happens to a ball when it drops into a pocket.
type BallKind uint8

const (
	// BallObject is removed from play once pocketed.
	BallObject BallKind = iota
	// BallCue is respotted in hand so it can be placed before the next shot.
	BallCue
)

func (k BallKind) String() string {
	if k == BallCue {
		return "cue"
	}
	return "object"
}

// Ball is a moving body. Velocity is Direction (unit) times Speed.
type Ball struct {
	ID        int      `json:"id"`
	Kind      BallKind `json:"kind"`
	Color     Color    `json:"color"`
	Position  Vec2     `json:"position"`
	Radius    float64  `json:"radius"`
	Direction Vec2     `json:"direction"`
	Speed     float64  `json:"speed"`
	Pocketed  bool     `json:"pocketed"`
	InHand    bool     `json:"in_hand"` // cue ball may be placed before the next shot
	Spot      Vec2     `json:"spot"`    // where the ball is respotted

	prev Vec2 // position before the current tick's integration
}

// Velocity returns direction × speed.
func (b *Ball) Velocity() Vec2 {
	return b.Direction.Times(b.Speed)
}

// SetVelocity splits v into a unit direction and a scalar speed.
func (b *Ball) SetVelocity(v Vec2) {
	speed := v.Magnitude()
	if speed == 0 {
		b.Speed = 0
		return
	}
	b.Direction = v.Times(1 / speed)
	b.Speed = speed
}

func (b *Ball) IsMoving() bool {
	return b.Speed > 0
}

func (b *Ball) stop() {
	b.Speed = 0
}

// Edge tags which side of the table a cushion guards.
type Edge uint8

const (
	EdgeTop Edge = iota + 1
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "unknown"
}

// Cushion is an axis-aligned rail rectangle. Immutable for the match.
type Cushion struct {
	Edge   Edge    `json:"edge"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Face returns the coordinate of the cushion side that faces the cloth.
func (c *Cushion) Face() float64 {
	switch c.Edge {
	case EdgeTop:
		return c.Y + c.Height
	case EdgeBottom:
		return c.Y
	case EdgeLeft:
		return c.X + c.Width
	default:
		return c.X
	}
}

// FaceSegment returns the cushion face as a segment, used for guide projection.
func (c *Cushion) FaceSegment() (Vec2, Vec2) {
	f := c.Face()
	switch c.Edge {
	case EdgeTop, EdgeBottom:
		return NewVec2(c.X, f), NewVec2(c.X+c.Width, f)
	default:
		return NewVec2(f, c.Y), NewVec2(f, c.Y+c.Height)
	}
}

// Pocket is a capture circle. Immutable for the match.
type Pocket struct {
	ID     int     `json:"id"`
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// BodyKind discriminates the Body union.
type BodyKind uint8

const (
	BodyCushion BodyKind = iota + 1
	BodyPocket
	BodyBall
)

// Body is one entry of the table's body list; exactly one pointer is set,
// matching Kind.
type Body struct {
	Kind    BodyKind
	Cushion *Cushion
	Pocket  *Pocket
	Ball    *Ball
}

// IsDynamic reports whether the body moves (only balls do).
func (b Body) IsDynamic() bool {
	return b.Kind == BodyBall
}
