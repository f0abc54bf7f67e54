package game

import (
	"log"
	"math/rand"

	"github.com/playmatatu/cuetable/internal/config"
)

// Table owns every body of a match: the immutable cushions and pockets and the
// balls still in play. Pocketed object balls move to a separate list so the
// rules can still read them after removal.
type Table struct {
	Width    float64
	Height   float64
	Rail     float64
	Cushions []Cushion
	Pockets  []Pocket

	bodies   []Body
	balls    []*Ball // every ball created, by ID
	pocketed []*Ball // in pocketing order
	cue      *Ball
}

// NewTable creates an empty table with four cushions and six pockets.
func NewTable(cfg config.MatchConfig) *Table {
	w, h, c := cfg.Width, cfg.Height, cfg.CushionThickness
	pr := cfg.PocketRadius

	t := &Table{
		Width:  w,
		Height: h,
		Rail:   c,
		Cushions: []Cushion{
			{Edge: EdgeTop, X: 0, Y: 0, Width: w, Height: c},
			{Edge: EdgeBottom, X: 0, Y: h - c, Width: w, Height: c},
			{Edge: EdgeLeft, X: 0, Y: 0, Width: c, Height: h},
			{Edge: EdgeRight, X: w - c, Y: 0, Width: c, Height: h},
		},
		Pockets: []Pocket{
			{ID: 0, Center: NewVec2(c, c), Radius: pr},
			{ID: 1, Center: NewVec2(w/2, c), Radius: pr},
			{ID: 2, Center: NewVec2(w-c, c), Radius: pr},
			{ID: 3, Center: NewVec2(c, h-c), Radius: pr},
			{ID: 4, Center: NewVec2(w/2, h-c), Radius: pr},
			{ID: 5, Center: NewVec2(w-c, h-c), Radius: pr},
		},
	}

	// Pockets come first so a ball touching both a pocket and a cushion in
	// the same tick drops instead of rebounding.
	for i := range t.Pockets {
		t.bodies = append(t.bodies, Body{Kind: BodyPocket, Pocket: &t.Pockets[i]})
	}
	for i := range t.Cushions {
		t.bodies = append(t.bodies, Body{Kind: BodyCushion, Cushion: &t.Cushions[i]})
	}
	return t
}

// AddBall places a new ball on the table and returns it.
func (t *Table) AddBall(kind BallKind, color Color, pos Vec2, radius float64) *Ball {
	b := &Ball{
		ID:        len(t.balls),
		Kind:      kind,
		Color:     color,
		Position:  pos,
		Radius:    radius,
		Direction: NewVec2(1, 0),
		Spot:      pos,
		prev:      pos,
	}
	t.balls = append(t.balls, b)
	t.bodies = append(t.bodies, Body{Kind: BodyBall, Ball: b})
	if kind == BallCue && t.cue == nil {
		t.cue = b
	}
	return b
}

// Bodies returns the body list in collision iteration order.
func (t *Table) Bodies() []Body {
	return t.bodies
}

// Balls returns the balls currently in play, in body order.
func (t *Table) Balls() []*Ball {
	out := make([]*Ball, 0, len(t.balls))
	for _, body := range t.bodies {
		if body.Kind == BodyBall && !body.Ball.Pocketed {
			out = append(out, body.Ball)
		}
	}
	return out
}

// AllBalls returns every ball created for the match, pocketed or not.
func (t *Table) AllBalls() []*Ball {
	return t.balls
}

// Ball looks a ball up by ID.
func (t *Table) Ball(id int) *Ball {
	if id < 0 || id >= len(t.balls) {
		return nil
	}
	return t.balls[id]
}

// CueBall returns the cue ball, or nil on a table without one.
func (t *Table) CueBall() *Ball {
	return t.cue
}

// PocketedBalls returns the object balls removed from play, in pocketing order.
func (t *Table) PocketedBalls() []*Ball {
	out := make([]*Ball, len(t.pocketed))
	copy(out, t.pocketed)
	return out
}

// AnyMoving reports whether a ball in play still has speed.
func (t *Table) AnyMoving() bool {
	for _, body := range t.bodies {
		if body.Kind == BodyBall && !body.Ball.Pocketed && body.Ball.IsMoving() {
			return true
		}
	}
	return false
}

// pocketBall runs the ball's pocket behaviour. Object balls are only flagged
// here; compact drops them from the body list once the collision pass is over.
func (t *Table) pocketBall(b *Ball) {
	b.stop()
	switch b.Kind {
	case BallCue:
		spot := t.FreeSpotNear(b.Spot, b.Radius, b)
		b.Position = spot
		b.prev = spot
		b.InHand = true
	case BallObject:
		b.Pocketed = true
		t.pocketed = append(t.pocketed, b)
	}
}

// compact removes pocketed balls from the body list.
func (t *Table) compact() {
	kept := t.bodies[:0]
	for _, body := range t.bodies {
		if body.Kind == BodyBall && body.Ball.Pocketed {
			continue
		}
		kept = append(kept, body)
	}
	t.bodies = kept
}

// Respot returns a ball to its spot, or the nearest clear position when the
// spot is taken. A pocketed ball rejoins the body list.
func (t *Table) Respot(b *Ball) {
	b.stop()
	spot := t.FreeSpotNear(b.Spot, b.Radius, b)
	b.Position = spot
	b.prev = spot
	if !b.Pocketed {
		return
	}
	b.Pocketed = false
	for i, p := range t.pocketed {
		if p == b {
			t.pocketed = append(t.pocketed[:i], t.pocketed[i+1:]...)
			break
		}
	}
	t.bodies = append(t.bodies, Body{Kind: BodyBall, Ball: b})
}

// PlayMin and PlayMax bound the cloth inside the cushion faces.
func (t *Table) PlayMin() Vec2 { return NewVec2(t.Rail, t.Rail) }
func (t *Table) PlayMax() Vec2 { return NewVec2(t.Width-t.Rail, t.Height-t.Rail) }

// ClampToPlay clamps a centre position so a ball of radius r sits on the cloth.
func (t *Table) ClampToPlay(p Vec2, r float64) Vec2 {
	lo, hi := t.PlayMin(), t.PlayMax()
	return NewVec2(clamp(p.X, lo.X+r, hi.X-r), clamp(p.Y, lo.Y+r, hi.Y-r))
}

// Overlaps reports whether a ball of radius r at p would touch another ball in play.
func (t *Table) Overlaps(p Vec2, r float64, except *Ball) bool {
	for _, b := range t.Balls() {
		if b == except {
			continue
		}
		if Distance(p, b.Position) < r+b.Radius+placementMargin {
			return true
		}
	}
	return false
}

// FreeSpotNear returns the clear position closest to p along its row,
// stepping one diameter at a time to either side, then along nearby rows.
// p itself is returned when nothing on the cloth is free.
func (t *Table) FreeSpotNear(p Vec2, r float64, except *Ball) Vec2 {
	free := func(q Vec2) bool {
		return q == t.ClampToPlay(q, r) && !t.InPocket(q) && !t.Overlaps(q, r, except)
	}
	if free(p) {
		return p
	}
	step := 2*r + placementMargin
	maxSteps := int(t.Width/step) + 1
	for row := 0; row <= 4; row++ {
		for _, dy := range []float64{float64(row) * step, -float64(row) * step} {
			for i := 0; i <= maxSteps; i++ {
				for _, dx := range []float64{float64(i) * step, -float64(i) * step} {
					if q := NewVec2(p.X+dx, p.Y+dy); free(q) {
						return q
					}
				}
			}
			if row == 0 {
				break
			}
		}
	}
	return p
}

// InPocket reports whether p lies inside any pocket's capture circle.
func (t *Table) InPocket(p Vec2) bool {
	for _, pk := range t.Pockets {
		if Distance(p, pk.Center) <= pk.Radius {
			return true
		}
	}
	return false
}

// rackOffsets is the triangle in units of one ball diameter plus a gap, apex first.
var rackOffsets = [15][2]float64{
	{-2, 0},
	{-1, 0.5}, {-1, -0.5},
	{0, 1}, {0, 0}, {0, -1},
	{1, 1.5}, {1, 0.5}, {1, -0.5}, {1, -1.5},
	{2, 2}, {2, 1}, {2, 0}, {2, -1}, {2, -2},
}

func rackPosition(cfg config.MatchConfig, i int) Vec2 {
	buffer := cfg.BallRadius*2 + 1
	centre := NewVec2(cfg.Width*0.75, cfg.Height*0.5)
	return NewVec2(centre.X+rackOffsets[i][0]*buffer, centre.Y+rackOffsets[i][1]*buffer)
}

// NewPoolTable racks seven red, seven yellow and the black (in the middle of
// the third row) with the cue ball on the baulk side.
func NewPoolTable(cfg config.MatchConfig) *Table {
	t := NewTable(cfg)
	t.AddBall(BallCue, ColorWhite, NewVec2(cfg.Width*0.25, cfg.Height*0.5), cfg.BallRadius)

	group := []Color{ColorRed, ColorYellow}
	n := 0
	for i := range rackOffsets {
		if i == 4 {
			t.AddBall(BallObject, ColorBlack, rackPosition(cfg, i), cfg.BallRadius)
			continue
		}
		t.AddBall(BallObject, group[n%2], rackPosition(cfg, i), cfg.BallRadius)
		n++
	}
	return t
}

// snookerSpots are the colour spots on a 1000x500 table, scaled to the table size.
var snookerSpots = map[Color][2]float64{
	ColorBlack:  {850, 250},
	ColorPink:   {650, 250},
	ColorBlue:   {500, 250},
	ColorBrown:  {200, 250},
	ColorGreen:  {200, 150},
	ColorYellow: {200, 350},
}

// NewSnookerTable racks fifteen reds and puts the six colours on their spots.
func NewSnookerTable(cfg config.MatchConfig) *Table {
	t := NewTable(cfg)
	t.AddBall(BallCue, ColorWhite, NewVec2(cfg.Width*0.17, cfg.Height*0.6), cfg.BallRadius)

	for i := 0; i < SnookerReds; i++ {
		t.AddBall(BallObject, ColorRed, rackPosition(cfg, i), cfg.BallRadius)
	}
	sx, sy := cfg.Width/1000, cfg.Height/500
	for _, c := range snookerColorOrder {
		spot := snookerSpots[c]
		t.AddBall(BallObject, c, NewVec2(spot[0]*sx, spot[1]*sy), cfg.BallRadius)
	}
	return t
}

// NewSandboxTable scatters moving balls at random, non-overlapping positions.
func NewSandboxTable(cfg config.MatchConfig) *Table {
	t := NewTable(cfg)
	t.AddBall(BallCue, ColorWhite, NewVec2(cfg.Width*0.24, cfg.Height*0.48), cfg.BallRadius)

	rng := rand.New(rand.NewSource(cfg.Seed))
	r := cfg.BallRadius
	placed := 0
	for tries := 0; placed < sandboxBalls && tries < sandboxTries; tries++ {
		pos := NewVec2(
			randomRange(rng, cfg.Width*0.1, cfg.Width*0.9),
			randomRange(rng, cfg.Height*0.2, cfg.Height*0.8),
		)
		if t.Overlaps(pos, r, nil) {
			continue
		}
		b := t.AddBall(BallObject, ColorAmber, pos, r)
		b.SetVelocity(NewVec2(randomRange(rng, -1, 1), randomRange(rng, -1, 1)).Normalize().Times(randomRange(rng, 1, 6)))
		placed++
	}
	if placed < sandboxBalls {
		log.Printf("[TABLE] Sandbox placed %d of %d balls", placed, sandboxBalls)
	}
	return t
}

// NewDemoPoolTable is a pool table near the end of a frame: one red lined up
// on the top-right pocket, the black on the bottom-right, everything else potted.
func NewDemoPoolTable(cfg config.MatchConfig) *Table {
	t := NewPoolTable(cfg)
	sx, sy := cfg.Width/1000, cfg.Height/500

	var lastRed, black *Ball
	for _, b := range t.balls {
		switch {
		case b.Color == ColorBlack:
			black = b
		case b.Color == ColorRed && lastRed == nil:
			lastRed = b
		}
	}
	for _, b := range t.balls {
		if b.Kind == BallCue || b == lastRed || b == black {
			continue
		}
		b.Pocketed = true
		t.pocketed = append(t.pocketed, b)
	}
	t.compact()

	lastRed.Position = NewVec2(920*sx, 80*sy)
	lastRed.Spot = lastRed.Position
	black.Position = NewVec2(920*sx, 420*sy)
	black.Spot = black.Position
	return t
}

func randomRange(rng *rand.Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}
