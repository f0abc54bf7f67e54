package game

import (
	"errors"
	"fmt"

	"github.com/playmatatu/cuetable/internal/config"
)

const maxEventBacklog = 1024

var ErrUnknownPointerAction = errors.New("unknown pointer action")

// Pointer actions accepted by ApplyPointer.
const (
	PointerActionDown  = "down"
	PointerActionMove  = "move"
	PointerActionUp    = "up"
	PointerActionPlace = "place"
)

// Match wires a table, its physics, the cue and a rule machine onto one bus.
// It is not safe for concurrent use; callers serialise access.
type Match struct {
	Config config.MatchConfig

	bus     *Bus
	table   *Table
	physics *PhysicsEngine
	cue     *Cue
	rules   Rules
	state   MatchState
	tick    uint64
	events  []EventRecord
}

// EventRecord is a bus event flattened for clients and logs.
type EventRecord struct {
	Tick   uint64    `json:"tick"`
	Name   EventName `json:"name"`
	Ball   *int      `json:"ball,omitempty"`
	Other  *int      `json:"other,omitempty"`
	Value  *int      `json:"value,omitempty"`
	Player *int      `json:"player,omitempty"`
}

// BallView is the wire form of a ball.
type BallView struct {
	ID     int     `json:"id"`
	Kind   string  `json:"kind"`
	Color  Color   `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	InHand bool    `json:"in_hand,omitempty"`
}

// Snapshot is everything a client needs to draw the table.
type Snapshot struct {
	Variant  config.Variant `json:"variant"`
	Tick     uint64         `json:"tick"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Rail     float64        `json:"rail"`
	Pockets  []Pocket       `json:"pockets"`
	Balls    []BallView     `json:"balls"`
	Pocketed []int          `json:"pocketed"`
	Cue      CueState       `json:"cue"`
	State    MatchState     `json:"state"`
	Status   GameStatus     `json:"status"`
}

// tableControl is the capability set handed to the rule machines.
type tableControl struct {
	table *Table
	cue   *Cue
}

func (tc tableControl) PocketedBalls() []*Ball { return tc.table.PocketedBalls() }
func (tc tableControl) Respot(b *Ball) { tc.table.Respot(b) }
func (tc tableControl) SetCueActive(active bool) { tc.cue.SetActive(active) }

// NewMatch builds a match for cfg.Variant.
func NewMatch(cfg config.MatchConfig) (*Match, error) {
	if err := config.ValidateMatchConfig(cfg); err != nil {
		return nil, err
	}

	m := &Match{
		Config: cfg,
		bus:    NewBus(),
		state:  newMatchState(),
	}

	switch cfg.Variant {
	case config.VariantPool:
		m.table = NewPoolTable(cfg)
	case config.VariantDemoPool:
		m.table = NewDemoPoolTable(cfg)
	case config.VariantSnooker:
		m.table = NewSnookerTable(cfg)
	case config.VariantSandbox:
		m.table = NewSandboxTable(cfg)
	default:
		return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
	}

	m.physics = NewPhysicsEngine(m.table, physicsParams(cfg), m.bus)
	m.cue = NewCue(m.table, cfg.CueLength, cfg.MaxShotSpeed)
	m.bus.SubscribeAll(m.record)

	ctl := tableControl{table: m.table, cue: m.cue}
	switch cfg.Variant {
	case config.VariantPool:
		m.rules = NewPoolRules(m.bus, &m.state, ctl)
	case config.VariantDemoPool:
		pr := NewPoolRules(m.bus, &m.state, ctl)
		pr.SkipBreak(ColorRed)
		m.rules = pr
	case config.VariantSnooker:
		m.rules = NewSnookerRules(m.bus, &m.state, ctl, m.table.AllBalls())
	case config.VariantSandbox:
		m.rules = NewFreePlayRules(m.bus, &m.state, ctl)
	}

	m.cue.SetActive(!m.table.AnyMoving())
	return m, nil
}

// Tick advances the match one frame. The rule machine sees the motion state
// before the physics step, so a contact in the frame a shot is struck already
// belongs to that shot, and again after it to settle a finished shot.
func (m *Match) Tick() {
	if m.state.GameEnded {
		return
	}
	m.tick++
	m.rules.Tick(m.table.AnyMoving())
	m.physics.Step()
	m.rules.Tick(m.table.AnyMoving())
}

// Settled reports whether the table is still and no shot is open.
func (m *Match) Settled() bool {
	return m.state.GameEnded || (!m.table.AnyMoving() && !m.state.ShotInProgress)
}

// RunUntilSettled ticks until Settled or maxTicks frames have run, and
// returns the number of frames run.
func (m *Match) RunUntilSettled(maxTicks int) int {
	n := 0
	for n < maxTicks && !m.Settled() {
		m.Tick()
		n++
	}
	return n
}

func (m *Match) PointerDown(p Vec2) { m.cue.PointerDown(p) }
func (m *Match) PointerMove(p Vec2) { m.cue.PointerMove(p) }

// PointerUp releases the cue and reports whether a shot was struck.
func (m *Match) PointerUp(p Vec2) bool { return m.cue.PointerUp(p) }

// PlaceCueBall moves an in-hand cue ball.
func (m *Match) PlaceCueBall(p Vec2) bool { return m.cue.Place(p) }

// ApplyPointer dispatches a named pointer action. It reports whether the
// action struck a shot or placed the cue ball.
func (m *Match) ApplyPointer(action string, p Vec2) (bool, error) {
	switch action {
	case PointerActionDown:
		m.PointerDown(p)
		return false, nil
	case PointerActionMove:
		m.PointerMove(p)
		return false, nil
	case PointerActionUp:
		return m.PointerUp(p), nil
	case PointerActionPlace:
		return m.PlaceCueBall(p), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownPointerAction, action)
}

func (m *Match) Bus() *Bus { return m.bus }
func (m *Match) Table() *Table { return m.table }
func (m *Match) Cue() *Cue { return m.cue }
func (m *Match) Ticks() uint64 { return m.tick }
func (m *Match) GameOver() bool { return m.state.GameEnded }
func (m *Match) State() MatchState { return m.state.clone() }

// DrainEvents returns the events recorded since the last call.
func (m *Match) DrainEvents() []EventRecord {
	out := m.events
	m.events = nil
	return out
}

func (m *Match) record(ev Event) {
	rec := EventRecord{Tick: m.tick, Name: ev.Name}
	if ev.Ball != nil {
		id := ev.Ball.ID
		rec.Ball = &id
	}
	if ev.Other != nil {
		id := ev.Other.ID
		rec.Other = &id
	}
	if ev.Valued {
		v := ev.Value
		rec.Value = &v
	}
	if ev.Name == EventGameWon {
		p := ev.Player
		rec.Player = &p
	}
	if len(m.events) >= maxEventBacklog {
		m.events = m.events[1:]
	}
	m.events = append(m.events, rec)
}

// Snapshot captures the drawable state of the match.
func (m *Match) Snapshot() Snapshot {
	balls := m.table.Balls()
	views := make([]BallView, 0, len(balls))
	for _, b := range balls {
		views = append(views, BallView{
			ID:     b.ID,
			Kind:   b.Kind.String(),
			Color:  b.Color,
			X:      b.Position.X,
			Y:      b.Position.Y,
			Radius: b.Radius,
			Speed:  b.Speed,
			InHand: b.InHand,
		})
	}
	pocketed := make([]int, 0)
	for _, b := range m.table.PocketedBalls() {
		pocketed = append(pocketed, b.ID)
	}

	return Snapshot{
		Variant:  m.Config.Variant,
		Tick:     m.tick,
		Width:    m.table.Width,
		Height:   m.table.Height,
		Rail:     m.table.Rail,
		Pockets:  append([]Pocket(nil), m.table.Pockets...),
		Balls:    views,
		Pocketed: pocketed,
		Cue:      m.cue.State(),
		State:    m.state.clone(),
		Status:   m.state.Status(),
	}
}
