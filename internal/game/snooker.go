package game

import "log"

type targetKind uint8

const (
	targetReds targetKind = iota
	targetAnyColour
	targetColour // final sequence: one named colour
)

// ballOn is what the striker must hit and may pot on a shot.
type ballOn struct {
	kind  targetKind
	color Color
}

func (t ballOn) accepts(c Color) bool {
	switch t.kind {
	case targetReds:
		return c == ColorRed
	case targetAnyColour:
		return c != ColorRed && c != ColorWhite
	}
	return c == t.color
}

// value is the points at stake on the ball on, used as a floor for fouls.
func (t ballOn) value() int {
	if t.kind == targetColour {
		return SnookerValues[t.color]
	}
	return 0
}

func (t ballOn) String() string {
	switch t.kind {
	case targetReds:
		return "reds"
	case targetAnyColour:
		return "colours"
	}
	return string(t.color)
}

// SnookerRules runs a snooker frame on the bus.
//
// A visit (break) lasts until a shot pots nothing or fouls. Reds and colours
// alternate while reds remain; colours potted in that phase go back on their
// spots when the shot ends. With the reds gone the colours must be potted in
// value order, and the frame ends with the black.
type SnookerRules struct {
	bus   *Bus
	state *MatchState
	table TableControl

	on          ballOn // fixed for the duration of a shot
	inBreak     bool
	hasPotted   bool
	colourDown  bool // a colour was legally potted this shot
	shotPoints  int  // break points earned by the current shot
	foulValue   int
	toRespot    []*Ball
	frameBall   *Ball // the black, once legally potted to end the frame
	colourBalls map[Color]*Ball
}

// NewSnookerRules attaches snooker rules to the bus. balls is every ball of
// the frame; reds still in play are counted.
func NewSnookerRules(bus *Bus, state *MatchState, table TableControl, balls []*Ball) *SnookerRules {
	r := &SnookerRules{
		bus:         bus,
		state:       state,
		table:       table,
		colourBalls: make(map[Color]*Ball),
	}
	for _, b := range balls {
		if b.Kind != BallObject {
			continue
		}
		if b.Color == ColorRed {
			if !b.Pocketed {
				state.RedsRemaining++
			}
			continue
		}
		r.colourBalls[b.Color] = b
	}
	r.on = r.target()
	state.BallOn = r.on.String()

	subscribeAll(bus, []struct {
		name EventName
		fn   Handler
	}{
		{EventShotStarted, r.onShotStarted},
		{EventBreakStarted, r.onBreakStarted},
		{EventCollide, r.onCollide},
		{EventPocket, r.onPocket},
		{EventFoul, r.onFoul},
		{EventLegalPot, r.onLegalPot},
		{EventFoulShot, r.onFoulShot},
		{EventLegalNonPotShot, r.onLegalNonPotShot},
		{EventShotEnded, r.onShotEnded},
		{EventBreakEnded, r.onBreakEnded},
		{EventGameWon, r.onGameWon},
	})
	return r
}

// Tick opens a shot on the first moving tick and settles it once everything
// has stopped: foulShot, else shotEnded when something was potted, else
// legalNonPotShot.
func (r *SnookerRules) Tick(moving bool) {
	s := r.state
	if s.GameEnded {
		return
	}
	if moving {
		if !s.ShotInProgress {
			r.bus.Emit(EventShotStarted)
		}
		return
	}

	switch {
	case s.HasFouled || (s.ShotInProgress && !s.HasHitBall):
		s.HasFouled = false
		r.bus.EmitValue(EventFoulShot, r.foulValue)
	case s.ShotInProgress && r.hasPotted:
		r.bus.Emit(EventShotEnded)
	case s.ShotInProgress:
		r.bus.Emit(EventLegalNonPotShot)
	}
}

// target works out the ball on from the current state.
func (r *SnookerRules) target() ballOn {
	s := r.state
	switch {
	case s.OnColors:
		return ballOn{kind: targetAnyColour}
	case s.RedsRemaining > 0:
		return ballOn{kind: targetReds}
	}
	return ballOn{kind: targetColour, color: r.lowestColour()}
}

// lowestColour returns the cheapest colour still on the table.
func (r *SnookerRules) lowestColour() Color {
	down := make(map[*Ball]bool)
	for _, b := range r.table.PocketedBalls() {
		down[b] = true
	}
	for _, c := range snookerColorOrder {
		if b := r.colourBalls[c]; b != nil && !down[b] {
			return c
		}
	}
	return ""
}

func (r *SnookerRules) onShotStarted(Event) {
	s := r.state
	s.ShotInProgress = true
	s.HasHitBall = false
	r.hasPotted = false
	r.colourDown = false
	r.shotPoints = 0
	r.foulValue = 0
	r.table.SetCueActive(false)
	if !r.inBreak {
		r.bus.Emit(EventBreakStarted)
	}
	r.on = r.target()
	s.BallOn = r.on.String()
}

func (r *SnookerRules) onBreakStarted(Event) {
	r.inBreak = true
	r.state.BreakScore = 0
	r.state.OnColors = false
}

// onCollide judges the first ball the cue ball contacts.
func (r *SnookerRules) onCollide(ev Event) {
	other := cueContact(ev)
	if other == nil || r.state.HasHitBall {
		return
	}
	r.state.HasHitBall = true
	if !r.on.accepts(other.Color) {
		r.bus.EmitValue(EventFoul, max(SnookerValues[other.Color], r.on.value()))
	}
}

func (r *SnookerRules) onPocket(ev Event) {
	b := ev.Ball
	s := r.state
	if b == nil || s.GameEnded {
		return
	}

	if b.Kind == BallCue {
		r.bus.EmitValue(EventFoul, r.on.value())
		return
	}

	value := SnookerValues[b.Color]
	if b.Color == ColorRed {
		s.RedsRemaining--
		if r.on.kind == targetReds {
			r.bus.EmitValue(EventLegalPot, value)
		} else {
			r.bus.EmitValue(EventFoul, max(value, r.on.value()))
		}
		return
	}

	legal := r.on.accepts(b.Color) && !(r.on.kind == targetAnyColour && r.colourDown)
	if !legal {
		r.toRespot = append(r.toRespot, b)
		r.bus.EmitValue(EventFoul, max(value, r.on.value()))
		return
	}

	switch r.on.kind {
	case targetAnyColour:
		// a colour taken after a red always comes back, even after the last red
		r.colourDown = true
		r.toRespot = append(r.toRespot, b)
	case targetColour:
		if b.Color == ColorBlack {
			r.frameBall = b
		}
	}
	r.bus.EmitValue(EventLegalPot, value)
}

func (r *SnookerRules) onFoul(ev Event) {
	r.state.HasFouled = true
	if ev.Valued {
		r.foulValue = max(r.foulValue, ev.Value)
	}
}

// onLegalPot adds to the break and moves the target on. The ball on for the
// rest of the current shot does not change.
func (r *SnookerRules) onLegalPot(ev Event) {
	s := r.state
	s.BreakScore += ev.Value
	r.shotPoints += ev.Value
	r.hasPotted = true
	switch r.on.kind {
	case targetReds:
		s.OnColors = true
	case targetAnyColour:
		s.OnColors = false
	}
}

func (r *SnookerRules) onFoulShot(ev Event) {
	s := r.state
	penalty := max(SnookerMinFoul, ev.Value)
	s.NextPlayer().Score += penalty
	// nothing potted on a foul stroke counts
	s.BreakScore -= r.shotPoints
	r.shotPoints = 0
	log.Printf("[SNOOKER] Foul by player %d, %d points to opponent", s.CurrentPlayer().Number, penalty)
	r.bus.Emit(EventShotEnded)
	r.bus.Emit(EventBreakEnded)
}

func (r *SnookerRules) onLegalNonPotShot(Event) {
	r.bus.Emit(EventShotEnded)
	r.bus.Emit(EventBreakEnded)
}

func (r *SnookerRules) onShotEnded(Event) {
	s := r.state
	for _, b := range r.toRespot {
		r.table.Respot(b)
	}
	r.toRespot = r.toRespot[:0]
	s.ShotInProgress = false

	if r.frameBall != nil {
		r.endFrame()
		if s.GameEnded {
			return
		}
	}
	s.BallOn = r.target().String()
	r.table.SetCueActive(true)
}

// endFrame settles the frame after the black went down. Level scores put the
// black back on its spot.
func (r *SnookerRules) endFrame() {
	s := r.state
	black := r.frameBall
	r.frameBall = nil

	s.CurrentPlayer().Score += s.BreakScore
	s.BreakScore = 0

	a, b := s.Players[0].Score, s.Players[1].Score
	if a == b {
		log.Printf("[SNOOKER] Scores level at %d, black respotted", a)
		r.table.Respot(black)
		return
	}
	winner := 0
	if b > a {
		winner = 1
	}
	r.bus.Publish(Event{Name: EventGameWon, Player: winner})
}

func (r *SnookerRules) onBreakEnded(Event) {
	s := r.state
	if s.GameEnded {
		return
	}
	s.CurrentPlayer().Score += s.BreakScore
	s.BreakScore = 0
	s.switchTurn()
	s.OnColors = false
	r.inBreak = false
	s.BallOn = r.target().String()
}

func (r *SnookerRules) onGameWon(ev Event) {
	s := r.state
	s.GameEnded = true
	s.Winner = ev.Player
	s.ShotInProgress = false
	r.table.SetCueActive(false)
	log.Printf("[SNOOKER] Frame won by player %d (%d-%d)", s.Players[ev.Player].Number, s.Players[0].Score, s.Players[1].Score)
}
