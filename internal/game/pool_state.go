package game

import "log"

// PoolRules runs two-player pool on the bus.
//
// Player groups are red and yellow; black is the game ball. The table is open
// until a player pockets an object ball, which assigns that colour to them and
// the other colour to their opponent. A legal pot of your own colour keeps the
// turn; a foul hands the opponent two shots.
type PoolRules struct {
	bus   *Bus
	state *MatchState
	table TableControl

	potted    map[Color]int // object balls down, by colour
	breakShot bool          // the opening shot must pocket an object ball
	pottedAny bool          // an object ball went down during this shot
}

// NewPoolRules attaches pool rules to the bus. Balls already off the table
// (demo layouts) are counted towards their colour.
func NewPoolRules(bus *Bus, state *MatchState, table TableControl) *PoolRules {
	r := &PoolRules{
		bus:       bus,
		state:     state,
		table:     table,
		potted:    make(map[Color]int),
		breakShot: true,
	}
	for _, b := range table.PocketedBalls() {
		if b.Kind == BallObject && b.Color != ColorBlack {
			r.potted[b.Color]++
		}
	}
	state.ShotsLeft = 1
	r.refreshScores()

	subscribeAll(bus, []struct {
		name EventName
		fn   Handler
	}{
		{EventShotStarted, r.onShotStarted},
		{EventCollide, r.onCollide},
		{EventFoul, r.onFoul},
		{EventPocket, r.onPocket},
		{EventScore, r.onScore},
		{EventShotFouled, r.onShotFouled},
		{EventShotLegal, r.onShotLegal},
		{EventShotEnded, r.onShotEnded},
		{EventGameWon, r.onGameWon},
	})
	return r
}

// SkipBreak treats the match as already broken, with groups assigned to the
// given colour for player one. Used for demo layouts.
func (r *PoolRules) SkipBreak(first Color) {
	r.breakShot = false
	r.assignColors(0, first)
	r.refreshScores()
}

// Potted returns how many balls of c have been pocketed.
func (r *PoolRules) Potted(c Color) int {
	return r.potted[c]
}

// Tick settles the shot once the table is still, or opens one on the first
// moving tick after idle.
func (r *PoolRules) Tick(moving bool) {
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
	if !s.ShotInProgress && !s.HasFouled {
		return
	}

	if s.ShotInProgress && r.breakShot && !r.pottedAny && !s.HasFouled {
		log.Printf("[POOL] Break shot pocketed nothing, foul")
		r.bus.Emit(EventFoul)
	}
	if s.HasFouled || !s.HasHitBall {
		r.bus.Emit(EventShotFouled)
	} else {
		r.bus.Emit(EventShotLegal)
	}
	if s.GameEnded {
		return
	}
	r.bus.Emit(EventShotEnded)
}

func (r *PoolRules) onShotStarted(Event) {
	s := r.state
	s.ShotInProgress = true
	s.HasHitBall = false
	s.ShotsLeft--
	r.pottedAny = false
	r.table.SetCueActive(false)
}

// onCollide checks the first ball the cue ball touches.
func (r *PoolRules) onCollide(ev Event) {
	other := cueContact(ev)
	if other == nil || r.state.HasHitBall {
		return
	}
	r.state.HasHitBall = true
	if !r.legalFirstContact(other) {
		r.bus.Emit(EventFoul)
	}
}

func (r *PoolRules) legalFirstContact(b *Ball) bool {
	p := r.state.CurrentPlayer()
	if b.Color == ColorBlack {
		return p.Color != "" && r.potted[p.Color] >= PoolGroupSize
	}
	if p.Color == "" {
		return true
	}
	return b.Color == p.Color
}

func (r *PoolRules) onFoul(Event) {
	r.state.HasFouled = true
}

func (r *PoolRules) onPocket(ev Event) {
	b := ev.Ball
	s := r.state
	if b == nil || s.GameEnded {
		return
	}
	player := s.CurrentPlayer()

	switch {
	case b.Kind == BallCue:
		r.bus.Emit(EventFoul)

	case b.Color == ColorBlack:
		winner := s.NextIndex()
		if player.Color != "" && r.potted[player.Color] >= PoolGroupSize {
			winner = s.Current
		}
		r.bus.Publish(Event{Name: EventGameWon, Player: winner})

	default:
		r.potted[b.Color]++
		r.pottedAny = true
		if player.Color == "" {
			r.assignColors(s.Current, b.Color)
		}
		r.refreshScores()
		if b.Color == player.Color {
			r.bus.Emit(EventScore)
		} else {
			r.bus.Emit(EventFoul)
		}
	}
}

func (r *PoolRules) onScore(Event) {
	r.state.ShotsLeft = 1
}

func (r *PoolRules) onShotFouled(Event) {
	s := r.state
	s.HasFouled = false
	s.switchTurn()
	s.ShotsLeft = PoolFoulShots
}

func (r *PoolRules) onShotLegal(Event) {
	s := r.state
	if !s.HasHitBall {
		r.bus.Emit(EventFoul)
		r.bus.Emit(EventShotFouled)
		return
	}
	if s.ShotsLeft <= 0 {
		s.switchTurn()
		s.ShotsLeft = 1
	}
}

func (r *PoolRules) onShotEnded(Event) {
	s := r.state
	s.ShotInProgress = false
	r.breakShot = false
	if !s.GameEnded {
		r.table.SetCueActive(true)
	}
}

func (r *PoolRules) onGameWon(ev Event) {
	s := r.state
	s.GameEnded = true
	s.Winner = ev.Player
	s.ShotInProgress = false
	r.table.SetCueActive(false)
	log.Printf("[POOL] Game won by player %d", s.Players[ev.Player].Number)
}

func (r *PoolRules) assignColors(player int, c Color) {
	s := r.state
	s.Players[player].Color = c
	s.Players[(player+1)%len(s.Players)].Color = complement(c)
}

func (r *PoolRules) refreshScores() {
	for i := range r.state.Players {
		p := &r.state.Players[i]
		if p.Color != "" {
			p.Score = r.potted[p.Color]
		}
	}
}
