package game

// FreePlayRules has no scoring: it only tracks shots so the cue is handed
// back whenever the table comes to rest. Used for the sandbox.
type FreePlayRules struct {
	bus   *Bus
	state *MatchState
	table TableControl
}

func NewFreePlayRules(bus *Bus, state *MatchState, table TableControl) *FreePlayRules {
	r := &FreePlayRules{bus: bus, state: state, table: table}
	bus.Subscribe(EventShotStarted, func(Event) {
		r.state.ShotInProgress = true
		r.table.SetCueActive(false)
	})
	bus.Subscribe(EventShotEnded, func(Event) {
		r.state.ShotInProgress = false
		r.table.SetCueActive(true)
	})
	return r
}

func (r *FreePlayRules) Tick(moving bool) {
	switch {
	case moving && !r.state.ShotInProgress:
		r.bus.Emit(EventShotStarted)
	case !moving && r.state.ShotInProgress:
		r.bus.Emit(EventShotEnded)
	}
}
