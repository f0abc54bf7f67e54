package game

// TableControl is the narrow view of the table a rule machine gets. It lets
// the rules read what has been pocketed, put balls back and toggle shot input
// without holding the table itself.
type TableControl interface {
	PocketedBalls() []*Ball
	Respot(b *Ball)
	SetCueActive(active bool)
}

// Rules is a variant's rule state machine. Tick is called with the table's
// motion state; the machine raises shotStarted on the idle-to-moving edge and
// settles the shot once everything has stopped.
type Rules interface {
	Tick(moving bool)
}

// cueContact returns the non-cue ball of a collide event, or nil when the
// cue ball was not involved.
func cueContact(ev Event) *Ball {
	switch {
	case ev.Ball != nil && ev.Ball.Kind == BallCue:
		return ev.Other
	case ev.Other != nil && ev.Other.Kind == BallCue:
		return ev.Ball
	}
	return nil
}

// subscribeAll registers a handler table on the bus and returns the detach funcs.
func subscribeAll(bus *Bus, handlers []struct {
	name EventName
	fn   Handler
}) []func() {
	unsubs := make([]func(), 0, len(handlers))
	for _, h := range handlers {
		unsubs = append(unsubs, bus.Subscribe(h.name, h.fn))
	}
	return unsubs
}
