package game

// EventName identifies a bus topic.
type EventName string

// Physical events are raised by the physics engine; the rest are semantic
// events raised and consumed by the rule machines.
const (
	EventPocket  EventName = "pocket"  // Ball
	EventCollide EventName = "collide" // Ball, Other
	EventCushion EventName = "cushion" // Ball

	EventFoul            EventName = "foul"     // optional Value
	EventFoulShot        EventName = "foulShot" // Value
	EventShotStarted     EventName = "shotStarted"
	EventShotFouled      EventName = "shotFouled"
	EventShotLegal       EventName = "shotLegal"
	EventShotEnded       EventName = "shotEnded"
	EventScore           EventName = "score"
	EventLegalPot        EventName = "legalPot" // Value
	EventLegalNonPotShot EventName = "legalNonPotShot"
	EventBreakStarted    EventName = "breakStarted"
	EventBreakEnded      EventName = "breakEnded"
	EventGameWon         EventName = "gameWon" // Player
)

// Event is the payload passed to subscribers. Which fields are set depends
// on Name; Valued tells an explicit zero Value from an absent one.
type Event struct {
	Name   EventName `json:"name"`
	Ball   *Ball     `json:"ball,omitempty"`
	Other  *Ball     `json:"other,omitempty"`
	Value  int       `json:"value,omitempty"`
	Valued bool      `json:"-"`
	Player int       `json:"player,omitempty"` // player index, gameWon only
}

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is a synchronous publish/subscribe registry scoped to one match.
//
// Publish calls every subscriber of the event, in subscription order, before
// returning. A handler may publish again; the nested event is fully handled
// (depth-first) before the outer publish moves to its next subscriber.
type Bus struct {
	subs   map[EventName][]subscription
	all    []subscription
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventName][]subscription)}
}

// Subscribe registers fn for name and returns a function that detaches it.
func (b *Bus) Subscribe(name EventName, fn Handler) func() {
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	return func() {
		b.subs[name] = removeSubscription(b.subs[name], id)
	}
}

// SubscribeAll registers fn for every event. Catch-all subscribers run before
// the named ones, so they observe events in publish order.
func (b *Bus) SubscribeAll(fn Handler) func() {
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: fn})
	return func() {
		b.all = removeSubscription(b.all, id)
	}
}

// Publish delivers ev to the subscribers registered at the time of the call.
func (b *Bus) Publish(ev Event) {
	all := append([]subscription(nil), b.all...)
	for _, s := range all {
		s.fn(ev)
	}
	subs := append([]subscription(nil), b.subs[ev.Name]...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// Emit publishes a payload-free event.
func (b *Bus) Emit(name EventName) {
	b.Publish(Event{Name: name})
}

// EmitValue publishes an event carrying a value.
func (b *Bus) EmitValue(name EventName, value int) {
	b.Publish(Event{Name: name, Value: value, Valued: true})
}

// HandlerCount returns the number of named subscribers for name.
func (b *Bus) HandlerCount(name EventName) int {
	return len(b.subs[name])
}

func removeSubscription(subs []subscription, id int) []subscription {
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			return append(out, subs[i+1:]...)
		}
	}
	return subs
}
