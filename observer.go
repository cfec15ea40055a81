package shatter

// EventType identifies a field lifecycle event.
type EventType uint8

const (
	EventCaptured EventType = iota // a capture committed and the field is animating
	EventReset                     // all particles were discarded
	EventToggled                   // a grid particle's Active flag flipped
)

func (t EventType) String() string {
	switch t {
	case EventCaptured:
		return "captured"
	case EventReset:
		return "reset"
	case EventToggled:
		return "toggled"
	default:
		return "unknown"
	}
}

// Event carries lifecycle data to an Observer.
type Event struct {
	Type EventType
	// Count is the particle count after the event.
	Count int
	// Index, GridX, GridY, and Active describe the particle for EventToggled.
	Index        int
	GridX, GridY int
	Active       bool
}

// Observer receives field lifecycle events. Set it on Host to bridge events
// into an ECS or UI.
type Observer interface {
	FieldEvent(ev Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ev Event)

// FieldEvent calls fn(ev).
func (fn ObserverFunc) FieldEvent(ev Event) { fn(ev) }
