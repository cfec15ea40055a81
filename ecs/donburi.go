package ecs

import (
	"github.com/phanxgames/shatter"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FieldEventType carries a field's lifecycle into a world. A field emits
// EventCaptured once its particles have spawned, EventToggled when a
// grid-indexed particle resting on its target flips its Active flag with the
// sign of the speed, and EventReset when its particles are discarded.
var FieldEventType = events.NewEventType[shatter.Event]()

type worldObserver struct {
	world donburi.World
}

// NewDonburiObserver returns an observer that queues every field event on
// world. Queued events reach subscribers on the next
// FieldEventType.ProcessEvents, so systems see the lifecycle in the same
// order the field went through it, one tick late at most.
func NewDonburiObserver(world donburi.World) shatter.Observer {
	return &worldObserver{world: world}
}

func (o *worldObserver) FieldEvent(ev shatter.Event) {
	FieldEventType.Publish(o.world, ev)
}
