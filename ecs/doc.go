// Package ecs feeds a shatter field's lifecycle into a Donburi world.
//
// Install the observer on the host before building the field, then drain
// the queue from a system each tick:
//
//	host.Observer = ecs.NewDonburiObserver(world)
//	field, err := shatter.NewField(cfg, host)
//	...
//	ecs.FieldEventType.Subscribe(world, onFieldEvent)
//	ecs.FieldEventType.ProcessEvents(world)
//
// A capture is reported once, after every particle exists. Reset is
// reported only for a field that had particles.
package ecs
