package shatter

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RampSpeed tweens the field's speed from its current value to `to` over
// duration seconds using the easing function. The ramp advances inside
// Update, so it only runs while the field is animating. SetSpeed cancels it.
//
// Ramping through zero gives a smooth reversal:
//
//	field.RampSpeed(-field.Speed(), 0.5, ease.InOutQuad)
func (f *Field) RampSpeed(to float64, duration float32, fn ease.TweenFunc) {
	to = clampSpeed(to)
	if duration <= 0 {
		f.SetSpeed(to)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	f.ramp = gween.New(float32(f.speed), float32(to), duration, fn)
}

// Ramping reports whether a speed ramp is in progress.
func (f *Field) Ramping() bool {
	return f.ramp != nil
}

func (f *Field) advanceRamp(dt float64) {
	if f.ramp == nil {
		return
	}
	v, done := f.ramp.Update(float32(dt))
	f.speed = clampSpeed(float64(v))
	if done {
		f.ramp = nil
	}
}
