package shatter

import "github.com/go-gl/mathgl/mgl64"

// MoveTowards moves current towards target by at most maxDelta and never
// past it. Within reach, target itself is returned so equality checks on the
// result are exact.
func MoveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	d := target.Sub(current)
	dist := d.Len()
	switch {
	case dist == 0:
		return target
	case maxDelta <= 0:
		return current
	case dist <= maxDelta:
		return target
	}
	return current.Add(d.Mul(maxDelta / dist))
}

// Integrator advances particles one fixed tick at a time.
type Integrator struct {
	// Toggle enables the grid-variant extremum check: a particle sitting on
	// its target becomes active under negative speed and inactive otherwise.
	Toggle bool
	// FixedStep, when positive, is the per-tick step length used whenever
	// speed is non-zero.
	FixedStep float64
	// OnToggle, when set, is called after a particle's Active flag flips.
	OnToggle func(index int, active bool)
}

// StepLength returns the distance a particle may travel this tick.
func (in *Integrator) StepLength(speed, dt float64) float64 {
	if in.FixedStep > 0 {
		if speed == 0 {
			return 0
		}
		return in.FixedStep
	}
	if speed < 0 {
		speed = -speed
	}
	return speed * dt
}

// Step moves every participating particle towards its target (speed >= 0)
// or its origin (speed < 0) and returns how many are still short of their
// destination.
func (in *Integrator) Step(particles []Particle, speed, dt float64) int {
	step := in.StepLength(speed, dt)
	moving := 0
	for i := range particles {
		p := &particles[i]
		in.checkExtremum(p, i, speed)
		if !p.Active {
			continue
		}

		dest := p.Target
		if speed < 0 {
			dest = p.Origin
		}
		next := MoveTowards(p.Position, dest, step)
		if next != p.Position {
			p.Position = next
			if p.Visual != nil {
				p.Visual.SetPosition(next)
			}
		}

		in.checkExtremum(p, i, speed)
		if p.Active && p.Position != dest {
			moving++
		}
	}
	return moving
}

func (in *Integrator) checkExtremum(p *Particle, i int, speed float64) {
	if !in.Toggle || !p.AtTarget() {
		return
	}
	active := speed < 0
	if p.Active == active {
		return
	}
	p.Active = active
	if p.Visual != nil {
		p.Visual.SetVisible(active)
	}
	if in.OnToggle != nil {
		in.OnToggle(i, active)
	}
}
