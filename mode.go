package shatter

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Defaults for the divergent moving modes.
const (
	DefaultSphereRadius = 10.0
)

// DefaultOffsetRange is the offset band ParseMovingMode and LoadConfig give
// DivergeUniform when no offset is named.
var DefaultOffsetRange = Range{Min: 10, Max: 100}

// MovingMode selects how a particle's target is computed. The set of modes is
// closed: Converge, DivergeUniform, and DivergeSpherical are the only
// implementations.
type MovingMode interface {
	// Name returns the configuration name of the mode.
	Name() string

	target(origin mgl64.Vec3, rng *rand.Rand) mgl64.Vec3
	validate() error
	withDefaults() MovingMode
}

// Converge sends every particle to one shared point, including its Z.
type Converge struct {
	Point mgl64.Vec3
}

func (Converge) Name() string { return "converge" }

func (m Converge) target(mgl64.Vec3, *rand.Rand) mgl64.Vec3 { return m.Point }

func (Converge) validate() error { return nil }

func (m Converge) withDefaults() MovingMode { return m }

// DivergeUniform sends each particle to an X and Y drawn independently from
// Offset. Z is kept from the origin. The zero Offset is a degenerate band that
// sends every particle to X = Y = 0; use DefaultOffsetRange for the usual
// spread.
type DivergeUniform struct {
	Offset Range
}

func (DivergeUniform) Name() string { return "divergeUniform" }

func (m DivergeUniform) target(origin mgl64.Vec3, rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{m.Offset.Random(rng), m.Offset.Random(rng), origin.Z()}
}

func (m DivergeUniform) validate() error {
	if !finite(m.Offset.Min) || !finite(m.Offset.Max) || m.Offset.Min > m.Offset.Max {
		return fmt.Errorf("offset range [%v, %v): %w", m.Offset.Min, m.Offset.Max, ErrInvalidConfig)
	}
	return nil
}

func (m DivergeUniform) withDefaults() MovingMode { return m }

// DivergeSpherical pushes each particle Radius away from its origin in a
// uniformly random direction. When Planar is set the direction is confined
// to the XY plane and Z is kept from the origin.
type DivergeSpherical struct {
	Radius float64
	Planar bool
}

func (DivergeSpherical) Name() string { return "divergeSpherical" }

func (m DivergeSpherical) target(origin mgl64.Vec3, rng *rand.Rand) mgl64.Vec3 {
	for {
		d := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if m.Planar {
			d[2] = 0
		}
		l := d.Len()
		if l < 1e-9 {
			continue
		}
		return origin.Add(d.Mul(m.Radius / l))
	}
}

func (m DivergeSpherical) validate() error {
	if !finite(m.Radius) || m.Radius <= 0 {
		return fmt.Errorf("sphere radius %v: %w", m.Radius, ErrInvalidConfig)
	}
	return nil
}

func (m DivergeSpherical) withDefaults() MovingMode {
	if m.Radius == 0 {
		m.Radius = DefaultSphereRadius
	}
	return m
}

// ResolveTarget computes the destination of a particle spawned at origin.
// It has no state of its own; only rng advances.
func ResolveTarget(mode MovingMode, origin mgl64.Vec3, rng *rand.Rand) mgl64.Vec3 {
	return mode.target(origin, rng)
}

// ParseMovingMode returns the mode with default parameters for a
// configuration name. Historical names are accepted as aliases.
func ParseMovingMode(name string) (MovingMode, error) {
	switch strings.ToLower(name) {
	case "converge", "blackhole":
		return Converge{}, nil
	case "divergeuniform", "wind", "upright":
		return DivergeUniform{Offset: DefaultOffsetRange}, nil
	case "divergespherical", "randomdirection":
		return DivergeSpherical{}.withDefaults(), nil
	default:
		return nil, fmt.Errorf("mode %q: %w", name, ErrInvalidMode)
	}
}

type jsonRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type jsonMode struct {
	Kind   string     `json:"kind"`
	Point  []float64  `json:"point,omitempty"`
	Offset *jsonRange `json:"offset,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Planar bool       `json:"planar,omitempty"`
}

// parseModeJSON accepts either a bare name ("wind") or an object carrying
// the mode's parameters.
func parseModeJSON(raw json.RawMessage) (MovingMode, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return ParseMovingMode(name)
	}

	var jm jsonMode
	if err := json.Unmarshal(raw, &jm); err != nil {
		return nil, fmt.Errorf("moving mode: %w", err)
	}
	mode, err := ParseMovingMode(jm.Kind)
	if err != nil {
		return nil, err
	}

	switch m := mode.(type) {
	case Converge:
		if len(jm.Point) != 0 && len(jm.Point) != 3 {
			return nil, fmt.Errorf("converge point needs 3 components, got %d: %w", len(jm.Point), ErrInvalidConfig)
		}
		if len(jm.Point) == 3 {
			m.Point = mgl64.Vec3{jm.Point[0], jm.Point[1], jm.Point[2]}
		}
		return m, nil
	case DivergeUniform:
		if jm.Offset != nil {
			m.Offset = Range{Min: jm.Offset.Min, Max: jm.Offset.Max}
		}
		return m, nil
	case DivergeSpherical:
		if jm.Radius != 0 {
			m.Radius = jm.Radius
		}
		m.Planar = jm.Planar
		return m, nil
	}
	return mode, nil
}
