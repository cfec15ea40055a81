package shatter

import (
	"image/color"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromImage converts any color.Color (premultiplied by contract) to a
// straight-alpha Color. Fully transparent pixels become transparent black.
func ColorFromImage(c color.Color) Color {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return Color{}
	}
	_, _, _, a := c.RGBA()
	return Color{R: cf.R, G: cf.G, B: cf.B, A: float64(a) / 0xffff}
}

// RGBA implements color.Color so a Color can be handed straight to image and
// ebiten APIs.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A)*0xffff + 0.5)
	r = uint32(clamp01(c.R)*clamp01(c.A)*0xffff + 0.5)
	g = uint32(clamp01(c.G)*clamp01(c.A)*0xffff + 0.5)
	b = uint32(clamp01(c.B)*clamp01(c.A)*0xffff + 0.5)
	return r, g, b, a
}

// Colorful returns the RGB part of c as a go-colorful color for blending.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Range is a general-purpose min/max range. Used by DivergeUniform for the
// offset band.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max) drawn from rng. A degenerate range
// returns Min.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Phase is the lifecycle state of a Field.
type Phase uint8

const (
	PhaseEmpty     Phase = iota // no particles; Capture is accepted
	PhaseCapturing              // sampler and spawner are writing the staging set
	PhaseAnimating              // particles committed; Update integrates them
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseCapturing:
		return "capturing"
	case PhaseAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// BoundaryPolicy selects whether the sample grid includes the final image edge.
type BoundaryPolicy uint8

const (
	EdgeExclusive BoundaryPolicy = iota // columns x rows samples, last edge skipped
	EdgeInclusive                       // (columns+1) x (rows+1) samples, last one on the edge
)

// MissPolicy selects what the sampler does with a ray that hits nothing.
type MissPolicy uint8

const (
	SkipMisses MissPolicy = iota // drop the sample
	KeepMisses                   // emit it with a zero anchor and Anchored == false
)

// Indexing selects how a Field indexes its particles.
type Indexing uint8

const (
	IndexFlat Indexing = iota // creation order only
	IndexGrid                 // creation order plus sample-coordinate lookup; enables the active toggle
)
