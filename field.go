package shatter

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween"
)

// Field owns the particles produced by one capture and drives them on the
// fixed tick. It is not safe for concurrent use; call Capture from the
// variable-rate tick and Update from the fixed-rate tick of the same loop.
type Field struct {
	cfg  Config
	host Host

	phase     Phase
	particles []Particle
	grid      *Grid

	speed      float64
	ramp       *gween.Tween
	integrator Integrator

	debug bool
}

// NewField creates an empty field. Zero-valued config fields take their
// defaults; host.Frames and host.Rays are required.
func NewField(cfg Config, host Host) (*Field, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new field: %w", err)
	}
	if host.Frames == nil || host.Rays == nil {
		return nil, fmt.Errorf("new field: frame source and ray querier are required: %w", ErrInvalidConfig)
	}
	f := &Field{
		cfg:   cfg,
		host:  host,
		speed: cfg.ParticlesSpeed,
	}
	f.integrator = Integrator{
		Toggle:    cfg.Indexing == IndexGrid,
		FixedStep: cfg.FixedStep,
		OnToggle:  f.onToggle,
	}
	return f, nil
}

// Config returns the field's configuration with defaults applied.
func (f *Field) Config() Config {
	return f.cfg
}

// Phase returns the lifecycle phase.
func (f *Field) Phase() Phase {
	return f.phase
}

// Mode returns the moving mode governing the field.
func (f *Field) Mode() MovingMode {
	return f.cfg.MovingMode
}

// Len returns the number of particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles returns the particle slice. Callers must treat it as read-only;
// it is invalidated by Reset.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Grid returns the sample-coordinate index, or nil with flat indexing or
// before a capture.
func (f *Field) Grid() *Grid {
	return f.grid
}

// At returns the particle spawned at sample coordinate (gx, gy). It only
// finds particles with grid indexing.
func (f *Field) At(gx, gy int) (*Particle, bool) {
	if f.grid == nil {
		return nil, false
	}
	i, ok := f.grid.Index(gx, gy)
	if !ok {
		return nil, false
	}
	return &f.particles[i], true
}

// Capture samples the current frame and populates the field. It is ignored
// unless the field is empty; call Reset first to re-capture. On error the
// field is left empty and nothing is rendered differently.
func (f *Field) Capture() error {
	if f.phase != PhaseEmpty {
		f.debugf("capture ignored: field is %s with %d particles", f.phase, len(f.particles))
		return nil
	}

	f.phase = PhaseCapturing
	particles, grid, stats, err := f.capture()
	if err != nil {
		f.phase = PhaseEmpty
		return err
	}

	f.particles = particles
	f.grid = grid
	if f.host.Visibility != nil {
		f.host.Visibility.RestrictToLayer(f.cfg.ParticlesLayer)
	}
	f.phase = PhaseAnimating

	f.debugCapture(stats)
	f.emit(Event{Type: EventCaptured, Count: len(f.particles)})
	return nil
}

// capture runs sampler and spawner into a staging set that is only returned
// when every sample succeeded.
func (f *Field) capture() ([]Particle, *Grid, captureStats, error) {
	var stats captureStats
	t0 := time.Now()

	frame, err := f.host.Frames.ReadFrame()
	if err == nil && frame.Image == nil {
		err = errors.New("nil image")
	}
	if err != nil {
		if !errors.Is(err, ErrResourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
		}
		return nil, nil, stats, fmt.Errorf("capture: read frame: %w", err)
	}
	stats.readTime = time.Since(t0)
	t0 = time.Now()

	sampler := NewSampler(f.cfg, f.host.Rays)
	w, h := frame.Size()
	cols, rows := sampler.GridSize(w, h)
	sp := newSpawner(f.cfg, f.newRand(), f.host.Visuals, cols, rows)

	for smp, err := range sampler.Samples(frame) {
		if err != nil {
			sp.discard()
			return nil, nil, stats, fmt.Errorf("capture: %w", err)
		}
		if !smp.Anchored {
			stats.misses++
		}
		if err := sp.spawn(smp); err != nil {
			sp.discard()
			return nil, nil, stats, fmt.Errorf("capture: %w", err)
		}
	}

	stats.spawnTime = time.Since(t0)
	stats.cells = cols * rows
	stats.particles = len(sp.particles)
	if f.cfg.Misses == SkipMisses {
		stats.misses = stats.cells - stats.particles
	}
	return sp.particles, sp.grid, stats, nil
}

// newRand returns the random source for one capture, seeded once.
func (f *Field) newRand() *rand.Rand {
	seed := f.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Update advances the speed ramp and integrates every particle by dt
// seconds. It returns the number of particles still moving and does nothing
// unless the field is animating. A negative or non-finite dt is ignored.
func (f *Field) Update(dt float64) int {
	if f.phase != PhaseAnimating || !finite(dt) || dt < 0 {
		return 0
	}
	f.advanceRamp(dt)
	return f.integrator.Step(f.particles, f.speed, dt)
}

// Speed returns the current signed speed.
func (f *Field) Speed() float64 {
	return f.speed
}

// SetSpeed sets the signed speed, clamped to [-1, 1], and cancels any ramp.
// NaN stops the field.
func (f *Field) SetSpeed(v float64) {
	f.ramp = nil
	f.speed = clampSpeed(v)
}

// Reverse flips the sign of the speed.
func (f *Field) Reverse() {
	f.SetSpeed(-f.speed)
}

// Reset discards every particle and returns the field to PhaseEmpty.
func (f *Field) Reset() {
	for i := range f.particles {
		if v := f.particles[i].Visual; v != nil {
			v.Dispose()
		}
	}
	f.particles = nil
	f.grid = nil
	f.ramp = nil
	f.speed = f.cfg.ParticlesSpeed
	wasPopulated := f.phase == PhaseAnimating
	f.phase = PhaseEmpty
	if !wasPopulated {
		return
	}
	if r, ok := f.host.Visibility.(LayerRestorer); ok {
		r.RestoreLayers()
	}
	f.emit(Event{Type: EventReset})
}

func (f *Field) onToggle(i int, active bool) {
	p := &f.particles[i]
	f.emit(Event{
		Type:   EventToggled,
		Count:  len(f.particles),
		Index:  i,
		GridX:  p.GridX,
		GridY:  p.GridY,
		Active: active,
	})
}

func (f *Field) emit(ev Event) {
	if f.host.Observer != nil {
		f.host.Observer.FieldEvent(ev)
	}
}

func clampSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, -1), 1)
}
