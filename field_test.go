package shatter

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func redPlaneConfig() Config {
	return Config{
		ColumnCount:    2,
		RowCount:       2,
		ParticlesSpeed: 1,
		MovingMode:     Converge{Point: mgl64.Vec3{0, 0, 5}},
		Seed:           1,
	}
}

func newCapturedField(t *testing.T, cfg Config) (*Field, *testRig) {
	t.Helper()
	rig := newTestRig()
	f, err := NewField(cfg, rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	return f, rig
}

func runUntilSettled(t *testing.T, f *Field, dt float64) int {
	t.Helper()
	for ticks := 1; ticks <= 100000; ticks++ {
		if f.Update(dt) == 0 {
			return ticks
		}
	}
	t.Fatal("field did not settle")
	return 0
}

func TestCaptureRedPlane(t *testing.T) {
	f, rig := newCapturedField(t, redPlaneConfig())

	if f.Len() != 4 {
		t.Fatalf("particles = %d, want 4", f.Len())
	}
	if f.Phase() != PhaseAnimating {
		t.Errorf("phase = %s, want animating", f.Phase())
	}
	for i, p := range f.Particles() {
		if p.Color != (Color{R: 1, A: 1}) {
			t.Errorf("particle %d color = %+v, want red", i, p.Color)
		}
		if p.Origin.Z() != 0 || !p.Anchored {
			t.Errorf("particle %d origin %v off the plane", i, p.Origin)
		}
		if !p.AtOrigin() || !p.Active {
			t.Errorf("particle %d not spawned at rest", i)
		}
		if p.Visual == nil {
			t.Errorf("particle %d has no visual", i)
		}
	}

	if len(rig.visuals.created) != 4 {
		t.Fatalf("visuals = %d, want 4", len(rig.visuals.created))
	}
	spec := rig.visuals.created[0].spec
	if spec.Scale != DefaultParticleScale || spec.Layer != DefaultParticlesLayer {
		t.Errorf("visual spec = %+v", spec)
	}
	if len(rig.layers.restricted) != 1 || rig.layers.restricted[0] != DefaultParticlesLayer {
		t.Errorf("restricted = %v, want [%s]", rig.layers.restricted, DefaultParticlesLayer)
	}
	if len(rig.events) != 1 || rig.events[0].Type != EventCaptured || rig.events[0].Count != 4 {
		t.Errorf("events = %+v", rig.events)
	}
}

func TestConvergeToSharedPoint(t *testing.T) {
	f, _ := newCapturedField(t, redPlaneConfig())
	runUntilSettled(t, f, 1.0/60)

	want := mgl64.Vec3{0, 0, 5}
	for i, p := range f.Particles() {
		if p.Target != want {
			t.Errorf("particle %d target = %v, want %v", i, p.Target, want)
		}
		if !vecNear(p.Position, want, 1e-9) {
			t.Errorf("particle %d at %v, want %v", i, p.Position, want)
		}
		if v := p.Visual.(*fakeVisual); v.pos != p.Position {
			t.Errorf("visual %d at %v, want %v", i, v.pos, p.Position)
		}
	}
}

func TestRecaptureIgnored(t *testing.T) {
	f, rig := newCapturedField(t, redPlaneConfig())
	calls := rig.rays.calls

	if err := f.Capture(); err != nil {
		t.Fatalf("second Capture: %v", err)
	}
	if f.Len() != 4 || len(rig.visuals.created) != 4 {
		t.Errorf("particles = %d, visuals = %d after re-capture, want 4", f.Len(), len(rig.visuals.created))
	}
	if rig.rays.calls != calls {
		t.Errorf("re-capture issued %d ray queries", rig.rays.calls-calls)
	}
	if len(rig.events) != 1 {
		t.Errorf("events = %d, want 1", len(rig.events))
	}
}

func TestCaptureReadFailure(t *testing.T) {
	rig := newTestRig()
	host := rig.host(nil)
	host.Frames = failingFrames{}
	f, err := NewField(redPlaneConfig(), host)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	err = f.Capture()
	if !errors.Is(err, ErrResourceUnavailable) || !errors.Is(err, errBroken) {
		t.Fatalf("Capture err = %v, want ErrResourceUnavailable wrapping the cause", err)
	}
	if f.Phase() != PhaseEmpty || f.Len() != 0 {
		t.Errorf("phase = %s, particles = %d after failed capture", f.Phase(), f.Len())
	}
	if len(rig.layers.restricted) != 0 || len(rig.events) != 0 {
		t.Error("failed capture touched the renderer")
	}
}

func TestCaptureNilImage(t *testing.T) {
	rig := newTestRig()
	f, err := NewField(redPlaneConfig(), rig.host(nil))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("Capture err = %v, want ErrResourceUnavailable", err)
	}
}

func TestCaptureRayFailure(t *testing.T) {
	rig := newTestRig()
	rig.rays.Err = errBroken
	f, err := NewField(redPlaneConfig(), rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("Capture err = %v, want ErrResourceUnavailable", err)
	}
	if f.Phase() != PhaseEmpty || f.Len() != 0 {
		t.Error("failed capture left particles behind")
	}
}

func TestCaptureVisualFailureDisposes(t *testing.T) {
	rig := newTestRig()
	rig.visuals.FailAfter = 2
	f, err := NewField(redPlaneConfig(), rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	if err := f.Capture(); !errors.Is(err, errBroken) {
		t.Fatalf("Capture err = %v, want visual factory error", err)
	}
	if got := rig.visuals.disposed(); got != 2 {
		t.Errorf("disposed = %d, want 2", got)
	}
	if f.Phase() != PhaseEmpty || len(rig.layers.restricted) != 0 {
		t.Error("failed capture was committed")
	}

	// The trigger can be re-issued once the host recovers.
	rig.visuals.FailAfter = 0
	if err := f.Capture(); err != nil {
		t.Fatalf("retry Capture: %v", err)
	}
	if f.Len() != 4 {
		t.Errorf("particles = %d after retry, want 4", f.Len())
	}
}

func TestReset(t *testing.T) {
	f, rig := newCapturedField(t, redPlaneConfig())
	f.SetSpeed(-0.5)
	f.Reset()

	if f.Phase() != PhaseEmpty || f.Len() != 0 || f.Grid() != nil {
		t.Errorf("phase = %s, particles = %d after reset", f.Phase(), f.Len())
	}
	if got := rig.visuals.disposed(); got != 4 {
		t.Errorf("disposed = %d, want 4", got)
	}
	if rig.layers.restored != 1 {
		t.Errorf("restored = %d, want 1", rig.layers.restored)
	}
	if f.Speed() != 1 {
		t.Errorf("speed = %v, want configured 1", f.Speed())
	}
	if last := rig.events[len(rig.events)-1]; last.Type != EventReset {
		t.Errorf("last event = %s, want reset", last.Type)
	}

	// Resetting an empty field is a no-op for the host.
	f.Reset()
	if rig.layers.restored != 1 || len(rig.events) != 2 {
		t.Errorf("restored = %d, events = %d after empty reset", rig.layers.restored, len(rig.events))
	}

	if err := f.Capture(); err != nil {
		t.Fatalf("Capture after reset: %v", err)
	}
	if f.Len() != 4 {
		t.Errorf("particles = %d after re-capture, want 4", f.Len())
	}
}

func TestUpdateIdleField(t *testing.T) {
	rig := newTestRig()
	f, err := NewField(redPlaneConfig(), rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if n := f.Update(1); n != 0 {
		t.Errorf("Update on empty field = %d, want 0", n)
	}
}

func TestReverseReturnsHome(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.MovingMode = DivergeSpherical{Radius: 3}
	f, _ := newCapturedField(t, cfg)

	runUntilSettled(t, f, 0.1)
	for i, p := range f.Particles() {
		if !p.AtTarget() {
			t.Fatalf("particle %d not at target", i)
		}
		if d := p.Target.Sub(p.Origin).Len(); math.Abs(d-3) > 1e-9 {
			t.Errorf("particle %d target distance = %v, want 3", i, d)
		}
	}

	f.Reverse()
	if f.Speed() != -1 {
		t.Fatalf("speed = %v after Reverse, want -1", f.Speed())
	}
	runUntilSettled(t, f, 0.1)
	for i, p := range f.Particles() {
		if !p.AtOrigin() {
			t.Errorf("particle %d at %v, want origin %v", i, p.Position, p.Origin)
		}
	}
}

func TestGridIndexing(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.Indexing = IndexGrid
	f, rig := newCapturedField(t, cfg)

	if c, r := f.Grid().Size(); c != 2 || r != 2 {
		t.Fatalf("grid size = (%d,%d), want (2,2)", c, r)
	}
	for gx := range 2 {
		for gy := range 2 {
			p, ok := f.At(gx, gy)
			if !ok || p.GridX != gx || p.GridY != gy {
				t.Errorf("At(%d,%d) = %+v, %v", gx, gy, p, ok)
			}
		}
	}
	if _, ok := f.At(2, 0); ok {
		t.Error("At outside grid succeeded")
	}

	runUntilSettled(t, f, 0.5)
	toggled := 0
	for _, ev := range rig.events {
		if ev.Type == EventToggled && !ev.Active {
			toggled++
		}
	}
	if toggled != 4 {
		t.Errorf("deactivation events = %d, want 4", toggled)
	}
	for i, p := range f.Particles() {
		if p.Active || p.Visual.(*fakeVisual).visible {
			t.Errorf("particle %d still active at target", i)
		}
	}

	f.SetSpeed(-1)
	runUntilSettled(t, f, 0.5)
	for i, p := range f.Particles() {
		if !p.Active || !p.AtOrigin() {
			t.Errorf("particle %d active = %v at %v, want active at origin", i, p.Active, p.Position)
		}
	}
}

func TestFlatFieldHasNoGrid(t *testing.T) {
	f, _ := newCapturedField(t, redPlaneConfig())
	if f.Grid() != nil {
		t.Error("flat field has a grid")
	}
	if _, ok := f.At(0, 0); ok {
		t.Error("At succeeded on a flat field")
	}
}

func TestKeepMissesSpawnsUnanchored(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.Misses = KeepMisses
	rig := newTestRig()
	rig.rays.Miss = func(u, _ float64) bool { return u >= 0.5 }
	f, err := NewField(cfg, rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if f.Len() != 4 {
		t.Fatalf("particles = %d, want 4", f.Len())
	}
	unanchored := 0
	for _, p := range f.Particles() {
		if !p.Anchored {
			unanchored++
			if p.Origin != (mgl64.Vec3{}) {
				t.Errorf("unanchored origin = %v, want zero", p.Origin)
			}
		}
	}
	if unanchored != 2 {
		t.Errorf("unanchored = %d, want 2", unanchored)
	}
}

func TestSurfaceAnchored(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.SurfaceAnchored = true
	offset := mgl64.Vec3{1, 2, 3}
	rig := newTestRig()
	rig.rays.Object = offsetSpace(offset)
	f, err := NewField(cfg, rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	for i, p := range f.Particles() {
		if p.Parent == nil {
			t.Fatalf("particle %d has no parent", i)
		}
		if got := p.WorldPosition(); got.Z() != 0 {
			t.Errorf("particle %d world position = %v, want on the plane", i, got)
		}
		if got := p.Parent.ToWorld(p.Target); !vecNear(got, mgl64.Vec3{0, 0, 5}, 1e-12) {
			t.Errorf("particle %d world target = %v, want shared point", i, got)
		}
		if rig.visuals.created[i].spec.Parent == nil {
			t.Errorf("visual %d spec has no parent", i)
		}
	}
}

func TestOrientedParticles(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.Oriented = true
	rig := newTestRig()
	rig.rays.Normal = mgl64.Vec3{1, 0, 0}
	f, err := NewField(cfg, rig.host(solidImage(4, 4, red)))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	for i, p := range f.Particles() {
		if got := p.Orientation.Rotate(Forward); !vecNear(got, mgl64.Vec3{-1, 0, 0}, 1e-9) {
			t.Errorf("particle %d forward = %v, want (-1,0,0)", i, got)
		}
	}
}

func TestSeededCapturesRepeat(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.MovingMode = DivergeUniform{Offset: Range{Min: -10, Max: 10}}
	a, _ := newCapturedField(t, cfg)
	b, _ := newCapturedField(t, cfg)
	distinct := map[mgl64.Vec3]bool{}
	for i := range a.Particles() {
		if a.Particles()[i].Target != b.Particles()[i].Target {
			t.Fatalf("particle %d targets differ with equal seeds", i)
		}
		distinct[a.Particles()[i].Target] = true
	}
	if len(distinct) != a.Len() {
		t.Errorf("distinct targets = %d, want %d", len(distinct), a.Len())
	}
}

func TestNewFieldValidation(t *testing.T) {
	rig := newTestRig()
	host := rig.host(solidImage(2, 2, red))

	tests := []struct {
		name string
		cfg  Config
		host Host
	}{
		{"speed above one", Config{ParticlesSpeed: 2}, host},
		{"negative columns", Config{ColumnCount: -1}, host},
		{"negative fixed step", Config{FixedStep: -1}, host},
		{"inverted offset", Config{MovingMode: DivergeUniform{Offset: Range{Min: 5, Max: 1}}}, host},
		{"NaN speed", Config{ParticlesSpeed: math.NaN()}, host},
		{"unknown indexing", Config{Indexing: Indexing(5)}, host},
		{"unknown boundary", Config{Boundary: BoundaryPolicy(9)}, host},
		{"no rays", Config{}, Host{Frames: host.Frames}},
		{"no frames", Config{}, Host{Rays: host.Rays}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewField(tt.cfg, tt.host); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSetSpeedClamps(t *testing.T) {
	f, _ := newCapturedField(t, redPlaneConfig())
	f.SetSpeed(3)
	if f.Speed() != 1 {
		t.Errorf("speed = %v, want 1", f.Speed())
	}
	f.SetSpeed(-3)
	if f.Speed() != -1 {
		t.Errorf("speed = %v, want -1", f.Speed())
	}
}

func TestSetSpeedNaN(t *testing.T) {
	f, _ := newCapturedField(t, redPlaneConfig())
	f.SetSpeed(math.NaN())
	if f.Speed() != 0 {
		t.Fatalf("speed = %v after NaN, want 0", f.Speed())
	}
	f.Update(1.0 / 60)
	for i, p := range f.Particles() {
		if !p.AtOrigin() {
			t.Fatalf("particle %d moved to %v at zero speed", i, p.Position)
		}
	}

	f.SetSpeed(1)
	runUntilSettled(t, f, 0.1)
	f.SetSpeed(-1)
	runUntilSettled(t, f, 0.1)
	for i, p := range f.Particles() {
		if !p.AtOrigin() {
			t.Errorf("particle %d at %v, want origin %v", i, p.Position, p.Origin)
		}
	}
}

func TestUpdateIgnoresBadStep(t *testing.T) {
	f, _ := newCapturedField(t, redPlaneConfig())
	before := f.Particles()[0].Position
	for _, dt := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5} {
		if n := f.Update(dt); n != 0 {
			t.Errorf("Update(%v) = %d, want 0", dt, n)
		}
	}
	if got := f.Particles()[0].Position; got != before {
		t.Errorf("position = %v after ignored steps, want %v", got, before)
	}
}

func TestFixedStep(t *testing.T) {
	cfg := redPlaneConfig()
	cfg.FixedStep = 100
	f, _ := newCapturedField(t, cfg)
	if n := f.Update(1e-6); n != 0 {
		t.Errorf("moving = %d after one fixed step, want 0", n)
	}
	for i, p := range f.Particles() {
		if !p.AtTarget() {
			t.Errorf("particle %d not at target", i)
		}
	}
}
