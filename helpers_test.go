package shatter

import (
	"errors"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

var errBroken = errors.New("broken")

// wallRays maps view coordinates onto a wall at z = 0 spanning
// [0, Width) x [0, Height), facing a camera looking down +Z.
type wallRays struct {
	Width, Height float64
	// Miss reports which coordinates hit nothing.
	Miss func(u, v float64) bool
	// Err is returned for every query when set.
	Err error
	// Normal overrides the wall normal when non-zero.
	Normal mgl64.Vec3
	Object any
	calls  int
}

func (w *wallRays) QueryRay(u, v float64) (Hit, error) {
	w.calls++
	if w.Err != nil {
		return Hit{}, w.Err
	}
	if w.Miss != nil && w.Miss(u, v) {
		return Hit{}, ErrNoHit
	}
	n := w.Normal
	if n == (mgl64.Vec3{}) {
		n = mgl64.Vec3{0, 0, -1}
	}
	return Hit{
		Position: mgl64.Vec3{u * w.Width, v * w.Height, 0},
		Normal:   n,
		Object:   w.Object,
	}, nil
}

// offsetSpace is a LocalSpace translated by its value.
type offsetSpace mgl64.Vec3

func (o offsetSpace) ToLocal(p mgl64.Vec3) mgl64.Vec3 { return p.Sub(mgl64.Vec3(o)) }
func (o offsetSpace) ToWorld(p mgl64.Vec3) mgl64.Vec3 { return p.Add(mgl64.Vec3(o)) }

type fakeVisual struct {
	spec     VisualSpec
	pos      mgl64.Vec3
	visible  bool
	disposed bool
	moves    int
}

func (v *fakeVisual) SetPosition(p mgl64.Vec3) { v.pos = p; v.moves++ }
func (v *fakeVisual) SetVisible(visible bool) { v.visible = visible }
func (v *fakeVisual) Dispose()                 { v.disposed = true }

// fakeVisuals records every visual and fails once FailAfter visuals exist.
type fakeVisuals struct {
	FailAfter int
	created   []*fakeVisual
}

func (f *fakeVisuals) NewVisual(spec VisualSpec) (Visual, error) {
	if f.FailAfter > 0 && len(f.created) >= f.FailAfter {
		return nil, errBroken
	}
	v := &fakeVisual{spec: spec, pos: spec.Position, visible: true}
	f.created = append(f.created, v)
	return v, nil
}

func (f *fakeVisuals) disposed() int {
	n := 0
	for _, v := range f.created {
		if v.disposed {
			n++
		}
	}
	return n
}

type fakeLayers struct {
	restricted []string
	restored   int
}

func (l *fakeLayers) RestrictToLayer(layer string) { l.restricted = append(l.restricted, layer) }
func (l *fakeLayers) RestoreLayers()               { l.restored++ }

type failingFrames struct{}

func (failingFrames) ReadFrame() (Frame, error) { return Frame{}, errBroken }

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

var red = color.NRGBA{R: 255, A: 255}

type testRig struct {
	rays    *wallRays
	visuals *fakeVisuals
	layers  *fakeLayers
	events  []Event
}

func (r *testRig) host(img image.Image) Host {
	return Host{
		Frames:     ImageFrame{Image: img},
		Rays:       r.rays,
		Visibility: r.layers,
		Visuals:    r.visuals,
		Observer:   ObserverFunc(func(ev Event) { r.events = append(r.events, ev) }),
	}
}

func newTestRig() *testRig {
	return &testRig{
		rays:    &wallRays{Width: 10, Height: 10},
		visuals: &fakeVisuals{},
		layers:  &fakeLayers{},
	}
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}
