// Package termhost renders a shatter.Field in a terminal with [tcell]. Each
// cell shows two vertically stacked pixels using the upper half block, so a
// w x h terminal is a w x 2h pixel viewport.
//
// [tcell]: https://github.com/gdamore/tcell
package termhost

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/shatter"
	"github.com/phanxgames/shatter/raycast"
)

const halfBlock = '▀'

// cellVisual is the drawable behind one particle.
type cellVisual struct {
	color    shatter.Color
	pos      mgl64.Vec3
	parent   shatter.LocalSpace
	visible  bool
	disposed bool
}

func (c *cellVisual) SetPosition(p mgl64.Vec3) { c.pos = p }
func (c *cellVisual) SetVisible(visible bool) { c.visible = visible }
func (c *cellVisual) Dispose()                 { c.disposed = true }

// Terminal draws a scene image and particles onto a tcell screen. It is the
// frame source, visibility control, and visual factory of a field.
type Terminal struct {
	Screen tcell.Screen
	Camera *raycast.Camera
	// Scene is the image shown on the scene layer and captured by ReadFrame.
	Scene image.Image
	// Background fills pixels no layer covers.
	Background shatter.Color

	sceneHidden bool
	visuals     []*cellVisual
	pixels      []shatter.Color
	weights     []float64
}

// New creates a Terminal drawing onto screen. The screen must already be
// initialized.
func New(screen tcell.Screen, cam *raycast.Camera, scene image.Image) *Terminal {
	return &Terminal{Screen: screen, Camera: cam, Scene: scene, Background: shatter.Color{A: 1}}
}

// ReadFrame implements shatter.FrameSource.
func (t *Terminal) ReadFrame() (shatter.Frame, error) {
	return shatter.ImageFrame{Image: t.Scene}.ReadFrame()
}

// RestrictToLayer implements shatter.VisibilityController. Only the field's
// particle layer exists besides the scene, so any restriction hides the
// scene.
func (t *Terminal) RestrictToLayer(string) {
	t.sceneHidden = true
}

// RestoreLayers implements shatter.LayerRestorer.
func (t *Terminal) RestoreLayers() {
	t.sceneHidden = false
}

// SceneVisible reports whether the scene layer is drawn.
func (t *Terminal) SceneVisible() bool {
	return !t.sceneHidden
}

// NewVisual implements shatter.VisualFactory.
func (t *Terminal) NewVisual(spec shatter.VisualSpec) (shatter.Visual, error) {
	v := &cellVisual{color: spec.Color, pos: spec.Position, parent: spec.Parent, visible: true}
	t.visuals = append(t.visuals, v)
	return v, nil
}

// PixelSize returns the pixel viewport size: screen width by twice the
// screen height.
func (t *Terminal) PixelSize() (w, h int) {
	cw, ch := t.Screen.Size()
	return cw, ch * 2
}

// Draw rasterizes the visible layers and shows the result.
func (t *Terminal) Draw() {
	w, h := t.PixelSize()
	t.rasterize(w, h)

	for y := 0; y < h/2; y++ {
		for x := 0; x < w; x++ {
			top := t.pixels[(2*y)*w+x]
			bottom := t.pixels[(2*y+1)*w+x]
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			t.Screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	t.Screen.Show()
}

// rasterize fills t.pixels for a w x h viewport. Particles landing on the
// same pixel are averaged.
func (t *Terminal) rasterize(w, h int) {
	n := w * h
	if cap(t.pixels) < n {
		t.pixels = make([]shatter.Color, n)
		t.weights = make([]float64, n)
	}
	t.pixels = t.pixels[:n]
	t.weights = t.weights[:n]
	for i := range t.pixels {
		t.pixels[i] = t.Background
		t.weights[i] = 0
	}

	if !t.sceneHidden && t.Scene != nil {
		frame := shatter.Frame{Image: t.Scene}
		iw, ih := frame.Size()
		for y := 0; y < h && iw > 0 && ih > 0; y++ {
			for x := 0; x < w; x++ {
				t.pixels[y*w+x] = frame.At(x*iw/w, y*ih/h)
			}
		}
	}

	live := t.visuals[:0]
	for _, v := range t.visuals {
		if v.disposed {
			continue
		}
		live = append(live, v)
		if !v.visible || t.Camera == nil {
			continue
		}
		p := v.pos
		if v.parent != nil {
			p = v.parent.ToWorld(p)
		}
		u, vv, _, ok := t.Camera.Project(p)
		if !ok || u < 0 || u >= 1 || vv < 0 || vv >= 1 {
			continue
		}
		i := int(vv*float64(h))*w + int(u*float64(w))
		if t.weights[i] == 0 {
			t.pixels[i] = v.color
		} else {
			k := 1 / (t.weights[i] + 1)
			blended := t.pixels[i].Colorful().BlendRgb(v.color.Colorful(), k)
			t.pixels[i] = shatter.Color{R: blended.R, G: blended.G, B: blended.B, A: 1}
		}
		t.weights[i]++
	}
	clear(t.visuals[len(live):])
	t.visuals = live
}

// tcellColor converts a straight-alpha color, composited over black.
func tcellColor(c shatter.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
