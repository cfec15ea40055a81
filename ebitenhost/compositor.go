package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/shatter"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// LayerFunc draws one layer's content into dst.
type LayerFunc func(dst *ebiten.Image)

type layer struct {
	name   string
	draw   LayerFunc
	hidden bool
	alpha  float64

	// fade runs while the layer is being hidden; level multiplies alpha.
	fade  *gween.Tween
	level float64
}

func (l *layer) opacity() float64 {
	return l.alpha * l.level
}

// Compositor draws named layers into a persistent frame image and presents
// it. It is both the frame source a field captures from and the visibility
// control it restricts after capture.
type Compositor struct {
	// ClearColor fills the frame before layers draw.
	ClearColor shatter.Color
	// FadeSeconds, when positive, makes RestrictToLayer fade the other layers
	// out over that many seconds of Update instead of hiding them at once.
	FadeSeconds float32

	width, height int
	layers        []*layer
	frame         *ebiten.Image
	scratch       offscreens
}

// NewCompositor creates a compositor for a w x h frame. Images are allocated
// on first Draw.
func NewCompositor(w, h int) *Compositor {
	return &Compositor{width: w, height: h, ClearColor: shatter.Color{A: 1}}
}

// AddLayer appends a layer drawn after every existing one.
func (c *Compositor) AddLayer(name string, draw LayerFunc) {
	c.layers = append(c.layers, &layer{name: name, draw: draw, alpha: 1, level: 1})
}

func (c *Compositor) find(name string) *layer {
	for _, l := range c.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// SetLayerAlpha sets a layer's opacity. Layers below 1 are drawn through a
// recycled offscreen target.
func (c *Compositor) SetLayerAlpha(name string, alpha float64) {
	if l := c.find(name); l != nil {
		l.alpha = min(max(alpha, 0), 1)
	}
}

// LayerVisible reports whether the named layer is drawn. A layer that is
// fading out is still visible.
func (c *Compositor) LayerVisible(name string) bool {
	l := c.find(name)
	return l != nil && !l.hidden
}

// LayerOpacity returns the opacity the named layer is drawn with, including
// any fade in progress. Hidden and unknown layers report 0.
func (c *Compositor) LayerOpacity(name string) float64 {
	l := c.find(name)
	if l == nil || l.hidden {
		return 0
	}
	return l.opacity()
}

// RestrictToLayer implements shatter.VisibilityController: every layer but
// name is hidden, or starts fading out when FadeSeconds is set.
func (c *Compositor) RestrictToLayer(name string) {
	for _, l := range c.layers {
		if l.name == name {
			l.hidden, l.fade, l.level = false, nil, 1
			continue
		}
		if l.hidden || l.fade != nil {
			continue
		}
		if c.FadeSeconds <= 0 {
			l.hidden = true
			continue
		}
		l.fade = gween.New(1, 0, c.FadeSeconds, ease.OutQuad)
	}
}

// RestoreLayers implements shatter.LayerRestorer. Pending fades are
// cancelled.
func (c *Compositor) RestoreLayers() {
	for _, l := range c.layers {
		l.hidden, l.fade, l.level = false, nil, 1
	}
}

// Update advances layer fades by dt seconds. A layer whose fade finishes is
// hidden.
func (c *Compositor) Update(dt float64) {
	for _, l := range c.layers {
		if l.fade == nil {
			continue
		}
		v, done := l.fade.Update(float32(dt))
		l.level = float64(v)
		if done {
			l.hidden, l.fade, l.level = true, nil, 1
		}
	}
}

// Frame returns the last composited frame, or nil before the first Draw.
func (c *Compositor) Frame() *ebiten.Image {
	return c.frame
}

// ReadFrame implements shatter.FrameSource by reading back the last
// composited frame.
func (c *Compositor) ReadFrame() (shatter.Frame, error) {
	img, err := readImage(c.frame)
	if err != nil {
		return shatter.Frame{}, err
	}
	return shatter.Frame{Image: img}, nil
}

// Draw composites visible layers into the frame and draws it onto screen.
func (c *Compositor) Draw(screen *ebiten.Image) {
	if c.frame == nil {
		c.frame = ebiten.NewImage(c.width, c.height)
	}
	c.frame.Fill(c.ClearColor)

	for _, l := range c.layers {
		a := l.opacity()
		if l.hidden || l.draw == nil || a <= 0 {
			continue
		}
		if a >= 1 {
			l.draw(c.frame)
			continue
		}
		rt := c.scratch.get(c.width, c.height)
		l.draw(rt)
		var op ebiten.DrawImageOptions
		op.ColorScale.ScaleAlpha(float32(a))
		c.frame.DrawImage(rt, &op)
		c.scratch.put(rt)
	}

	screen.DrawImage(c.frame, nil)
}
