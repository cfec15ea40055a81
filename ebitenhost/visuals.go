package ebitenhost

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/shatter"
	"github.com/phanxgames/shatter/raycast"
)

// quad is the drawable behind one particle.
type quad struct {
	color    shatter.Color
	pos      mgl64.Vec3
	parent   shatter.LocalSpace
	scale    float64
	orient   mgl64.Quat
	tilted   bool
	visible  bool
	disposed bool
}

func (q *quad) SetPosition(p mgl64.Vec3) { q.pos = p }
func (q *quad) SetVisible(visible bool) { q.visible = visible }
func (q *quad) Dispose()                 { q.disposed = true }

func (q *quad) world() mgl64.Vec3 {
	if q.parent != nil {
		return q.parent.ToWorld(q.pos)
	}
	return q.pos
}

// drawItem is a projected quad ready to submit. (x, y) is the screen center;
// (ax, ay) and (bx, by) are the projected edge vectors.
type drawItem struct {
	x, y, depth    float64
	ax, ay, bx, by float64
	color          shatter.Color
}

// extent returns the longer projected edge in pixels.
func (it drawItem) extent() float64 {
	return max(math.Hypot(it.ax, it.ay), math.Hypot(it.bx, it.by))
}

// Visuals is a shatter.VisualFactory drawing every particle as a square
// projected through a camera. Particles with the identity orientation face
// the screen. Oriented particles draw the square spanned by their rotated X
// and Y axes, so a field captured with Config.Oriented tilts with the hit
// surface. Edges never project shorter than one pixel.
type Visuals struct {
	Camera        *raycast.Camera
	Width, Height int

	quads []*quad
	items []drawItem
	white *ebiten.Image
}

// NewVisuals creates a factory for a w x h viewport seen through cam.
func NewVisuals(cam *raycast.Camera, w, h int) *Visuals {
	return &Visuals{Camera: cam, Width: w, Height: h}
}

// NewVisual implements shatter.VisualFactory.
func (v *Visuals) NewVisual(spec shatter.VisualSpec) (shatter.Visual, error) {
	q := &quad{
		color:   spec.Color,
		pos:     spec.Position,
		parent:  spec.Parent,
		scale:   spec.Scale,
		visible: true,
	}
	if spec.Orientation != (mgl64.Quat{}) && !spec.Orientation.ApproxEqual(mgl64.QuatIdent()) {
		q.orient, q.tilted = spec.Orientation.Normalize(), true
	}
	v.quads = append(v.quads, q)
	return q, nil
}

// Len returns the number of live visuals.
func (v *Visuals) Len() int {
	v.compact()
	return len(v.quads)
}

func (v *Visuals) compact() {
	v.quads = slices.DeleteFunc(v.quads, func(q *quad) bool { return q.disposed })
}

// project fills v.items with the visible quads, farthest first.
func (v *Visuals) project() []drawItem {
	v.compact()
	v.items = v.items[:0]
	for _, q := range v.quads {
		if !q.visible {
			continue
		}
		center := q.world()
		u, vv, depth, ok := v.Camera.Project(center)
		if !ok {
			continue
		}
		it := drawItem{
			x:     u * float64(v.Width),
			y:     vv * float64(v.Height),
			depth: depth,
			color: q.color,
		}
		if q.tilted {
			it.ax, it.ay = v.edge(center, it.x, it.y, q.orient.Rotate(mgl64.Vec3{q.scale, 0, 0}), 1, 0)
			it.bx, it.by = v.edge(center, it.x, it.y, q.orient.Rotate(mgl64.Vec3{0, q.scale, 0}), 0, 1)
		} else {
			size := max(q.scale*v.Camera.PixelsPerUnit(depth, v.Height), 1)
			it.ax, it.by = size, size
		}
		v.items = append(v.items, it)
	}
	slices.SortFunc(v.items, func(a, b drawItem) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	return v.items
}

// edge projects the world-space edge vector d starting at center and returns
// its screen delta, stretched to at least one pixel. (fx, fy) is used when
// the edge collapses or leaves the view.
func (v *Visuals) edge(center mgl64.Vec3, x, y float64, d mgl64.Vec3, fx, fy float64) (float64, float64) {
	u, vv, _, ok := v.Camera.Project(center.Add(d))
	if !ok {
		return fx, fy
	}
	dx, dy := u*float64(v.Width)-x, vv*float64(v.Height)-y
	l := math.Hypot(dx, dy)
	switch {
	case l < 1e-9:
		return fx, fy
	case l < 1:
		return dx / l, dy / l
	}
	return dx, dy
}

// Draw renders every visible particle into dst. Use it as the particle
// layer's LayerFunc.
func (v *Visuals) Draw(dst *ebiten.Image) {
	if v.white == nil {
		v.white = ebiten.NewImage(1, 1)
		v.white.Fill(shatter.ColorWhite)
	}
	var op ebiten.DrawImageOptions
	for _, it := range v.project() {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.SetElement(0, 0, it.ax)
		op.GeoM.SetElement(0, 1, it.bx)
		op.GeoM.SetElement(1, 0, it.ay)
		op.GeoM.SetElement(1, 1, it.by)
		op.GeoM.SetElement(0, 2, it.x-(it.ax+it.bx)/2)
		op.GeoM.SetElement(1, 2, it.y-(it.ay+it.by)/2)
		op.ColorScale.ScaleWithColor(it.color)
		dst.DrawImage(v.white, &op)
	}
}
