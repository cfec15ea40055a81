package shatter

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the nearest surface found by a ray query.
type Hit struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	// Object is the collider that was hit. It may implement LocalSpace, in
	// which case surface-anchored particles are stored relative to it.
	Object any
}

// LocalSpace is implemented by hit objects that carry their own coordinate
// frame.
type LocalSpace interface {
	ToLocal(world mgl64.Vec3) mgl64.Vec3
	ToWorld(local mgl64.Vec3) mgl64.Vec3
}

// RayQuerier casts a ray through the normalized view coordinate (u, v), with
// (0, 0) at the top-left and (1, 1) at the bottom-right of the viewport.
// It returns ErrNoHit when nothing is hit; any other error makes the capture
// fail with ErrResourceUnavailable.
type RayQuerier interface {
	QueryRay(u, v float64) (Hit, error)
}

// Frame is a rendered image read back from the host.
type Frame struct {
	Image image.Image
}

// Size returns the frame dimensions in pixels.
func (f Frame) Size() (w, h int) {
	if f.Image == nil {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the straight-alpha color of pixel (x, y) relative to the image
// origin. Coordinates outside the frame are clamped to the nearest edge.
func (f Frame) At(x, y int) Color {
	b := f.Image.Bounds()
	x = min(max(x, 0), b.Dx()-1)
	y = min(max(y, 0), b.Dy()-1)
	return ColorFromImage(f.Image.At(b.Min.X+x, b.Min.Y+y))
}

// FrameSource reads the current rendered frame. Called once per capture.
type FrameSource interface {
	ReadFrame() (Frame, error)
}

// ImageFrame is a FrameSource over a fixed image.
type ImageFrame struct {
	Image image.Image
}

// ReadFrame returns the wrapped image.
func (s ImageFrame) ReadFrame() (Frame, error) {
	if s.Image == nil {
		return Frame{}, fmt.Errorf("read frame: no image: %w", ErrResourceUnavailable)
	}
	return Frame{Image: s.Image}, nil
}

// VisibilityController narrows what the host renderer draws. Called once,
// after a capture commits.
type VisibilityController interface {
	RestrictToLayer(layer string)
}

// LayerRestorer is optionally implemented by a VisibilityController to undo
// RestrictToLayer when a field is reset.
type LayerRestorer interface {
	RestoreLayers()
}

// VisualSpec describes the drawable the host should create for a particle.
type VisualSpec struct {
	Color       Color
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       float64
	Layer       string
	// Parent is the hit object the position is relative to, or nil when
	// Position is in world space.
	Parent LocalSpace
}

// Visual is an opaque drawable handle owned by the host. The field writes
// position and visibility to it and never reads anything back. Positions are
// in the same space as the VisualSpec the handle was created from.
type Visual interface {
	SetPosition(p mgl64.Vec3)
	SetVisible(visible bool)
	Dispose()
}

// VisualFactory creates drawables for spawned particles.
type VisualFactory interface {
	NewVisual(spec VisualSpec) (Visual, error)
}

// Host bundles the collaborators a Field talks to. Frames and Rays are
// required; the rest are optional.
type Host struct {
	Frames     FrameSource
	Rays       RayQuerier
	Visibility VisibilityController
	Visuals    VisualFactory
	Observer   Observer
}
