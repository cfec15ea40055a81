package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a pinhole perspective camera. View coordinates are normalized:
// (0, 0) is the top-left of the viewport and (1, 1) the bottom-right.
type Camera struct {
	Position mgl64.Vec3
	// FovY is the vertical field of view in radians.
	FovY float64
	// Aspect is viewport width divided by height.
	Aspect float64
	// Near is the closest depth Project accepts.
	Near float64

	forward, right, up mgl64.Vec3
	tanHalf            float64
}

// NewCamera creates a camera at eye looking at target. fovY is in radians.
func NewCamera(eye, target, up mgl64.Vec3, fovY, aspect float64) *Camera {
	c := &Camera{Position: eye, FovY: fovY, Aspect: aspect, Near: 0.01}
	c.LookAt(target, up)
	return c
}

// LookAt re-aims the camera at target.
func (c *Camera) LookAt(target, up mgl64.Vec3) {
	c.forward = target.Sub(c.Position).Normalize()
	c.right = c.forward.Cross(up).Normalize()
	c.up = c.right.Cross(c.forward)
	c.tanHalf = math.Tan(c.FovY / 2)
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.forward
}

// Ray returns the unit direction of the ray through view coordinate (u, v).
// Rays start at the camera position.
func (c *Camera) Ray(u, v float64) mgl64.Vec3 {
	x := (2*u - 1) * c.tanHalf * c.Aspect
	y := (1 - 2*v) * c.tanHalf
	return c.forward.Add(c.right.Mul(x)).Add(c.up.Mul(y)).Normalize()
}

// Project maps a world point to view coordinates and its depth along the
// viewing direction. ok is false for points closer than Near.
func (c *Camera) Project(p mgl64.Vec3) (u, v, depth float64, ok bool) {
	d := p.Sub(c.Position)
	depth = d.Dot(c.forward)
	if depth < c.Near {
		return 0, 0, depth, false
	}
	x := d.Dot(c.right) / (depth * c.tanHalf * c.Aspect)
	y := d.Dot(c.up) / (depth * c.tanHalf)
	return (x + 1) / 2, (1 - y) / 2, depth, true
}

// PixelsPerUnit returns how many viewport pixels one world unit spans at the
// given depth for a viewport of the given pixel height.
func (c *Camera) PixelsPerUnit(depth float64, viewportHeight int) float64 {
	if depth <= 0 {
		return 0
	}
	return float64(viewportHeight) / (2 * depth * c.tanHalf)
}
