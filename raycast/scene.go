// Package raycast is a small CPU ray query service for shatter: a pinhole
// camera and a handful of analytic colliders. Hosts with their own physics
// scene implement shatter.RayQuerier directly instead.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/shatter"
)

// Scene casts camera rays against a list of colliders.
type Scene struct {
	Camera    *Camera
	Colliders []Collider
}

// NewScene creates a scene viewed through cam.
func NewScene(cam *Camera, colliders ...Collider) *Scene {
	return &Scene{Camera: cam, Colliders: colliders}
}

// Add appends a collider.
func (s *Scene) Add(c Collider) {
	s.Colliders = append(s.Colliders, c)
}

// QueryRay implements shatter.RayQuerier. The hit object is the collider.
func (s *Scene) QueryRay(u, v float64) (shatter.Hit, error) {
	origin := s.Camera.Position
	dir := s.Camera.Ray(u, v)
	hit, ok := s.Cast(origin, dir)
	if !ok {
		return shatter.Hit{}, shatter.ErrNoHit
	}
	return hit, nil
}

// Cast returns the nearest hit along the ray from origin in unit direction
// dir.
func (s *Scene) Cast(origin, dir mgl64.Vec3) (shatter.Hit, bool) {
	best := math.Inf(1)
	var hit shatter.Hit
	for _, c := range s.Colliders {
		t, n, ok := c.Intersect(origin, dir)
		if !ok || t >= best {
			continue
		}
		best = t
		hit = shatter.Hit{
			Position: origin.Add(dir.Mul(t)),
			Normal:   n,
			Object:   c,
		}
	}
	return hit, !math.IsInf(best, 1)
}
