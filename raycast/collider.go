package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// hitEpsilon rejects self-intersections at the ray origin.
const hitEpsilon = 1e-9

// Collider is a surface a ray can hit. Intersect returns the distance along
// the unit direction dir and the surface normal facing the ray.
type Collider interface {
	Intersect(origin, dir mgl64.Vec3) (t float64, normal mgl64.Vec3, ok bool)
}

// Plane is an infinite plane through Point.
type Plane struct {
	Name   string
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// Intersect implements Collider.
func (p *Plane) Intersect(origin, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	n := p.Normal.Normalize()
	denom := n.Dot(dir)
	if math.Abs(denom) < hitEpsilon {
		return 0, mgl64.Vec3{}, false
	}
	t := p.Point.Sub(origin).Dot(n) / denom
	if t <= hitEpsilon {
		return 0, mgl64.Vec3{}, false
	}
	return t, facing(n, dir), true
}

// ToLocal implements shatter.LocalSpace relative to Point.
func (p *Plane) ToLocal(world mgl64.Vec3) mgl64.Vec3 { return world.Sub(p.Point) }

// ToWorld implements shatter.LocalSpace.
func (p *Plane) ToWorld(local mgl64.Vec3) mgl64.Vec3 { return local.Add(p.Point) }

// Quad is a finite rectangle spanned by two half-extent vectors from Center.
type Quad struct {
	Name   string
	Center mgl64.Vec3
	// HalfRight and HalfUp are perpendicular half-extents.
	HalfRight mgl64.Vec3
	HalfUp    mgl64.Vec3
}

// Normal returns the quad's unit normal (HalfRight x HalfUp).
func (q *Quad) Normal() mgl64.Vec3 {
	return q.HalfRight.Cross(q.HalfUp).Normalize()
}

// Intersect implements Collider.
func (q *Quad) Intersect(origin, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	n := q.Normal()
	denom := n.Dot(dir)
	if math.Abs(denom) < hitEpsilon {
		return 0, mgl64.Vec3{}, false
	}
	t := q.Center.Sub(origin).Dot(n) / denom
	if t <= hitEpsilon {
		return 0, mgl64.Vec3{}, false
	}
	rel := origin.Add(dir.Mul(t)).Sub(q.Center)
	if math.Abs(rel.Dot(q.HalfRight)) > q.HalfRight.LenSqr() ||
		math.Abs(rel.Dot(q.HalfUp)) > q.HalfUp.LenSqr() {
		return 0, mgl64.Vec3{}, false
	}
	return t, facing(n, dir), true
}

// ToLocal implements shatter.LocalSpace relative to Center.
func (q *Quad) ToLocal(world mgl64.Vec3) mgl64.Vec3 { return world.Sub(q.Center) }

// ToWorld implements shatter.LocalSpace.
func (q *Quad) ToWorld(local mgl64.Vec3) mgl64.Vec3 { return local.Add(q.Center) }

// Sphere is a solid sphere.
type Sphere struct {
	Name   string
	Center mgl64.Vec3
	Radius float64
}

// Intersect implements Collider. Rays starting inside the sphere hit its far
// side.
func (s *Sphere) Intersect(origin, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.LenSqr() - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= hitEpsilon {
		t = -b + sq
		if t <= hitEpsilon {
			return 0, mgl64.Vec3{}, false
		}
	}
	n := origin.Add(dir.Mul(t)).Sub(s.Center).Normalize()
	return t, facing(n, dir), true
}

// ToLocal implements shatter.LocalSpace relative to Center.
func (s *Sphere) ToLocal(world mgl64.Vec3) mgl64.Vec3 { return world.Sub(s.Center) }

// ToWorld implements shatter.LocalSpace.
func (s *Sphere) ToWorld(local mgl64.Vec3) mgl64.Vec3 { return local.Add(s.Center) }

// facing flips n so it points against dir.
func facing(n, dir mgl64.Vec3) mgl64.Vec3 {
	if n.Dot(dir) > 0 {
		return n.Mul(-1)
	}
	return n
}
