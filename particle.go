package shatter

import "github.com/go-gl/mathgl/mgl64"

// Particle is one sampled cell of a captured frame. Only Position and Active
// change after spawn, and only the integrator changes them.
type Particle struct {
	Color       Color
	Origin      mgl64.Vec3
	Target      mgl64.Vec3
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	// Active is only meaningful with grid indexing; flat fields keep it true.
	Active bool
	// Anchored is false when the particle was spawned from a missed ray.
	Anchored     bool
	GridX, GridY int
	// Parent is set when Origin, Target, and Position are relative to the hit
	// object.
	Parent LocalSpace
	Visual Visual
}

// WorldPosition returns Position in world space.
func (p *Particle) WorldPosition() mgl64.Vec3 {
	if p.Parent != nil {
		return p.Parent.ToWorld(p.Position)
	}
	return p.Position
}

// AtTarget reports whether the particle sits exactly on its target.
func (p *Particle) AtTarget() bool {
	return p.Position == p.Target
}

// AtOrigin reports whether the particle sits exactly on its origin.
func (p *Particle) AtOrigin() bool {
	return p.Position == p.Origin
}

// Grid maps sample-grid coordinates to particle indices. It is sized to the
// sample grid, not to the source image.
type Grid struct {
	cols, rows int
	cells      []int32 // particle index + 1; 0 means empty
}

func newGrid(cols, rows int) *Grid {
	return &Grid{cols: cols, rows: rows, cells: make([]int32, cols*rows)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

func (g *Grid) set(gx, gy, index int) {
	g.cells[gy*g.cols+gx] = int32(index + 1)
}

// Index returns the particle index stored at (gx, gy).
func (g *Grid) Index(gx, gy int) (int, bool) {
	if gx < 0 || gy < 0 || gx >= g.cols || gy >= g.rows {
		return 0, false
	}
	v := g.cells[gy*g.cols+gx]
	return int(v) - 1, v != 0
}
