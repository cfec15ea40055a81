package shatter

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the canonical forward axis a particle's orientation rotates
// onto the negated hit normal.
var Forward = mgl64.Vec3{0, 0, 1}

// spawner turns samples into particles for one capture. It writes only into
// its own staging slice; the field commits the result.
type spawner struct {
	cfg       Config
	rng       *rand.Rand
	visuals   VisualFactory
	particles []Particle
	grid      *Grid
}

func newSpawner(cfg Config, rng *rand.Rand, visuals VisualFactory, cols, rows int) *spawner {
	sp := &spawner{
		cfg:       cfg,
		rng:       rng,
		visuals:   visuals,
		particles: make([]Particle, 0, cols*rows),
	}
	if cfg.Indexing == IndexGrid {
		sp.grid = newGrid(cols, rows)
	}
	return sp
}

// spawn builds the particle for smp, resolves its target, and creates its
// visual.
func (sp *spawner) spawn(smp Sample) error {
	p := Particle{
		Color:       smp.Color,
		Origin:      smp.Hit.Position,
		Orientation: mgl64.QuatIdent(),
		Active:      true,
		Anchored:    smp.Anchored,
		GridX:       smp.GridX,
		GridY:       smp.GridY,
	}
	if !smp.Anchored {
		p.Origin = mgl64.Vec3{}
	}
	if sp.cfg.Oriented && smp.Anchored && smp.Hit.Normal.LenSqr() > 0 {
		p.Orientation = mgl64.QuatBetweenVectors(Forward, smp.Hit.Normal.Mul(-1))
	}

	// Targets are resolved in world space so a Converge point is shared even
	// when particles are anchored to different objects.
	p.Target = ResolveTarget(sp.cfg.MovingMode, p.Origin, sp.rng)
	if sp.cfg.SurfaceAnchored && smp.Anchored {
		if ls, ok := smp.Hit.Object.(LocalSpace); ok {
			p.Parent = ls
			p.Origin = ls.ToLocal(p.Origin)
			p.Target = ls.ToLocal(p.Target)
		}
	}
	p.Position = p.Origin

	if sp.visuals != nil {
		v, err := sp.visuals.NewVisual(VisualSpec{
			Color:       p.Color,
			Position:    p.Position,
			Orientation: p.Orientation,
			Scale:       sp.cfg.ParticleScale,
			Layer:       sp.cfg.ParticlesLayer,
			Parent:      p.Parent,
		})
		if err != nil {
			return fmt.Errorf("spawn particle (%d, %d): %w", smp.GridX, smp.GridY, err)
		}
		p.Visual = v
	}

	if sp.grid != nil {
		sp.grid.set(p.GridX, p.GridY, len(sp.particles))
	}
	sp.particles = append(sp.particles, p)
	return nil
}

// discard releases every visual created so far.
func (sp *spawner) discard() {
	for i := range sp.particles {
		if v := sp.particles[i].Visual; v != nil {
			v.Dispose()
		}
	}
	sp.particles = nil
	sp.grid = nil
}
