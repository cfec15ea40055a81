package shatter

import (
	"encoding/json"
	"fmt"
	"math"
)

// Default configuration values.
const (
	DefaultColumnCount    = 60
	DefaultRowCount       = 60
	DefaultParticleScale  = 0.035
	DefaultParticlesLayer = "particles"
)

// Config controls how a Field samples, spawns, and moves particles.
type Config struct {
	// ColumnCount and RowCount set the sample grid resolution.
	ColumnCount int
	RowCount    int
	// ParticleScale is the uniform scale handed to the visual factory.
	ParticleScale float64
	// ParticlesSpeed is the signed speed in [-1, 1]. Non-negative values move
	// particles towards their targets, negative values return them home.
	ParticlesSpeed float64
	// MovingMode resolves every particle's target. Defaults to Converge on
	// the world origin.
	MovingMode MovingMode
	// ParticlesLayer is the layer the renderer is restricted to after capture.
	ParticlesLayer string
	// Boundary selects whether the final image edge is sampled.
	Boundary BoundaryPolicy
	// Misses selects what happens to samples whose ray hits nothing.
	Misses MissPolicy
	// Indexing selects flat or grid indexing. Grid indexing enables the
	// active/inactive toggle.
	Indexing Indexing
	// SurfaceAnchored stores origins relative to the hit object when it
	// implements LocalSpace.
	SurfaceAnchored bool
	// Oriented aligns each particle's forward axis with the negated hit normal.
	Oriented bool
	// FixedStep, when positive, replaces speed*dt with a constant per-tick
	// step. The sign of ParticlesSpeed still selects the direction.
	FixedStep float64
	// Seed seeds the per-capture random source. Zero seeds from the clock.
	Seed uint64
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.ColumnCount == 0 {
		c.ColumnCount = DefaultColumnCount
	}
	if c.RowCount == 0 {
		c.RowCount = DefaultRowCount
	}
	if c.ParticleScale == 0 {
		c.ParticleScale = DefaultParticleScale
	}
	if c.MovingMode == nil {
		c.MovingMode = Converge{}
	}
	c.MovingMode = c.MovingMode.withDefaults()
	if c.ParticlesLayer == "" {
		c.ParticlesLayer = DefaultParticlesLayer
	}
	return c
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.ColumnCount <= 0:
		return fmt.Errorf("column count %d: %w", c.ColumnCount, ErrInvalidConfig)
	case c.RowCount <= 0:
		return fmt.Errorf("row count %d: %w", c.RowCount, ErrInvalidConfig)
	case !finite(c.ParticleScale) || c.ParticleScale <= 0:
		return fmt.Errorf("particle scale %v: %w", c.ParticleScale, ErrInvalidConfig)
	case !finite(c.ParticlesSpeed) || c.ParticlesSpeed < -1 || c.ParticlesSpeed > 1:
		return fmt.Errorf("particles speed %v outside [-1, 1]: %w", c.ParticlesSpeed, ErrInvalidConfig)
	case !finite(c.FixedStep) || c.FixedStep < 0:
		return fmt.Errorf("fixed step %v: %w", c.FixedStep, ErrInvalidConfig)
	case c.Boundary > EdgeInclusive:
		return fmt.Errorf("boundary policy %d: %w", c.Boundary, ErrInvalidConfig)
	case c.Misses > KeepMisses:
		return fmt.Errorf("miss policy %d: %w", c.Misses, ErrInvalidConfig)
	case c.Indexing > IndexGrid:
		return fmt.Errorf("indexing %d: %w", c.Indexing, ErrInvalidConfig)
	case c.MovingMode == nil:
		return fmt.Errorf("moving mode: %w", ErrInvalidMode)
	}
	return c.MovingMode.validate()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// jsonConfig mirrors Config with pointer fields so absent keys keep defaults.
type jsonConfig struct {
	ColumnCount     *int            `json:"columnCount"`
	RowCount        *int            `json:"rowCount"`
	ParticleScale   *float64        `json:"particleScale"`
	ParticlesSpeed  *float64        `json:"particlesSpeed"`
	MovingMode      json.RawMessage `json:"movingMode"`
	ParticlesLayer  string          `json:"particlesLayer"`
	Boundary        string          `json:"boundary"`
	Misses          string          `json:"misses"`
	Indexing        string          `json:"indexing"`
	SurfaceAnchored bool            `json:"surfaceAnchored"`
	Oriented        bool            `json:"oriented"`
	FixedStep       float64         `json:"fixedStep"`
	Seed            uint64          `json:"seed"`
}

// LoadConfig parses a JSON configuration, applies defaults, and validates it.
//
//	{
//	  "columnCount": 80, "rowCount": 45, "particlesSpeed": 0.5,
//	  "movingMode": {"kind": "divergeSpherical", "radius": 10, "planar": true},
//	  "indexing": "grid"
//	}
func LoadConfig(jsonData []byte) (Config, error) {
	var raw jsonConfig
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if raw.ColumnCount != nil {
		cfg.ColumnCount = *raw.ColumnCount
	}
	if raw.RowCount != nil {
		cfg.RowCount = *raw.RowCount
	}
	if raw.ParticleScale != nil {
		cfg.ParticleScale = *raw.ParticleScale
	}
	if raw.ParticlesSpeed != nil {
		cfg.ParticlesSpeed = *raw.ParticlesSpeed
	}
	cfg.ParticlesLayer = raw.ParticlesLayer
	cfg.SurfaceAnchored = raw.SurfaceAnchored
	cfg.Oriented = raw.Oriented
	cfg.FixedStep = raw.FixedStep
	cfg.Seed = raw.Seed

	switch raw.Boundary {
	case "", "exclusive":
		cfg.Boundary = EdgeExclusive
	case "inclusive":
		cfg.Boundary = EdgeInclusive
	default:
		return Config{}, fmt.Errorf("parse config: boundary %q: %w", raw.Boundary, ErrInvalidConfig)
	}
	switch raw.Misses {
	case "", "skip":
		cfg.Misses = SkipMisses
	case "keep":
		cfg.Misses = KeepMisses
	default:
		return Config{}, fmt.Errorf("parse config: misses %q: %w", raw.Misses, ErrInvalidConfig)
	}
	switch raw.Indexing {
	case "", "flat":
		cfg.Indexing = IndexFlat
	case "grid":
		cfg.Indexing = IndexGrid
	default:
		return Config{}, fmt.Errorf("parse config: indexing %q: %w", raw.Indexing, ErrInvalidConfig)
	}

	if len(raw.MovingMode) > 0 {
		mode, err := parseModeJSON(raw.MovingMode)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.MovingMode = mode
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
