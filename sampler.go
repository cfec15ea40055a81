package shatter

import (
	"errors"
	"fmt"
	"iter"
)

// Sample is one grid cell of a captured frame.
type Sample struct {
	// GridX and GridY are the sample-grid coordinates.
	GridX, GridY int
	// PixelX and PixelY are the pixel the color was read from.
	PixelX, PixelY int
	// U and V are the normalized view coordinates handed to the ray query.
	U, V  float64
	Color Color
	Hit   Hit
	// Anchored is false when the ray missed and the miss policy kept the
	// sample anyway.
	Anchored bool
}

// Sampler walks a frame on a regular grid and resolves every cell to a scene
// anchor through a RayQuerier.
type Sampler struct {
	Columns  int
	Rows     int
	Boundary BoundaryPolicy
	Misses   MissPolicy
	Rays     RayQuerier
}

// NewSampler creates a Sampler using the grid and policies from cfg.
func NewSampler(cfg Config, rays RayQuerier) *Sampler {
	return &Sampler{
		Columns:  cfg.ColumnCount,
		Rows:     cfg.RowCount,
		Boundary: cfg.Boundary,
		Misses:   cfg.Misses,
		Rays:     rays,
	}
}

// Steps returns the pixel stride between samples for a w x h frame. Strides
// are truncated and never less than one.
func (s *Sampler) Steps(w, h int) (stepX, stepY int) {
	stepX, stepY = 1, 1
	if s.Columns > 0 {
		stepX = max(w/s.Columns, 1)
	}
	if s.Rows > 0 {
		stepY = max(h/s.Rows, 1)
	}
	return stepX, stepY
}

// GridSize returns the number of sample columns and rows for a w x h frame.
func (s *Sampler) GridSize(w, h int) (cols, rows int) {
	stepX, stepY := s.Steps(w, h)
	cols = min(s.Columns, ceilDiv(w, stepX))
	rows = min(s.Rows, ceilDiv(h, stepY))
	if s.Boundary == EdgeInclusive {
		cols++
		rows++
	}
	return cols, rows
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Samples returns a lazy sequence over the frame's grid, column by column.
// A query error other than ErrNoHit is yielded once, wrapped in
// ErrResourceUnavailable, and ends the sequence.
func (s *Sampler) Samples(frame Frame) iter.Seq2[Sample, error] {
	return func(yield func(Sample, error) bool) {
		w, h := frame.Size()
		if w == 0 || h == 0 {
			yield(Sample{}, fmt.Errorf("sample frame: empty %dx%d image: %w", w, h, ErrResourceUnavailable))
			return
		}
		if s.Rays == nil {
			yield(Sample{}, fmt.Errorf("sample frame: no ray querier: %w", ErrResourceUnavailable))
			return
		}

		stepX, stepY := s.Steps(w, h)
		cols, rows := s.GridSize(w, h)

		for gx := 0; gx < cols; gx++ {
			x := min(gx*stepX, w)
			for gy := 0; gy < rows; gy++ {
				y := min(gy*stepY, h)
				smp := Sample{
					GridX:  gx,
					GridY:  gy,
					PixelX: min(x, w-1),
					PixelY: min(y, h-1),
					U:      float64(x) / float64(w),
					V:      float64(y) / float64(h),
				}
				smp.Color = frame.At(smp.PixelX, smp.PixelY)

				hit, err := s.Rays.QueryRay(smp.U, smp.V)
				switch {
				case err == nil:
					smp.Hit = hit
					smp.Anchored = true
				case errors.Is(err, ErrNoHit):
					if s.Misses == SkipMisses {
						continue
					}
				default:
					yield(Sample{}, fmt.Errorf("query ray (%d, %d): %w: %w", gx, gy, ErrResourceUnavailable, err))
					return
				}

				if !yield(smp, nil) {
					return
				}
			}
		}
	}
}
