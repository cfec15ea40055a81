// Package backdrop generates procedural frames to capture from: smooth Perlin
// noise gradients and solid fills. Demos use them as stand-ins for a rendered
// scene; tests use them as deterministic frame sources.
package backdrop

import (
	"image"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/phanxgames/shatter"
)

// Noise parameters passed to go-perlin.
const (
	noiseAlpha = 2.0
	noiseBeta  = 2.0
	noiseOct   = 3
)

// NoiseConfig controls a noise backdrop.
type NoiseConfig struct {
	Width, Height int
	// Scale is the number of noise periods across the image width.
	Scale float64
	Seed  int64
	// From and To are the gradient endpoints, blended in Lab space.
	From, To shatter.Color
}

// Noise renders a Perlin noise gradient between cfg.From and cfg.To.
func Noise(cfg NoiseConfig) *image.RGBA {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return img
	}
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOct, cfg.Seed)
	from, to := cfg.From.Colorful(), cfg.To.Colorful()
	step := cfg.Scale / float64(cfg.Width)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			t := (p.Noise2D(float64(x)*step, float64(y)*step) + 1) / 2
			t = min(max(t, 0), 1)
			c := from.BlendLab(to, t).Clamped()
			r, g, b := c.RGB255()
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xff
		}
	}
	return img
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c shatter.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r, g, b, a := c.RGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(r >> 8)
		img.Pix[i+1] = uint8(g >> 8)
		img.Pix[i+2] = uint8(b >> 8)
		img.Pix[i+3] = uint8(a >> 8)
	}
	return img
}

// Stripes returns a w x h image of vertical bands cycling through colors,
// each band bandWidth pixels wide. Handy for checking sample placement.
func Stripes(w, h, bandWidth int, colors ...shatter.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(colors) == 0 || bandWidth <= 0 {
		return img
	}
	for x := 0; x < w; x++ {
		r, g, b, a := colors[(x/bandWidth)%len(colors)].RGBA()
		for y := 0; y < h; y++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(r >> 8)
			img.Pix[i+1] = uint8(g >> 8)
			img.Pix[i+2] = uint8(b >> 8)
			img.Pix[i+3] = uint8(a >> 8)
		}
	}
	return img
}
