package ebitenhost

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/shatter"
)

// ImageSource is a shatter.FrameSource reading back an ebiten image, such as
// a render target a camera draws into.
type ImageSource struct {
	Image *ebiten.Image
}

// ReadFrame implements shatter.FrameSource. Must be called from the game
// loop once the game has started.
func (s ImageSource) ReadFrame() (shatter.Frame, error) {
	img, err := readImage(s.Image)
	if err != nil {
		return shatter.Frame{}, err
	}
	return shatter.Frame{Image: img}, nil
}

// readImage copies an ebiten image to a straight-alpha NRGBA image.
func readImage(src *ebiten.Image) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("read frame: nil image: %w", shatter.ErrResourceUnavailable)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("read frame: empty %dx%d image: %w", w, h, shatter.ErrResourceUnavailable)
	}
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)
	return unpremultiply(pixels, w, h), nil
}

// unpremultiply converts premultiplied RGBA bytes to a straight-alpha NRGBA
// image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
