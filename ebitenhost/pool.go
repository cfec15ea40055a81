package ebitenhost

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// offscreens recycles the scratch targets translucent layers are drawn into.
// Sizes round up to powers of two so a fade reuses one target every frame.
type offscreens struct {
	free map[image.Point][]*ebiten.Image
}

// ceilPow2 returns the smallest power of two not below n, and 1 for n <= 1.
func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func bucketSize(w, h int) image.Point {
	return image.Pt(ceilPow2(w), ceilPow2(h))
}

// get returns a cleared target covering at least w x h pixels.
func (o *offscreens) get(w, h int) *ebiten.Image {
	size := bucketSize(w, h)
	if free := o.free[size]; len(free) > 0 {
		img := free[len(free)-1]
		o.free[size] = free[:len(free)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rectangle{Max: size}, &ebiten.NewImageOptions{Unmanaged: true})
}

// put hands a target back for the next get.
func (o *offscreens) put(img *ebiten.Image) {
	if img == nil {
		return
	}
	if o.free == nil {
		o.free = make(map[image.Point][]*ebiten.Image)
	}
	size := img.Bounds().Size()
	o.free[size] = append(o.free[size], img)
}

// idle counts targets waiting for reuse.
func (o *offscreens) idle() int {
	n := 0
	for _, imgs := range o.free {
		n += len(imgs)
	}
	return n
}
