package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefreshDraws is how many draws pass between FPS text refreshes.
const fpsRefreshDraws = 30

// FPSOverlay draws the current FPS, TPS, and a status line in the top-left
// corner. Draw it onto the screen after the compositor so it stays visible
// while the compositor is restricted to the particle layer.
type FPSOverlay struct {
	img   *ebiten.Image
	draws int
	text  string
}

// Draw refreshes the overlay every few draws and blits it onto dst.
func (o *FPSOverlay) Draw(dst *ebiten.Image, status string) {
	if o.img == nil {
		// 320x48 fits three lines of debug text.
		o.img = ebiten.NewImage(320, 48)
	}
	if o.draws%fpsRefreshDraws == 0 || status != o.text {
		o.text = status
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f  TPS: %.1f\n%s", ebiten.ActualFPS(), ebiten.ActualTPS(), status))
	}
	o.draws++
	dst.DrawImage(o.img, nil)
}
