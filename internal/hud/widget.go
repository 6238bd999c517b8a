package hud

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is the capability every HUD view object implements. Widgets are
// independent compositions over shared free functions, not subclasses of a
// base type: each one pulls what it needs from the world and the bus and owns
// its own transient state.
//
// Dispose releases bus subscriptions; a disposed widget must not be updated
// again.
type Widget interface {
	Update(delta float64)
	Draw(dst *ebiten.Image)
	Dispose()
}

// drawBar fills a horizontal gauge: dark backing, filled fraction, border.
func drawBar(dst *ebiten.Image, x, y, w, h float32, frac float64, fill color.RGBA) {
	vector.FillRect(dst, x, y, w, h, color.RGBA{R: 16, G: 20, B: 24, A: 220}, false)
	fw := w * float32(clamp01(frac))
	if fw > 0 {
		vector.FillRect(dst, x, y, fw, h, fill, false)
	}
	vector.StrokeRect(dst, x, y, w, h, 1, color.RGBA{R: 70, G: 90, B: 100, A: 255}, false)
}

// drawTicks marks a gauge with vertical dividers every step fraction.
func drawTicks(dst *ebiten.Image, x, y, w, h float32, step float64, col color.RGBA) {
	if step <= 0 || step >= 1 {
		return
	}
	for f := step; f < 1; f += step {
		tx := x + w*float32(f)
		vector.StrokeLine(dst, tx, y, tx, y+h, 1, col, false)
	}
}
