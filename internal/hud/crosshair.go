package hud

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Crosshair renders the aim reticle. Spread kicks out on every shot and
// decays back per frame; a hit marker flashes briefly on weapon:hit, and
// reporting another hit restarts the flash rather than racing the old one.
type Crosshair struct {
	cfg   *Config
	bus   *Bus
	world *World

	spread float64 // extra pixel gap past the base reticle
	style  int     // per-weapon variant index
	hit    Countdown
	clock  float64

	cancels []func()
}

// NewCrosshair creates the reticle widget wired to fire/hit traffic.
func NewCrosshair(cfg *Config, bus *Bus, world *World) *Crosshair {
	ch := &Crosshair{cfg: cfg, bus: bus, world: world}
	ch.cancels = append(ch.cancels,
		bus.Subscribe(TopicWeaponFired, func(any) {
			ch.spread += cfg.CrosshairKick
		}),
		bus.Subscribe(TopicWeaponHit, func(any) {
			ch.hit.Start(ch.clock, cfg.FlashDuration)
		}),
	)
	return ch
}

// SetStyle selects the per-weapon reticle variant.
func (ch *Crosshair) SetStyle(style int) {
	if style < 0 {
		style = 0
	}
	ch.style = style
}

// Spread returns the current extra gap in pixels.
func (ch *Crosshair) Spread() float64 { return ch.spread }

// HitMarker reports whether the hit flash is running.
func (ch *Crosshair) HitMarker() bool { return ch.hit.Active(ch.clock) }

// Update decays the spread toward rest.
func (ch *Crosshair) Update(delta float64) {
	ch.clock += delta
	ch.hit.Fire(ch.clock)
	ch.spread -= ch.cfg.CrosshairDecay * delta
	if ch.spread < 0 {
		ch.spread = 0
	}
}

// Draw renders the reticle at the viewport centre.
func (ch *Crosshair) Draw(dst *ebiten.Image) {
	vp := ch.world.Viewport
	if !vp.Valid() {
		return
	}
	cx, cy := vp.Center()
	x, y := float32(cx), float32(cy)
	gap := float32(5 + ch.spread)
	const arm = 8

	col := color.RGBA{R: 230, G: 240, B: 245, A: 230}
	switch ch.style {
	case 1: // dot only
		vector.FillCircle(dst, x, y, 2, col, false)
	default: // four arms
		vector.StrokeLine(dst, x-gap-arm, y, x-gap, y, 1.5, col, false)
		vector.StrokeLine(dst, x+gap, y, x+gap+arm, y, 1.5, col, false)
		vector.StrokeLine(dst, x, y-gap-arm, x, y-gap, 1.5, col, false)
		vector.StrokeLine(dst, x, y+gap, x, y+gap+arm, 1.5, col, false)
	}

	if ch.HitMarker() {
		hc := color.RGBA{R: 255, G: 90, B: 70, A: 255}
		d := gap + 4
		vector.StrokeLine(dst, x-d-5, y-d-5, x-d, y-d, 2, hc, false)
		vector.StrokeLine(dst, x+d, y-d, x+d+5, y-d-5, 2, hc, false)
		vector.StrokeLine(dst, x-d-5, y+d+5, x-d, y+d, 2, hc, false)
		vector.StrokeLine(dst, x+d, y+d, x+d+5, y+d+5, 2, hc, false)
	}
}

// Dispose releases the bus subscriptions.
func (ch *Crosshair) Dispose() {
	for _, c := range ch.cancels {
		c()
	}
	ch.cancels = nil
}
