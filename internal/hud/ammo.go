package hud

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// AmmoCounter renders magazine and reserve counts, a reload sweep, and a
// low-ammo warning. The reload countdown belongs to the widget, so starting a
// new reload while one is pending simply replaces it.
type AmmoCounter struct {
	cfg   *Config
	bus   *Bus
	world *World

	reload Countdown
	blink  Countdown
	clock  float64

	cancel func()
}

// NewAmmoCounter creates the ammo widget. Each shot blinks the count.
func NewAmmoCounter(cfg *Config, bus *Bus, world *World) *AmmoCounter {
	ac := &AmmoCounter{cfg: cfg, bus: bus, world: world}
	ac.cancel = bus.Subscribe(TopicWeaponFired, func(any) {
		ac.blink.Start(ac.clock, 0.08)
	})
	return ac
}

// BeginReload starts (or restarts) the reload sweep. Gameplay decides when
// the magazine actually refills; the HUD only animates the window.
func (ac *AmmoCounter) BeginReload(duration float64) {
	ac.reload.Start(ac.clock, duration)
}

// CancelReload stops the sweep, e.g. when a reload is interrupted by a sprint.
func (ac *AmmoCounter) CancelReload() {
	ac.reload.Stop()
}

// Reloading reports whether the sweep is running.
func (ac *AmmoCounter) Reloading() bool { return ac.reload.Active(ac.clock) }

// ReloadFrac returns the sweep progress in [0, 1]; 1 when idle.
func (ac *AmmoCounter) ReloadFrac() float64 { return ac.reload.Frac(ac.clock) }

// LowAmmo reports whether the magazine is under the warning fraction.
func (ac *AmmoCounter) LowAmmo() bool {
	s := ac.world.Status
	return s.MagazineSize > 0 && float64(s.Ammo)/float64(s.MagazineSize) <= ac.cfg.LowAmmoFrac
}

// Update advances the widget clock.
func (ac *AmmoCounter) Update(delta float64) {
	ac.clock += delta
	ac.reload.Fire(ac.clock)
	ac.blink.Fire(ac.clock)
}

// Draw renders the counter in the bottom-right corner.
func (ac *AmmoCounter) Draw(dst *ebiten.Image) {
	vp := ac.world.Viewport
	if !vp.Valid() {
		return
	}
	s := ac.world.Status
	x := vp.W - 190
	y := vp.H - 46

	col := color.RGBA{R: 225, G: 235, B: 240, A: 255}
	if ac.LowAmmo() {
		col = color.RGBA{R: 250, G: 110, B: 70, A: 255}
	}
	if ac.blink.Active(ac.clock) {
		col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	line := fmt.Sprintf("%2d | %d", s.Ammo, s.Reserve)
	text.Draw(dst, line, basicfont.Face7x13, x, y, col)

	switch {
	case ac.Reloading():
		drawBar(dst, float32(x), float32(y)+8, 120, 5, ac.ReloadFrac(), color.RGBA{R: 120, G: 190, B: 250, A: 255})
		text.Draw(dst, "RELOADING", basicfont.Face7x13, x, y+28, color.RGBA{R: 120, G: 190, B: 250, A: 255})
	case ac.LowAmmo():
		text.Draw(dst, "LOW", basicfont.Face7x13, x+120, y, col)
	}
}

// Dispose releases the bus subscription.
func (ac *AmmoCounter) Dispose() {
	if ac.cancel != nil {
		ac.cancel()
		ac.cancel = nil
	}
}
