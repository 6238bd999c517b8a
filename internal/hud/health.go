package hud

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HealthBar renders the player's health pool with a ghost trail: on damage
// the bright fill snaps to the new value while a dimmer band drains toward it,
// so the size of the hit stays readable for a moment.
type HealthBar struct {
	cfg   *Config
	bus   *Bus
	world *World

	ghost float64 // trails Status.Health downward
	flash Countdown
	clock float64

	cancel func()
}

// NewHealthBar creates the health widget and wires its damage flash to
// health:changed traffic.
func NewHealthBar(cfg *Config, bus *Bus, world *World) *HealthBar {
	hb := &HealthBar{
		cfg:   cfg,
		bus:   bus,
		world: world,
		ghost: world.Status.Health,
	}
	hb.cancel = bus.Subscribe(TopicHealthChanged, func(payload any) {
		ev := payload.(HealthChange)
		if ev.Value < ev.Previous {
			// Re-arming on every hit keeps the flash alive under sustained
			// fire instead of letting the first hit's expiry cut it short.
			hb.flash.Start(hb.clock, cfg.FlashDuration)
		}
	})
	return hb
}

// Update drains the ghost trail toward the real value.
func (hb *HealthBar) Update(delta float64) {
	hb.clock += delta
	hb.flash.Fire(hb.clock)
	cur := hb.world.Status.Health
	if hb.ghost < cur {
		hb.ghost = cur // healing snaps the trail up, no reverse animation
	} else if hb.ghost > cur {
		hb.ghost -= hb.cfg.GhostDrainRate * delta
		if hb.ghost < cur {
			hb.ghost = cur
		}
	}
}

// Ghost returns the trailing display value.
func (hb *HealthBar) Ghost() float64 { return hb.ghost }

// Flashing reports whether the damage flash is running.
func (hb *HealthBar) Flashing() bool { return hb.flash.Active(hb.clock) }

// LowHealth reports whether the pool is under the pulse threshold.
func (hb *HealthBar) LowHealth() bool {
	s := hb.world.Status
	return s.MaxHealth > 0 && s.Health/s.MaxHealth <= hb.cfg.LowHealthFrac
}

// Draw renders the bar in the bottom-left corner.
func (hb *HealthBar) Draw(dst *ebiten.Image) {
	vp := hb.world.Viewport
	if !vp.Valid() {
		return
	}
	s := hb.world.Status
	if s.MaxHealth <= 0 {
		return
	}
	const w, h = 220.0, 16.0
	x := float32(24)
	y := float32(vp.H) - 40

	fill := color.RGBA{R: 90, G: 200, B: 110, A: 255}
	if hb.LowHealth() {
		// Pulse between dim and bright red.
		p := 0.5 + 0.5*math.Sin(hb.clock*7)
		fill = color.RGBA{R: uint8(160 + 90*p), G: 40, B: 40, A: 255}
	}
	if hb.Flashing() {
		fill = color.RGBA{R: 250, G: 240, B: 200, A: 255}
	}

	// Ghost band underneath the live fill.
	drawBar(dst, x, y, w, h, hb.ghost/s.MaxHealth, color.RGBA{R: 170, G: 150, B: 60, A: 200})
	fw := float32(w * clamp01(s.Health/s.MaxHealth))
	if fw > 0 {
		drawBar(dst, x, y, fw, h, 1, fill)
	}
	drawTicks(dst, x, y, w, h, 0.25, color.RGBA{R: 20, G: 26, B: 30, A: 255})

	label := fmt.Sprintf("%.0f / %.0f", s.Health, s.MaxHealth)
	text.Draw(dst, label, basicfont.Face7x13, int(x)+int(w)+10, int(y)+12, color.RGBA{R: 220, G: 230, B: 235, A: 255})
}

// Dispose releases the bus subscription.
func (hb *HealthBar) Dispose() {
	if hb.cancel != nil {
		hb.cancel()
		hb.cancel = nil
	}
}
