package hud

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// StaminaTrend describes which way the stamina pool moved last frame.
type StaminaTrend int

const (
	StaminaSteady StaminaTrend = iota
	StaminaDraining
	StaminaRecovering
)

func (t StaminaTrend) String() string {
	switch t {
	case StaminaDraining:
		return "draining"
	case StaminaRecovering:
		return "recovering"
	default:
		return "steady"
	}
}

// StaminaBar renders the stamina pool with a trend readout and an exhausted
// flash when the pool bottoms out.
type StaminaBar struct {
	cfg   *Config
	world *World

	prev      float64
	trend     StaminaTrend
	exhausted Countdown
	wasEmpty  bool
	clock     float64
}

// NewStaminaBar creates the stamina widget.
func NewStaminaBar(cfg *Config, world *World) *StaminaBar {
	return &StaminaBar{cfg: cfg, world: world, prev: world.Status.Stamina}
}

// Update classifies the trend and arms the exhausted flash on the transition
// to empty (not every frame spent empty).
func (sb *StaminaBar) Update(delta float64) {
	sb.clock += delta
	sb.exhausted.Fire(sb.clock)
	cur := sb.world.Status.Stamina
	switch {
	case cur < sb.prev:
		sb.trend = StaminaDraining
	case cur > sb.prev:
		sb.trend = StaminaRecovering
	default:
		sb.trend = StaminaSteady
	}
	empty := cur <= 0
	if empty && !sb.wasEmpty {
		sb.exhausted.Start(sb.clock, sb.cfg.FlashDuration*2)
	}
	sb.wasEmpty = empty
	sb.prev = cur
}

// Trend returns the last classified direction.
func (sb *StaminaBar) Trend() StaminaTrend { return sb.trend }

// Exhausted reports whether the empty-pool flash is running.
func (sb *StaminaBar) Exhausted() bool { return sb.exhausted.Active(sb.clock) }

// Draw renders the bar above the health bar.
func (sb *StaminaBar) Draw(dst *ebiten.Image) {
	vp := sb.world.Viewport
	if !vp.Valid() {
		return
	}
	s := sb.world.Status
	if s.MaxStamina <= 0 {
		return
	}
	x := float32(24)
	y := float32(vp.H) - 58

	fill := color.RGBA{R: 90, G: 160, B: 220, A: 255}
	if sb.trend == StaminaDraining {
		fill = color.RGBA{R: 210, G: 180, B: 80, A: 255}
	}
	if sb.Exhausted() {
		p := 0.5 + 0.5*math.Sin(sb.clock*14)
		fill = color.RGBA{R: uint8(150 + 100*p), G: 60, B: 60, A: 255}
	}
	drawBar(dst, x, y, 220, 8, s.Stamina/s.MaxStamina, fill)
}

// Dispose is a no-op; the stamina bar holds no subscriptions.
func (sb *StaminaBar) Dispose() {}
