package hud

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// PowerupKind enumerates the timed effects the tracker displays.
type PowerupKind int

const (
	PowerupSpeed PowerupKind = iota
	PowerupArmor
	PowerupDamage
	PowerupStealth
	PowerupRegen
)

func (k PowerupKind) String() string {
	switch k {
	case PowerupSpeed:
		return "speed"
	case PowerupArmor:
		return "armor"
	case PowerupDamage:
		return "damage"
	case PowerupStealth:
		return "stealth"
	case PowerupRegen:
		return "regen"
	default:
		return "unknown"
	}
}

func (k PowerupKind) colour() color.RGBA {
	switch k {
	case PowerupSpeed:
		return color.RGBA{R: 110, G: 220, B: 250, A: 255}
	case PowerupArmor:
		return color.RGBA{R: 190, G: 200, B: 210, A: 255}
	case PowerupDamage:
		return color.RGBA{R: 250, G: 110, B: 80, A: 255}
	case PowerupStealth:
		return color.RGBA{R: 150, G: 130, B: 240, A: 255}
	default:
		return color.RGBA{R: 120, G: 230, B: 140, A: 255}
	}
}

type powerup struct {
	kind   PowerupKind
	expiry Countdown
}

// ActivePowerup is a display row for one running effect.
type ActivePowerup struct {
	Kind      PowerupKind
	Remaining float64
	Frac      float64 // remaining fraction of the granted duration, for arcs
}

// PowerupTracker owns the set of running timed effects. Each effect holds its
// own expiry countdown, so re-granting a kind re-arms the deadline and the
// old grant's expiry can never revert the refreshed effect.
type PowerupTracker struct {
	bus    *Bus
	active map[PowerupKind]*powerup
	clock  float64
}

// NewPowerupTracker creates an empty tracker.
func NewPowerupTracker(bus *Bus) *PowerupTracker {
	return &PowerupTracker{bus: bus, active: make(map[PowerupKind]*powerup)}
}

// Grant starts, or refreshes, a timed effect and announces it.
func (pt *PowerupTracker) Grant(kind PowerupKind, duration float64) {
	p, ok := pt.active[kind]
	if !ok {
		p = &powerup{kind: kind}
		pt.active[kind] = p
	}
	p.expiry.Start(pt.clock, duration)
	pt.bus.Publish(TopicPowerupGranted, PowerupGranted{Kind: kind, Duration: duration})
}

// Revoke ends an effect early without an expiry event.
func (pt *PowerupTracker) Revoke(kind PowerupKind) bool {
	if _, ok := pt.active[kind]; !ok {
		return false
	}
	delete(pt.active, kind)
	return true
}

// Has reports whether an effect is currently running.
func (pt *PowerupTracker) Has(kind PowerupKind) bool {
	p, ok := pt.active[kind]
	return ok && p.expiry.Active(pt.clock)
}

// Active returns the running effects sorted by kind for stable display.
func (pt *PowerupTracker) Active() []ActivePowerup {
	out := make([]ActivePowerup, 0, len(pt.active))
	for _, p := range pt.active {
		out = append(out, ActivePowerup{
			Kind:      p.kind,
			Remaining: p.expiry.Remaining(pt.clock),
			Frac:      1 - p.expiry.Frac(pt.clock),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Update expires effects whose countdown has run out.
func (pt *PowerupTracker) Update(delta float64) {
	pt.clock += delta
	for kind, p := range pt.active {
		if p.expiry.Fire(pt.clock) {
			delete(pt.active, kind)
			pt.bus.Publish(TopicPowerupExpired, PowerupExpired{Kind: kind})
		}
	}
}

// Draw renders the effect list down the left edge with remaining-time bars.
func (pt *PowerupTracker) Draw(dst *ebiten.Image) {
	y := 90
	for _, p := range pt.Active() {
		col := p.Kind.colour()
		label := fmt.Sprintf("%s %.0fs", p.Kind, p.Remaining)
		text.Draw(dst, label, basicfont.Face7x13, 24, y, col)
		drawBar(dst, 24, float32(y)+4, 90, 4, p.Frac, col)
		y += 26
	}
}

// Dispose is a no-op; the tracker only publishes.
func (pt *PowerupTracker) Dispose() {}
