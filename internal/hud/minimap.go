package hud

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const minimapRadius = 70.0

// Minimap renders a rotating radar disc in the top-right corner: blips for
// markers and zones inside radar range, placed by relative bearing and
// distance so the disc turns with the player. Blip colours band by distance,
// hot to cold.
type Minimap struct {
	cfg     *Config
	world   *World
	markers *MarkerSystem
	zones   *ZoneSystem

	sweep float64 // radar sweep angle, cosmetic
}

// NewMinimap creates the radar widget. Either system may be nil.
func NewMinimap(cfg *Config, world *World, markers *MarkerSystem, zones *ZoneSystem) *Minimap {
	return &Minimap{cfg: cfg, world: world, markers: markers, zones: zones}
}

// Update spins the sweep line.
func (mm *Minimap) Update(delta float64) {
	mm.sweep = wrapBearing(mm.sweep + delta*2.4)
}

// radarPoint maps a relative bearing and world distance onto disc
// coordinates. ok is false outside radar range.
func radarPoint(rel, dist, rangeMax float64) (dx, dy float64, ok bool) {
	if rangeMax <= 0 || dist > rangeMax {
		return 0, 0, false
	}
	r := dist / rangeMax * minimapRadius
	return math.Cos(rel) * r, -math.Sin(rel) * r, true
}

// distanceBand returns a blip colour banded by range fraction.
func distanceBand(dist, rangeMax float64) color.RGBA {
	switch f := dist / rangeMax; {
	case f < 0.33:
		return color.RGBA{R: 250, G: 90, B: 70, A: 255}
	case f < 0.66:
		return color.RGBA{R: 240, G: 200, B: 80, A: 255}
	default:
		return color.RGBA{R: 120, G: 200, B: 140, A: 255}
	}
}

// Draw renders the disc, sweep, blips, and the player wedge.
func (mm *Minimap) Draw(dst *ebiten.Image) {
	vp := mm.world.Viewport
	if !vp.Valid() {
		return
	}
	cx := float64(vp.W) - minimapRadius - 20
	cy := minimapRadius + 44.0

	vector.FillCircle(dst, float32(cx), float32(cy), minimapRadius, color.RGBA{R: 10, G: 16, B: 14, A: 210}, false)
	vector.StrokeCircle(dst, float32(cx), float32(cy), minimapRadius, 1.5, color.RGBA{R: 70, G: 110, B: 90, A: 255}, false)
	vector.StrokeCircle(dst, float32(cx), float32(cy), minimapRadius/2, 1, color.RGBA{R: 40, G: 70, B: 55, A: 255}, false)

	// Sweep line.
	sx := cx + math.Cos(mm.sweep)*minimapRadius
	sy := cy - math.Sin(mm.sweep)*minimapRadius
	vector.StrokeLine(dst, float32(cx), float32(cy), float32(sx), float32(sy), 1, color.RGBA{R: 90, G: 180, B: 120, A: 140}, false)

	pos := mm.world.Player.Position
	yaw := mm.world.Player.Yaw

	if mm.zones != nil {
		for _, z := range mm.zones.zones {
			if !z.Active {
				continue
			}
			d := HorizontalDistance(pos, z.Position)
			rel := RelativeBearing(pos, yaw, z.Position)
			dx, dy, ok := radarPoint(rel, d, mm.cfg.RadarRange)
			if !ok {
				continue
			}
			col := z.Kind.colour()
			vector.StrokeCircle(dst, float32(cx+dx), float32(cy+dy), 4, 1.5, col, false)
		}
	}
	if mm.markers != nil {
		for _, mk := range mm.markers.markers {
			if !mk.Active {
				continue
			}
			d := HorizontalDistance(pos, mk.Position)
			rel := RelativeBearing(pos, yaw, mk.Position)
			dx, dy, ok := radarPoint(rel, d, mm.cfg.RadarRange)
			if !ok {
				continue
			}
			vector.FillCircle(dst, float32(cx+dx), float32(cy+dy), 3, distanceBand(d, mm.cfg.RadarRange), false)
		}
	}

	// Player wedge at the centre, pointing along bearing zero (dead ahead).
	wc := color.RGBA{R: 240, G: 245, B: 250, A: 255}
	vector.StrokeLine(dst, float32(cx), float32(cy), float32(cx+9), float32(cy), 2, wc, false)
	vector.StrokeLine(dst, float32(cx-4), float32(cy-4), float32(cx), float32(cy), 2, wc, false)
	vector.StrokeLine(dst, float32(cx-4), float32(cy+4), float32(cx), float32(cy), 2, wc, false)
}

// Dispose is a no-op.
func (mm *Minimap) Dispose() {}
