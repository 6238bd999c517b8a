package hud

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// ErrZoneExists is returned when an explicit zone id is already taken.
var ErrZoneExists = errors.New("zone id already registered")

// ZoneKind classifies a danger zone.
type ZoneKind int

const (
	ZoneFire ZoneKind = iota
	ZoneGas
	ZoneRadiation
	ZoneArtillery
	ZoneElectric
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneFire:
		return "fire"
	case ZoneGas:
		return "gas"
	case ZoneRadiation:
		return "radiation"
	case ZoneArtillery:
		return "artillery"
	case ZoneElectric:
		return "electric"
	default:
		return "unknown"
	}
}

func (k ZoneKind) colour() color.RGBA {
	switch k {
	case ZoneFire:
		return color.RGBA{R: 250, G: 110, B: 40, A: 255}
	case ZoneGas:
		return color.RGBA{R: 150, G: 220, B: 60, A: 255}
	case ZoneRadiation:
		return color.RGBA{R: 240, G: 230, B: 60, A: 255}
	case ZoneArtillery:
		return color.RGBA{R: 220, G: 70, B: 70, A: 255}
	default:
		return color.RGBA{R: 110, G: 180, B: 250, A: 255}
	}
}

// ZoneConfig is the caller-facing description of a danger zone.
type ZoneConfig struct {
	ID                string  // generated ("zone-N") when empty
	Kind              ZoneKind
	Position          Vec3
	DamageRate        float64 // damage per second inside the critical radius
	CriticalThreshold float64 // per-zone critical radius; 0 uses the default
	MaxDistance       float64 // max display distance; 0 uses the default
}

// Zone is a tracked hazard plus this frame's derived visual state.
type Zone struct {
	ID                string
	Kind              ZoneKind
	Position          Vec3
	DamageRate        float64
	CriticalThreshold float64
	MaxDistance       float64
	Active            bool

	// Derived per frame.
	Distance float64 // full 3D distance to the player
	Screen   ScreenPoint
	Opacity  float64
	Warning  bool // inside the zone's own critical radius
	Visible  bool
}

// ProximitySnapshot is the danger engine's whole-cloth output: recomputed
// from scratch on every check, never partially updated. The closest zone is
// referenced by id, not pointer, so a zone removed between checks can't be
// reached through a stale snapshot.
type ProximitySnapshot struct {
	InDanger        bool
	ClosestID       string
	ClosestKind     ZoneKind
	ClosestDistance float64 // +Inf when no active zones exist
}

// ZoneSystem tracks danger zones on two cadences: a per-frame visual pass
// (projection, fade, warning flash) and a throttled proximity pass that owns
// the danger snapshot and critical events. The split keeps the scan cost
// bounded at ten checks a second no matter the frame rate.
type ZoneSystem struct {
	cfg *Config
	bus *Bus

	zones  []*Zone
	byID   map[string]*Zone
	nextID int

	accum    float64
	snap     ProximitySnapshot
	vignette float64
	clock    float64
}

// NewZoneSystem creates an empty zone store.
func NewZoneSystem(cfg *Config, bus *Bus) *ZoneSystem {
	return &ZoneSystem{
		cfg:  cfg,
		bus:  bus,
		byID: make(map[string]*Zone),
		snap: ProximitySnapshot{ClosestDistance: math.Inf(1)},
	}
}

// Add registers a zone and returns its id.
func (zs *ZoneSystem) Add(cfg ZoneConfig) (string, error) {
	id := cfg.ID
	if id == "" {
		zs.nextID++
		id = fmt.Sprintf("zone-%d", zs.nextID)
	}
	if _, dup := zs.byID[id]; dup {
		log.Printf("hud: zone %q added twice", id)
		return "", fmt.Errorf("%w: %q", ErrZoneExists, id)
	}
	crit := cfg.CriticalThreshold
	if crit <= 0 {
		crit = zs.cfg.DefaultCritical
	}
	maxDist := cfg.MaxDistance
	if maxDist <= 0 {
		maxDist = zs.cfg.ZoneMaxDistance
	}
	z := &Zone{
		ID:                id,
		Kind:              cfg.Kind,
		Position:          cfg.Position,
		DamageRate:        cfg.DamageRate,
		CriticalThreshold: crit,
		MaxDistance:       maxDist,
		Active:            true,
	}
	zs.zones = append(zs.zones, z)
	zs.byID[id] = z
	return id, nil
}

// Remove deletes a zone. Reports false when the id was already gone.
func (zs *ZoneSystem) Remove(id string) bool {
	z, ok := zs.byID[id]
	if !ok {
		return false
	}
	delete(zs.byID, id)
	for i, zz := range zs.zones {
		if zz == z {
			zs.zones = append(zs.zones[:i:i], zs.zones[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every zone. Safe to call repeatedly; the next proximity
// check resets the snapshot to its empty state.
func (zs *ZoneSystem) Clear() {
	zs.zones = zs.zones[:0]
	zs.byID = make(map[string]*Zone)
}

// SetActive toggles a zone. Inactive zones are skipped entirely by both
// passes: they don't render, and they can't be the closest zone.
func (zs *ZoneSystem) SetActive(id string, active bool) bool {
	z, ok := zs.byID[id]
	if !ok {
		return false
	}
	z.Active = active
	return true
}

// Get returns a zone by id.
func (zs *ZoneSystem) Get(id string) (*Zone, bool) {
	z, ok := zs.byID[id]
	return z, ok
}

// Count returns how many zones exist, active or not.
func (zs *ZoneSystem) Count() int {
	return len(zs.zones)
}

// Visible returns this frame's visible zones in insertion order.
func (zs *ZoneSystem) Visible() []*Zone {
	out := make([]*Zone, 0, len(zs.zones))
	for _, z := range zs.zones {
		if z.Visible {
			out = append(out, z)
		}
	}
	return out
}

// Snapshot returns the latest proximity snapshot.
func (zs *ZoneSystem) Snapshot() ProximitySnapshot {
	return zs.snap
}

// VignetteOpacity returns the danger vignette strength in [0, 1]:
// proportional to how deep inside the proximity threshold the player stands.
func (zs *ZoneSystem) VignetteOpacity() float64 {
	return zs.vignette
}

// Update runs the per-frame visual pass and, when the throttle interval has
// accumulated, one proximity check.
func (zs *ZoneSystem) Update(delta float64, snap PoseSnapshot) {
	zs.clock += delta

	for _, z := range zs.zones {
		z.Visible = false
		z.Warning = false
		if !z.Active {
			continue
		}
		z.Distance = Distance(snap.Player.Position, z.Position)
		z.Warning = z.Distance <= z.CriticalThreshold
		if z.Distance >= z.MaxDistance {
			continue
		}
		if !snap.Viewport.Valid() {
			continue
		}
		z.Screen = ProjectForward(snap.Camera, z.Position, snap.Viewport, zs.cfg.ProjectionScale)
		if z.Screen.Behind {
			continue
		}
		z.Opacity = fadeOpacity(z.Distance, z.MaxDistance, zs.cfg.FadeBand)
		z.Visible = true
	}

	zs.accum += delta
	if zs.accum >= zs.cfg.ProximityInterval {
		zs.accum = math.Mod(zs.accum, zs.cfg.ProximityInterval)
		zs.checkProximity(snap.Player.Position)
	}
}

// checkProximity rebuilds the danger snapshot from scratch: reset wholesale,
// scan active zones only, keep the minimum distance.
func (zs *ZoneSystem) checkProximity(player Vec3) {
	next := ProximitySnapshot{ClosestDistance: math.Inf(1)}
	for _, z := range zs.zones {
		if !z.Active {
			continue
		}
		d := Distance(player, z.Position)
		if d < next.ClosestDistance {
			next.ClosestDistance = d
			next.ClosestID = z.ID
			next.ClosestKind = z.Kind
		}
	}

	threshold := zs.cfg.ProximityThreshold
	edge := threshold
	if zs.snap.InDanger {
		// Hysteresis: once in danger, the exit edge moves out by the band.
		// The default band of zero keeps the plain static threshold.
		edge = threshold + zs.cfg.HysteresisBand
	}

	if next.ClosestDistance <= edge {
		next.InDanger = true
		zs.vignette = clamp01(1 - next.ClosestDistance/threshold)
		if z, ok := zs.byID[next.ClosestID]; ok && next.ClosestDistance <= z.CriticalThreshold {
			zs.bus.Publish(TopicDangerCritical, DangerCritical{
				ZoneID:     z.ID,
				Kind:       z.Kind,
				Distance:   next.ClosestDistance,
				DamageRate: z.DamageRate,
			})
		}
	} else {
		zs.vignette = 0
	}
	zs.snap = next
}

// Draw renders visible zone markers: a pulsing circle with label and
// distance readout, red-ringed while inside the critical radius.
func (zs *ZoneSystem) Draw(dst *ebiten.Image) {
	for _, z := range zs.zones {
		if !z.Visible {
			continue
		}
		col := z.Kind.colour()
		col.A = uint8(255 * z.Opacity)
		x, y := float32(z.Screen.X), float32(z.Screen.Y)

		pulse := float32(2 * math.Sin(zs.clock*5))
		vector.StrokeCircle(dst, x, y, 10+pulse, 2, col, false)
		vector.FillCircle(dst, x, y, 3, col, false)
		if z.Warning {
			vector.StrokeCircle(dst, x, y, 16+pulse, 1.5, color.RGBA{R: 255, G: 40, B: 40, A: col.A}, false)
		}

		label := fmt.Sprintf("%s %.0fm", z.Kind, z.Distance)
		text.Draw(dst, label, basicfont.Face7x13, int(x)-len(label)*7/2, int(y)-16, col)
	}
}

// DrawVignette renders the screen-edge danger vignette at the proximity
// engine's current strength.
func (zs *ZoneSystem) DrawVignette(dst *ebiten.Image, vp Viewport) {
	if zs.vignette <= 0 || !vp.Valid() {
		return
	}
	a := uint8(160 * zs.vignette)
	col := color.RGBA{R: 170, G: 20, B: 20, A: a}
	w, h := float32(vp.W), float32(vp.H)
	const edge = 26
	vector.FillRect(dst, 0, 0, w, edge, col, false)
	vector.FillRect(dst, 0, h-edge, w, edge, col, false)
	vector.FillRect(dst, 0, edge, edge, h-2*edge, col, false)
	vector.FillRect(dst, w-edge, edge, edge, h-2*edge, col, false)
}
