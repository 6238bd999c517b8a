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

// ErrMarkerExists is returned when an explicit marker id is already taken.
var ErrMarkerExists = errors.New("marker id already registered")

// MarkerKind classifies a world marker.
type MarkerKind int

const (
	MarkerObjective MarkerKind = iota
	MarkerWaypoint
	MarkerExtraction
	MarkerIntel
	MarkerPing
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerObjective:
		return "objective"
	case MarkerWaypoint:
		return "waypoint"
	case MarkerExtraction:
		return "extraction"
	case MarkerIntel:
		return "intel"
	case MarkerPing:
		return "ping"
	default:
		return "unknown"
	}
}

func (k MarkerKind) colour() color.RGBA {
	switch k {
	case MarkerObjective:
		return color.RGBA{R: 250, G: 200, B: 60, A: 255}
	case MarkerWaypoint:
		return color.RGBA{R: 80, G: 200, B: 120, A: 255}
	case MarkerExtraction:
		return color.RGBA{R: 90, G: 170, B: 250, A: 255}
	case MarkerIntel:
		return color.RGBA{R: 190, G: 130, B: 250, A: 255}
	default:
		return color.RGBA{R: 240, G: 90, B: 90, A: 255}
	}
}

// MarkerConfig is the caller-facing description of a marker.
type MarkerConfig struct {
	ID          string // generated ("marker-N") when empty
	Kind        MarkerKind
	Position    Vec3
	Label       string
	MinDistance float64 // hide when closer; 0 = no minimum
	MaxDistance float64 // hide when further; 0 = unlimited
}

// Marker is a tracked world point plus everything the compass pass derived
// for it this frame.
type Marker struct {
	ID          string
	Kind        MarkerKind
	Position    Vec3
	Label       string
	MinDistance float64
	MaxDistance float64
	Active      bool

	// Derived per update; meaningless while Visible is false.
	Distance  float64 // horizontal distance to the player
	Bearing   float64 // relative bearing, [0, 2π)
	ScreenX   float64
	ScreenY   float64
	OffScreen bool    // clamped against the edge margin
	Indicator float64 // arrow rotation when off-screen
	Opacity   float64
	Visible   bool

	highlight Countdown
}

// Highlighted reports whether the marker's attention pulse is running.
func (mk *Marker) Highlighted(now float64) bool {
	return mk.highlight.Active(now)
}

// MarkerSystem tracks world markers and recomputes their screen placement
// every frame from the shared pose snapshot. Exactly one marker exists per
// id.
type MarkerSystem struct {
	cfg *Config
	bus *Bus

	markers []*Marker // insertion order, for stable iteration and draw
	byID    map[string]*Marker
	nextID  int
	clock   float64
}

// NewMarkerSystem creates an empty marker store.
func NewMarkerSystem(cfg *Config, bus *Bus) *MarkerSystem {
	return &MarkerSystem{
		cfg:  cfg,
		bus:  bus,
		byID: make(map[string]*Marker),
	}
}

// Add registers a marker and returns its id. Waypoints announce themselves
// on the bus.
func (ms *MarkerSystem) Add(cfg MarkerConfig) (string, error) {
	id := cfg.ID
	if id == "" {
		ms.nextID++
		id = fmt.Sprintf("marker-%d", ms.nextID)
	}
	if _, dup := ms.byID[id]; dup {
		log.Printf("hud: marker %q added twice", id)
		return "", fmt.Errorf("%w: %q", ErrMarkerExists, id)
	}
	mk := &Marker{
		ID:          id,
		Kind:        cfg.Kind,
		Position:    cfg.Position,
		Label:       cfg.Label,
		MinDistance: cfg.MinDistance,
		MaxDistance: cfg.MaxDistance,
		Active:      true,
	}
	ms.markers = append(ms.markers, mk)
	ms.byID[id] = mk
	if mk.Kind == MarkerWaypoint {
		ms.bus.Publish(TopicWaypointAdded, WaypointAdded{MarkerID: id, Label: mk.Label})
	}
	return id, nil
}

// Move repositions a marker. Returns false when the id is gone (a transient
// race, not an error).
func (ms *MarkerSystem) Move(id string, pos Vec3) bool {
	mk, ok := ms.byID[id]
	if !ok {
		return false
	}
	mk.Position = pos
	return true
}

// Reconfigure replaces a marker's description in place: kind, position,
// label, and display-distance band. The id and active flag are kept, derived
// fields refresh on the next update pass, and unlike remove-and-re-add no
// waypoint announcements fire. Returns false when the id is gone.
func (ms *MarkerSystem) Reconfigure(id string, cfg MarkerConfig) bool {
	mk, ok := ms.byID[id]
	if !ok {
		return false
	}
	mk.Kind = cfg.Kind
	mk.Position = cfg.Position
	mk.Label = cfg.Label
	mk.MinDistance = cfg.MinDistance
	mk.MaxDistance = cfg.MaxDistance
	return true
}

// SetActive toggles a marker without removing it. Inactive markers keep
// their state but are skipped by the update pass.
func (ms *MarkerSystem) SetActive(id string, active bool) bool {
	mk, ok := ms.byID[id]
	if !ok {
		return false
	}
	mk.Active = active
	return true
}

// Remove deletes a marker. Removing an already-removed id is a no-op that
// reports false.
func (ms *MarkerSystem) Remove(id string) bool {
	mk, ok := ms.byID[id]
	if !ok {
		return false
	}
	delete(ms.byID, id)
	for i, m := range ms.markers {
		if m == mk {
			ms.markers = append(ms.markers[:i:i], ms.markers[i+1:]...)
			break
		}
	}
	if mk.Kind == MarkerWaypoint {
		ms.bus.Publish(TopicWaypointRemove, WaypointRemoved{MarkerID: id})
	}
	return true
}

// Clear removes every marker. Safe to call repeatedly. Bulk teardown does
// not publish per-waypoint removals.
func (ms *MarkerSystem) Clear() {
	ms.markers = ms.markers[:0]
	ms.byID = make(map[string]*Marker)
}

// Highlight pulses a marker for d seconds. Re-highlighting restarts the
// pulse, so an earlier pulse's expiry can never cut a fresh one short.
func (ms *MarkerSystem) Highlight(id string, d float64) bool {
	mk, ok := ms.byID[id]
	if !ok {
		return false
	}
	mk.highlight.Start(ms.clock, d)
	return true
}

// Get returns a marker by id.
func (ms *MarkerSystem) Get(id string) (*Marker, bool) {
	mk, ok := ms.byID[id]
	return mk, ok
}

// Count returns how many markers exist, active or not.
func (ms *MarkerSystem) Count() int {
	return len(ms.markers)
}

// Visible returns this frame's visible markers in insertion order.
func (ms *MarkerSystem) Visible() []*Marker {
	out := make([]*Marker, 0, len(ms.markers))
	for _, mk := range ms.markers {
		if mk.Visible {
			out = append(out, mk)
		}
	}
	return out
}

// Update recomputes every active marker's screen placement from the frame's
// pose snapshot: horizontal distance, relative bearing, ring position,
// margin clamp, off-screen indicator, and distance fade.
func (ms *MarkerSystem) Update(delta float64, snap PoseSnapshot) {
	ms.clock += delta
	for _, mk := range ms.markers {
		mk.Visible = false
		if !mk.Active {
			continue
		}
		mk.Distance = HorizontalDistance(snap.Player.Position, mk.Position)
		if mk.MinDistance > 0 && mk.Distance < mk.MinDistance {
			continue
		}
		if mk.MaxDistance > 0 && mk.Distance >= mk.MaxDistance {
			continue
		}
		if !snap.Viewport.Valid() {
			continue
		}
		mk.Bearing = RelativeBearing(snap.Player.Position, snap.Player.Yaw, mk.Position)
		x, y := RingPoint(snap.Viewport, mk.Bearing, ms.cfg.RingRadiusFrac)
		mk.ScreenX, mk.ScreenY, mk.OffScreen = ClampToMargin(snap.Viewport, ms.cfg.EdgeMargin, x, y)
		mk.Indicator = IndicatorAngle(mk.Bearing)
		mk.Opacity = fadeOpacity(mk.Distance, mk.MaxDistance, ms.cfg.FadeBand)
		mk.Visible = true
	}
}

// Draw renders visible markers: a diamond glyph with label and distance, or
// a directional chevron for clamped ones. Highlighted markers pulse.
func (ms *MarkerSystem) Draw(dst *ebiten.Image) {
	for _, mk := range ms.markers {
		if !mk.Visible {
			continue
		}
		col := mk.Kind.colour()
		col.A = uint8(255 * mk.Opacity)
		x, y := float32(mk.ScreenX), float32(mk.ScreenY)

		if mk.OffScreen {
			drawChevron(dst, mk.ScreenX, mk.ScreenY, mk.Indicator, col)
			continue
		}

		// Diamond glyph.
		size := float32(7)
		if mk.Highlighted(ms.clock) {
			// Pulse: grow with the highlight countdown.
			size += float32(3 * math.Sin(ms.clock*9))
			vector.StrokeCircle(dst, x, y, size+8, 1.5, col, false)
		}
		vector.StrokeLine(dst, x-size, y, x, y-size, 2, col, false)
		vector.StrokeLine(dst, x, y-size, x+size, y, 2, col, false)
		vector.StrokeLine(dst, x+size, y, x, y+size, 2, col, false)
		vector.StrokeLine(dst, x, y+size, x-size, y, 2, col, false)

		label := mk.Label
		if label == "" {
			label = mk.Kind.String()
		}
		text.Draw(dst, label, basicfont.Face7x13, int(x)-len(label)*7/2, int(y)-12, col)
		dist := fmt.Sprintf("%.0fm", mk.Distance)
		text.Draw(dst, dist, basicfont.Face7x13, int(x)-len(dist)*7/2, int(y)+22, col)
	}
}

// drawChevron draws a small direction arrow rotated so that rot 0 points up.
func drawChevron(dst *ebiten.Image, x, y, rot float64, col color.RGBA) {
	// Arrow tip plus two wings, rotated around (x,y).
	tipX := x + 10*math.Cos(rot+math.Pi/2)
	tipY := y - 10*math.Sin(rot+math.Pi/2)
	leftX := x + 7*math.Cos(rot+math.Pi*5/6+math.Pi/2)
	leftY := y - 7*math.Sin(rot+math.Pi*5/6+math.Pi/2)
	rightX := x + 7*math.Cos(rot-math.Pi*5/6+math.Pi/2)
	rightY := y - 7*math.Sin(rot-math.Pi*5/6+math.Pi/2)
	vector.StrokeLine(dst, float32(leftX), float32(leftY), float32(tipX), float32(tipY), 2.5, col, false)
	vector.StrokeLine(dst, float32(rightX), float32(rightY), float32(tipX), float32(tipY), 2.5, col, false)
}
