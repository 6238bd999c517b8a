package hud

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// FeedEntry is one line in the notification feed.
type FeedEntry struct {
	At   float64 // HUD clock time the entry was pushed
	Kind string  // short tag: "danger", "waypoint", "powerup", "weather"
	Text string
}

// Feed is a fixed-capacity ring buffer of recent HUD notifications. Old
// entries fall off the front; displayed entries fade with age.
type Feed struct {
	cfg     *Config
	entries []FeedEntry
	head    int
	count   int
	clock   float64

	cancels []func()
}

// NewFeed creates an empty feed sized by Config.FeedCapacity.
func NewFeed(cfg *Config) *Feed {
	return &Feed{
		cfg:     cfg,
		entries: make([]FeedEntry, cfg.FeedCapacity),
	}
}

// WireBus subscribes the feed to the notification-worthy topics. Returns the
// feed for chaining.
func (f *Feed) WireBus(bus *Bus) *Feed {
	f.cancels = append(f.cancels,
		bus.Subscribe(TopicDangerCritical, func(payload any) {
			ev := payload.(DangerCritical)
			f.Push("danger", fmt.Sprintf("%s zone critical at %.0fm", ev.Kind, ev.Distance))
		}),
		bus.Subscribe(TopicWaypointAdded, func(payload any) {
			ev := payload.(WaypointAdded)
			label := ev.Label
			if label == "" {
				label = ev.MarkerID
			}
			f.Push("waypoint", "waypoint set: "+label)
		}),
		bus.Subscribe(TopicWaypointRemove, func(payload any) {
			f.Push("waypoint", "waypoint cleared")
		}),
		bus.Subscribe(TopicPowerupGranted, func(payload any) {
			ev := payload.(PowerupGranted)
			f.Push("powerup", fmt.Sprintf("%s up for %.0fs", ev.Kind, ev.Duration))
		}),
		bus.Subscribe(TopicPowerupExpired, func(payload any) {
			ev := payload.(PowerupExpired)
			f.Push("powerup", fmt.Sprintf("%s expired", ev.Kind))
		}),
		bus.Subscribe(TopicWeatherChanged, func(payload any) {
			ev := payload.(WeatherChanged)
			f.Push("weather", fmt.Sprintf("weather: %s", ev.Kind))
		}),
	)
	return f
}

// Push appends a notification, evicting the oldest entry when full.
func (f *Feed) Push(kind, txt string) {
	f.entries[f.head] = FeedEntry{At: f.clock, Kind: kind, Text: txt}
	f.head = (f.head + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
}

// Recent returns the buffered entries oldest-first.
func (f *Feed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	n := len(f.entries)
	for i := 0; i < f.count; i++ {
		out[i] = f.entries[(f.head-f.count+i+n)%n]
	}
	return out
}

// Update advances the feed clock; entry ages derive from it.
func (f *Feed) Update(delta float64) {
	f.clock += delta
}

// ageOpacity fades an entry out over the last third of its TTL.
func (f *Feed) ageOpacity(e FeedEntry) float64 {
	age := f.clock - e.At
	if age >= f.cfg.FeedTTL {
		return 0
	}
	return fadeOpacity(age, f.cfg.FeedTTL, f.cfg.FeedTTL/3)
}

// Draw renders the live entries bottom-up above the health bar, newest last.
func (f *Feed) Draw(dst *ebiten.Image, vp Viewport) {
	if !vp.Valid() {
		return
	}
	entries := f.Recent()
	const lineH = 15
	shown := 0
	for _, e := range entries {
		if f.ageOpacity(e) > 0 {
			shown++
		}
	}
	y := vp.H - 84 - shown*lineH
	for _, e := range entries {
		op := f.ageOpacity(e)
		if op <= 0 {
			continue
		}
		a := uint8(255 * op)
		var dot color.RGBA
		switch e.Kind {
		case "danger":
			dot = color.RGBA{R: 240, G: 70, B: 60, A: a}
		case "powerup":
			dot = color.RGBA{R: 110, G: 220, B: 250, A: a}
		case "waypoint":
			dot = color.RGBA{R: 90, G: 210, B: 120, A: a}
		default:
			dot = color.RGBA{R: 170, G: 180, B: 190, A: a}
		}
		vector.FillRect(dst, 24, float32(y)+4, 4, 7, dot, false)
		text.Draw(dst, e.Text, basicfont.Face7x13, 34, y+12, color.RGBA{R: 210, G: 220, B: 228, A: a})
		y += lineH
	}
}

// Dispose releases the bus subscriptions.
func (f *Feed) Dispose() {
	for _, c := range f.cancels {
		c()
	}
	f.cancels = nil
}
