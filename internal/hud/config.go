package hud

import "fmt"

// Config collects every tunable the HUD reads. Zero fields are filled from
// DefaultConfig at construction, so callers only set what they care about.
type Config struct {
	// Marker ring placement.
	RingRadiusFrac float64 // ring radius as a fraction of min(viewport W,H)
	EdgeMargin     float64 // pixel inset markers are clamped into
	FadeBand       float64 // distance band over which markers/zones fade out

	// Forward projection. Scale is tuned to the renderer's field of view;
	// 1000 matches the sandbox renderer and is not a universal constant.
	ProjectionScale float64

	// Danger proximity engine.
	ProximityInterval  float64 // seconds between proximity checks
	ProximityThreshold float64 // enter-danger distance
	HysteresisBand     float64 // extra exit distance once in danger (0 = off)
	DefaultCritical    float64 // critical radius for zones that don't set one
	ZoneMaxDistance    float64 // default max display distance for zones

	// Screen manager.
	TransitionDuration float64 // seconds per screen transition
	TransitionGrace    float64 // extra lock time past the duration

	// Widgets.
	LowHealthFrac  float64 // health fraction that starts the pulse
	LowAmmoFrac    float64 // magazine fraction that shows the LOW tag
	GhostDrainRate float64 // health-bar ghost trail drain, units/second
	FlashDuration  float64 // damage/hit flash length
	CrosshairKick  float64 // spread added per shot, pixels
	CrosshairDecay float64 // spread decay, pixels/second
	CompassWindow  float64 // angular width of the compass strip, radians

	// Overlays and feed.
	WeatherFade  float64 // seconds to crossfade between weather states
	RadarRange   float64 // minimap radar range, world units
	FeedCapacity int     // notification ring size
	FeedTTL      float64 // seconds before a notification fades out
}

// DefaultConfig returns the tuning used by the sandbox.
func DefaultConfig() Config {
	return Config{
		RingRadiusFrac:     0.42,
		EdgeMargin:         48,
		FadeBand:           40,
		ProjectionScale:    1000,
		ProximityInterval:  0.1,
		ProximityThreshold: 30,
		HysteresisBand:     0,
		DefaultCritical:    10,
		ZoneMaxDistance:    200,
		TransitionDuration: 0.3,
		TransitionGrace:    0.25,
		LowHealthFrac:      0.25,
		LowAmmoFrac:        0.2,
		GhostDrainRate:     40,
		FlashDuration:      0.35,
		CrosshairKick:      6,
		CrosshairDecay:     24,
		CompassWindow:      2.0943951023931953, // 120 degrees
		WeatherFade:        2.5,
		RadarRange:         120,
		FeedCapacity:       32,
		FeedTTL:            6,
	}
}

// fillDefaults copies defaults into any zero field.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.RingRadiusFrac == 0 {
		c.RingRadiusFrac = d.RingRadiusFrac
	}
	if c.EdgeMargin == 0 {
		c.EdgeMargin = d.EdgeMargin
	}
	if c.FadeBand == 0 {
		c.FadeBand = d.FadeBand
	}
	if c.ProjectionScale == 0 {
		c.ProjectionScale = d.ProjectionScale
	}
	if c.ProximityInterval == 0 {
		c.ProximityInterval = d.ProximityInterval
	}
	if c.ProximityThreshold == 0 {
		c.ProximityThreshold = d.ProximityThreshold
	}
	if c.DefaultCritical == 0 {
		c.DefaultCritical = d.DefaultCritical
	}
	if c.ZoneMaxDistance == 0 {
		c.ZoneMaxDistance = d.ZoneMaxDistance
	}
	if c.TransitionDuration == 0 {
		c.TransitionDuration = d.TransitionDuration
	}
	if c.TransitionGrace == 0 {
		c.TransitionGrace = d.TransitionGrace
	}
	if c.LowHealthFrac == 0 {
		c.LowHealthFrac = d.LowHealthFrac
	}
	if c.LowAmmoFrac == 0 {
		c.LowAmmoFrac = d.LowAmmoFrac
	}
	if c.GhostDrainRate == 0 {
		c.GhostDrainRate = d.GhostDrainRate
	}
	if c.FlashDuration == 0 {
		c.FlashDuration = d.FlashDuration
	}
	if c.CrosshairKick == 0 {
		c.CrosshairKick = d.CrosshairKick
	}
	if c.CrosshairDecay == 0 {
		c.CrosshairDecay = d.CrosshairDecay
	}
	if c.CompassWindow == 0 {
		c.CompassWindow = d.CompassWindow
	}
	if c.WeatherFade == 0 {
		c.WeatherFade = d.WeatherFade
	}
	if c.RadarRange == 0 {
		c.RadarRange = d.RadarRange
	}
	if c.FeedCapacity == 0 {
		c.FeedCapacity = d.FeedCapacity
	}
	if c.FeedTTL == 0 {
		c.FeedTTL = d.FeedTTL
	}
	// HysteresisBand: zero is a meaningful value (no hysteresis), leave it.
}

// Validate rejects configurations that would wedge the HUD.
func (c *Config) Validate() error {
	switch {
	case c.RingRadiusFrac <= 0 || c.RingRadiusFrac > 1:
		return fmt.Errorf("hud: RingRadiusFrac %.2f outside (0, 1]", c.RingRadiusFrac)
	case c.EdgeMargin < 0:
		return fmt.Errorf("hud: EdgeMargin %.1f is negative", c.EdgeMargin)
	case c.ProjectionScale <= 0:
		return fmt.Errorf("hud: ProjectionScale %.1f must be positive", c.ProjectionScale)
	case c.ProximityInterval <= 0:
		return fmt.Errorf("hud: ProximityInterval %.3f must be positive", c.ProximityInterval)
	case c.ProximityThreshold <= 0:
		return fmt.Errorf("hud: ProximityThreshold %.1f must be positive", c.ProximityThreshold)
	case c.HysteresisBand < 0:
		return fmt.Errorf("hud: HysteresisBand %.1f is negative", c.HysteresisBand)
	case c.TransitionDuration <= 0:
		return fmt.Errorf("hud: TransitionDuration %.2f must be positive", c.TransitionDuration)
	case c.TransitionGrace < 0:
		return fmt.Errorf("hud: TransitionGrace %.2f is negative", c.TransitionGrace)
	case c.FeedCapacity <= 0:
		return fmt.Errorf("hud: FeedCapacity %d must be positive", c.FeedCapacity)
	}
	return nil
}
