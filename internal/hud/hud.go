package hud

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// hudOptionKind controls the pass in which an option is applied.
type hudOptionKind int

const (
	hudOptInfra   hudOptionKind = iota // bus, config — applied before construction
	hudOptContent                      // screens toggle — applied after systems exist
)

// Option is a builder function applied to a HUD during construction.
type Option struct {
	kind hudOptionKind
	fn   func(*HUD)
}

// WithBus injects an external bus instead of the HUD owning its own. Tests
// use it to observe traffic; a host game uses it to share the bus with
// gameplay systems.
func WithBus(b *Bus) Option {
	return Option{hudOptInfra, func(h *HUD) { h.bus = b }}
}

// WithConfig replaces the default tuning. Zero fields are filled from
// DefaultConfig before validation.
func WithConfig(cfg Config) Option {
	return Option{hudOptInfra, func(h *HUD) { h.cfg = cfg }}
}

// WithoutDefaultScreens skips registering the world map, briefing, and
// summary screens; the host registers its own set.
func WithoutDefaultScreens() Option {
	return Option{hudOptContent, func(h *HUD) { h.defaultScreens = false }}
}

// HUD is the top-level coordinator: it owns the bus (unless injected), the
// screen manager, the marker and zone systems, the widgets, the overlays,
// and the notification feed, and cascades one Update pass per frame through
// all of them. Single-threaded and frame-driven; nothing in it is safe for
// concurrent use.
type HUD struct {
	cfg   Config
	bus   *Bus
	world *World

	screens *ScreenManager
	markers *MarkerSystem
	zones   *ZoneSystem

	health    *HealthBar
	ammo      *AmmoCounter
	stamina   *StaminaBar
	crosshair *Crosshair
	compass   *Compass
	minimap   *Minimap
	weather   *WeatherOverlay
	powerups  *PowerupTracker
	feed      *Feed
	summary   *SummaryScreen
	briefing  *BriefingScreen
	worldmap  *WorldMapScreen

	widgets []Widget // update/draw cascade order

	defaultScreens bool
	clock          float64
}

// New builds a HUD over a world. Options apply in two passes: infrastructure
// (bus, config) before anything is constructed, content toggles after.
func New(world *World, opts ...Option) (*HUD, error) {
	h := &HUD{
		cfg:            DefaultConfig(),
		world:          world,
		defaultScreens: true,
	}
	for _, o := range opts {
		if o.kind == hudOptInfra {
			o.fn(h)
		}
	}
	h.cfg.fillDefaults()
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}
	if h.bus == nil {
		h.bus = NewBus()
	}

	h.screens = NewScreenManager(&h.cfg, h.bus)
	h.markers = NewMarkerSystem(&h.cfg, h.bus)
	h.zones = NewZoneSystem(&h.cfg, h.bus)

	h.health = NewHealthBar(&h.cfg, h.bus, world)
	h.ammo = NewAmmoCounter(&h.cfg, h.bus, world)
	h.stamina = NewStaminaBar(&h.cfg, world)
	h.crosshair = NewCrosshair(&h.cfg, h.bus, world)
	h.compass = NewCompass(&h.cfg, world, h.markers)
	h.minimap = NewMinimap(&h.cfg, world, h.markers, h.zones)
	h.weather = NewWeatherOverlay(&h.cfg, h.bus)
	h.powerups = NewPowerupTracker(h.bus)
	h.feed = NewFeed(&h.cfg).WireBus(h.bus)
	h.summary = NewSummaryScreen(h.bus)
	h.briefing = NewBriefingScreen(world, h.markers)
	h.worldmap = NewWorldMapScreen(world, h.markers, h.zones)

	h.widgets = []Widget{
		h.health, h.ammo, h.stamina, h.crosshair, h.compass, h.minimap,
	}

	for _, o := range opts {
		if o.kind == hudOptContent {
			o.fn(h)
		}
	}
	if h.defaultScreens {
		// Registration of fresh ids onto a fresh manager cannot collide.
		_ = h.worldmap.Register(h.screens)
		_ = h.briefing.Register(h.screens)
		_ = h.summary.Register(h.screens)
	}
	return h, nil
}

// Update runs one frame: clock, pose snapshot, screen manager deadlines,
// markers, zones (both cadences), widgets, overlays, powerups, feed aging.
func (h *HUD) Update(delta float64) {
	h.clock += delta
	snap := h.world.Snapshot()

	h.screens.Update(delta, snap.Viewport)
	h.markers.Update(delta, snap)
	h.zones.Update(delta, snap)
	for _, w := range h.widgets {
		w.Update(delta)
	}
	h.weather.Update(delta)
	h.powerups.Update(delta)
	h.feed.Update(delta)
}

// Draw renders the full stack: world-anchored layers first, then widgets,
// then the feed, then screens and modal on top.
func (h *HUD) Draw(screen *ebiten.Image) {
	h.zones.Draw(screen)
	h.markers.Draw(screen)
	h.weather.Draw(screen)
	h.zones.DrawVignette(screen, h.world.Viewport)
	for _, w := range h.widgets {
		w.Draw(screen)
	}
	h.powerups.Draw(screen)
	h.feed.Draw(screen, h.world.Viewport)
	h.screens.Draw(screen)
}

// HandleEscape forwards Escape to the screen manager.
func (h *HUD) HandleEscape() bool { return h.screens.HandleEscape() }

// HandleTab forwards focus cycling to the screen manager.
func (h *HUD) HandleTab(reverse bool) { h.screens.HandleTab(reverse) }

// HandleActivate fires the focused control.
func (h *HUD) HandleActivate() { h.screens.HandleActivate() }

// HandleClick routes a pointer click through the screen manager.
func (h *HUD) HandleClick(x, y float64) bool { return h.screens.HandleClick(x, y) }

// Clock returns the HUD's accumulated time in seconds.
func (h *HUD) Clock() float64 { return h.clock }

// Bus returns the event bus.
func (h *HUD) Bus() *Bus { return h.bus }

// Config returns the validated tuning in effect.
func (h *HUD) Config() Config { return h.cfg }

// Screens returns the screen/modal manager.
func (h *HUD) Screens() *ScreenManager { return h.screens }

// Markers returns the objective marker system.
func (h *HUD) Markers() *MarkerSystem { return h.markers }

// Zones returns the danger zone system.
func (h *HUD) Zones() *ZoneSystem { return h.zones }

// Health returns the health bar widget.
func (h *HUD) Health() *HealthBar { return h.health }

// Ammo returns the ammo counter widget.
func (h *HUD) Ammo() *AmmoCounter { return h.ammo }

// Stamina returns the stamina bar widget.
func (h *HUD) Stamina() *StaminaBar { return h.stamina }

// Crosshair returns the reticle widget.
func (h *HUD) Crosshair() *Crosshair { return h.crosshair }

// Compass returns the heading tape widget.
func (h *HUD) Compass() *Compass { return h.compass }

// Weather returns the weather overlay.
func (h *HUD) Weather() *WeatherOverlay { return h.weather }

// Powerups returns the timed-effect tracker.
func (h *HUD) Powerups() *PowerupTracker { return h.powerups }

// Feed returns the notification feed.
func (h *HUD) Feed() *Feed { return h.feed }

// Summary returns the round summary screen.
func (h *HUD) Summary() *SummaryScreen { return h.summary }

// Briefing returns the mission briefing screen.
func (h *HUD) Briefing() *BriefingScreen { return h.briefing }

// Dispose tears down every bus subscription the HUD's components hold. The
// HUD must not be updated afterwards.
func (h *HUD) Dispose() {
	for _, w := range h.widgets {
		w.Dispose()
	}
	h.weather.Dispose()
	h.feed.Dispose()
	h.summary.Dispose()
}
