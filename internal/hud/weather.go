package hud

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WeatherKind enumerates the ambient weather states the overlay can render.
type WeatherKind int

const (
	WeatherClear WeatherKind = iota
	WeatherRain
	WeatherSnow
	WeatherFog
	WeatherStorm
)

func (k WeatherKind) String() string {
	switch k {
	case WeatherClear:
		return "clear"
	case WeatherRain:
		return "rain"
	case WeatherSnow:
		return "snow"
	case WeatherFog:
		return "fog"
	case WeatherStorm:
		return "storm"
	default:
		return "unknown"
	}
}

func (k WeatherKind) tint() color.RGBA {
	switch k {
	case WeatherRain:
		return color.RGBA{R: 40, G: 60, B: 90, A: 255}
	case WeatherSnow:
		return color.RGBA{R: 200, G: 210, B: 225, A: 255}
	case WeatherFog:
		return color.RGBA{R: 150, G: 155, B: 160, A: 255}
	case WeatherStorm:
		return color.RGBA{R: 25, G: 30, B: 50, A: 255}
	default:
		return color.RGBA{}
	}
}

// WeatherOverlay holds the ambient weather state as a cross-fade between the
// previous and the target condition. The renderer reads Kind and Intensity as
// plain numeric state (fog alpha, particle density); the fade is driven by a
// countdown on the HUD clock, so re-setting mid-fade restarts cleanly from
// the currently displayed intensity.
type WeatherOverlay struct {
	cfg *Config

	kind      WeatherKind
	target    float64 // target intensity 0..1
	fadeFrom  float64 // displayed intensity when the fade started
	prevKind  WeatherKind
	fade      Countdown
	clock     float64
	displayed float64

	cancel func()
}

// NewWeatherOverlay creates a clear-sky overlay that follows weather:changed
// traffic.
func NewWeatherOverlay(cfg *Config, bus *Bus) *WeatherOverlay {
	wo := &WeatherOverlay{cfg: cfg}
	wo.cancel = bus.Subscribe(TopicWeatherChanged, func(payload any) {
		ev := payload.(WeatherChanged)
		wo.Set(ev.Kind, ev.Intensity)
	})
	return wo
}

// Set retargets the overlay. The displayed intensity cross-fades from its
// current value, whatever the previous fade was doing.
func (wo *WeatherOverlay) Set(kind WeatherKind, intensity float64) {
	wo.prevKind = wo.kind
	wo.kind = kind
	wo.target = clamp01(intensity)
	wo.fadeFrom = wo.displayed
	wo.fade.Start(wo.clock, wo.cfg.WeatherFade)
}

// Kind returns the target weather condition.
func (wo *WeatherOverlay) Kind() WeatherKind { return wo.kind }

// Intensity returns the displayed (cross-faded) intensity.
func (wo *WeatherOverlay) Intensity() float64 { return wo.displayed }

// Transitioning reports whether a cross-fade is running.
func (wo *WeatherOverlay) Transitioning() bool { return wo.fade.Active(wo.clock) }

// Update advances the cross-fade.
func (wo *WeatherOverlay) Update(delta float64) {
	wo.clock += delta
	wo.fade.Fire(wo.clock)
	wo.displayed = lerp(wo.fadeFrom, wo.target, wo.fade.Frac(wo.clock))
}

// Draw renders the weather tint. Particle effects belong to the world
// renderer; the HUD only contributes the flat atmospheric wash.
func (wo *WeatherOverlay) Draw(dst *ebiten.Image) {
	if wo.displayed <= 0 || wo.kind == WeatherClear {
		return
	}
	b := dst.Bounds()
	col := wo.kind.tint()
	col.A = uint8(110 * wo.displayed)
	vector.FillRect(dst, 0, 0, float32(b.Dx()), float32(b.Dy()), col, false)
}

// Dispose releases the bus subscription.
func (wo *WeatherOverlay) Dispose() {
	if wo.cancel != nil {
		wo.cancel()
		wo.cancel = nil
	}
}
