package hud

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const compassStripW = 360.0

// cardinal points by absolute bearing. Yaw 0 faces +X, which the HUD labels
// east; +Z is south on the compass.
var cardinals = []struct {
	angle float64
	label string
}{
	{0, "E"},
	{math.Pi / 4, "SE"},
	{math.Pi / 2, "S"},
	{3 * math.Pi / 4, "SW"},
	{math.Pi, "W"},
	{5 * math.Pi / 4, "NW"},
	{3 * math.Pi / 2, "N"},
	{7 * math.Pi / 4, "NE"},
}

// Compass renders the heading tape along the top edge: cardinal labels and
// degree ticks scroll with the player's yaw, and marker pips slide along the
// strip by relative bearing.
type Compass struct {
	cfg     *Config
	world   *World
	markers *MarkerSystem
}

// NewCompass creates the heading tape. markers may be nil for a bare tape.
func NewCompass(cfg *Config, world *World, markers *MarkerSystem) *Compass {
	return &Compass{cfg: cfg, world: world, markers: markers}
}

// Heading returns the player yaw wrapped to [0, 2π).
func (cp *Compass) Heading() float64 {
	return wrapBearing(cp.world.Player.Yaw)
}

// Update is a no-op; the compass is stateless between frames.
func (cp *Compass) Update(delta float64) {}

// tapeX maps an angle offset from the heading onto a strip x offset from the
// strip centre. ok is false when the offset falls outside the angular window.
func tapeX(offset, window float64) (float64, bool) {
	off := normalizeAngle(offset)
	half := window / 2
	if math.Abs(off) > half {
		return 0, false
	}
	return off / half * (compassStripW / 2), true
}

// Draw renders the strip centred along the top edge.
func (cp *Compass) Draw(dst *ebiten.Image) {
	vp := cp.world.Viewport
	if !vp.Valid() {
		return
	}
	cx := float64(vp.W) / 2
	y := 18.0
	left := float32(cx - compassStripW/2)

	vector.FillRect(dst, left, float32(y)-12, compassStripW, 24, color.RGBA{R: 12, G: 16, B: 20, A: 200}, false)
	vector.StrokeLine(dst, float32(cx), float32(y)-14, float32(cx), float32(y)-8, 2, color.RGBA{R: 250, G: 220, B: 90, A: 255}, false)

	heading := cp.Heading()
	dim := color.RGBA{R: 150, G: 165, B: 175, A: 255}
	bright := color.RGBA{R: 225, G: 235, B: 240, A: 255}

	// Degree ticks every 15 degrees.
	for deg := 0; deg < 360; deg += 15 {
		a := float64(deg) * math.Pi / 180
		dx, ok := tapeX(a-heading, cp.cfg.CompassWindow)
		if !ok {
			continue
		}
		h := float32(4)
		if deg%45 == 0 {
			h = 8
		}
		vector.StrokeLine(dst, float32(cx+dx), float32(y)+2, float32(cx+dx), float32(y)+2+h, 1, dim, false)
	}

	for _, c := range cardinals {
		dx, ok := tapeX(c.angle-heading, cp.cfg.CompassWindow)
		if !ok {
			continue
		}
		text.Draw(dst, c.label, basicfont.Face7x13, int(cx+dx)-len(c.label)*7/2, int(y), bright)
	}

	// Marker pips under the tape. Bearing is already heading-relative.
	if cp.markers != nil {
		for _, mk := range cp.markers.Visible() {
			dx, ok := tapeX(normalizeAngle(mk.Bearing), cp.cfg.CompassWindow)
			if !ok {
				continue
			}
			col := mk.Kind.colour()
			col.A = uint8(255 * mk.Opacity)
			vector.FillCircle(dst, float32(cx+dx), float32(y)+14, 3, col, false)
		}
	}
}

// Dispose is a no-op.
func (cp *Compass) Dispose() {}
