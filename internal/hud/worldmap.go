package hud

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// ScreenWorldMap is the registration id of the world map screen.
const ScreenWorldMap = "world-map"

// worldMapRange is the half-width of the plotted area in world units.
const worldMapRange = 250.0

// WorldMapScreen is a top-down, north-up plot of markers and zones around the
// player. Clicking the map drops a waypoint marker at the clicked world
// position.
type WorldMapScreen struct {
	world   *World
	markers *MarkerSystem
	zones   *ZoneSystem

	bounds PanelBounds // body area captured at render, reused for clicks
}

// NewWorldMapScreen wires the map over the live marker and zone stores.
func NewWorldMapScreen(world *World, markers *MarkerSystem, zones *ZoneSystem) *WorldMapScreen {
	return &WorldMapScreen{world: world, markers: markers, zones: zones}
}

// Register installs the screen on the manager.
func (wm *WorldMapScreen) Register(mgr *ScreenManager) error {
	return mgr.Register(ScreenWorldMap, ScreenDef{
		Title:      "WORLD MAP",
		Transition: TransitionFade,
		OnClick:    wm.handleClick,
		Render:     wm.render,
		Controls: []*Control{
			{ID: "close", Label: "Close", Action: func() { _ = mgr.Hide() }},
		},
	})
}

// plotScale returns pixels per world unit for the current body size.
func plotScale(b PanelBounds) float64 {
	side := b.W
	if b.H < side {
		side = b.H
	}
	return (side/2 - 30) / worldMapRange
}

// worldToPlot maps a world position onto panel coordinates, player-centred,
// north-up (+X east/right, +Z south/down).
func worldToPlot(b PanelBounds, player, pos Vec3) (float64, float64) {
	s := plotScale(b)
	return b.X + b.W/2 + (pos.X-player.X)*s, b.Y + b.H/2 + (pos.Z-player.Z)*s
}

// plotToWorld inverts worldToPlot at the player's height.
func plotToWorld(b PanelBounds, player Vec3, px, py float64) Vec3 {
	s := plotScale(b)
	return Vec3{
		X: player.X + (px-(b.X+b.W/2))/s,
		Y: player.Y,
		Z: player.Z + (py-(b.Y+b.H/2))/s,
	}
}

// handleClick drops a waypoint at the clicked map position.
func (wm *WorldMapScreen) handleClick(x, y float64) bool {
	if wm.bounds.W <= 0 {
		return false
	}
	pos := plotToWorld(wm.bounds, wm.world.Player.Position, x, y)
	_, err := wm.markers.Add(MarkerConfig{
		Kind:     MarkerWaypoint,
		Position: pos,
		Label:    "map waypoint",
	})
	return err == nil
}

func (wm *WorldMapScreen) render(dst *ebiten.Image, b PanelBounds) {
	wm.bounds = b
	player := wm.world.Player.Position

	// Range rings.
	cx := float32(b.X + b.W/2)
	cy := float32(b.Y + b.H/2)
	s := plotScale(b)
	ringCol := color.RGBA{R: 40, G: 60, B: 70, A: 255}
	for _, r := range []float64{worldMapRange / 3, worldMapRange * 2 / 3, worldMapRange} {
		vector.StrokeCircle(dst, cx, cy, float32(r*s), 1, ringCol, false)
	}

	for _, z := range wm.zones.zones {
		if !z.Active {
			continue
		}
		px, py := worldToPlot(b, player, z.Position)
		col := z.Kind.colour()
		vector.StrokeCircle(dst, float32(px), float32(py), float32(z.CriticalThreshold*s), 1.5, col, false)
		vector.FillCircle(dst, float32(px), float32(py), 3, col, false)
	}

	for _, mk := range wm.markers.markers {
		if !mk.Active {
			continue
		}
		px, py := worldToPlot(b, player, mk.Position)
		col := mk.Kind.colour()
		vector.FillCircle(dst, float32(px), float32(py), 4, col, false)
		if mk.Label != "" {
			text.Draw(dst, mk.Label, basicfont.Face7x13, int(px)+7, int(py)+4, col)
		}
	}

	// Player arrow, pointing along the current yaw.
	yaw := wm.world.Player.Yaw
	tipX, tipY := cx+12*float32(math.Cos(yaw)), cy+12*float32(math.Sin(yaw))
	vector.StrokeLine(dst, cx, cy, tipX, tipY, 2, color.RGBA{R: 250, G: 250, B: 255, A: 255}, false)
	vector.FillCircle(dst, cx, cy, 3, color.RGBA{R: 250, G: 250, B: 255, A: 255}, false)

	hint := fmt.Sprintf("click to set waypoint  range %.0fm", worldMapRange)
	text.Draw(dst, hint, basicfont.Face7x13, int(b.X)+12, int(b.Y+b.H)-64, color.RGBA{R: 150, G: 165, B: 175, A: 255})
}
