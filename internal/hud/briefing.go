package hud

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ScreenBriefing is the registration id of the mission briefing screen.
const ScreenBriefing = "briefing"

// Mission is the briefing content. Pass one as the Show data to replace the
// displayed mission; without it the last mission stays up.
type Mission struct {
	Title string
	Body  []string
}

// BriefingScreen shows the current mission text plus a live objective list
// pulled from the marker store, so distances stay fresh while the screen is
// up.
type BriefingScreen struct {
	world   *World
	markers *MarkerSystem

	mission Mission
}

// NewBriefingScreen creates the briefing view over the live marker store.
func NewBriefingScreen(world *World, markers *MarkerSystem) *BriefingScreen {
	return &BriefingScreen{
		world:   world,
		markers: markers,
		mission: Mission{Title: "NO TASKING", Body: []string{"Await orders."}},
	}
}

// SetMission replaces the displayed mission.
func (bs *BriefingScreen) SetMission(m Mission) {
	bs.mission = m
}

// Register installs the screen on the manager.
func (bs *BriefingScreen) Register(mgr *ScreenManager) error {
	return mgr.Register(ScreenBriefing, ScreenDef{
		Title:      "MISSION BRIEFING",
		Transition: TransitionSlide,
		OnShow: func(data any) {
			if m, ok := data.(Mission); ok {
				bs.mission = m
			}
		},
		Render: bs.render,
		Controls: []*Control{
			{ID: "deploy", Label: "Deploy", Action: func() { _ = mgr.Hide() }},
			{ID: "back", Label: "Back", Action: func() {
				if mgr.Back() != nil {
					_ = mgr.Hide()
				}
			}},
		},
	})
}

func (bs *BriefingScreen) render(dst *ebiten.Image, b PanelBounds) {
	bright := color.RGBA{R: 225, G: 235, B: 240, A: 255}
	dim := color.RGBA{R: 160, G: 172, B: 180, A: 255}

	x := int(b.X) + 20
	y := int(b.Y) + 48
	text.Draw(dst, bs.mission.Title, basicfont.Face7x13, x, y, bright)
	y += 24
	for _, line := range bs.mission.Body {
		text.Draw(dst, line, basicfont.Face7x13, x, y, dim)
		y += 16
	}

	y += 14
	text.Draw(dst, "OBJECTIVES", basicfont.Face7x13, x, y, bright)
	y += 18
	player := bs.world.Player.Position
	listed := 0
	for _, mk := range bs.markers.markers {
		if mk.Kind != MarkerObjective || !mk.Active {
			continue
		}
		d := HorizontalDistance(player, mk.Position)
		line := fmt.Sprintf("- %s  %.0fm", mk.Label, d)
		text.Draw(dst, line, basicfont.Face7x13, x, y, mk.Kind.colour())
		y += 16
		listed++
	}
	if listed == 0 {
		text.Draw(dst, "(none assigned)", basicfont.Face7x13, x, y, dim)
	}
}
