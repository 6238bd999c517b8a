package main

import (
	"image/color"
	"log"
	"math"

	"github.com/Karrowe/Strike-HUD/internal/hud"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	screenW = 1280
	screenH = 720

	moveSpeed = 14.0 // world units per second
	turnSpeed = 2.2  // radians per second
	frameStep = 1.0 / 60.0
)

// sandbox is a flat arena with a controllable first-person pose, seeded with
// markers, zones, powerups, and weather so every HUD layer has something to
// show. It exists to exercise the HUD, not to be a game.
type sandbox struct {
	world *hud.World
	hud   *hud.HUD
}

func newSandbox() (*sandbox, error) {
	world := hud.NewWorld(hud.Viewport{W: screenW, H: screenH})
	h, err := hud.New(world)
	if err != nil {
		return nil, err
	}
	s := &sandbox{world: world, hud: h}
	s.seed()
	return s, nil
}

func (s *sandbox) seed() {
	markers := s.hud.Markers()
	markers.Add(hud.MarkerConfig{Kind: hud.MarkerObjective, Position: hud.Vec3{X: 60, Z: -40}, Label: "relay tower"})
	markers.Add(hud.MarkerConfig{Kind: hud.MarkerObjective, Position: hud.Vec3{X: -90, Z: 70}, Label: "supply cache"})
	markers.Add(hud.MarkerConfig{Kind: hud.MarkerExtraction, Position: hud.Vec3{X: 0, Z: 180}, Label: "extract", MaxDistance: 400})
	markers.Add(hud.MarkerConfig{Kind: hud.MarkerIntel, Position: hud.Vec3{X: 140, Z: 120}, Label: "intel", MaxDistance: 160})

	zones := s.hud.Zones()
	zones.Add(hud.ZoneConfig{Kind: hud.ZoneFire, Position: hud.Vec3{X: 30, Z: 25}, DamageRate: 12})
	zones.Add(hud.ZoneConfig{Kind: hud.ZoneGas, Position: hud.Vec3{X: -50, Z: -35}, DamageRate: 6, CriticalThreshold: 16})
	zones.Add(hud.ZoneConfig{Kind: hud.ZoneRadiation, Position: hud.Vec3{X: 110, Z: -80}, DamageRate: 4, MaxDistance: 300})

	s.hud.Powerups().Grant(hud.PowerupArmor, 45)
	s.hud.Weather().Set(hud.WeatherRain, 0.5)
	s.hud.Briefing().SetMission(hud.Mission{
		Title: "OPERATION NIGHT RELAY",
		Body: []string{
			"Reach the relay tower and hold until upload completes.",
			"Hazard fields reported across the approach. Route around them.",
			"Extraction opens to the south once objectives clear.",
		},
	})
}

func (s *sandbox) Update() error {
	s.handleInput()
	s.hud.Update(frameStep)
	return nil
}

// handleInput maps sandbox keys onto world mutations and HUD calls.
func (s *sandbox) handleInput() {
	p := &s.world.Player
	yawBefore := p.Yaw

	// Yaw: Q/E or left/right arrows.
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		p.Yaw -= turnSpeed * frameStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		p.Yaw += turnSpeed * frameStep
	}

	// Movement relative to facing: WASD.
	fx, fz := math.Cos(p.Yaw), math.Sin(p.Yaw)
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		p.Position.X += fx * moveSpeed * frameStep
		p.Position.Z += fz * moveSpeed * frameStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		p.Position.X -= fx * moveSpeed * frameStep
		p.Position.Z -= fz * moveSpeed * frameStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		p.Position.X += fz * moveSpeed * frameStep
		p.Position.Z -= fx * moveSpeed * frameStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		p.Position.X -= fz * moveSpeed * frameStep
		p.Position.Z += fx * moveSpeed * frameStep
	}
	s.world.Camera = *p

	bus := s.hud.Bus()
	st := &s.world.Status

	if p.Yaw != yawBefore {
		bus.Publish(hud.TopicPlayerRotation, hud.PlayerRotation{Yaw: p.Yaw})
	}

	// J: take damage, K: heal.
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		prev := st.Health
		st.Health = math.Max(0, st.Health-15)
		bus.Publish(hud.TopicHealthChanged, hud.HealthChange{Value: st.Health, Previous: prev, Source: "sandbox"})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		prev := st.Health
		st.Health = math.Min(st.MaxHealth, st.Health+20)
		bus.Publish(hud.TopicHealthChanged, hud.HealthChange{Value: st.Health, Previous: prev, Source: "medkit"})
	}

	// F: fire (every other shot "hits"), R: reload.
	if inpututil.IsKeyJustPressed(ebiten.KeyF) && st.Ammo > 0 {
		st.Ammo--
		bus.Publish(hud.TopicWeaponFired, hud.WeaponFired{})
		bus.Publish(hud.TopicAmmoChanged, hud.AmmoChange{Ammo: st.Ammo, Reserve: st.Reserve})
		if st.Ammo%2 == 0 {
			bus.Publish(hud.TopicWeaponHit, hud.WeaponHit{})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && st.Ammo < st.MagazineSize && st.Reserve > 0 {
		need := st.MagazineSize - st.Ammo
		if need > st.Reserve {
			need = st.Reserve
		}
		st.Ammo += need
		st.Reserve -= need
		s.hud.Ammo().BeginReload(1.6)
		bus.Publish(hud.TopicAmmoChanged, hud.AmmoChange{Ammo: st.Ammo, Reserve: st.Reserve})
	}

	// Shift drains stamina, otherwise it recovers.
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) && st.Stamina > 0 {
		st.Stamina = math.Max(0, st.Stamina-25*frameStep)
	} else if st.Stamina < st.MaxStamina {
		st.Stamina = math.Min(st.MaxStamina, st.Stamina+12*frameStep)
	}

	// Powerup and weather pokes.
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		s.hud.Powerups().Grant(hud.PowerupSpeed, 20)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		s.hud.Powerups().Grant(hud.PowerupDamage, 15)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		next := (s.hud.Weather().Kind() + 1) % 5
		s.hud.Weather().Set(next, 0.7)
	}

	// Screens and modal routing.
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.toggleScreen(hud.ScreenWorldMap)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.toggleScreen(hud.ScreenBriefing)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		s.toggleScreen(hud.ScreenSummary)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.hud.HandleEscape()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		reverse := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
		s.hud.HandleTab(reverse)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.hud.HandleActivate()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		s.hud.HandleClick(float64(mx), float64(my))
	}

	// F8: copy the diagnostics report.
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		if err := s.hud.CopyDiagnostics(); err != nil {
			log.Printf("clipboard copy failed: %v", err)
		}
	}
}

// toggleScreen shows a screen, or hides it when it is already up. Errors are
// rejections from the transition lock and safe to drop.
func (s *sandbox) toggleScreen(id string) {
	m := s.hud.Screens()
	if m.Current() == id {
		_ = m.Hide()
		return
	}
	_ = m.Show(id, nil)
}

func (s *sandbox) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 16, B: 20, A: 255})

	// Horizon band so the pose reads even with nothing else on screen.
	vector.FillRect(screen, 0, screenH/2, screenW, screenH/2, color.RGBA{R: 22, G: 26, B: 24, A: 255}, false)
	vector.StrokeLine(screen, 0, screenH/2, screenW, screenH/2, 1, color.RGBA{R: 50, G: 60, B: 55, A: 255}, false)

	s.hud.Draw(screen)
}

func (s *sandbox) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	ebiten.SetWindowTitle("Strike HUD Sandbox")
	ebiten.SetWindowSize(screenW, screenH)
	s, err := newSandbox()
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(s); err != nil {
		log.Fatal(err)
	}
}
