package hud

import (
	"math"
	"testing"
)

func newWidgetWorld() (*World, *Bus, *Config) {
	cfg := DefaultConfig()
	return NewWorld(Viewport{W: 1280, H: 720}), NewBus(), &cfg
}

func damage(w *World, bus *Bus, amount float64) {
	prev := w.Status.Health
	w.Status.Health -= amount
	bus.Publish(TopicHealthChanged, HealthChange{Value: w.Status.Health, Previous: prev, Source: "test"})
}

func TestHealthBar_GhostTrailsDamage(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	hb := NewHealthBar(cfg, bus, w)
	defer hb.Dispose()

	damage(w, bus, 40)
	hb.Update(0.25)
	expected := 100 - cfg.GhostDrainRate*0.25
	if math.Abs(hb.Ghost()-expected) > 1e-9 {
		t.Fatalf("ghost should drain at the configured rate: want %.1f got %.1f", expected, hb.Ghost())
	}

	// Enough time for the trail to land exactly on the real value.
	hb.Update(10)
	if hb.Ghost() != w.Status.Health {
		t.Fatalf("ghost must settle on the real value, got %.1f want %.1f", hb.Ghost(), w.Status.Health)
	}
}

func TestHealthBar_HealSnapsGhostUp(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	hb := NewHealthBar(cfg, bus, w)
	defer hb.Dispose()

	damage(w, bus, 50)
	hb.Update(0.1)
	w.Status.Health = 90 // heal past the ghost
	hb.Update(0)
	if hb.Ghost() != 90 {
		t.Fatalf("healing must snap the ghost up, got %.1f", hb.Ghost())
	}
}

func TestHealthBar_FlashRearmsPerHit(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	hb := NewHealthBar(cfg, bus, w)
	defer hb.Dispose()

	damage(w, bus, 10)
	hb.Update(cfg.FlashDuration * 0.8)
	if !hb.Flashing() {
		t.Fatal("flash should still be running inside its window")
	}
	// A second hit near the end of the first flash restarts it; the first
	// hit's expiry must not cut the new flash short.
	damage(w, bus, 10)
	hb.Update(cfg.FlashDuration * 0.8)
	if !hb.Flashing() {
		t.Fatal("re-armed flash must outlive the first hit's deadline")
	}
	hb.Update(cfg.FlashDuration)
	if hb.Flashing() {
		t.Fatal("flash must end after the re-armed window")
	}
}

func TestHealthBar_HealDoesNotFlash(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	w.Status.Health = 50
	hb := NewHealthBar(cfg, bus, w)
	defer hb.Dispose()

	prev := w.Status.Health
	w.Status.Health = 80
	bus.Publish(TopicHealthChanged, HealthChange{Value: 80, Previous: prev, Source: "medkit"})
	if hb.Flashing() {
		t.Fatal("healing must not trigger the damage flash")
	}
}

func TestHealthBar_LowHealthThreshold(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	hb := NewHealthBar(cfg, bus, w)
	defer hb.Dispose()

	w.Status.Health = cfg.LowHealthFrac*w.Status.MaxHealth + 1
	if hb.LowHealth() {
		t.Fatal("above the threshold is not low health")
	}
	w.Status.Health = cfg.LowHealthFrac * w.Status.MaxHealth
	if !hb.LowHealth() {
		t.Fatal("at the threshold the pulse starts")
	}
}

func TestAmmoCounter_ReloadRetriggerReplaces(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ac := NewAmmoCounter(cfg, bus, w)
	defer ac.Dispose()

	ac.BeginReload(1.0)
	ac.Update(0.9)
	ac.BeginReload(1.0) // interrupted and restarted
	ac.Update(0.5)
	if !ac.Reloading() {
		t.Fatal("restarted reload must not end on the first reload's deadline")
	}
	if f := ac.ReloadFrac(); math.Abs(f-0.5) > 1e-9 {
		t.Fatalf("restarted sweep should read its own progress, got %.2f", f)
	}
	ac.Update(0.6)
	if ac.Reloading() {
		t.Fatal("reload must finish after its full window")
	}
}

func TestAmmoCounter_CancelReload(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ac := NewAmmoCounter(cfg, bus, w)
	defer ac.Dispose()

	ac.BeginReload(2.0)
	ac.CancelReload()
	if ac.Reloading() {
		t.Fatal("cancelled reload must stop immediately")
	}
}

func TestAmmoCounter_LowAmmoFraction(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ac := NewAmmoCounter(cfg, bus, w)
	defer ac.Dispose()

	w.Status.Ammo = int(float64(w.Status.MagazineSize)*cfg.LowAmmoFrac) + 1
	if ac.LowAmmo() {
		t.Fatal("above the warning fraction is not low ammo")
	}
	w.Status.Ammo = int(float64(w.Status.MagazineSize) * cfg.LowAmmoFrac)
	if !ac.LowAmmo() {
		t.Fatal("at the warning fraction the LOW tag shows")
	}
}

func TestStaminaBar_TrendClassification(t *testing.T) {
	w, _, cfg := newWidgetWorld()
	sb := NewStaminaBar(cfg, w)

	w.Status.Stamina = 80
	sb.Update(1.0 / 60.0)
	if sb.Trend() != StaminaDraining {
		t.Fatalf("dropping stamina must read draining, got %s", sb.Trend())
	}
	w.Status.Stamina = 85
	sb.Update(1.0 / 60.0)
	if sb.Trend() != StaminaRecovering {
		t.Fatalf("rising stamina must read recovering, got %s", sb.Trend())
	}
	sb.Update(1.0 / 60.0)
	if sb.Trend() != StaminaSteady {
		t.Fatalf("unchanged stamina must read steady, got %s", sb.Trend())
	}
}

func TestStaminaBar_ExhaustedFlashOnTransitionOnly(t *testing.T) {
	w, _, cfg := newWidgetWorld()
	sb := NewStaminaBar(cfg, w)

	w.Status.Stamina = 0
	sb.Update(1.0 / 60.0)
	if !sb.Exhausted() {
		t.Fatal("hitting empty must start the exhausted flash")
	}
	// Staying empty does not re-arm the flash forever.
	sb.Update(cfg.FlashDuration * 3)
	if sb.Exhausted() {
		t.Fatal("the flash must end while the pool stays empty")
	}
}

func TestCrosshair_SpreadKickAndDecay(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ch := NewCrosshair(cfg, bus, w)
	defer ch.Dispose()

	bus.Publish(TopicWeaponFired, WeaponFired{})
	bus.Publish(TopicWeaponFired, WeaponFired{})
	if ch.Spread() != 2*cfg.CrosshairKick {
		t.Fatalf("each shot must add one kick, got %.1f", ch.Spread())
	}
	ch.Update(cfg.CrosshairKick / cfg.CrosshairDecay) // decay one kick's worth
	if math.Abs(ch.Spread()-cfg.CrosshairKick) > 1e-9 {
		t.Fatalf("spread must decay linearly, got %.2f", ch.Spread())
	}
	ch.Update(100)
	if ch.Spread() != 0 {
		t.Fatalf("spread must floor at zero, got %.2f", ch.Spread())
	}
}

func TestCrosshair_HitMarkerRearms(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ch := NewCrosshair(cfg, bus, w)
	defer ch.Dispose()

	bus.Publish(TopicWeaponHit, WeaponHit{})
	ch.Update(cfg.FlashDuration * 0.9)
	bus.Publish(TopicWeaponHit, WeaponHit{})
	ch.Update(cfg.FlashDuration * 0.9)
	if !ch.HitMarker() {
		t.Fatal("a fresh hit must restart the marker flash")
	}
}

func TestCrosshair_DisposeStopsKicks(t *testing.T) {
	w, bus, cfg := newWidgetWorld()
	ch := NewCrosshair(cfg, bus, w)
	ch.Dispose()
	bus.Publish(TopicWeaponFired, WeaponFired{})
	if ch.Spread() != 0 {
		t.Fatal("a disposed widget must not react to bus traffic")
	}
}

func TestCompass_HeadingWraps(t *testing.T) {
	w, _, cfg := newWidgetWorld()
	cp := NewCompass(cfg, w, nil)
	w.Player.Yaw = -math.Pi / 2
	if h := cp.Heading(); math.Abs(h-3*math.Pi/2) > 1e-9 {
		t.Fatalf("heading must wrap into [0, 2pi), got %.2f", h)
	}
}

func TestTapeX_CentreAndWindowEdges(t *testing.T) {
	window := 2.0
	if x, ok := tapeX(0, window); !ok || x != 0 {
		t.Fatalf("dead ahead must sit at the strip centre, got %.1f ok=%t", x, ok)
	}
	if x, ok := tapeX(window/2, window); !ok || math.Abs(x-compassStripW/2) > 1e-9 {
		t.Fatalf("window edge must map to the strip edge, got %.1f ok=%t", x, ok)
	}
	if _, ok := tapeX(window/2+0.01, window); ok {
		t.Fatal("outside the window the tape hides the entry")
	}
	// Offsets wrap before windowing: 2pi-0.1 is -0.1 off the nose.
	if x, ok := tapeX(2*math.Pi-0.1, window); !ok || x >= 0 {
		t.Fatalf("wrapped offset must land left of centre, got %.1f ok=%t", x, ok)
	}
}

func TestRadarPoint_RangeAndScale(t *testing.T) {
	dx, dy, ok := radarPoint(0, 60, 120)
	if !ok {
		t.Fatal("inside range must produce a point")
	}
	if math.Abs(dx-minimapRadius/2) > 1e-9 || math.Abs(dy) > 1e-9 {
		t.Fatalf("half range dead ahead should sit mid-disc right of centre, got (%.1f, %.1f)", dx, dy)
	}
	if _, _, ok := radarPoint(0, 121, 120); ok {
		t.Fatal("outside radar range must be dropped")
	}
}

func TestDistanceBand_Colours(t *testing.T) {
	near := distanceBand(10, 120)
	mid := distanceBand(50, 120)
	far := distanceBand(110, 120)
	if near == mid || mid == far || near == far {
		t.Fatal("distance bands must produce distinct colours")
	}
}
