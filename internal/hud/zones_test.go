package hud

import (
	"errors"
	"math"
	"testing"
)

func newZoneSystem() (*ZoneSystem, *Bus, PoseSnapshot) {
	cfg := DefaultConfig()
	bus := NewBus()
	zs := NewZoneSystem(&cfg, bus)
	snap := PoseSnapshot{Viewport: Viewport{W: 1280, H: 720}}
	return zs, bus, snap
}

// stepProximity advances exactly one proximity interval so every call runs
// one check.
func stepProximity(zs *ZoneSystem, snap PoseSnapshot) {
	zs.Update(zs.cfg.ProximityInterval, snap)
}

func TestZoneSystem_GeneratedIDs(t *testing.T) {
	zs, _, _ := newZoneSystem()
	a, err := zs.Add(ZoneConfig{Kind: ZoneFire})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	b, _ := zs.Add(ZoneConfig{Kind: ZoneGas})
	if a == b || a == "" {
		t.Fatalf("generated ids must be unique and non-empty, got %q and %q", a, b)
	}
}

func TestZoneSystem_DuplicateIDFails(t *testing.T) {
	zs, _, _ := newZoneSystem()
	if _, err := zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := zs.Add(ZoneConfig{ID: "pit", Kind: ZoneGas})
	if !errors.Is(err, ErrZoneExists) {
		t.Fatalf("duplicate id should fail with ErrZoneExists, got %v", err)
	}
	if zs.Count() != 1 {
		t.Fatalf("failed add must not grow the store, count=%d", zs.Count())
	}
}

func TestZoneSystem_ProximityPicksClosest(t *testing.T) {
	// Zones at 5, 20, 50 with threshold 30 and critical 10: in danger,
	// closest is 5, and only that zone fires a critical event.
	zs, bus, snap := newZoneSystem()
	var crits []DangerCritical
	bus.Subscribe(TopicDangerCritical, func(p any) { crits = append(crits, p.(DangerCritical)) })

	near, _ := zs.Add(ZoneConfig{ID: "near", Kind: ZoneFire, Position: Vec3{X: 5}, DamageRate: 12})
	zs.Add(ZoneConfig{ID: "mid", Kind: ZoneGas, Position: Vec3{X: 20}})
	zs.Add(ZoneConfig{ID: "far", Kind: ZoneRadiation, Position: Vec3{X: 50}})

	stepProximity(zs, snap)

	s := zs.Snapshot()
	if !s.InDanger {
		t.Fatal("player 5 units from a zone with threshold 30 must be in danger")
	}
	if s.ClosestID != near || s.ClosestDistance != 5 {
		t.Fatalf("expected closest=near at 5, got %s at %.1f", s.ClosestID, s.ClosestDistance)
	}
	if len(crits) != 1 || crits[0].ZoneID != "near" {
		t.Fatalf("only the zone inside its critical radius may fire, got %v", crits)
	}
	if crits[0].DamageRate != 12 {
		t.Fatalf("critical event must carry the zone damage rate, got %.1f", crits[0].DamageRate)
	}
}

func TestZoneSystem_SnapshotResetWholesale(t *testing.T) {
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 5}})
	stepProximity(zs, snap)
	if !zs.Snapshot().InDanger {
		t.Fatal("setup: expected danger")
	}

	// Remove the zone: the next check starts from scratch, not from the
	// previous snapshot.
	zs.Remove("pit")
	stepProximity(zs, snap)
	s := zs.Snapshot()
	if s.InDanger || s.ClosestID != "" || !math.IsInf(s.ClosestDistance, 1) {
		t.Fatalf("empty store must reset the snapshot wholesale, got %+v", s)
	}
	if zs.VignetteOpacity() != 0 {
		t.Fatalf("vignette must clear with the danger state, got %.2f", zs.VignetteOpacity())
	}
}

func TestZoneSystem_InactiveZonesSkippedEntirely(t *testing.T) {
	zs, bus, snap := newZoneSystem()
	crits := 0
	bus.Subscribe(TopicDangerCritical, func(any) { crits++ })

	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 5}})
	zs.SetActive("pit", false)
	stepProximity(zs, snap)

	s := zs.Snapshot()
	if s.InDanger || crits != 0 {
		t.Fatalf("inactive zones must be skipped by the scan, snapshot=%+v crits=%d", s, crits)
	}
	for _, z := range zs.Visible() {
		t.Fatalf("inactive zone must not be visible, got %s", z.ID)
	}
}

func TestZoneSystem_ThrottledCadence(t *testing.T) {
	zs, bus, snap := newZoneSystem()
	checks := 0
	bus.Subscribe(TopicDangerCritical, func(any) { checks++ })
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 2}})

	// Sixty 1/60s frames cover 1s: ten proximity checks at the default
	// 100ms interval, not sixty.
	for i := 0; i < 60; i++ {
		zs.Update(1.0/60.0, snap)
	}
	if checks < 9 || checks > 11 {
		t.Fatalf("expected ~10 throttled checks over 1s, got %d", checks)
	}
}

func TestZoneSystem_BoundaryFlickerWithoutHysteresis(t *testing.T) {
	// Inherited behavior: with no hysteresis band, oscillating across the
	// threshold flips the danger state on every check.
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{}})

	inside := snap
	inside.Player.Position = Vec3{X: zs.cfg.ProximityThreshold - 0.5}
	outside := snap
	outside.Player.Position = Vec3{X: zs.cfg.ProximityThreshold + 0.5}

	flips := 0
	prev := false
	for i := 0; i < 10; i++ {
		s := inside
		if i%2 == 1 {
			s = outside
		}
		stepProximity(zs, s)
		if zs.Snapshot().InDanger != prev {
			flips++
			prev = zs.Snapshot().InDanger
		}
	}
	if flips < 9 {
		t.Fatalf("static threshold must flicker on every boundary crossing, got %d flips", flips)
	}
}

func TestZoneSystem_HysteresisBandHoldsDanger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HysteresisBand = 5
	bus := NewBus()
	zs := NewZoneSystem(&cfg, bus)
	snap := PoseSnapshot{Viewport: Viewport{W: 1280, H: 720}}
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{}})

	inside := snap
	inside.Player.Position = Vec3{X: cfg.ProximityThreshold - 1}
	stepProximity(zs, inside)
	if !zs.Snapshot().InDanger {
		t.Fatal("setup: expected danger inside the threshold")
	}

	// Just past the threshold but within the band: danger holds.
	edge := snap
	edge.Player.Position = Vec3{X: cfg.ProximityThreshold + 2}
	stepProximity(zs, edge)
	if !zs.Snapshot().InDanger {
		t.Fatal("hysteresis band must hold the danger state past the threshold")
	}

	// Past the band: danger clears.
	out := snap
	out.Player.Position = Vec3{X: cfg.ProximityThreshold + cfg.HysteresisBand + 1}
	stepProximity(zs, out)
	if zs.Snapshot().InDanger {
		t.Fatal("leaving the band must clear the danger state")
	}
}

func TestZoneSystem_BehindCameraNotVisible(t *testing.T) {
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: -40}})
	// Camera at origin facing +X; the zone sits behind it.
	zs.Update(1.0/60.0, snap)
	z, _ := zs.Get("pit")
	if z.Visible {
		t.Fatal("a zone behind the camera must not be visible")
	}
	if !z.Screen.Behind {
		t.Fatal("projection must mark the zone as behind")
	}
}

func TestZoneSystem_WarningIndependentOfProximityEngine(t *testing.T) {
	// The per-frame warning flag uses the zone's own critical radius and
	// must toggle even when the throttled engine hasn't run this frame.
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 4}, CriticalThreshold: 10})
	zs.Update(0.001, snap) // far below the proximity interval
	z, _ := zs.Get("pit")
	if !z.Warning {
		t.Fatal("warning flag must be computed by the per-frame pass")
	}
}

func TestZoneSystem_DistanceFade(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ZoneMaxDistance = 100
	cfg.FadeBand = 40
	bus := NewBus()
	zs := NewZoneSystem(&cfg, bus)
	snap := PoseSnapshot{Viewport: Viewport{W: 1280, H: 720}}
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 80}})

	zs.Update(1.0/60.0, snap)
	z, _ := zs.Get("pit")
	if !z.Visible {
		t.Fatal("zone inside max distance must be visible")
	}
	want := (100.0 - 80.0) / 40.0
	if math.Abs(z.Opacity-want) > 1e-9 {
		t.Fatalf("expected fade opacity %.2f inside the band, got %.2f", want, z.Opacity)
	}
}

func TestZoneSystem_ClearIsIdempotent(t *testing.T) {
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{Kind: ZoneFire})
	zs.Add(ZoneConfig{Kind: ZoneGas})
	zs.Clear()
	if zs.Count() != 0 {
		t.Fatalf("clear must empty the store, count=%d", zs.Count())
	}
	zs.Clear() // second clear is a no-op
	if zs.Count() != 0 {
		t.Fatal("repeated clear must stay empty")
	}
	stepProximity(zs, snap)
	if zs.Snapshot().InDanger {
		t.Fatal("cleared store must not report danger")
	}
}

func TestZoneSystem_RemoveTwiceReportsGone(t *testing.T) {
	zs, _, _ := newZoneSystem()
	id, _ := zs.Add(ZoneConfig{Kind: ZoneFire})
	if !zs.Remove(id) {
		t.Fatal("first remove must report true")
	}
	if zs.Remove(id) {
		t.Fatal("second remove must report false, not error")
	}
}

func TestZoneSystem_VignetteDepth(t *testing.T) {
	zs, _, snap := newZoneSystem()
	zs.Add(ZoneConfig{ID: "pit", Kind: ZoneFire, Position: Vec3{X: 15}, CriticalThreshold: 1})
	stepProximity(zs, snap)
	want := 1 - 15.0/zs.cfg.ProximityThreshold
	if math.Abs(zs.VignetteOpacity()-want) > 1e-9 {
		t.Fatalf("vignette should scale with depth inside the threshold: want %.2f got %.2f",
			want, zs.VignetteOpacity())
	}
}
