package hud

import (
	"strings"
	"testing"
)

func TestFeed_PushAndOrder(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFeed(&cfg)
	f.Push("waypoint", "first")
	f.Update(1)
	f.Push("danger", "second")

	got := f.Recent()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "first" || got[1].Text != "second" {
		t.Fatalf("entries must come back oldest first, got %v", got)
	}
	if got[1].At != 1 {
		t.Fatalf("entries must stamp the feed clock, got %.1f", got[1].At)
	}
}

func TestFeed_RingEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeedCapacity = 3
	f := NewFeed(&cfg)
	for _, s := range []string{"a", "b", "c", "d"} {
		f.Push("x", s)
	}
	got := f.Recent()
	if len(got) != 3 {
		t.Fatalf("ring must cap at capacity, got %d", len(got))
	}
	if got[0].Text != "b" || got[2].Text != "d" {
		t.Fatalf("oldest entry must fall off the front, got %v", got)
	}
}

func TestFeed_AgeFade(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeedTTL = 6
	f := NewFeed(&cfg)
	f.Push("x", "old")
	if op := f.ageOpacity(f.Recent()[0]); op != 1 {
		t.Fatalf("a fresh entry is fully opaque, got %.2f", op)
	}
	f.Update(5) // inside the fade band (last third of the TTL)
	if op := f.ageOpacity(f.Recent()[0]); op <= 0 || op >= 1 {
		t.Fatalf("an aging entry fades partially, got %.2f", op)
	}
	f.Update(2) // past the TTL
	if op := f.ageOpacity(f.Recent()[0]); op != 0 {
		t.Fatalf("an expired entry is invisible, got %.2f", op)
	}
}

func TestFeed_WiredTopics(t *testing.T) {
	cfg := DefaultConfig()
	bus := NewBus()
	f := NewFeed(&cfg).WireBus(bus)
	defer f.Dispose()

	bus.Publish(TopicDangerCritical, DangerCritical{ZoneID: "gas-1", Kind: ZoneGas, Distance: 7, DamageRate: 6})
	bus.Publish(TopicWaypointAdded, WaypointAdded{MarkerID: "m1", Label: "ridge"})
	bus.Publish(TopicPowerupGranted, PowerupGranted{Kind: PowerupSpeed, Duration: 20})
	bus.Publish(TopicWeatherChanged, WeatherChanged{Kind: WeatherFog, Intensity: 0.4})

	got := f.Recent()
	if len(got) != 4 {
		t.Fatalf("expected one notification per wired topic, got %d", len(got))
	}
	if !strings.Contains(got[0].Text, "gas") || got[0].Kind != "danger" {
		t.Fatalf("danger notification malformed: %+v", got[0])
	}
	if !strings.Contains(got[1].Text, "ridge") {
		t.Fatalf("waypoint notification should carry the label: %+v", got[1])
	}
}

func TestFeed_DisposeStopsNotifications(t *testing.T) {
	cfg := DefaultConfig()
	bus := NewBus()
	f := NewFeed(&cfg).WireBus(bus)
	f.Dispose()
	bus.Publish(TopicWaypointAdded, WaypointAdded{MarkerID: "m1"})
	if len(f.Recent()) != 0 {
		t.Fatal("a disposed feed must not receive bus traffic")
	}
}
