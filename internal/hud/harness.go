package hud

import (
	"fmt"
	"strings"
)

// EventLogEntry is one bus event recorded during a headless run.
type EventLogEntry struct {
	Time    float64 // HUD clock when the event fired
	Topic   Topic
	Detail  string // formatted payload
	Payload any
}

// String formats the entry as a fixed-width log line.
//
//	[T=  1.20] danger:critical  {ZoneID:gas-1 ...}
func (e EventLogEntry) String() string {
	return fmt.Sprintf("[T=%6.2f] %-18s %s", e.Time, e.Topic, e.Detail)
}

// EventLog records every bus publish during a headless run. Unlike the
// on-screen Feed it is unbounded and machine-checkable.
type EventLog struct {
	entries []EventLogEntry
}

// Entries returns all recorded entries in publish order.
func (el *EventLog) Entries() []EventLogEntry { return el.entries }

// Filter returns entries for one topic; an empty topic matches all.
func (el *EventLog) Filter(topic Topic) []EventLogEntry {
	var out []EventLogEntry
	for _, e := range el.entries {
		if topic == "" || e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the topic.
func (el *EventLog) Count(topic Topic) int { return len(el.Filter(topic)) }

// Has reports whether any entry matches the topic with the detail substring.
func (el *EventLog) Has(topic Topic, detailSubstr string) bool {
	for _, e := range el.entries {
		if e.Topic != topic {
			continue
		}
		if detailSubstr == "" || strings.Contains(e.Detail, detailSubstr) {
			return true
		}
	}
	return false
}

// FirstTime returns the clock time of the first matching entry, or -1.
func (el *EventLog) FirstTime(topic Topic) float64 {
	for _, e := range el.entries {
		if e.Topic == topic {
			return e.Time
		}
	}
	return -1
}

// Format returns the full log as one string for t.Log output.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// defaultStep is the harness frame step: one 60Hz frame.
const defaultStep = 1.0 / 60.0

// hudHarnessOptionKind controls the pass in which a harness option applies.
type hudHarnessOptionKind int

const (
	harnessOptInfra   hudHarnessOptionKind = iota // viewport, player, config
	harnessOptContent                             // zones, markers, missions
)

// HarnessOption is a builder function applied to a TestHUD during
// construction.
type HarnessOption struct {
	kind hudHarnessOptionKind
	fn   func(*TestHUD)
}

// WithViewport sets the headless viewport size.
func WithViewport(w, h int) HarnessOption {
	return HarnessOption{harnessOptInfra, func(th *TestHUD) {
		th.World.Viewport = Viewport{W: w, H: h}
	}}
}

// WithPlayerAt places the player (camera follows) at a position and yaw.
func WithPlayerAt(pos Vec3, yaw float64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(th *TestHUD) {
		th.World.Player = Pose{Position: pos, Yaw: yaw}
		th.World.Camera = th.World.Player
	}}
}

// WithHarnessConfig overrides the HUD tuning for the run.
func WithHarnessConfig(cfg Config) HarnessOption {
	return HarnessOption{harnessOptInfra, func(th *TestHUD) {
		th.cfg = &cfg
	}}
}

// WithZone seeds a danger zone before the run starts.
func WithZone(cfg ZoneConfig) HarnessOption {
	return HarnessOption{harnessOptContent, func(th *TestHUD) {
		if _, err := th.HUD.Zones().Add(cfg); err != nil {
			panic(err) // bad fixture, fail loudly in the test
		}
	}}
}

// WithMarker seeds a marker before the run starts.
func WithMarker(cfg MarkerConfig) HarnessOption {
	return HarnessOption{harnessOptContent, func(th *TestHUD) {
		if _, err := th.HUD.Markers().Add(cfg); err != nil {
			panic(err)
		}
	}}
}

// TestHUD is the headless harness: a real HUD over a synthetic world, with
// every bus publish recorded into an EventLog. Tests and cmd/headless-report
// drive time explicitly through Step/Advance; no wall clock is involved.
type TestHUD struct {
	HUD   *HUD
	World *World
	Log   *EventLog

	cfg *Config
}

// NewTestHUD constructs the harness in two ordered passes: infrastructure
// (viewport, player, config), then content (zones, markers) once the HUD
// exists.
func NewTestHUD(opts ...HarnessOption) *TestHUD {
	th := &TestHUD{
		World: NewWorld(Viewport{W: 1280, H: 720}),
		Log:   &EventLog{},
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(th)
		}
	}

	hudOpts := []Option{}
	if th.cfg != nil {
		hudOpts = append(hudOpts, WithConfig(*th.cfg))
	}
	h, err := New(th.World, hudOpts...)
	if err != nil {
		panic(err) // harness config fixtures must be valid
	}
	th.HUD = h

	// Record every topic. Subscriptions are taken before content options so
	// seeding events (waypoint:added etc.) are captured too.
	for _, topic := range Topics() {
		t := topic
		h.Bus().Subscribe(t, func(payload any) {
			th.Log.entries = append(th.Log.entries, EventLogEntry{
				Time:    h.Clock(),
				Topic:   t,
				Detail:  fmt.Sprintf("%+v", payload),
				Payload: payload,
			})
		})
	}

	for _, o := range opts {
		if o.kind == harnessOptContent {
			o.fn(th)
		}
	}
	return th
}

// Step advances the HUD by one explicit delta.
func (th *TestHUD) Step(dt float64) {
	th.HUD.Update(dt)
}

// Advance runs fixed 60Hz frames until the given seconds have elapsed.
func (th *TestHUD) Advance(seconds float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += defaultStep {
		th.Step(defaultStep)
	}
}

// MovePlayer teleports the player (camera follows).
func (th *TestHUD) MovePlayer(pos Vec3) {
	th.World.Player.Position = pos
	th.World.Camera.Position = pos
}

// LookAt yaws the player toward a world position.
func (th *TestHUD) LookAt(target Vec3) {
	th.SetYaw(BearingTo(th.World.Player.Position, target))
}

// SetYaw sets the player yaw directly (camera follows) and announces the
// rotation on the bus, the way a host game's look handling would.
func (th *TestHUD) SetYaw(yaw float64) {
	th.World.Player.Yaw = yaw
	th.World.Camera.Yaw = yaw
	th.HUD.Bus().Publish(TopicPlayerRotation, PlayerRotation{Yaw: yaw})
}
