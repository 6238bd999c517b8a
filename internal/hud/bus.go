package hud

import (
	"log"
	"reflect"
	"sort"
)

// Topic identifies one event stream on the bus.
type Topic string

// Registered topics. Each carries exactly one payload type (see
// topicPayloads); publishing anything else is a wiring bug and is dropped
// with a warning.
const (
	TopicHealthChanged  Topic = "health:changed"
	TopicAmmoChanged    Topic = "ammo:changed"
	TopicWeaponFired    Topic = "weapon:fired"
	TopicWeaponHit      Topic = "weapon:hit"
	TopicPlayerRotation Topic = "player:rotation"
	TopicDangerCritical Topic = "danger:critical"
	TopicScreenShown    Topic = "screen:shown"
	TopicScreenHidden   Topic = "screen:hidden"
	TopicModalShown     Topic = "modal:shown"
	TopicModalHidden    Topic = "modal:hidden"
	TopicWaypointAdded  Topic = "waypoint:added"
	TopicWaypointRemove Topic = "waypoint:removed"
	TopicPowerupGranted Topic = "powerup:granted"
	TopicPowerupExpired Topic = "powerup:expired"
	TopicWeatherChanged Topic = "weather:changed"
)

// HealthChange announces a change to the player's health pool.
type HealthChange struct {
	Value    float64
	Previous float64
	Source   string // what caused it, e.g. "fire-zone", "medkit"
}

// AmmoChange announces new magazine/reserve counts.
type AmmoChange struct {
	Ammo    int
	Reserve int
}

// WeaponFired is published once per shot.
type WeaponFired struct{}

// WeaponHit is published when a shot connects.
type WeaponHit struct{}

// PlayerRotation announces the player's new yaw.
type PlayerRotation struct {
	Yaw float64
}

// DangerCritical is published by the proximity engine when the player stands
// within a zone's own critical radius. Gameplay consumes it for damage ticks
// and screen shake; the HUD consumes it for the notification feed.
type DangerCritical struct {
	ZoneID     string
	Kind       ZoneKind
	Distance   float64
	DamageRate float64
}

// ScreenShown fires after a screen's entry transition completes.
type ScreenShown struct {
	ID string
}

// ScreenHidden fires when a screen is dismissed.
type ScreenHidden struct {
	ID string
}

// ModalShown fires when a modal opens.
type ModalShown struct {
	ID string
}

// ModalHidden fires when a modal closes.
type ModalHidden struct {
	ID string
}

// WaypointAdded fires when a waypoint marker is placed.
type WaypointAdded struct {
	MarkerID string
	Label    string
}

// WaypointRemoved fires when a waypoint marker is removed.
type WaypointRemoved struct {
	MarkerID string
}

// PowerupGranted fires when a timed effect starts or is refreshed.
type PowerupGranted struct {
	Kind     PowerupKind
	Duration float64 // seconds
}

// PowerupExpired fires when a timed effect runs out.
type PowerupExpired struct {
	Kind PowerupKind
}

// WeatherChanged announces a new weather target.
type WeatherChanged struct {
	Kind      WeatherKind
	Intensity float64
}

// topicPayloads maps each topic to its payload struct type. Publish uses it
// to reject mistyped payloads instead of letting a handler type-assert and
// silently do nothing.
var topicPayloads = map[Topic]reflect.Type{
	TopicHealthChanged:  reflect.TypeOf(HealthChange{}),
	TopicAmmoChanged:    reflect.TypeOf(AmmoChange{}),
	TopicWeaponFired:    reflect.TypeOf(WeaponFired{}),
	TopicWeaponHit:      reflect.TypeOf(WeaponHit{}),
	TopicPlayerRotation: reflect.TypeOf(PlayerRotation{}),
	TopicDangerCritical: reflect.TypeOf(DangerCritical{}),
	TopicScreenShown:    reflect.TypeOf(ScreenShown{}),
	TopicScreenHidden:   reflect.TypeOf(ScreenHidden{}),
	TopicModalShown:     reflect.TypeOf(ModalShown{}),
	TopicModalHidden:    reflect.TypeOf(ModalHidden{}),
	TopicWaypointAdded:  reflect.TypeOf(WaypointAdded{}),
	TopicWaypointRemove: reflect.TypeOf(WaypointRemoved{}),
	TopicPowerupGranted: reflect.TypeOf(PowerupGranted{}),
	TopicPowerupExpired: reflect.TypeOf(PowerupExpired{}),
	TopicWeatherChanged: reflect.TypeOf(WeatherChanged{}),
}

// Topics returns all registered topics in a stable order.
func Topics() []Topic {
	out := make([]Topic, 0, len(topicPayloads))
	for t := range topicPayloads {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type subscriber struct {
	id int
	fn func(payload any)
}

// Bus is a synchronous publish/subscribe service. Handlers run in
// subscription order, inside the publishing call; there is no queue and no
// goroutine. Each HUD owns its own bus, so tests get a fresh one for free.
//
// The HUD is single-threaded by design; Bus is not safe for concurrent use.
type Bus struct {
	subs    map[Topic][]subscriber
	nextID  int
	dropped int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

// Subscribe registers a handler for a topic and returns a cancel function.
// Cancelling during dispatch is safe and takes effect on the next publish.
func (b *Bus) Subscribe(topic Topic, fn func(payload any)) func() {
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})

	cancelled := false
	return func() {
		if cancelled {
			return
		}
		cancelled = true
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers a payload to every subscriber of the topic, in
// subscription order. Unknown topics and mistyped payloads are dropped with
// a warning; gameplay must never crash because a HUD event was mis-wired.
func (b *Bus) Publish(topic Topic, payload any) {
	want, ok := topicPayloads[topic]
	if !ok {
		b.dropped++
		log.Printf("hud: dropping publish on unknown topic %q", topic)
		return
	}
	if got := reflect.TypeOf(payload); got != want {
		b.dropped++
		log.Printf("hud: dropping %q publish with payload %v (want %v)", topic, got, want)
		return
	}

	// Dispatch over a copy so handlers can unsubscribe (or subscribe) freely.
	list := b.subs[topic]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	for _, s := range snapshot {
		s.fn(payload)
	}
}

// Dropped returns how many publishes were rejected for bad topic or payload.
func (b *Bus) Dropped() int {
	return b.dropped
}

// SubscriberCount returns the number of live subscriptions for a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	return len(b.subs[topic])
}
