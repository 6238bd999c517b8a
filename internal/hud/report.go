package hud

import (
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"
)

// DiagnosticsReport builds a sectioned text snapshot of the whole HUD:
// navigation state, markers, zones, the proximity snapshot, widget values,
// and the recent feed. Meant for bug reports pasted straight out of a play
// session.
func (h *HUD) DiagnosticsReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Strike-HUD diagnostics ---\n")
	fmt.Fprintf(&b, "clock=%.2fs viewport=%dx%d\n", h.clock, h.world.Viewport.W, h.world.Viewport.H)
	p := h.world.Player
	fmt.Fprintf(&b, "player=(%.1f, %.1f, %.1f) yaw=%.2f\n\n", p.Position.X, p.Position.Y, p.Position.Z, p.Yaw)

	section := func(title string, body func()) {
		fmt.Fprintf(&b, "== %s ==\n", title)
		body()
		b.WriteByte('\n')
	}

	section("screens", func() {
		m := h.screens
		fmt.Fprintf(&b, "current=%s previous=%s modal=%s\n",
			orNone(m.Current()), orNone(m.Previous()), orNone(m.ActiveModal()))
		fmt.Fprintf(&b, "history_depth=%d transitioning=%t\n", m.HistoryDepth(), m.Transitioning())
		if c := m.FocusedControl(); c != nil {
			fmt.Fprintf(&b, "focused=%s\n", c.ID)
		}
	})

	section("markers", func() {
		fmt.Fprintf(&b, "count=%d visible=%d\n", h.markers.Count(), len(h.markers.Visible()))
		for _, mk := range h.markers.markers {
			state := "hidden"
			if mk.Visible {
				state = "visible"
				if mk.OffScreen {
					state = "clamped"
				}
			}
			fmt.Fprintf(&b, "  %-12s %-10s d=%.0f bearing=%.2f %s\n",
				mk.ID, mk.Kind, mk.Distance, mk.Bearing, state)
		}
	})

	section("zones", func() {
		fmt.Fprintf(&b, "count=%d visible=%d\n", h.zones.Count(), len(h.zones.Visible()))
		for _, z := range h.zones.zones {
			state := "hidden"
			if z.Visible {
				state = "visible"
			}
			if z.Warning {
				state += " WARNING"
			}
			fmt.Fprintf(&b, "  %-12s %-10s d=%.0f crit=%.0f dps=%.0f %s\n",
				z.ID, z.Kind, z.Distance, z.CriticalThreshold, z.DamageRate, state)
		}
	})

	section("proximity", func() {
		s := h.zones.Snapshot()
		if math.IsInf(s.ClosestDistance, 1) {
			b.WriteString("no active zones\n")
			return
		}
		fmt.Fprintf(&b, "in_danger=%t closest=%s (%s) distance=%.1f vignette=%.2f\n",
			s.InDanger, s.ClosestID, s.ClosestKind, s.ClosestDistance, h.zones.VignetteOpacity())
	})

	section("widgets", func() {
		st := h.world.Status
		fmt.Fprintf(&b, "health=%.0f/%.0f ghost=%.0f low=%t flashing=%t\n",
			st.Health, st.MaxHealth, h.health.Ghost(), h.health.LowHealth(), h.health.Flashing())
		fmt.Fprintf(&b, "ammo=%d/%d reserve=%d low=%t reloading=%t\n",
			st.Ammo, st.MagazineSize, st.Reserve, h.ammo.LowAmmo(), h.ammo.Reloading())
		fmt.Fprintf(&b, "stamina=%.0f/%.0f trend=%s\n", st.Stamina, st.MaxStamina, h.stamina.Trend())
		fmt.Fprintf(&b, "crosshair_spread=%.1f hitmarker=%t\n", h.crosshair.Spread(), h.crosshair.HitMarker())
		fmt.Fprintf(&b, "weather=%s intensity=%.2f\n", h.weather.Kind(), h.weather.Intensity())
		for _, pu := range h.powerups.Active() {
			fmt.Fprintf(&b, "powerup %s remaining=%.1fs\n", pu.Kind, pu.Remaining)
		}
	})

	section("feed", func() {
		entries := h.feed.Recent()
		if len(entries) == 0 {
			b.WriteString("(empty)\n")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(&b, "[%7.2fs] %-9s %s\n", e.At, e.Kind, e.Text)
		}
	})

	return b.String()
}

// CopyDiagnostics places the report on the system clipboard.
func (h *HUD) CopyDiagnostics() error {
	return clipboard.WriteAll(h.DiagnosticsReport())
}

func orNone(id string) string {
	if id == "" {
		return "<none>"
	}
	return id
}
