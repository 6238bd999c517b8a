package main

import (
	"flag"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Karrowe/Strike-HUD/internal/hud"
)

// sample is one row of the proximity timeline.
type sample struct {
	t         float64
	closestID string
	distance  float64
	inDanger  bool
	vignette  float64
	visible   int // visible markers this frame
}

type runStats struct {
	seconds float64
	samples []sample

	criticalByZone map[string]int
	waypointEvents int
	dangerTime     float64 // sampled seconds spent in danger
	maxVignette    float64
	minDistance    float64
}

func main() {
	var seconds float64
	var step float64
	var interval float64
	var route string

	flag.Float64Var(&seconds, "seconds", 30, "simulated seconds to run")
	flag.Float64Var(&step, "step", 1.0/60.0, "frame step in seconds")
	flag.Float64Var(&interval, "interval", 1.0, "timeline sample interval in seconds")
	flag.StringVar(&route, "route", "-80,0; -20,10; 25,20; 80,-10", "walk route as x,z pairs")
	flag.Parse()

	if seconds <= 0 || step <= 0 || interval <= 0 {
		fmt.Println("error: -seconds, -step and -interval must be > 0")
		return
	}
	waypoints, err := parseRoute(route)
	if err != nil {
		fmt.Printf("error: bad -route: %v\n", err)
		return
	}

	fmt.Printf("=== Strike-HUD Headless Report ===\n")
	fmt.Printf("seconds=%.1f step=%.4f interval=%.1f route=%q\n\n", seconds, step, interval, route)

	th := hud.NewTestHUD(
		hud.WithViewport(1280, 720),
		hud.WithPlayerAt(waypoints[0], 0),
		hud.WithZone(hud.ZoneConfig{ID: "fire-1", Kind: hud.ZoneFire, Position: hud.Vec3{X: 30, Z: 25}, DamageRate: 12}),
		hud.WithZone(hud.ZoneConfig{ID: "gas-1", Kind: hud.ZoneGas, Position: hud.Vec3{X: -50, Z: -5}, DamageRate: 6, CriticalThreshold: 16}),
		hud.WithZone(hud.ZoneConfig{ID: "rad-1", Kind: hud.ZoneRadiation, Position: hud.Vec3{X: 90, Z: -60}, DamageRate: 4}),
		hud.WithMarker(hud.MarkerConfig{ID: "obj-relay", Kind: hud.MarkerObjective, Position: hud.Vec3{X: 60, Z: -40}, Label: "relay"}),
		hud.WithMarker(hud.MarkerConfig{ID: "obj-cache", Kind: hud.MarkerObjective, Position: hud.Vec3{X: -90, Z: 70}, Label: "cache"}),
		hud.WithMarker(hud.MarkerConfig{ID: "extract", Kind: hud.MarkerExtraction, Position: hud.Vec3{X: 0, Z: 180}, Label: "extract", MaxDistance: 150}),
	)

	stats := walkRoute(th, waypoints, seconds, step, interval)
	printTimeline(stats)
	printTotals(th, stats)

	fmt.Println("=== Final diagnostics ===")
	fmt.Print(th.HUD.DiagnosticsReport())
}

// walkRoute drives the player along the route over the run and samples the
// proximity state on the interval grid.
func walkRoute(th *hud.TestHUD, waypoints []hud.Vec3, seconds, step, interval float64) runStats {
	stats := runStats{
		seconds:        seconds,
		criticalByZone: map[string]int{},
		minDistance:    math.Inf(1),
	}
	nextSample := 0.0
	for t := 0.0; t < seconds; t += step {
		pos := routePos(waypoints, t/seconds)
		th.MovePlayer(pos)
		if len(waypoints) > 1 {
			th.LookAt(waypoints[len(waypoints)-1])
		}
		th.Step(step)

		if t >= nextSample {
			nextSample += interval
			snap := th.HUD.Zones().Snapshot()
			s := sample{
				t:         th.HUD.Clock(),
				closestID: snap.ClosestID,
				distance:  snap.ClosestDistance,
				inDanger:  snap.InDanger,
				vignette:  th.HUD.Zones().VignetteOpacity(),
				visible:   len(th.HUD.Markers().Visible()),
			}
			stats.samples = append(stats.samples, s)
			if s.inDanger {
				stats.dangerTime += interval
			}
			if s.vignette > stats.maxVignette {
				stats.maxVignette = s.vignette
			}
			if s.distance < stats.minDistance {
				stats.minDistance = s.distance
			}
		}
	}

	for _, e := range th.Log.Filter(hud.TopicDangerCritical) {
		ev := e.Payload.(hud.DangerCritical)
		stats.criticalByZone[ev.ZoneID]++
	}
	stats.waypointEvents = th.Log.Count(hud.TopicWaypointAdded) + th.Log.Count(hud.TopicWaypointRemove)
	return stats
}

func printTimeline(stats runStats) {
	fmt.Println("--- Proximity timeline ---")
	fmt.Println("    t  closest      dist  danger  vignette  markers")
	for _, s := range stats.samples {
		id := s.closestID
		if id == "" {
			id = "<none>"
		}
		danger := "-"
		if s.inDanger {
			danger = "IN DANGER"
		}
		fmt.Printf("%5.1f  %-10s %6.1f  %-9s %8.2f  %7d\n",
			s.t, id, s.distance, danger, s.vignette, s.visible)
	}
	fmt.Println()
}

func printTotals(th *hud.TestHUD, stats runStats) {
	fmt.Println("--- Event totals ---")
	fmt.Printf("sampled_danger_time=%.1fs max_vignette=%.2f min_closest_distance=%.1f\n",
		stats.dangerTime, stats.maxVignette, stats.minDistance)

	ids := make([]string, 0, len(stats.criticalByZone))
	for id := range stats.criticalByZone {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		fmt.Println("critical_events: none")
	} else {
		for _, id := range ids {
			fmt.Printf("critical_events[%s]=%d\n", id, stats.criticalByZone[id])
		}
	}
	fmt.Printf("waypoint_events=%d bus_dropped=%d\n\n", stats.waypointEvents, th.HUD.Bus().Dropped())
}

// parseRoute parses "x,z; x,z; ..." into waypoints at ground height.
func parseRoute(s string) ([]hud.Vec3, error) {
	parts := strings.Split(s, ";")
	out := make([]hud.Vec3, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		xz := strings.Split(p, ",")
		if len(xz) != 2 {
			return nil, fmt.Errorf("waypoint %q is not x,z", p)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xz[0]), 64)
		if err != nil {
			return nil, err
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(xz[1]), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, hud.Vec3{X: x, Z: z})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("route is empty")
	}
	return out, nil
}

// routePos interpolates along the route by path length. frac 0 is the first
// waypoint, frac 1 the last.
func routePos(waypoints []hud.Vec3, frac float64) hud.Vec3 {
	if len(waypoints) == 1 || frac <= 0 {
		return waypoints[0]
	}
	if frac >= 1 {
		return waypoints[len(waypoints)-1]
	}
	total := 0.0
	lens := make([]float64, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		lens[i] = hud.HorizontalDistance(waypoints[i], waypoints[i+1])
		total += lens[i]
	}
	if total <= 0 {
		return waypoints[0]
	}
	target := frac * total
	for i, l := range lens {
		if target <= l || i == len(lens)-1 {
			f := 0.0
			if l > 0 {
				f = math.Min(target/l, 1)
			}
			a, b := waypoints[i], waypoints[i+1]
			return hud.Vec3{
				X: a.X + (b.X-a.X)*f,
				Y: a.Y + (b.Y-a.Y)*f,
				Z: a.Z + (b.Z-a.Z)*f,
			}
		}
		target -= l
	}
	return waypoints[len(waypoints)-1]
}
