package hud

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ScreenSummary is the registration id of the round summary screen.
const ScreenSummary = "summary"

// RoundStats are the counters the summary accumulates from bus traffic over
// a round.
type RoundStats struct {
	ShotsFired   int
	Hits         int
	DamageTaken  float64
	CriticalHits int // danger:critical events received
	PowerupsUsed int
}

// Accuracy returns hits over shots, 0 when nothing was fired.
func (rs RoundStats) Accuracy() float64 {
	if rs.ShotsFired == 0 {
		return 0
	}
	return float64(rs.Hits) / float64(rs.ShotsFired)
}

// Grade folds the counters into a letter. Accuracy carries the grade;
// damage taken and time spent in critical zones pull it down.
func (rs RoundStats) Grade() string {
	score := rs.Accuracy() * 100
	score -= rs.DamageTaken * 0.2
	score -= float64(rs.CriticalHits) * 0.5
	switch {
	case score >= 80:
		return "S"
	case score >= 60:
		return "A"
	case score >= 40:
		return "B"
	case score >= 20:
		return "C"
	default:
		return "D"
	}
}

// SummaryScreen accumulates round statistics from the bus and presents them
// as the end-of-round report.
type SummaryScreen struct {
	stats   RoundStats
	cancels []func()
}

// NewSummaryScreen creates the summary and starts counting bus traffic.
func NewSummaryScreen(bus *Bus) *SummaryScreen {
	ss := &SummaryScreen{}
	ss.cancels = append(ss.cancels,
		bus.Subscribe(TopicWeaponFired, func(any) { ss.stats.ShotsFired++ }),
		bus.Subscribe(TopicWeaponHit, func(any) { ss.stats.Hits++ }),
		bus.Subscribe(TopicHealthChanged, func(payload any) {
			ev := payload.(HealthChange)
			if ev.Value < ev.Previous {
				ss.stats.DamageTaken += ev.Previous - ev.Value
			}
		}),
		bus.Subscribe(TopicDangerCritical, func(any) { ss.stats.CriticalHits++ }),
		bus.Subscribe(TopicPowerupGranted, func(any) { ss.stats.PowerupsUsed++ }),
	)
	return ss
}

// Stats returns the counters accumulated so far.
func (ss *SummaryScreen) Stats() RoundStats { return ss.stats }

// Reset zeroes the counters for a new round.
func (ss *SummaryScreen) Reset() { ss.stats = RoundStats{} }

// Register installs the screen on the manager.
func (ss *SummaryScreen) Register(mgr *ScreenManager) error {
	return mgr.Register(ScreenSummary, ScreenDef{
		Title:      "ROUND SUMMARY",
		Transition: TransitionFade,
		Render:     ss.render,
		Controls: []*Control{
			{ID: "continue", Label: "Continue", Action: func() { _ = mgr.Hide() }},
		},
	})
}

func (ss *SummaryScreen) render(dst *ebiten.Image, b PanelBounds) {
	bright := color.RGBA{R: 225, G: 235, B: 240, A: 255}
	dim := color.RGBA{R: 160, G: 172, B: 180, A: 255}
	s := ss.stats

	x := int(b.X) + 20
	y := int(b.Y) + 52
	rows := []string{
		fmt.Sprintf("shots fired     %d", s.ShotsFired),
		fmt.Sprintf("hits            %d", s.Hits),
		fmt.Sprintf("accuracy        %.0f%%", s.Accuracy()*100),
		fmt.Sprintf("damage taken    %.0f", s.DamageTaken),
		fmt.Sprintf("critical zones  %d", s.CriticalHits),
		fmt.Sprintf("powerups used   %d", s.PowerupsUsed),
	}
	for _, r := range rows {
		text.Draw(dst, r, basicfont.Face7x13, x, y, dim)
		y += 18
	}

	grade := s.Grade()
	gc := color.RGBA{R: 250, G: 210, B: 80, A: 255}
	text.Draw(dst, "GRADE", basicfont.Face7x13, int(b.X+b.W)-110, int(b.Y)+52, bright)
	text.Draw(dst, grade, basicfont.Face7x13, int(b.X+b.W)-110, int(b.Y)+72, gc)
}

// Dispose releases the bus subscriptions.
func (ss *SummaryScreen) Dispose() {
	for _, c := range ss.cancels {
		c()
	}
	ss.cancels = nil
}
