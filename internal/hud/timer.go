package hud

// Countdown is a one-shot timer measured on the HUD clock (seconds advanced
// by Update deltas, never wall time). The owner polls it each frame.
//
// Restarting an armed countdown overwrites the pending deadline, so a
// re-triggered effect can never be reverted by a stale expiry — the timer is
// owned by the state it reverts instead of being a detached callback.
type Countdown struct {
	start    float64
	deadline float64
	armed    bool
}

// Start arms the countdown to fire d seconds after now. A non-positive d
// fires on the next Fire poll.
func (c *Countdown) Start(now, d float64) {
	c.start = now
	c.deadline = now + d
	c.armed = true
}

// Stop disarms the countdown without firing.
func (c *Countdown) Stop() {
	c.armed = false
}

// Active reports whether the countdown is armed and still running.
func (c *Countdown) Active(now float64) bool {
	return c.armed && now < c.deadline
}

// Fire returns true exactly once, on the first poll at or past the deadline.
func (c *Countdown) Fire(now float64) bool {
	if c.armed && now >= c.deadline {
		c.armed = false
		return true
	}
	return false
}

// Remaining returns the seconds left, or 0 when idle or elapsed.
func (c *Countdown) Remaining(now float64) float64 {
	if !c.armed || now >= c.deadline {
		return 0
	}
	return c.deadline - now
}

// Frac returns the elapsed fraction in [0, 1]. An idle countdown reads 1
// (fully elapsed), which is what animation consumers want.
func (c *Countdown) Frac(now float64) float64 {
	if !c.armed {
		return 1
	}
	total := c.deadline - c.start
	if total <= 0 {
		return 1
	}
	return clamp01((now - c.start) / total)
}
