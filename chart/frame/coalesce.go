package frame

import "time"

// Coalescer collapses bursts of redraw requests into a single callback at
// the next paint opportunity: at most one pending repaint token is ever
// outstanding. This bounds redraw cost under high-frequency cross-chart
// sync traffic.
type Coalescer struct {
	sched   Scheduler
	fn      func()
	pending bool
	cancel  Cancel
}

// NewCoalescer wires fn to run at most once per frame.
func NewCoalescer(sched Scheduler, fn func()) *Coalescer {
	return &Coalescer{sched: sched, fn: fn}
}

// Request asks for a repaint. Requests arriving while one is already
// scheduled are absorbed into it.
func (c *Coalescer) Request() {
	if c.pending {
		return
	}
	c.pending = true
	c.cancel = c.sched.OnNextFrame(func() {
		c.pending = false
		c.fn()
	})
}

// Stop cancels any scheduled callback.
func (c *Coalescer) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = false
}

// Throttle rate-limits a position-carrying event stream to one call per
// Interval. The first event in a quiet period fires immediately; events
// arriving before the boundary are deferred exactly once, firing at the
// boundary with the latest observed position. The final pointer position
// is therefore always delivered, never dropped.
type Throttle struct {
	sched    Scheduler
	interval time.Duration
	fn       func(x, y float64)

	last    time.Time
	hasLast bool
	pending bool
	lastX   float64
	lastY   float64
	cancel  Cancel
}

// NewThrottle builds a throttle at the standard frame interval.
func NewThrottle(sched Scheduler, fn func(x, y float64)) *Throttle {
	return &Throttle{sched: sched, interval: Interval, fn: fn}
}

// Offer submits an event position.
func (t *Throttle) Offer(x, y float64) {
	now := t.sched.Now()
	if t.pending {
		// a trailing call is already queued; it picks up this position
		t.lastX, t.lastY = x, y
		return
	}
	if !t.hasLast || now.Sub(t.last) >= t.interval {
		t.last = now
		t.hasLast = true
		t.fn(x, y)
		return
	}
	t.lastX, t.lastY = x, y
	t.pending = true
	wait := t.interval - now.Sub(t.last)
	t.cancel = t.sched.After(wait, func() {
		t.pending = false
		t.last = t.sched.Now()
		t.fn(t.lastX, t.lastY)
	})
}

// Stop cancels a queued trailing call.
func (t *Throttle) Stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.pending = false
}
