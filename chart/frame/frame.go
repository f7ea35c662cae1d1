// Package frame provides the chart's cooperative scheduling contract:
// frame-coalesced repaints and rate-limited pointer processing. The
// Scheduler interface keeps timing injectable so tests drive it manually,
// the same seam the production timer scheduler fills with real timers.
package frame

import (
	"sync"
	"time"

	"github.com/tevino/abool"
)

// Interval is the nominal frame interval used for coalescing and the
// pointer throttle ceiling (60 events per second).
const Interval = time.Second / 60

// Cancel revokes a scheduled callback. Safe to call more than once.
type Cancel func()

// Scheduler schedules callbacks relative to the frame clock.
type Scheduler interface {
	// OnNextFrame runs fn at the next paint opportunity.
	OnNextFrame(fn func()) Cancel
	// After runs fn once d has elapsed.
	After(d time.Duration, fn func()) Cancel
	Now() time.Time
}

// TimerScheduler is the production Scheduler backed by real timers.
type TimerScheduler struct {
	mu      sync.Mutex
	stopped *abool.AtomicBool
	timers  map[*time.Timer]struct{}
}

// NewTimerScheduler returns a timer-backed scheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		stopped: abool.New(),
		timers:  map[*time.Timer]struct{}{},
	}
}

func (s *TimerScheduler) OnNextFrame(fn func()) Cancel {
	return s.After(Interval, fn)
}

func (s *TimerScheduler) After(d time.Duration, fn func()) Cancel {
	if s.stopped.IsSet() {
		return func() {}
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		if s.stopped.IsSet() {
			return
		}
		fn()
	})
	s.mu.Lock()
	s.timers[t] = struct{}{}
	s.mu.Unlock()
	return func() {
		t.Stop()
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
	}
}

func (s *TimerScheduler) Now() time.Time { return time.Now() }

// Stop cancels every pending callback and refuses new ones. Used by chart
// teardown so a destroyed instance never runs a late callback.
func (s *TimerScheduler) Stop() {
	s.stopped.Set()
	s.mu.Lock()
	for t := range s.timers {
		t.Stop()
	}
	s.timers = map[*time.Timer]struct{}{}
	s.mu.Unlock()
}
