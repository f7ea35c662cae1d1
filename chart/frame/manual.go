package frame

import (
	"sort"
	"time"
)

// ManualScheduler is a deterministic Scheduler for tests. Time only moves
// when Advance is called; due callbacks run synchronously on the calling
// goroutine, in deadline order.
type ManualScheduler struct {
	now   time.Time
	seq   int
	queue []*manualEntry
}

type manualEntry struct {
	due      time.Time
	seq      int
	fn       func()
	canceled bool
}

// NewManualScheduler starts the manual clock at a fixed, arbitrary epoch.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Unix(1700000000, 0)}
}

func (s *ManualScheduler) OnNextFrame(fn func()) Cancel {
	return s.After(Interval, fn)
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Cancel {
	e := &manualEntry{due: s.now.Add(d), seq: s.seq, fn: fn}
	s.seq++
	s.queue = append(s.queue, e)
	return func() { e.canceled = true }
}

func (s *ManualScheduler) Now() time.Time { return s.now }

// Advance moves the clock by d, firing every callback that falls due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		e := s.nextDue(target)
		if e == nil {
			break
		}
		if e.due.After(s.now) {
			s.now = e.due
		}
		e.fn()
	}
	s.now = target
}

// Tick advances by exactly one frame interval.
func (s *ManualScheduler) Tick() { s.Advance(Interval) }

// Pending returns the number of live queued callbacks.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, e := range s.queue {
		if !e.canceled {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue(target time.Time) *manualEntry {
	sort.SliceStable(s.queue, func(i, j int) bool {
		if s.queue[i].due.Equal(s.queue[j].due) {
			return s.queue[i].seq < s.queue[j].seq
		}
		return s.queue[i].due.Before(s.queue[j].due)
	})
	for i, e := range s.queue {
		if e.canceled {
			continue
		}
		if e.due.After(target) {
			return nil
		}
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
		return e
	}
	return nil
}
