package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSchedulerOrdering(t *testing.T) {
	s := NewManualScheduler()
	var fired []int

	s.After(3*time.Millisecond, func() { fired = append(fired, 3) })
	s.After(1*time.Millisecond, func() { fired = append(fired, 1) })
	s.After(2*time.Millisecond, func() { fired = append(fired, 2) })

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, fired)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerPartialAdvance(t *testing.T) {
	s := NewManualScheduler()
	var fired int
	s.After(5*time.Millisecond, func() { fired++ })

	s.Advance(4 * time.Millisecond)
	assert.Zero(t, fired)
	s.Advance(1 * time.Millisecond)
	assert.Equal(t, 1, fired)
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()
	var fired int
	cancel := s.After(time.Millisecond, func() { fired++ })
	cancel()
	s.Advance(time.Second)
	assert.Zero(t, fired)
}

func TestManualSchedulerSameDeadlineFIFO(t *testing.T) {
	s := NewManualScheduler()
	var fired []int
	for i := 0; i < 5; i++ {
		i := i
		s.After(time.Millisecond, func() { fired = append(fired, i) })
	}
	s.Advance(time.Millisecond)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, fired)
}

func TestManualSchedulerNestedSchedule(t *testing.T) {
	s := NewManualScheduler()
	var fired []string
	s.After(time.Millisecond, func() {
		fired = append(fired, "outer")
		s.After(time.Millisecond, func() { fired = append(fired, "inner") })
	})

	s.Advance(time.Millisecond)
	assert.Equal(t, []string{"outer"}, fired)
	s.Advance(time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}

func TestCoalescerCollapsesBurst(t *testing.T) {
	s := NewManualScheduler()
	var runs int
	c := NewCoalescer(s, func() { runs++ })

	for i := 0; i < 100; i++ {
		c.Request()
	}
	assert.Equal(t, 1, s.Pending())

	s.Tick()
	assert.Equal(t, 1, runs)

	// a fresh request after the tick schedules again
	c.Request()
	s.Tick()
	assert.Equal(t, 2, runs)
}

func TestCoalescerStop(t *testing.T) {
	s := NewManualScheduler()
	var runs int
	c := NewCoalescer(s, func() { runs++ })

	c.Request()
	c.Stop()
	s.Tick()
	assert.Zero(t, runs)
}

type call struct{ x, y float64 }

func TestThrottleFirstEventImmediate(t *testing.T) {
	s := NewManualScheduler()
	var calls []call
	th := NewThrottle(s, func(x, y float64) { calls = append(calls, call{x, y}) })

	th.Offer(1, 2)
	require.Equal(t, []call{{1, 2}}, calls)
	assert.Equal(t, 0, s.Pending())
}

func TestThrottleBurstTrailingCall(t *testing.T) {
	s := NewManualScheduler()
	var calls []call
	th := NewThrottle(s, func(x, y float64) { calls = append(calls, call{x, y}) })

	for i := 0; i < 10; i++ {
		th.Offer(float64(i), 0)
	}
	require.Equal(t, []call{{0, 0}}, calls, "only the first event of the burst fires immediately")
	assert.Equal(t, 1, s.Pending(), "one trailing call queued, never more")

	s.Tick()
	require.Len(t, calls, 2)
	assert.Equal(t, call{9, 0}, calls[1], "the trailing call carries the newest position")
}

func TestThrottleQuietPeriodResets(t *testing.T) {
	s := NewManualScheduler()
	var calls []call
	th := NewThrottle(s, func(x, y float64) { calls = append(calls, call{x, y}) })

	th.Offer(1, 0)
	s.Advance(Interval)
	th.Offer(2, 0)
	assert.Equal(t, []call{{1, 0}, {2, 0}}, calls, "events an interval apart both fire immediately")
}

func TestThrottleTrailingThenImmediate(t *testing.T) {
	s := NewManualScheduler()
	var calls []call
	th := NewThrottle(s, func(x, y float64) { calls = append(calls, call{x, y}) })

	th.Offer(1, 0)
	th.Offer(2, 0)
	s.Tick() // trailing fires, resetting the window start
	require.Len(t, calls, 2)

	s.Advance(Interval)
	th.Offer(3, 0)
	assert.Len(t, calls, 3)
}

func TestThrottleStopCancelsTrailing(t *testing.T) {
	s := NewManualScheduler()
	var calls int
	th := NewThrottle(s, func(x, y float64) { calls++ })

	th.Offer(1, 0)
	th.Offer(2, 0)
	th.Stop()
	s.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestTimerSchedulerStopIsSafe(t *testing.T) {
	s := NewTimerScheduler()
	cancel := s.After(time.Hour, func() { t.Error("must not fire") })
	s.Stop()
	cancel() // canceling after stop must not panic
}
