package syncbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastSkipsOrigin(t *testing.T) {
	b := New()

	got := map[string][]HoverEvent{}
	for _, id := range []string{"a", "b", "c"} {
		id := id
		b.Register(id, func(ev HoverEvent) { got[id] = append(got[id], ev) })
	}

	b.BroadcastHover(HoverEvent{Index: 7, TimestampMs: 7000}, "b")

	assert.Len(t, got["a"], 1)
	assert.Empty(t, got["b"], "the originating chart must not receive its own event")
	assert.Len(t, got["c"], 1)
	assert.Equal(t, 7, got["a"][0].Index)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	b := New()
	var n int
	b.Register("a", func(HoverEvent) { n++ })

	b.BroadcastHover(HoverEvent{Index: 1}, "other")
	b.Unregister("a")
	b.BroadcastHover(HoverEvent{Index: 2}, "other")

	assert.Equal(t, 1, n)
}

func TestRegisterReplacesSink(t *testing.T) {
	b := New()
	var first, second int
	b.Register("a", func(HoverEvent) { first++ })
	b.Register("a", func(HoverEvent) { second++ })

	b.BroadcastHover(HoverEvent{}, "other")
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestBroadcastConcurrent(t *testing.T) {
	b := New()
	var mu sync.Mutex
	var n int
	b.Register("sink", func(HoverEvent) {
		mu.Lock()
		n++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.BroadcastHover(HoverEvent{Index: j}, "src")
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 800, n)
}
