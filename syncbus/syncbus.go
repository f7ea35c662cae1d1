// Package syncbus carries "hover at time T" events between chart panels
// and the map view. The bus is an explicit dependency injected into each
// chart at construction, not a global registry, so tests can substitute a
// fake.
package syncbus

import (
	"sync"

	"github.com/lomik/zapwriter"
	"go.uber.org/zap"
)

// HoverEvent is one synchronized selection.
type HoverEvent struct {
	Index       int
	TimestampMs int64
}

// Sink receives hover events broadcast by other participants.
type Sink func(HoverEvent)

// Bus fans hover events out to every registered participant except the
// originator, which prevents feedback loops when a chart re-applies an
// incoming event.
type Bus struct {
	mu     sync.RWMutex
	sinks  map[string]Sink
	logger *zap.Logger
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		sinks:  map[string]Sink{},
		logger: zapwriter.Logger("syncbus"),
	}
}

// Register adds a participant. Registering an id again replaces its sink.
func (b *Bus) Register(id string, sink Sink) {
	b.mu.Lock()
	b.sinks[id] = sink
	b.mu.Unlock()
	b.logger.Debug("participant registered", zap.String("id", id))
}

// Unregister removes a participant. Unknown ids are ignored.
func (b *Bus) Unregister(id string) {
	b.mu.Lock()
	delete(b.sinks, id)
	b.mu.Unlock()
}

// BroadcastHover delivers ev to every participant except originID.
func (b *Bus) BroadcastHover(ev HoverEvent, originID string) {
	b.mu.RLock()
	targets := make([]Sink, 0, len(b.sinks))
	for id, sink := range b.sinks {
		if id == originID {
			continue
		}
		targets = append(targets, sink)
	}
	b.mu.RUnlock()
	for _, sink := range targets {
		sink(ev)
	}
}
