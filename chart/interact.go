package chart

import (
	"math"

	"github.com/ridegraph/ridegraph/syncbus"
)

// Horizontal travel before a touch gesture commits to scrubbing. Below
// this the chart stays out of the way of page scrolling.
const touchSlop = 8.0

// PointerMove feeds one pointer position in chart coordinates. Positions
// are throttled: at most one is processed immediately per throttle
// interval, and a burst collapses to the newest position on a single
// trailing tick.
func (c *Chart) PointerMove(x, y float64) {
	c.mu.Lock()
	if c.destroyed.IsSet() || !c.inited || c.ds.Empty() {
		c.mu.Unlock()
		return
	}
	c.moveThrottle.Offer(x, y)
	ev, ok := c.takeBroadcastLocked()
	c.mu.Unlock()
	if ok {
		c.bridge.BroadcastHover(ev, c.id)
	}
}

// PointerLeave clears the cursor and annotations. This is the only
// interaction that removes an existing selection; moving outside the plot
// area while still over the chart keeps the last cursor line.
func (c *Chart) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed.IsSet() || !c.inited {
		return
	}
	c.state = stateIdle
	if !c.sel.hasSelection {
		return
	}
	c.sel = selectionState{}
	c.presentLocked()
	if c.onHoverOut != nil {
		c.onHoverOut()
	}
}

// TouchStart records the anchor of a possible scrub gesture.
func (c *Chart) TouchStart(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gestureDecided = false
	c.scrubbing = false
	c.touchStartX, c.touchStartY = x, y
}

// TouchMove reports whether the chart consumed the move. The gesture is
// undecided until the finger travels touchSlop pixels; mostly-horizontal
// travel commits to scrubbing, mostly-vertical travel yields to the page.
func (c *Chart) TouchMove(x, y float64) bool {
	c.mu.Lock()
	consumed := c.touchMoveLocked(x, y)
	ev, ok := c.takeBroadcastLocked()
	c.mu.Unlock()
	if ok {
		c.bridge.BroadcastHover(ev, c.id)
	}
	return consumed
}

func (c *Chart) touchMoveLocked(x, y float64) bool {
	if c.destroyed.IsSet() || !c.inited || c.ds.Empty() {
		return false
	}
	if !c.gestureDecided {
		dx := math.Abs(x - c.touchStartX)
		dy := math.Abs(y - c.touchStartY)
		if dx < touchSlop && dy < touchSlop {
			return false
		}
		c.gestureDecided = true
		c.scrubbing = dx >= dy
	}
	if !c.scrubbing {
		return false
	}
	c.moveThrottle.Offer(x, y)
	return true
}

// TouchEnd finishes the gesture. The selection, if any, stays visible.
func (c *Chart) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gestureDecided = false
	c.scrubbing = false
}

// processMoveLocked is the throttled consumer of pointer positions.
func (c *Chart) processMoveLocked(x, y float64) {
	if c.destroyed.IsSet() || !c.inited || c.ds.Empty() {
		return
	}
	if !c.plot.Contains(x, y) {
		c.state = stateHoveringOutside
		return
	}
	c.state = stateHoveringPlot
	c.applySelectionLocked(c.axis.IndexAtPixelX(x), true)
}

// applySelectionLocked moves the cursor to idx and redraws the overlay.
// Out-of-range indices are ignored. Local selections notify the observer
// and the bus; incoming sync selections are never re-broadcast.
func (c *Chart) applySelectionLocked(idx int, local bool) {
	if c.ds.Empty() || idx < 0 || idx >= len(c.ds.Timestamps) {
		return
	}
	c.sel = selectionState{selected: idx, hasSelection: true}
	c.presentLocked()
	c.overlayLocked()
	if !local {
		return
	}
	if c.onHover != nil {
		c.onHover(idx, c.ds)
	}
	if c.bridge != nil {
		c.pendingBroadcast = syncbus.HoverEvent{
			Index:       idx,
			TimestampMs: c.ds.Timestamps[idx],
		}
		c.hasBroadcast = true
	}
}

// takeBroadcastLocked hands the queued outbound hover event to the caller.
// The bridge delivers synchronously into peer charts, each of which takes
// its own mutex, so the BroadcastHover call must happen after c.mu is
// released or two connected charts hovered at once deadlock.
func (c *Chart) takeBroadcastLocked() (syncbus.HoverEvent, bool) {
	if !c.hasBroadcast {
		return syncbus.HoverEvent{}, false
	}
	c.hasBroadcast = false
	return c.pendingBroadcast, true
}

// SyncHover selects idx on behalf of another panel. The repaint is
// coalesced to one per frame, so a burst of sync events costs a single
// overlay redraw.
func (c *Chart) SyncHover(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueSyncLocked(syncbus.HoverEvent{Index: idx, TimestampMs: -1})
}

// SyncHoverTs selects the sample nearest ts (epoch milliseconds) on
// behalf of a source without index alignment, such as a map.
func (c *Chart) SyncHoverTs(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueSyncLocked(syncbus.HoverEvent{Index: -1, TimestampMs: ts})
}

// SyncHoverOut intentionally leaves the cursor in place. Clearing every
// panel the moment a pointer slides off one of them makes comparative
// reading impossible; the cursor goes away on explicit PointerLeave only.
func (c *Chart) SyncHoverOut() {}

func (c *Chart) queueSyncLocked(ev syncbus.HoverEvent) {
	if c.destroyed.IsSet() || !c.inited || c.ds.Empty() {
		return
	}
	c.pendingSync = ev
	c.hasPending = true
	c.syncRepaint.Request()
}

// syncFrameLocked applies the newest pending sync event.
func (c *Chart) syncFrameLocked() {
	if !c.hasPending || c.ds.Empty() {
		return
	}
	ev := c.pendingSync
	c.hasPending = false
	idx := ev.Index
	if idx < 0 && ev.TimestampMs >= 0 {
		idx = c.axis.NearestIndex(ev.TimestampMs)
	}
	c.applySelectionLocked(idx, false)
}

// busSink receives bus events on the broadcaster's goroutine.
func (c *Chart) busSink(ev syncbus.HoverEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueSyncLocked(ev)
}
