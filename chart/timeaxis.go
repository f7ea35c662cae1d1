package chart

import (
	"sort"
)

// TimeAxis maps an ordered timestamp sequence linearly onto the plot
// area's horizontal pixel bounds. Callers must not construct a TimeAxis
// over an empty timestamp slice.
type TimeAxis struct {
	ts          []int64
	left, right float64
}

// NewTimeAxis builds the axis over ts with the plot's left/right pixel
// bounds. The time scale is linear, not categorical: unevenly spaced
// samples land at unevenly spaced pixels.
func NewTimeAxis(ts []int64, left, right float64) TimeAxis {
	return TimeAxis{ts: ts, left: left, right: right}
}

func (a TimeAxis) span() float64 {
	s := float64(a.ts[len(a.ts)-1] - a.ts[0])
	if s <= 0 {
		// zero time range guard, keeps pixel math finite
		return 1
	}
	return s
}

// PixelX returns the x coordinate of sample i.
func (a TimeAxis) PixelX(i int) float64 {
	return a.left + (a.right-a.left)*float64(a.ts[i]-a.ts[0])/a.span()
}

// TimeAtPixelX inverts the linear mapping, clamping to the dataset span.
func (a TimeAxis) TimeAtPixelX(x float64) int64 {
	if x <= a.left {
		return a.ts[0]
	}
	if x >= a.right {
		return a.ts[len(a.ts)-1]
	}
	w := a.right - a.left
	if w <= 0 {
		w = 1
	}
	return a.ts[0] + int64((x-a.left)/w*a.span())
}

// IndexAtPixelX resolves a pixel position to the nearest sample index.
func (a TimeAxis) IndexAtPixelX(x float64) int {
	return a.NearestIndex(a.TimeAtPixelX(x))
}

// NearestIndex returns the index whose timestamp is closest to target,
// resolving ties to the earlier index. O(log n); this runs on every
// pointer-move tick so it must stay cheap for 100k+ point logs.
func (a TimeAxis) NearestIndex(target int64) int {
	n := len(a.ts)
	if n == 1 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return a.ts[i] >= target })
	if i == n {
		return n - 1
	}
	if i == 0 {
		return 0
	}
	// compare insertion point against its left neighbor; tie goes to the
	// earlier sample
	if target-a.ts[i-1] <= a.ts[i]-target {
		return i - 1
	}
	return i
}

// Len returns the number of samples on the axis.
func (a TimeAxis) Len() int {
	return len(a.ts)
}
