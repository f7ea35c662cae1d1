package chart

import (
	"math"
)

// AxisMode tags how a computed axis range is adjusted after the value scan.
type AxisMode int

const (
	// ModeDynamic keeps the scanned min/max.
	ModeDynamic AxisMode = iota
	// ModeFixedPercentage forces [0,100] regardless of the scan; used when
	// any assigned series is percentage-like (PWM, battery).
	ModeFixedPercentage
	// ModeSymmetricZero recenters the range on zero: [-absMax, absMax].
	// Used for signed angular data (tilt/roll) so zero stays vertically
	// centered.
	ModeSymmetricZero
)

// AxisRange is the per-draw numeric range of one vertical axis. It is
// computed fresh from the currently visible series on every repaint and
// never cached across data changes.
type AxisRange struct {
	Min, Max float64
	Mode     AxisMode
	// Empty is set when no assigned series had a single valid value; the
	// range falls back to [0,1] and the axis renders without ticks.
	Empty bool
}

// ScaleAxis scans all series assigned to role in a single pass, ignoring
// absent entries, then applies the mode override.
func ScaleAxis(d *Dataset, role AxisRole, mode AxisMode) AxisRange {
	min := math.NaN()
	max := math.NaN()
	if d != nil {
		for i := range d.Series {
			s := &d.Series[i]
			if s.Axis != role {
				continue
			}
			for _, v := range s.Values {
				if IsAbsent(v) {
					continue
				}
				if math.IsNaN(min) || v < min {
					min = v
				}
				if math.IsNaN(max) || v > max {
					max = v
				}
			}
		}
	}

	r := AxisRange{Mode: mode}
	if math.IsNaN(min) || math.IsNaN(max) {
		// no valid values on this axis; safe default prevents division by
		// zero in the pixel mapping
		return AxisRange{Min: 0, Max: 1, Mode: mode, Empty: true}
	}
	r.Min = min
	r.Max = max

	switch mode {
	case ModeFixedPercentage:
		r.Min, r.Max = 0, 100
	case ModeSymmetricZero:
		absMax := math.Max(math.Abs(min), math.Abs(max))
		if absMax == 0 {
			absMax = 1
		}
		r.Min, r.Max = -absMax, absMax
	}
	return r
}

// PixelsPerUnit converts the range into a vertical scale factor for the
// given plot height.
func (r AxisRange) PixelsPerUnit(plotHeight float64) float64 {
	span := r.Max - r.Min
	if span == 0 {
		span = 1
	}
	return plotHeight / span
}

// PixelY maps value v onto [top,bottom] pixel coordinates, larger values
// higher on screen.
func (r AxisRange) PixelY(v, top, bottom float64) float64 {
	span := r.Max - r.Min
	if span == 0 {
		span = 1
	}
	return bottom - (v-r.Min)/span*(bottom-top)
}

// Ticks returns five evenly spaced label values across the range.
func (r AxisRange) Ticks() [5]float64 {
	var t [5]float64
	span := r.Max - r.Min
	for k := 0; k < 5; k++ {
		t[k] = r.Min + span*float64(k)/4
	}
	return t
}
