// Package chart renders EUC ride-log time series onto raster surfaces.
//
// A Chart owns two equally sized surfaces: an off-screen compute surface
// that is fully redrawn on data, size or theme changes, and a display
// surface that receives a cheap blit plus the transient cursor overlay on
// every interaction tick.
package chart

import (
	"math"
)

// AxisRole selects which vertical axis a series is scaled against.
type AxisRole int

const (
	AxisPrimary AxisRole = iota
	AxisSecondary
)

// Absent returns the value used for missing samples. Sensor gaps are
// explicitly not zero; they are NaN and break the rendered stroke.
func Absent() float64 {
	return math.NaN()
}

// IsAbsent reports whether v marks a missing sample.
func IsAbsent(v float64) bool {
	return math.IsNaN(v)
}

// Series is one plotted value sequence, aligned by index to the dataset
// timestamps.
type Series struct {
	Name      string
	Values    []float64 // NaN marks an absent sample
	Color     string    // named or hex color
	FillColor string    // optional explicit fill; empty means gradient from Color
	Unit      string
	Axis      AxisRole
	Fill      bool
}

// Dataset is an immutable snapshot of one ride log. Timestamps are epoch
// milliseconds, non-decreasing. Series order is legend and z-order; every
// Values slice has the same length as Timestamps.
type Dataset struct {
	Timestamps []int64
	Series     []Series
}

// Empty reports whether the dataset cannot be plotted: nil, no timestamps,
// a series/timestamp length mismatch, or no non-absent value anywhere.
// Such datasets render the "No data to display" placeholder.
func (d *Dataset) Empty() bool {
	if d == nil || len(d.Timestamps) == 0 || len(d.Series) == 0 {
		return true
	}
	for _, s := range d.Series {
		if len(s.Values) != len(d.Timestamps) {
			return true
		}
	}
	for _, s := range d.Series {
		for _, v := range s.Values {
			if !IsAbsent(v) {
				return false
			}
		}
	}
	return true
}

// TimeSpanMs returns the covered time range in milliseconds.
func (d *Dataset) TimeSpanMs() int64 {
	if d == nil || len(d.Timestamps) == 0 {
		return 0
	}
	return d.Timestamps[len(d.Timestamps)-1] - d.Timestamps[0]
}

// SeriesByName returns the named series, or nil.
func (d *Dataset) SeriesByName(name string) *Series {
	if d == nil {
		return nil
	}
	for i := range d.Series {
		if d.Series[i].Name == name {
			return &d.Series[i]
		}
	}
	return nil
}

// RenderStats describes the last full repaint, for diagnostics.
type RenderStats struct {
	TotalPoints         int
	RenderedPoints      int
	IsDownsampled       bool
	DownsampleThreshold int
}
