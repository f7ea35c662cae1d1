// Package stats computes ride summaries from an ingested dataset.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ridegraph/ridegraph/chart"
)

// Ride is the aggregate summary of one log.
type Ride struct {
	Duration time.Duration

	DistanceKm float64 // NaN when the log has no distance column

	SpeedMean float64 // km/h, absent samples excluded
	SpeedMax  float64
	SpeedP95  float64

	BatteryStart float64 // percent
	BatteryEnd   float64
	BatteryDrop  float64

	PWMMax         float64
	TemperatureMax float64
}

// Summarize aggregates d. Missing series and absent samples yield NaN
// fields, never an error; a summary of a sparse log is still a summary.
func Summarize(d *chart.Dataset) Ride {
	var r Ride
	r.DistanceKm = chart.Absent()
	r.SpeedMean = chart.Absent()
	r.SpeedMax = chart.Absent()
	r.SpeedP95 = chart.Absent()
	r.BatteryStart = chart.Absent()
	r.BatteryEnd = chart.Absent()
	r.BatteryDrop = chart.Absent()
	r.PWMMax = chart.Absent()
	r.TemperatureMax = chart.Absent()

	if d.Empty() {
		return r
	}
	r.Duration = time.Duration(d.TimeSpanMs()) * time.Millisecond

	if speeds := present(d.SeriesByName("Speed (Wheel)")); len(speeds) > 0 {
		r.SpeedMean = stat.Mean(speeds, nil)
		r.SpeedMax = floats.Max(speeds)
		sorted := append([]float64(nil), speeds...)
		sort.Float64s(sorted)
		r.SpeedP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}

	if batt := present(d.SeriesByName("Battery")); len(batt) > 0 {
		r.BatteryStart = batt[0]
		r.BatteryEnd = batt[len(batt)-1]
		r.BatteryDrop = r.BatteryStart - r.BatteryEnd
	}

	if pwm := present(d.SeriesByName("PWM")); len(pwm) > 0 {
		r.PWMMax = floats.Max(pwm)
	}
	if temp := present(d.SeriesByName("Temperature")); len(temp) > 0 {
		r.TemperatureMax = floats.Max(temp)
	}
	if dist := present(d.SeriesByName("Distance")); len(dist) > 0 {
		// distance columns are cumulative meters
		r.DistanceKm = (dist[len(dist)-1] - dist[0]) / 1000
	}
	return r
}

// present strips absent samples from a series.
func present(s *chart.Series) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !chart.IsAbsent(v) {
			out = append(out, v)
		}
	}
	return out
}
