package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ridegraph/ridegraph/chart"
)

func rideDataset() *chart.Dataset {
	return &chart.Dataset{
		Timestamps: []int64{0, 20000, 40000, 60000},
		Series: []chart.Series{
			{Name: "Speed (Wheel)", Values: []float64{10, 20, 30, 40}},
			{Name: "Battery", Values: []float64{100, chart.Absent(), 90, 80}},
			{Name: "PWM", Values: []float64{20, 45, 80, 60}},
			{Name: "Temperature", Values: []float64{30, 31.5, 35, 33}},
			{Name: "Distance", Values: []float64{0, 4000, 8000, 12000}},
		},
	}
}

func TestSummarize(t *testing.T) {
	r := Summarize(rideDataset())

	assert.Equal(t, time.Minute, r.Duration)
	assert.InDelta(t, 12, r.DistanceKm, 1e-9)

	assert.InDelta(t, 25, r.SpeedMean, 1e-9)
	assert.InDelta(t, 40, r.SpeedMax, 1e-9)
	assert.InDelta(t, 40, r.SpeedP95, 1e-9)

	assert.InDelta(t, 100, r.BatteryStart, 1e-9)
	assert.InDelta(t, 80, r.BatteryEnd, 1e-9)
	assert.InDelta(t, 20, r.BatteryDrop, 1e-9)

	assert.InDelta(t, 80, r.PWMMax, 1e-9)
	assert.InDelta(t, 35, r.TemperatureMax, 1e-9)
}

func TestSummarizeAbsentAware(t *testing.T) {
	d := &chart.Dataset{
		Timestamps: []int64{0, 1000, 2000},
		Series: []chart.Series{
			{Name: "Speed (Wheel)", Values: []float64{chart.Absent(), 20, chart.Absent()}},
		},
	}
	r := Summarize(d)
	assert.InDelta(t, 20, r.SpeedMean, 1e-9)
	assert.InDelta(t, 20, r.SpeedMax, 1e-9)
	assert.True(t, chart.IsAbsent(r.BatteryStart), "missing series stays absent")
	assert.True(t, chart.IsAbsent(r.DistanceKm))
}

func TestSummarizeEmpty(t *testing.T) {
	r := Summarize(nil)
	assert.Zero(t, r.Duration)
	assert.True(t, chart.IsAbsent(r.SpeedMean))
	assert.True(t, chart.IsAbsent(r.SpeedMax))
	assert.True(t, chart.IsAbsent(r.PWMMax))
	assert.True(t, chart.IsAbsent(r.TemperatureMax))
}
