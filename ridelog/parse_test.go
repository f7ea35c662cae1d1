package ridelog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridegraph/ridegraph/chart"
)

func localMs(t *testing.T, layout, value string) int64 {
	t.Helper()
	parsed, err := time.ParseInLocation(layout, value, time.Local)
	require.NoError(t, err)
	return parsed.UnixMilli()
}

func TestParseWheelLog(t *testing.T) {
	log := strings.Join([]string{
		"date,time,latitude,longitude,gps_speed,speed,voltage,current,power,battery_level,distance,system_temp,pwm,tilt,roll",
		"2023-08-04,10:00:00.000,50.1,14.4,24.9,25.5,84.2,12.1,1018.8,95,0,31.5,45.2,1.2,-0.4",
		"2023-08-04,10:00:01.000,50.1,14.4,25.1,26.0,84.1,12.5,1051.3,95,7,31.6,46.0,1.3,-0.5",
		"2023-08-04,10:00:02.000,50.1,14.4,,26.5,84.0,12.8,1075.2,94,14,31.7,47.1,1.4,-0.6",
	}, "\n")

	ds, stats, err := Parse(strings.NewReader(log), FormatWheelLog)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
	assert.Zero(t, stats.SkippedRows)

	require.Len(t, ds.Timestamps, 3)
	assert.Equal(t, localMs(t, "2006-01-02 15:04:05.000", "2023-08-04 10:00:00.000"), ds.Timestamps[0])
	assert.Equal(t, ds.Timestamps[0]+2000, ds.Timestamps[2])

	speed := ds.SeriesByName("Speed (Wheel)")
	require.NotNil(t, speed)
	assert.Equal(t, []float64{25.5, 26.0, 26.5}, speed.Values)
	assert.Equal(t, "km/h", speed.Unit)

	gps := ds.SeriesByName("Speed (GPS)")
	require.NotNil(t, gps)
	assert.Equal(t, 25.1, gps.Values[1])
	assert.True(t, chart.IsAbsent(gps.Values[2]), "empty cell becomes an absent sample")

	temp := ds.SeriesByName("Temperature")
	require.NotNil(t, temp)
	assert.Equal(t, 31.7, temp.Values[2])

	batt := ds.SeriesByName("Battery")
	require.NotNil(t, batt)
	assert.Equal(t, []float64{95, 95, 94}, batt.Values)
}

func TestParseEUCWorld(t *testing.T) {
	log := strings.Join([]string{
		"datetime,extra,speed,gps_speed,battery,pwm,temperature,voltage,current,power,tilt,roll,distance",
		"2023-08-04 10:00:00.000,x,25.5,24.8,95,45,31.5,84.2,12.1,1018,1.2,-0.4,0",
		"2023-08-04 10:00:01.000,x,26.0,25.0,95,46,31.6,84.1,12.5,1051,1.3,-0.5,7",
	}, "\n")

	ds, stats, err := Parse(strings.NewReader(log), FormatEUCWorld)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)

	assert.Equal(t, localMs(t, "2006-01-02 15:04:05.000", "2023-08-04 10:00:00.000"), ds.Timestamps[0])

	pwm := ds.SeriesByName("PWM")
	require.NotNil(t, pwm)
	assert.Equal(t, []float64{45, 46}, pwm.Values)
}

func TestParseDarknessBot(t *testing.T) {
	log := strings.Join([]string{
		"Date,Speed,GPS Speed,Voltage,Current,Power,Battery level,Temperature,Total mileage,Pitch,Roll,Altitude",
		"2023-08-04 10:00:00,25.5,24.8,84.2,12.1,1018,95,31.5,12345,1.2,-0.4,210",
		"2023-08-04 10:00:01,26.0,25.0,84.1,12.5,1051,95,31.6,12352,1.3,-0.5,211",
	}, "\n")

	ds, stats, err := Parse(strings.NewReader(log), FormatDarknessBot)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)

	assert.Equal(t, localMs(t, "2006-01-02 15:04:05", "2023-08-04 10:00:00"), ds.Timestamps[0])

	// DarknessBot's Pitch maps onto the tilt series
	tilt := ds.SeriesByName("Tilt")
	require.NotNil(t, tilt)
	assert.Equal(t, []float64{1.2, 1.3}, tilt.Values)

	dist := ds.SeriesByName("Distance")
	require.NotNil(t, dist)
	assert.Equal(t, []float64{12345, 12352}, dist.Values)

	alt := ds.SeriesByName("Altitude (GPS)")
	require.NotNil(t, alt)
	assert.Equal(t, 210.0, alt.Values[0])
}

func TestParseSkipsBadTimestampRows(t *testing.T) {
	log := strings.Join([]string{
		"date,time,speed",
		"2023-08-04,10:00:00.000,25.5",
		"not-a-date,nope,26.0",
		",,27.0",
		"2023-08-04,10:00:02.000,28.0",
	}, "\n")

	ds, stats, err := Parse(strings.NewReader(log), FormatWheelLog)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 2, stats.SkippedRows)

	speed := ds.SeriesByName("Speed (Wheel)")
	require.NotNil(t, speed)
	assert.Equal(t, []float64{25.5, 28.0}, speed.Values)
}

func TestParseShortRowsTolerated(t *testing.T) {
	log := strings.Join([]string{
		"date,time,speed,voltage",
		"2023-08-04,10:00:00.000,25.5,84.2",
		"2023-08-04,10:00:01.000,26.0",
	}, "\n")

	ds, stats, err := Parse(strings.NewReader(log), FormatWheelLog)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)

	volt := ds.SeriesByName("Voltage")
	require.NotNil(t, volt)
	assert.Equal(t, 84.2, volt.Values[0])
	assert.True(t, chart.IsAbsent(volt.Values[1]), "a truncated row yields absent cells")
}

func TestParseAllRowsBad(t *testing.T) {
	log := "date,time,speed\nbad,worse,1\n"
	_, stats, err := Parse(strings.NewReader(log), FormatWheelLog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTimestamps))
	assert.Equal(t, 1, stats.SkippedRows)
}

func TestParseEmptyInput(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), FormatWheelLog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestParseDatasetFeedsChart(t *testing.T) {
	log := strings.Join([]string{
		"date,time,speed,gps_speed",
		"2023-08-04,10:00:00.000,25.5,24.8",
		"2023-08-04,10:00:01.000,26.0,25.0",
	}, "\n")
	master, _, err := Parse(strings.NewReader(log), FormatWheelLog)
	require.NoError(t, err)

	ds := chart.Spec(chart.KindSpeed).Dataset(master)
	require.False(t, ds.Empty())
	require.Len(t, ds.Series, 2)
	// z-order: GPS speed paints beneath the wheel speed line
	assert.Equal(t, "Speed (GPS)", ds.Series[0].Name)
	assert.Equal(t, "Speed (Wheel)", ds.Series[1].Name)
	assert.Equal(t, chart.AxisPrimary, ds.Series[1].Axis)
}
