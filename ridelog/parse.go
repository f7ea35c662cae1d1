package ridelog

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/lomik/zapwriter"
	"go.uber.org/zap"

	"github.com/ridegraph/ridegraph/chart"
)

var (
	ErrUnknownFormat = merry.Sentinel("unrecognized ride-log format")
	ErrNoHeader      = merry.Sentinel("ride log has no header line")
	ErrNoTimestamps  = merry.Sentinel("ride log has no parsable timestamps")
)

// columnSpec maps one canonical series to the header names each app uses
// for it. Header matching is case-insensitive.
type columnSpec struct {
	series string
	unit   string
	names  map[Format][]string
}

var masterColumns = []columnSpec{
	{"Speed (Wheel)", "km/h", map[Format][]string{
		FormatEUCWorld:    {"speed"},
		FormatWheelLog:    {"speed"},
		FormatDarknessBot: {"speed"},
	}},
	{"Speed (GPS)", "km/h", map[Format][]string{
		FormatEUCWorld:    {"gps_speed", "gpsspeed"},
		FormatWheelLog:    {"gps_speed"},
		FormatDarknessBot: {"gps speed"},
	}},
	{"Altitude (GPS)", "m", map[Format][]string{
		FormatEUCWorld:    {"gps_altitude", "gps_alt"},
		FormatWheelLog:    {"gps_alt"},
		FormatDarknessBot: {"altitude"},
	}},
	{"Battery", "%", map[Format][]string{
		FormatEUCWorld:    {"battery"},
		FormatWheelLog:    {"battery_level"},
		FormatDarknessBot: {"battery level"},
	}},
	{"PWM", "%", map[Format][]string{
		FormatEUCWorld: {"pwm"},
		FormatWheelLog: {"pwm"},
	}},
	{"Voltage", "V", map[Format][]string{
		FormatEUCWorld:    {"voltage"},
		FormatWheelLog:    {"voltage"},
		FormatDarknessBot: {"voltage"},
	}},
	{"Current", "A", map[Format][]string{
		FormatEUCWorld:    {"current"},
		FormatWheelLog:    {"current"},
		FormatDarknessBot: {"current"},
	}},
	{"Power", "W", map[Format][]string{
		FormatEUCWorld:    {"power"},
		FormatWheelLog:    {"power"},
		FormatDarknessBot: {"power"},
	}},
	{"Temperature", "°C", map[Format][]string{
		FormatEUCWorld:    {"temperature"},
		FormatWheelLog:    {"system_temp"},
		FormatDarknessBot: {"temperature"},
	}},
	{"Tilt", "°", map[Format][]string{
		FormatEUCWorld:    {"tilt"},
		FormatWheelLog:    {"tilt"},
		FormatDarknessBot: {"pitch"},
	}},
	{"Roll", "°", map[Format][]string{
		FormatEUCWorld:    {"roll"},
		FormatWheelLog:    {"roll"},
		FormatDarknessBot: {"roll"},
	}},
	{"Distance", "m", map[Format][]string{
		FormatEUCWorld:    {"distance"},
		FormatWheelLog:    {"distance"},
		FormatDarknessBot: {"total mileage"},
	}},
}

// ParseStats summarizes one ingestion.
type ParseStats struct {
	Rows        int // samples kept
	SkippedRows int // rows without a parsable timestamp
}

// ParseFile detects the format and ingests the whole log.
func ParseFile(path string) (*chart.Dataset, Format, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FormatUnknown, ParseStats{}, merry.Wrap(err, merry.WithValue("file", path))
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, FormatUnknown, ParseStats{}, merry.Wrap(err, merry.WithValue("file", path))
	}
	header = strings.TrimPrefix(strings.TrimRight(header, "\r\n"), "\uFEFF")
	if header == "" {
		return nil, FormatUnknown, ParseStats{}, merry.Wrap(ErrNoHeader, merry.WithValue("file", path))
	}
	format := DetectHeader(header)
	if format == FormatUnknown {
		return nil, format, ParseStats{}, merry.Wrap(ErrUnknownFormat, merry.WithValue("file", path))
	}

	ds, stats, err := parseRows(header, br, format, path)
	return ds, format, stats, err
}

// Parse ingests a log of a known format from r, header line included.
func Parse(r io.Reader, format Format) (*chart.Dataset, ParseStats, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, ParseStats{}, merry.Wrap(err)
	}
	header = strings.TrimPrefix(strings.TrimRight(header, "\r\n"), "\uFEFF")
	if header == "" {
		return nil, ParseStats{}, merry.Wrap(ErrNoHeader)
	}
	return parseRows(header, br, format, "")
}

func parseRows(header string, r io.Reader, format Format, path string) (*chart.Dataset, ParseStats, error) {
	logger := zapwriter.Logger("ridelog")

	index := make(map[string]int)
	for i, col := range strings.Split(header, ",") {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	ts := newTimestamper(format, index)
	if ts == nil {
		return nil, ParseStats{}, merry.Wrap(ErrUnknownFormat, merry.WithValue("file", path))
	}

	// columns present in this file, in canonical order
	type boundColumn struct {
		spec columnSpec
		col  int
	}
	var bound []boundColumn
	for _, spec := range masterColumns {
		for _, name := range spec.names[format] {
			if col, ok := index[name]; ok {
				bound = append(bound, boundColumn{spec, col})
				break
			}
		}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var stats ParseStats
	timestamps := make([]int64, 0, 1024)
	values := make([][]float64, len(bound))
	for i := range values {
		values[i] = make([]float64, 0, 1024)
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a torn row is not fatal, the rest of the ride still renders
			stats.SkippedRows++
			continue
		}
		t, ok := ts.rowTime(rec)
		if !ok {
			stats.SkippedRows++
			continue
		}
		timestamps = append(timestamps, t)
		for i, b := range bound {
			values[i] = append(values[i], cellValue(rec, b.col))
		}
		stats.Rows++
	}

	if stats.SkippedRows > 0 {
		logger.Warn("skipped rows without parsable timestamps",
			zap.String("file", path),
			zap.Int("skipped", stats.SkippedRows),
			zap.Int("kept", stats.Rows),
		)
	}
	if len(timestamps) == 0 {
		return nil, stats, merry.Wrap(ErrNoTimestamps, merry.WithValue("file", path))
	}

	series := make([]chart.Series, len(bound))
	for i, b := range bound {
		series[i] = chart.Series{
			Name:   b.spec.series,
			Unit:   b.spec.unit,
			Values: values[i],
		}
	}
	return &chart.Dataset{Timestamps: timestamps, Series: series}, stats, nil
}

func cellValue(rec []string, col int) float64 {
	if col >= len(rec) {
		return chart.Absent()
	}
	s := strings.TrimSpace(rec[col])
	if s == "" {
		return chart.Absent()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return chart.Absent()
	}
	return v
}

// timestamper extracts one epoch-millisecond timestamp per row.
type timestamper struct {
	dateCol  int
	timeCol  int // -1 when the date column carries the full instant
	layouts  []string
	location *time.Location
}

func newTimestamper(format Format, index map[string]int) *timestamper {
	switch format {
	case FormatEUCWorld:
		col, ok := index["datetime"]
		if !ok {
			return nil
		}
		return &timestamper{
			dateCol:  col,
			timeCol:  -1,
			layouts:  []string{"2006-01-02 15:04:05.000", "2006-01-02 15:04:05"},
			location: time.Local,
		}
	case FormatWheelLog:
		d, ok1 := index["date"]
		t, ok2 := index["time"]
		if !ok1 || !ok2 {
			return nil
		}
		return &timestamper{
			dateCol:  d,
			timeCol:  t,
			layouts:  []string{"2006-01-02 15:04:05.000", "2006-01-02 15:04:05"},
			location: time.Local,
		}
	case FormatDarknessBot:
		col, ok := index["date"]
		if !ok {
			return nil
		}
		return &timestamper{
			dateCol:  col,
			timeCol:  -1,
			layouts:  []string{"2006-01-02 15:04:05", "02.01.2006 15:04:05"},
			location: time.Local,
		}
	}
	return nil
}

func (t *timestamper) rowTime(rec []string) (int64, bool) {
	if t.dateCol >= len(rec) {
		return 0, false
	}
	raw := strings.TrimSpace(rec[t.dateCol])
	if t.timeCol >= 0 {
		if t.timeCol >= len(rec) {
			return 0, false
		}
		raw = raw + " " + strings.TrimSpace(rec[t.timeCol])
	}
	if raw == "" {
		return 0, false
	}
	// numeric epoch, seconds or milliseconds
	if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) {
		if v > 1e12 {
			return int64(v), true
		}
		return int64(v * 1000), true
	}
	for _, layout := range t.layouts {
		if parsed, err := time.ParseInLocation(layout, raw, t.location); err == nil {
			return parsed.UnixMilli(), true
		}
	}
	return 0, false
}
