package ridelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Format
	}{
		{
			"eucworld",
			"datetime,extra,speed,gps_speed,battery,voltage",
			FormatEUCWorld,
		},
		{
			"eucworld mixed case",
			"DateTime,Extra,Speed",
			FormatEUCWorld,
		},
		{
			"wheellog",
			"date,time,latitude,longitude,gps_speed,speed,voltage,battery_level",
			FormatWheelLog,
		},
		{
			"darknessbot",
			"Date,Speed,Voltage,Battery level,Pitch,Roll,Total mileage",
			FormatDarknessBot,
		},
		{
			// lowercase darknessbot-like headers cannot satisfy the
			// case-sensitive check and carry no 'time', so they stay unknown
			"lowercased darknessbot",
			"date,speed,battery level,pitch,total mileage",
			FormatUnknown,
		},
		{
			"wheellog despite extra-free eucworld columns",
			"date,time,datetime",
			FormatWheelLog,
		},
		{
			"padded columns",
			" date , time , speed ",
			FormatWheelLog,
		},
		{"empty", "", FormatUnknown},
		{"unrelated", "foo,bar,baz", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectHeader(tt.header))
		})
	}
}

func TestDetectHeaderEUCWorldWinsOverWheelLog(t *testing.T) {
	// a header carrying extra+datetime is EUC World even with date+time
	assert.Equal(t, FormatEUCWorld, DetectHeader("date,time,datetime,extra"))
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ride.csv")
	content := "date,time,speed\n2023-08-04,10:00:00,25.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	det := NewDetector()
	assert.Equal(t, FormatWheelLog, det.DetectFile(path))

	// cached: a rewrite within the TTL is not observed
	if err := os.WriteFile(path, []byte("foo,bar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, FormatWheelLog, det.DetectFile(path))
}

func TestDetectFileMissing(t *testing.T) {
	det := NewDetector()
	assert.Equal(t, FormatUnknown, det.DetectFile(filepath.Join(t.TempDir(), "nope.csv")))
}

func TestDetectFileBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ride.csv")
	content := "\uFEFFdatetime,extra,speed\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, FormatEUCWorld, NewDetector().DetectFile(path))
}
