// Package ridelog ingests EUC ride-log CSV files from the three common
// logging apps (EUC World, WheelLog, DarknessBot) into chart datasets.
package ridelog

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/dgryski/go-expirecache"
)

// Format identifies the app that produced a ride log.
type Format string

const (
	FormatEUCWorld    Format = "eucworld"
	FormatWheelLog    Format = "wheellog"
	FormatDarknessBot Format = "darknessbot"
	FormatUnknown     Format = "unknown"
)

// DetectHeader classifies a raw CSV header line.
//
// EUC World exports carry an "extra" column next to "datetime". DarknessBot
// uses capitalized headers, so its check is case-sensitive to keep it from
// shadowing WheelLog's lowercase "date". WheelLog splits date and time into
// two columns and has no "extra".
func DetectHeader(header string) Format {
	lower := make(map[string]bool)
	exact := make(map[string]bool)
	for _, col := range strings.Split(header, ",") {
		col = strings.TrimSpace(col)
		exact[col] = true
		lower[strings.ToLower(col)] = true
	}

	if lower["extra"] && lower["datetime"] {
		return FormatEUCWorld
	}
	if exact["Date"] && exact["Battery level"] && exact["Pitch"] && exact["Total mileage"] {
		return FormatDarknessBot
	}
	if lower["date"] && lower["time"] && !lower["extra"] {
		return FormatWheelLog
	}
	return FormatUnknown
}

const detectCacheTTL = int32(10 * time.Minute / time.Second)

// Detector caches per-path detection results so directory listings do not
// reread headers on every refresh.
type Detector struct {
	cache *expirecache.Cache
}

func NewDetector() *Detector {
	d := &Detector{cache: expirecache.New(0)}
	go d.cache.ApproximateCleaner(10 * time.Second)
	return d
}

// DetectFile reads only the first line of the file. Unreadable files are
// reported as FormatUnknown rather than an error; a listing should never
// fail because one file is bad.
func (d *Detector) DetectFile(path string) Format {
	if v, ok := d.cache.Get(path); ok {
		return v.(Format)
	}
	f := detectFile(path)
	d.cache.Set(path, f, uint64(len(path)), detectCacheTTL)
	return f
}

func detectFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 64*1024)
	if !sc.Scan() {
		return FormatUnknown
	}
	return DetectHeader(strings.TrimPrefix(sc.Text(), "\uFEFF"))
}
