package ridelog

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/dustin/go-humanize"
	"github.com/maruel/natural"
)

// Entry describes one ride log found under the scan root.
type Entry struct {
	Name     string // file name
	Path     string // path relative to the scan root
	Folder   string // "/" for root-level files
	Size     int64
	Modified time.Time
	Format   Format
}

// HumanSize renders Size for display.
func (e Entry) HumanSize() string { return humanize.Bytes(uint64(e.Size)) }

// List walks dir recursively and returns every .csv file with its detected
// format, sorted by folder then name in natural order so ride_2 comes
// before ride_10.
func List(dir string, det *Detector) ([]Entry, error) {
	if det == nil {
		det = NewDetector()
	}
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		folder := filepath.Dir(rel)
		if folder == "." {
			folder = "/"
		}
		entries = append(entries, Entry{
			Name:     d.Name(),
			Path:     rel,
			Folder:   folder,
			Size:     info.Size(),
			Modified: info.ModTime(),
			Format:   det.DetectFile(path),
		})
		return nil
	})
	if err != nil {
		return nil, merry.Wrap(err, merry.WithValue("dir", dir))
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Folder != entries[j].Folder {
			return natural.Less(entries[i].Folder, entries[j].Folder)
		}
		return natural.Less(entries[i].Name, entries[j].Name)
	})
	return entries, nil
}
