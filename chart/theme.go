package chart

import (
	"image/color"
	"strconv"
	"sync"

	"github.com/ansel1/merry/v2"
)

// ErrBadColor is returned when a configured color cannot be parsed.
var ErrBadColor = merry.Sentinel("chart: invalid color")

// Theme holds the colors the renderer reads once per full repaint. Charts
// never keep a Theme between repaints; configuration is an external source,
// not owned state.
type Theme struct {
	Background       color.RGBA `mapstructure:"background"`
	Grid             color.RGBA `mapstructure:"grid"`
	AxisLabel        color.RGBA `mapstructure:"axisLabel"`
	AxisTitle        color.RGBA `mapstructure:"axisTitle"`
	HoverLine        color.RGBA `mapstructure:"hoverLine"`
	EmptyText        color.RGBA `mapstructure:"emptyText"`
	GapSegment       color.RGBA `mapstructure:"gapSegment"`
	AnnotationBorder color.RGBA `mapstructure:"annotationBorder"`
}

var namedColors = map[string]color.RGBA{
	"black":    {0x00, 0x00, 0x00, 0xff},
	"white":    {0xff, 0xff, 0xff, 0xff},
	"red":      {0xff, 0x00, 0x00, 0xff},
	"green":    {0x00, 0xc8, 0x00, 0xff},
	"blue":     {0x00, 0x64, 0xff, 0xff},
	"purple":   {0xc8, 0x64, 0xff, 0xff},
	"brown":    {0x96, 0x4b, 0x00, 0xff},
	"yellow":   {0xff, 0xff, 0x00, 0xff},
	"aqua":     {0x00, 0x96, 0x96, 0xff},
	"grey":     {0xaf, 0xaf, 0xaf, 0xff},
	"darkgrey": {0x4a, 0x4a, 0x4a, 0xff},
	"magenta":  {0xff, 0x00, 0xff, 0xff},
	"pink":     {0xff, 0x64, 0x96, 0xff},
	"gold":     {0xc8, 0xc8, 0x00, 0xff},
	"orange":   {0xff, 0x8c, 0x00, 0xff},
	"rose":     {0xc8, 0x96, 0xc8, 0xff},
}

// ParseColor accepts a named color or "#rgb"/"#rrggbb"/"#rrggbbaa" hex.
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	h := s
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	if len(h) == 3 {
		h = h[:1] + h[:1] + h[1:2] + h[1:2] + h[2:] + h[2:]
	}
	switch len(h) {
	case 6:
		if rgb, err := strconv.ParseUint(h, 16, 32); err == nil {
			return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8 & 0xff), uint8(rgb & 0xff), 0xff}, nil
		}
	case 8:
		if rgba, err := strconv.ParseUint(h, 16, 64); err == nil {
			return color.RGBA{uint8(rgba >> 24), uint8(rgba >> 16 & 0xff), uint8(rgba >> 8 & 0xff), uint8(rgba & 0xff)}, nil
		}
	}
	return color.RGBA{}, merry.Wrap(ErrBadColor, merry.WithValue("color", s))
}

// MustColor parses a known-good color literal.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTheme is the dark viewer theme.
func DefaultTheme() Theme {
	return Theme{
		Background:       color.RGBA{0x1e, 0x1e, 0x1e, 0xff},
		Grid:             color.RGBA{0x3c, 0x3c, 0x3c, 0xff},
		AxisLabel:        color.RGBA{0xaf, 0xaf, 0xaf, 0xff},
		AxisTitle:        color.RGBA{0xdc, 0xdc, 0xdc, 0xff},
		HoverLine:        color.RGBA{0xff, 0xff, 0xff, 0xb4},
		EmptyText:        color.RGBA{0x8c, 0x8c, 0x8c, 0xff},
		GapSegment:       color.RGBA{0xff, 0x8c, 0x00, 0xc8},
		AnnotationBorder: color.RGBA{0xff, 0xff, 0xff, 0x64},
	}
}

var (
	themeMu sync.RWMutex
	themes  = map[string]Theme{"": DefaultTheme(), "default": DefaultTheme()}
)

// SetTemplate registers a named theme, typically from the config file's
// template table.
func SetTemplate(name string, t Theme) {
	themeMu.Lock()
	themes[name] = t
	themeMu.Unlock()
}

// ReadTheme resolves a theme name. It is called once per full repaint;
// unknown names fall back to the default theme. Pure lookup: no state on
// the chart.
func ReadTheme(name string) Theme {
	themeMu.RLock()
	t, ok := themes[name]
	themeMu.RUnlock()
	if !ok {
		return DefaultTheme()
	}
	return t
}
