package chart

import (
	"image/color"
	"strconv"
	"time"

	"github.com/tebeka/strftime"

	"github.com/ridegraph/ridegraph/chart/surface"
)

// GapPolicy decides how gap-spanning segments are detected once the
// dataset has been downsampled. Sampled adjacency matches the observed
// viewer behavior; original adjacency inspects every skipped sample.
type GapPolicy int

const (
	// GapSampled marks a span dashed when the previous sampled index held
	// an absent value.
	GapSampled GapPolicy = iota
	// GapOriginal marks a span dashed when any absent value exists between
	// the two original indices, including samples the stride skipped.
	GapOriginal
)

var seriesPalette = []string{"blue", "green", "red", "purple", "brown", "yellow", "aqua", "grey", "magenta", "pink", "gold", "rose"}

func seriesColor(s *Series, fallback int) color.RGBA {
	if s.Color != "" {
		if c, err := ParseColor(s.Color); err == nil {
			return c
		}
	}
	return MustColor(seriesPalette[fallback%len(seriesPalette)])
}

// renderPass carries the per-repaint context shared by the drawing
// helpers. Every field is recomputed for each full repaint.
type renderPass struct {
	surf   surface.Surface
	plot   surface.Rect
	axis   TimeAxis
	ranges map[AxisRole]AxisRange
	theme  Theme
	policy GapPolicy
}

const (
	seriesLineWidth = 1.6
	gapLineWidth    = 1.2
)

var gapDash = []float64{4, 4}

// drawSeries paints every series in dataset order against the sampled
// index list. Absent values break the stroke; the spans they leave behind
// are batched into a single dashed pass per series, issued after the solid
// segments. All series drawing is clipped to the plot rectangle.
func drawSeries(p renderPass, d *Dataset, indices []int) {
	p.surf.PushClip(p.plot)
	defer p.surf.PopClip()

	for si := range d.Series {
		s := &d.Series[si]
		col := seriesColor(s, si)
		r := p.ranges[s.Axis]

		var runs [][]surface.Point
		var gaps [][2]surface.Point
		var run []surface.Point
		lastValid := -1
		var lastPt surface.Point
		prevSampledAbsent := false

		for _, i := range indices {
			v := s.Values[i]
			if IsAbsent(v) {
				if len(run) > 0 {
					runs = append(runs, run)
					run = nil
				}
				prevSampledAbsent = true
				continue
			}
			pt := surface.Point{
				X: p.axis.PixelX(i),
				Y: r.PixelY(v, p.plot.Y, p.plot.Bottom()),
			}
			if lastValid >= 0 {
				gap := false
				switch p.policy {
				case GapSampled:
					gap = prevSampledAbsent
				case GapOriginal:
					gap = hasAbsentBetween(s.Values, lastValid, i)
				}
				if gap {
					if len(run) > 0 {
						runs = append(runs, run)
					}
					gaps = append(gaps, [2]surface.Point{lastPt, pt})
					run = []surface.Point{pt}
				} else {
					run = append(run, pt)
				}
			} else {
				run = []surface.Point{pt}
			}
			lastValid = i
			lastPt = pt
			prevSampledAbsent = false
		}
		if len(run) > 0 {
			runs = append(runs, run)
		}

		if s.Fill {
			for _, rn := range runs {
				fillRun(p, s, col, rn)
			}
		}
		for _, rn := range runs {
			p.surf.StrokePath(rn, col, seriesLineWidth, nil)
		}
		if len(gaps) > 0 {
			p.surf.StrokeSegments(gaps, p.theme.GapSegment, gapLineWidth, gapDash)
		}
	}
}

// hasAbsentBetween reports whether any sample strictly between lo and hi
// is absent.
func hasAbsentBetween(values []float64, lo, hi int) bool {
	for i := lo + 1; i < hi; i++ {
		if IsAbsent(values[i]) {
			return true
		}
	}
	return false
}

// fillRun closes one contiguous valid run down to the plot baseline and
// fills it: explicit fill color when configured, else a top-to-bottom
// opacity gradient derived from the series color.
func fillRun(p renderPass, s *Series, col color.RGBA, run []surface.Point) {
	if len(run) < 2 {
		return
	}
	base := p.plot.Bottom()
	pts := make([]surface.Point, 0, len(run)+2)
	pts = append(pts, run...)
	pts = append(pts,
		surface.Point{X: run[len(run)-1].X, Y: base},
		surface.Point{X: run[0].X, Y: base},
	)
	if s.FillColor != "" {
		if fc, err := ParseColor(s.FillColor); err == nil {
			p.surf.FillPath(pts, fc)
			return
		}
	}
	top := color.RGBA{col.R, col.G, col.B, 0x66}
	bottom := color.RGBA{col.R, col.G, col.B, 0x00}
	p.surf.FillPathVGradient(pts, top, bottom, p.plot.Y, base)
}

// drawGrid paints the horizontal grid lines for the primary axis ticks and
// the plot frame.
func drawGrid(p renderPass) {
	pr, ok := p.ranges[AxisPrimary]
	if ok && !pr.Empty {
		for _, tv := range pr.Ticks() {
			y := pr.PixelY(tv, p.plot.Y, p.plot.Bottom())
			p.surf.Line(p.plot.X, y, p.plot.Right(), y, p.theme.Grid, 0.5, nil)
		}
	}
	p.surf.StrokeRect(p.plot, p.theme.Grid, 1)
}

const xTickCount = 5

// drawAxisLabels renders the five primary (left) and secondary (right)
// tick labels plus time labels along the bottom edge.
func drawAxisLabels(p renderPass, d *Dataset) {
	if pr, ok := p.ranges[AxisPrimary]; ok && !pr.Empty {
		for _, tv := range pr.Ticks() {
			y := pr.PixelY(tv, p.plot.Y, p.plot.Bottom())
			p.surf.Text(formatTick(tv), p.plot.X-4, y, p.theme.AxisLabel, surface.AlignRight)
		}
	}
	if sr, ok := p.ranges[AxisSecondary]; ok && !sr.Empty {
		for _, tv := range sr.Ticks() {
			y := sr.PixelY(tv, p.plot.Y, p.plot.Bottom())
			p.surf.Text(formatTick(tv), p.plot.Right()+4, y, p.theme.AxisLabel, surface.AlignLeft)
		}
	}

	if len(d.Timestamps) == 0 {
		return
	}
	format := "%H:%M:%S"
	if d.TimeSpanMs() >= 6*int64(time.Hour/time.Millisecond) {
		format = "%H:%M"
	}
	for k := 0; k < xTickCount; k++ {
		x := p.plot.X + p.plot.W*float64(k)/float64(xTickCount-1)
		ts := p.axis.TimeAtPixelX(x)
		label, err := strftime.Format(format, time.UnixMilli(ts))
		if err != nil {
			continue
		}
		align := surface.AlignCenter
		if k == 0 {
			align = surface.AlignLeft
		} else if k == xTickCount-1 {
			align = surface.AlignRight
		}
		p.surf.Text(label, x, p.plot.Bottom()+10, p.theme.AxisLabel, align)
	}
}

func formatTick(v float64) string {
	av := v
	if av < 0 {
		av = -av
	}
	switch {
	case av >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// formatValue renders an annotation value with its unit.
func formatValue(v float64, unit string) string {
	s := formatTick(v)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
