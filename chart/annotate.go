package chart

import (
	"image/color"

	"github.com/ridegraph/ridegraph/chart/surface"
)

const (
	annPadX    = 6
	annPadY    = 4
	annGap     = 4
	annRadius  = 4
	annEdgePad = 4
	cursorGap  = 8
)

type annLabel struct {
	text          string
	bg            color.RGBA
	darkText      bool
	slot          Slot
	rightAnchored bool // side after a possible edge flip
	flipped       bool
	x, y          float64 // box top-left, y decided during placement
	w, h          float64
}

// quadrant identifies where a label ended up: top/bottom of the plot and
// which side of the cursor it was drawn on.
type quadrant struct {
	top           bool
	rightOfCursor bool
}

type quadOccupancy struct {
	minTop    float64
	maxBottom float64
	used      bool
}

// drawAnnotations paints the selection overlay onto the display surface: a
// full-height cursor line beneath one floating value label per annotated
// series with a valid sample at selIdx.
//
// Placement is two-pass. Labels keep their slot-derived stacked position
// unless their box would leave the plot horizontally, in which case they
// flip to the cursor's other side and are placed after all unflipped
// labels, below the lowest (top quadrants) or above the highest (bottom
// quadrants) occupant of their landing quadrant, so flipped labels never
// overlap labels already holding that quadrant.
func drawAnnotations(p renderPass, d *Dataset, k KindSpec, selIdx int, cursorX float64) {
	p.surf.Line(cursorX, p.plot.Y, cursorX, p.plot.Bottom(), p.theme.HoverLine, 1, nil)

	labels := make([]*annLabel, 0, len(d.Series))
	slotCount := map[Slot]int{}
	for si := range d.Series {
		s := &d.Series[si]
		v := s.Values[selIdx]
		if IsAbsent(v) {
			continue
		}
		st, ok := k.Annotation(s.Name)
		if !ok {
			continue
		}
		text := s.Name + "  " + formatValue(v, s.Unit)
		tw, th := p.surf.MeasureText(text)
		l := &annLabel{
			text:          text,
			bg:            seriesColor(s, si),
			darkText:      st.DarkText,
			slot:          st.Slot,
			rightAnchored: st.Slot.RightAnchored(),
			w:             tw + 2*annPadX,
			h:             th + 2*annPadY,
		}

		// slot-derived vertical start, stepping away from the horizontal
		// edge for every earlier same-slot label
		step := float64(slotCount[st.Slot]) * (l.h + annGap)
		if st.Slot.Top() {
			l.y = p.plot.Y + annEdgePad + step
		} else {
			l.y = p.plot.Bottom() - annEdgePad - l.h - step
		}
		slotCount[st.Slot]++

		// edge flip: a box that would leave the plot horizontally lands on
		// the cursor's other side instead
		l.x = boxX(cursorX, l.w, l.rightAnchored)
		if l.rightAnchored && l.x < p.plot.X {
			l.rightAnchored = false
			l.flipped = true
			l.x = boxX(cursorX, l.w, false)
		} else if !l.rightAnchored && l.x+l.w > p.plot.Right() {
			l.rightAnchored = true
			l.flipped = true
			l.x = boxX(cursorX, l.w, true)
		}
		labels = append(labels, l)
	}

	occ := map[quadrant]*quadOccupancy{}
	place := func(l *annLabel, y float64) {
		l.y = clamp(y, p.plot.Y+annEdgePad, p.plot.Bottom()-annEdgePad-l.h)
		q := quadrant{top: l.slot.Top(), rightOfCursor: !l.rightAnchored}
		o := occ[q]
		if o == nil {
			o = &quadOccupancy{minTop: l.y, maxBottom: l.y + l.h, used: true}
			occ[q] = o
		} else {
			if l.y < o.minTop {
				o.minTop = l.y
			}
			if l.y+l.h > o.maxBottom {
				o.maxBottom = l.y + l.h
			}
		}
		drawLabel(p, l)
	}

	for _, l := range labels {
		if !l.flipped {
			place(l, l.y)
		}
	}
	for _, l := range labels {
		if !l.flipped {
			continue
		}
		q := quadrant{top: l.slot.Top(), rightOfCursor: !l.rightAnchored}
		if o := occ[q]; o != nil && o.used {
			if l.slot.Top() {
				place(l, o.maxBottom+annGap)
			} else {
				place(l, o.minTop-annGap-l.h)
			}
		} else {
			place(l, l.y)
		}
	}
}

// boxX returns the box left edge for the given anchoring side.
// Right-anchored labels sit to the cursor's left, left-anchored labels to
// its right.
func boxX(cursorX, w float64, rightAnchored bool) float64 {
	if rightAnchored {
		return cursorX - cursorGap - w
	}
	return cursorX + cursorGap
}

func drawLabel(p renderPass, l *annLabel) {
	box := surface.Rect{X: l.x, Y: l.y, W: l.w, H: l.h}
	p.surf.FillRoundedRect(box, annRadius, l.bg)
	p.surf.StrokeRoundedRect(box, annRadius, p.theme.AnnotationBorder, 1)
	tc := color.RGBA{0xff, 0xff, 0xff, 0xff}
	if l.darkText {
		tc = color.RGBA{0x14, 0x14, 0x14, 0xff}
	}
	p.surf.Text(l.text, l.x+l.w/2, l.y+l.h/2, tc, surface.AlignCenter)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
