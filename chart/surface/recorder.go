package surface

import (
	"image/color"
	"io"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpClear OpKind = iota
	OpStrokePath
	OpStrokeSegments
	OpFillPath
	OpFillGradient
	OpLine
	OpFillRect
	OpStrokeRect
	OpFillRoundedRect
	OpStrokeRoundedRect
	OpText
	OpPushClip
	OpPopClip
	OpBlit
)

// Op is one recorded drawing call with whichever fields applied to it.
type Op struct {
	Kind     OpKind
	Points   []Point
	Segments [][2]Point
	Rect     Rect
	Color    color.Color
	Width    float64
	Dash     []float64
	Text     string
	X, Y     float64
	Align    Align
}

// Dashed reports whether the op used a dash pattern.
func (o Op) Dashed() bool { return len(o.Dash) > 0 }

// Recorder is a Surface that records operations instead of rasterizing.
// Tests assert on the recorded op stream rather than on pixels. Text
// metrics are deterministic: 7px per rune, 13px line height.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder creates a recording surface of the given logical size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

// NewRecorderSurface is a Factory for recording surfaces.
func NewRecorderSurface(w, h int) Surface {
	return NewRecorder(w, h)
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) add(op Op) { r.Ops = append(r.Ops, op) }

func (r *Recorder) Clear(bg color.Color) {
	r.add(Op{Kind: OpClear, Color: bg})
}

func (r *Recorder) StrokePath(pts []Point, c color.Color, width float64, dash []float64) {
	cp := append([]Point(nil), pts...)
	r.add(Op{Kind: OpStrokePath, Points: cp, Color: c, Width: width, Dash: dash})
}

func (r *Recorder) StrokeSegments(segs [][2]Point, c color.Color, width float64, dash []float64) {
	cp := append([][2]Point(nil), segs...)
	r.add(Op{Kind: OpStrokeSegments, Segments: cp, Color: c, Width: width, Dash: dash})
}

func (r *Recorder) FillPath(pts []Point, c color.Color) {
	cp := append([]Point(nil), pts...)
	r.add(Op{Kind: OpFillPath, Points: cp, Color: c})
}

func (r *Recorder) FillPathVGradient(pts []Point, top, bottom color.Color, y0, y1 float64) {
	cp := append([]Point(nil), pts...)
	r.add(Op{Kind: OpFillGradient, Points: cp, Color: top, X: y0, Y: y1})
}

func (r *Recorder) Line(x0, y0, x1, y1 float64, c color.Color, width float64, dash []float64) {
	r.add(Op{Kind: OpLine, Points: []Point{{x0, y0}, {x1, y1}}, Color: c, Width: width, Dash: dash})
}

func (r *Recorder) FillRect(rc Rect, c color.Color) {
	r.add(Op{Kind: OpFillRect, Rect: rc, Color: c})
}

func (r *Recorder) StrokeRect(rc Rect, c color.Color, width float64) {
	r.add(Op{Kind: OpStrokeRect, Rect: rc, Color: c, Width: width})
}

func (r *Recorder) FillRoundedRect(rc Rect, radius float64, c color.Color) {
	r.add(Op{Kind: OpFillRoundedRect, Rect: rc, Color: c, Width: radius})
}

func (r *Recorder) StrokeRoundedRect(rc Rect, radius float64, c color.Color, width float64) {
	r.add(Op{Kind: OpStrokeRoundedRect, Rect: rc, Color: c, Width: width})
}

func (r *Recorder) Text(s string, x, y float64, c color.Color, align Align) {
	r.add(Op{Kind: OpText, Text: s, X: x, Y: y, Color: c, Align: align})
}

func (r *Recorder) MeasureText(s string) (float64, float64) {
	return float64(7 * len([]rune(s))), 13
}

func (r *Recorder) PushClip(rc Rect) {
	r.add(Op{Kind: OpPushClip, Rect: rc})
}

func (r *Recorder) PopClip() {
	r.add(Op{Kind: OpPopClip})
}

func (r *Recorder) BlitFrom(src Surface) {
	r.add(Op{Kind: OpBlit})
}

func (r *Recorder) EncodePNG(io.Writer) error { return nil }

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = nil }

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// OfKind returns all recorded ops of the given kind, in order.
func (r *Recorder) OfKind(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// HasText reports whether any text op rendered exactly s.
func (r *Recorder) HasText(s string) bool {
	for _, op := range r.Ops {
		if op.Kind == OpText && op.Text == s {
			return true
		}
	}
	return false
}
