package surface

import (
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
)

// Raster is the default pure-Go surface backed by a gg context.
type Raster struct {
	dc *gg.Context
	w  int
	h  int
}

// NewRaster creates a gg-backed surface of the given pixel size.
func NewRaster(w, h int) *Raster {
	return &Raster{dc: gg.NewContext(w, h), w: w, h: h}
}

// NewRasterSurface is a Factory for the gg backend.
func NewRasterSurface(w, h int) Surface {
	return NewRaster(w, h)
}

func (r *Raster) Size() (int, int) { return r.w, r.h }

func (r *Raster) Clear(bg color.Color) {
	r.dc.SetColor(bg)
	r.dc.Clear()
}

func (r *Raster) path(pts []Point) {
	r.dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			r.dc.MoveTo(p.X, p.Y)
		} else {
			r.dc.LineTo(p.X, p.Y)
		}
	}
}

func (r *Raster) StrokePath(pts []Point, c color.Color, width float64, dash []float64) {
	if len(pts) == 0 {
		return
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	if len(dash) > 0 {
		r.dc.SetDash(dash...)
	} else {
		r.dc.SetDash()
	}
	if len(pts) == 1 {
		// degenerate segment still leaves a visible dot
		r.dc.DrawLine(pts[0].X, pts[0].Y, pts[0].X+0.1, pts[0].Y)
	} else {
		r.path(pts)
	}
	r.dc.Stroke()
	r.dc.SetDash()
}

func (r *Raster) StrokeSegments(segs [][2]Point, c color.Color, width float64, dash []float64) {
	if len(segs) == 0 {
		return
	}
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	if len(dash) > 0 {
		r.dc.SetDash(dash...)
	} else {
		r.dc.SetDash()
	}
	for _, s := range segs {
		r.dc.NewSubPath()
		r.dc.MoveTo(s[0].X, s[0].Y)
		r.dc.LineTo(s[1].X, s[1].Y)
	}
	r.dc.Stroke()
	r.dc.SetDash()
}

func (r *Raster) FillPath(pts []Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	r.dc.SetColor(c)
	r.path(pts)
	r.dc.ClosePath()
	r.dc.Fill()
}

func (r *Raster) FillPathVGradient(pts []Point, top, bottom color.Color, y0, y1 float64) {
	if len(pts) < 3 {
		return
	}
	grad := gg.NewLinearGradient(0, y0, 0, y1)
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	r.dc.SetFillStyle(grad)
	r.path(pts)
	r.dc.ClosePath()
	r.dc.Fill()
}

func (r *Raster) Line(x0, y0, x1, y1 float64, c color.Color, width float64, dash []float64) {
	r.StrokePath([]Point{{x0, y0}, {x1, y1}}, c, width, dash)
}

func (r *Raster) FillRect(rc Rect, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.Fill()
}

func (r *Raster) StrokeRect(rc Rect, c color.Color, width float64) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.Stroke()
}

func (r *Raster) FillRoundedRect(rc Rect, radius float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, radius)
	r.dc.Fill()
}

func (r *Raster) StrokeRoundedRect(rc Rect, radius float64, c color.Color, width float64) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, radius)
	r.dc.Stroke()
}

func (r *Raster) Text(s string, x, y float64, c color.Color, align Align) {
	r.dc.SetColor(c)
	ax := 0.0
	switch align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1.0
	}
	r.dc.DrawStringAnchored(s, x, y, ax, 0.5)
}

func (r *Raster) MeasureText(s string) (float64, float64) {
	w, _ := r.dc.MeasureString(s)
	return w, r.dc.FontHeight()
}

func (r *Raster) PushClip(rc Rect) {
	r.dc.Push()
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.Clip()
}

func (r *Raster) PopClip() {
	r.dc.Pop()
}

func (r *Raster) BlitFrom(src Surface) {
	s, ok := src.(*Raster)
	if !ok {
		return
	}
	r.dc.DrawImage(s.dc.Image(), 0, 0)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}
