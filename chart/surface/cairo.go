//go:build cairo

package surface

import (
	"image/color"
	"io"
	"math"

	"github.com/evmar/gocairo/cairo"
)

// Cairo is an optional cgo surface backed by a cairo image surface. Build
// with -tags cairo to use it; the default build relies on the pure-Go
// Raster backend.
type Cairo struct {
	surface *cairo.ImageSurface
	context *cairo.Context
	w, h    int
}

// NewCairo creates a cairo-backed surface of the given pixel size.
func NewCairo(w, h int) *Cairo {
	s := cairo.ImageSurfaceCreate(cairo.FormatARGB32, w, h)
	return &Cairo{
		surface: s,
		context: cairo.Create(s.Surface),
		w:       w,
		h:       h,
	}
}

// NewCairoSurface is a Factory for the cairo backend.
func NewCairoSurface(w, h int) Surface {
	return NewCairo(w, h)
}

func (c *Cairo) Size() (int, int) { return c.w, c.h }

func (c *Cairo) setColor(col color.Color) {
	r, g, b, a := col.RGBA()
	c.context.SetSourceRGBA(float64(r)/65535, float64(g)/65535, float64(b)/65535, float64(a)/65535)
}

func (c *Cairo) setDash(dash []float64) {
	if len(dash) > 0 {
		c.context.SetDash(dash, 0)
	} else {
		c.context.SetDash(nil, 0)
	}
}

func (c *Cairo) Clear(bg color.Color) {
	c.setColor(bg)
	c.context.Rectangle(0, 0, float64(c.w), float64(c.h))
	c.context.Fill()
}

func (c *Cairo) path(pts []Point) {
	for i, p := range pts {
		if i == 0 {
			c.context.MoveTo(p.X, p.Y)
		} else {
			c.context.LineTo(p.X, p.Y)
		}
	}
}

func (c *Cairo) StrokePath(pts []Point, col color.Color, width float64, dash []float64) {
	if len(pts) == 0 {
		return
	}
	c.setColor(col)
	c.context.SetLineWidth(width)
	c.setDash(dash)
	c.path(pts)
	c.context.Stroke()
	c.setDash(nil)
}

func (c *Cairo) StrokeSegments(segs [][2]Point, col color.Color, width float64, dash []float64) {
	if len(segs) == 0 {
		return
	}
	c.setColor(col)
	c.context.SetLineWidth(width)
	c.setDash(dash)
	for _, s := range segs {
		c.context.MoveTo(s[0].X, s[0].Y)
		c.context.LineTo(s[1].X, s[1].Y)
	}
	c.context.Stroke()
	c.setDash(nil)
}

func (c *Cairo) FillPath(pts []Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.setColor(col)
	c.path(pts)
	c.context.ClosePath()
	c.context.Fill()
}

func (c *Cairo) FillPathVGradient(pts []Point, top, bottom color.Color, y0, y1 float64) {
	// cairo gradients are not wired through the binding we use; fall back
	// to a flat fill with the top color.
	c.FillPath(pts, top)
	_ = bottom
	_, _ = y0, y1
}

func (c *Cairo) Line(x0, y0, x1, y1 float64, col color.Color, width float64, dash []float64) {
	c.StrokePath([]Point{{x0, y0}, {x1, y1}}, col, width, dash)
}

func (c *Cairo) FillRect(rc Rect, col color.Color) {
	c.setColor(col)
	c.context.Rectangle(rc.X, rc.Y, rc.W, rc.H)
	c.context.Fill()
}

func (c *Cairo) StrokeRect(rc Rect, col color.Color, width float64) {
	c.setColor(col)
	c.context.SetLineWidth(width)
	c.context.Rectangle(rc.X, rc.Y, rc.W, rc.H)
	c.context.Stroke()
}

func (c *Cairo) roundedRectPath(rc Rect, radius float64) {
	x, y, w, h := rc.X, rc.Y, rc.W, rc.H
	c.context.MoveTo(x+radius, y)
	c.context.Arc(x+w-radius, y+radius, radius, -math.Pi/2, 0)
	c.context.Arc(x+w-radius, y+h-radius, radius, 0, math.Pi/2)
	c.context.Arc(x+radius, y+h-radius, radius, math.Pi/2, math.Pi)
	c.context.Arc(x+radius, y+radius, radius, math.Pi, 3*math.Pi/2)
	c.context.ClosePath()
}

func (c *Cairo) FillRoundedRect(rc Rect, radius float64, col color.Color) {
	c.setColor(col)
	c.roundedRectPath(rc, radius)
	c.context.Fill()
}

func (c *Cairo) StrokeRoundedRect(rc Rect, radius float64, col color.Color, width float64) {
	c.setColor(col)
	c.context.SetLineWidth(width)
	c.roundedRectPath(rc, radius)
	c.context.Stroke()
}

func (c *Cairo) Text(s string, x, y float64, col color.Color, align Align) {
	c.setColor(col)
	var te cairo.TextExtents
	c.context.TextExtents(s, &te)
	var fe cairo.FontExtents
	c.context.FontExtents(&fe)
	switch align {
	case AlignCenter:
		x -= te.Width / 2
	case AlignRight:
		x -= te.Width
	}
	c.context.MoveTo(x, y+fe.Ascent/2)
	c.context.TextPath(s)
	c.context.Fill()
}

func (c *Cairo) MeasureText(s string) (float64, float64) {
	var te cairo.TextExtents
	c.context.TextExtents(s, &te)
	var fe cairo.FontExtents
	c.context.FontExtents(&fe)
	return te.Width, fe.Height
}

func (c *Cairo) PushClip(rc Rect) {
	c.context.Save()
	c.context.Rectangle(rc.X, rc.Y, rc.W, rc.H)
	c.context.Clip()
}

func (c *Cairo) PopClip() {
	c.context.Restore()
}

func (c *Cairo) BlitFrom(src Surface) {
	s, ok := src.(*Cairo)
	if !ok {
		return
	}
	s.surface.Flush()
	c.context.SetSourceSurface(s.surface.Surface, 0, 0)
	c.context.Paint()
}

func (c *Cairo) EncodePNG(w io.Writer) error {
	c.surface.Flush()
	c.surface.WriteToPNG(w)
	return nil
}
