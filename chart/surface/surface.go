// Package surface abstracts the two raster targets of the chart's
// double-buffering scheme: a compute surface that is fully redrawn on data
// or size changes, and a display surface that receives a one-blit copy plus
// the transient cursor overlay.
//
// The default backend draws through gg (pure Go). An optional cairo
// backend is available behind the "cairo" build tag.
package surface

import (
	"image/color"
	"io"
)

// Point is a device-pixel coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x,y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Align selects horizontal text anchoring relative to the given x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is one raster target. Text y coordinates address the vertical
// center of the rendered line. Every drawing call carries its own style so
// surfaces hold no pen state between operations.
type Surface interface {
	Size() (w, h int)

	// Clear fills the whole surface with bg.
	Clear(bg color.Color)

	// StrokePath strokes an open polyline. A nil dash means solid.
	StrokePath(pts []Point, c color.Color, width float64, dash []float64)

	// StrokeSegments strokes disjoint segments in one batched pass. Used
	// for gap spans so the style switch happens once per series.
	StrokeSegments(segs [][2]Point, c color.Color, width float64, dash []float64)

	// FillPath fills the closed polygon described by pts.
	FillPath(pts []Point, c color.Color)

	// FillPathVGradient fills the closed polygon with a vertical gradient
	// running from top (at y0) to bottom (at y1).
	FillPathVGradient(pts []Point, top, bottom color.Color, y0, y1 float64)

	Line(x0, y0, x1, y1 float64, c color.Color, width float64, dash []float64)
	FillRect(r Rect, c color.Color)
	StrokeRect(r Rect, c color.Color, width float64)
	FillRoundedRect(r Rect, radius float64, c color.Color)
	StrokeRoundedRect(r Rect, radius float64, c color.Color, width float64)

	Text(s string, x, y float64, c color.Color, align Align)
	MeasureText(s string) (w, h float64)

	// PushClip restricts subsequent drawing to r until PopClip.
	PushClip(r Rect)
	PopClip()

	// BlitFrom copies the full contents of src onto this surface in one
	// operation. Both surfaces must have equal sizes and come from the
	// same backend.
	BlitFrom(src Surface)

	// EncodePNG writes the surface contents as PNG.
	EncodePNG(w io.Writer) error
}

// Factory creates same-backend surfaces; the chart uses it to build its
// compute/display pair and to rebuild them on resize.
type Factory func(w, h int) Surface
