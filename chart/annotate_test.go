package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridegraph/ridegraph/chart/surface"
)

func speedDataset() *Dataset {
	master := &Dataset{
		Timestamps: []int64{1000, 2000, 3000, 4000, 5000},
		Series: []Series{
			{Name: "Speed (Wheel)", Values: []float64{10, 20, 30, 40, 50}},
			{Name: "Speed (GPS)", Values: []float64{11, 19, 31, 39, 51}},
			{Name: "Altitude (GPS)", Values: []float64{100, 105, 110, 108, 103}},
		},
	}
	return Spec(KindSpeed).Dataset(master)
}

func annotationBoxes(rec *surface.Recorder) []surface.Rect {
	ops := rec.OfKind(surface.OpFillRoundedRect)
	boxes := make([]surface.Rect, len(ops))
	for i, op := range ops {
		boxes[i] = op.Rect
	}
	return boxes
}

func overlaps(a, b surface.Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Bottom() && b.Y < a.Bottom()
}

func TestAnnotationsCursorLineFirst(t *testing.T) {
	d := speedDataset()
	pass, rec := newTestPass(d, GapSampled)
	drawAnnotations(pass, d, Spec(KindSpeed), 2, pass.axis.PixelX(2))

	require.NotEmpty(t, rec.Ops)
	assert.Equal(t, surface.OpLine, rec.Ops[0].Kind, "cursor line is drawn beneath the labels")

	line := rec.Ops[0]
	require.Len(t, line.Points, 2)
	assert.InDelta(t, pass.plot.Y, line.Points[0].Y, 1e-9)
	assert.InDelta(t, pass.plot.Bottom(), line.Points[1].Y, 1e-9)
}

func TestAnnotationsOnePerValidSeries(t *testing.T) {
	d := speedDataset()
	pass, rec := newTestPass(d, GapSampled)
	drawAnnotations(pass, d, Spec(KindSpeed), 2, pass.axis.PixelX(2))

	boxes := annotationBoxes(rec)
	assert.Len(t, boxes, 3)
}

func TestAnnotationsSkipAbsentValues(t *testing.T) {
	d := speedDataset()
	d.Series[1].Values[2] = Absent()

	pass, rec := newTestPass(d, GapSampled)
	drawAnnotations(pass, d, Spec(KindSpeed), 2, pass.axis.PixelX(2))

	assert.Len(t, annotationBoxes(rec), 2, "series without a value at the cursor get no label")
}

func TestAnnotationsNoOverlap(t *testing.T) {
	d := speedDataset()
	for _, idx := range []int{0, 1, 2, 3, 4} {
		pass, rec := newTestPass(d, GapSampled)
		drawAnnotations(pass, d, Spec(KindSpeed), idx, pass.axis.PixelX(idx))

		boxes := annotationBoxes(rec)
		require.Len(t, boxes, 3, "idx=%d", idx)
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if overlaps(boxes[i], boxes[j]) {
					t.Errorf("idx=%d: label boxes %v and %v overlap", idx, boxes[i], boxes[j])
				}
			}
		}
	}
}

func TestAnnotationsEdgeFlip(t *testing.T) {
	d := speedDataset()
	pass, rec := newTestPass(d, GapSampled)

	// cursor hard against the left edge: right-anchored labels cannot fit
	// on the cursor's left and must flip to its right side
	cursorX := pass.plot.X + 1
	drawAnnotations(pass, d, Spec(KindSpeed), 0, cursorX)

	boxes := annotationBoxes(rec)
	require.Len(t, boxes, 3)
	for _, b := range boxes {
		assert.GreaterOrEqual(t, b.X, pass.plot.X, "flipped label left edge stays inside the plot")
		assert.Greater(t, b.X, cursorX, "every label ends up right of the cursor")
	}
}

func TestAnnotationsEdgeFlipRightEdge(t *testing.T) {
	d := speedDataset()
	pass, rec := newTestPass(d, GapSampled)

	cursorX := pass.plot.Right() - 1
	drawAnnotations(pass, d, Spec(KindSpeed), 4, cursorX)

	boxes := annotationBoxes(rec)
	require.Len(t, boxes, 3)
	for _, b := range boxes {
		assert.LessOrEqual(t, b.Right(), pass.plot.Right(), "labels stay inside the plot")
		assert.Less(t, b.Right(), cursorX, "every label ends up left of the cursor")
	}
}

func TestAnnotationsUnmappedSeriesSkipped(t *testing.T) {
	d := &Dataset{
		Timestamps: []int64{1000, 2000},
		Series: []Series{
			{Name: "Speed (Wheel)", Values: []float64{10, 20}},
			{Name: "Mystery", Values: []float64{1, 2}},
		},
	}
	pass, rec := newTestPass(d, GapSampled)
	drawAnnotations(pass, d, Spec(KindSpeed), 1, pass.axis.PixelX(1))

	assert.Len(t, annotationBoxes(rec), 1)
}
