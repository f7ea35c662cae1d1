package chart

// DefaultDrawBudget bounds the number of samples emitted to the renderer
// per series during a full repaint.
const DefaultDrawBudget = 5000

// Viewport is the derived per-draw sampling decision over a dataset. It is
// recomputed on every full redraw (data change or resize) and never cached
// across pointer-move redraws, which reuse the compute surface via blit.
type Viewport struct {
	Start  int // inclusive
	End    int // exclusive
	Stride int // >= 1; 1 means no decimation
}

// ComputeViewport decides the sampling for a dataset of length n under a
// maximum-draw-points budget. A non-positive budget falls back to
// DefaultDrawBudget.
func ComputeViewport(n, budget int) Viewport {
	if budget <= 0 {
		budget = DefaultDrawBudget
	}
	vp := Viewport{Start: 0, End: n, Stride: 1}
	if n > budget {
		vp.Stride = (n + budget - 1) / budget
	}
	return vp
}

// Indices returns the sample indices to render: the identity sequence when
// no decimation applies, otherwise every Stride-th index with the final
// index force-appended so the rendered line always reaches the true last
// sample. The result is strictly increasing and at most budget+1 long.
func (v Viewport) Indices() []int {
	n := v.End - v.Start
	if n <= 0 {
		return nil
	}
	if v.Stride <= 1 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = v.Start + i
		}
		return idx
	}
	idx := make([]int, 0, n/v.Stride+2)
	for i := v.Start; i < v.End; i += v.Stride {
		idx = append(idx, i)
	}
	if last := v.End - 1; idx[len(idx)-1] != last {
		idx = append(idx, last)
	}
	return idx
}

// Downsampled reports whether the viewport decimates.
func (v Viewport) Downsampled() bool {
	return v.Stride > 1
}
