package model

import "github.com/schollz/waveseg/internal/types"

// Keyboard navigation of the picker window

const (
	jogStep     = 0.005 // 0.5% of the window
	jogStepFast = 0.05  // 5%
	zoomInBy    = 0.8
	zoomOutBy   = 1.25
	// share of the gap to the segment center closed on each zoom
	zoomCentering = 0.3
)

// JogView pans the window left (direction < 0) or right keeping its length.
// The window stops at the clip edges.
func (w *WindowSegment) JogView(direction float64, fast bool) {
	length := w.window.Duration()
	stepPercent := jogStep
	if fast {
		stepPercent = jogStepFast
	}
	step := int64(float64(length) * stepPercent * direction)
	if step == 0 {
		if direction > 0 {
			step = 1
		} else if direction < 0 {
			step = -1
		}
	}

	next := types.Segment{Start: w.window.Start + step, End: w.window.End + step}
	if next.Start < 0 {
		next = types.Segment{Start: 0, End: length}
	}
	if next.End > w.durationMs {
		next.End = w.durationMs
		next.Start = max(next.End-length, 0)
	}
	if next == w.window {
		return
	}
	w.setWindow(next)
}

// ZoomView shrinks the window by 20% or grows it by 25%. Each zoom pulls the
// window center 30% of the way toward the segment center, so repeated zooming
// homes in on the pick.
func (w *WindowSegment) ZoomView(zoomIn bool) {
	length := float64(w.window.Duration())
	center := float64(w.window.Start+w.window.End) / 2
	target := float64(w.segment.Start+w.segment.End) / 2
	center += (target - center) * zoomCentering

	newLength := length * zoomOutBy
	if zoomIn {
		newLength = length * zoomInBy
	}
	newLength = min(max(newLength, float64(w.minWindow)), float64(w.durationMs))

	span := int64(newLength)
	start := int64(center - newLength/2)
	next := types.Segment{Start: start, End: start + span}
	if next.Start < 0 {
		next = types.Segment{Start: 0, End: span}
	}
	if next.End > w.durationMs {
		next.End = w.durationMs
		next.Start = max(next.End-span, 0)
	}
	if next == w.window {
		return
	}
	w.setWindow(next)
}
