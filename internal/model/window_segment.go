package model

import (
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

// WindowSegment is the picker editor: a zoom window over the clip and one
// segment nested inside it. Edits go to whichever region is selected.
type WindowSegment struct {
	axis       *timeaxis.Axis
	durationMs int64
	minDur     int64
	maxDur     int64
	minWindow  int64

	window  types.Segment
	segment types.Segment
	region  types.ActiveRegion

	observers
}

// NewWindowSegment builds a picker over the clip described by axis. A zero or
// invalid window covers the whole clip; a zero or invalid segment covers its
// first quarter. The segment is then fitted into the window. The window
// region starts selected.
func NewWindowSegment(axis *timeaxis.Axis, window, segment types.Segment, minimumMs, maximumMs int64) *WindowSegment {
	durationMs := axis.DurationMs()
	minWindow := min(int64(types.MinimumWindowDuration), durationMs)
	minDur, maxDur := segmentLimits(durationMs, minimumMs, maximumMs)
	// the segment has to fit in the smallest window
	minDur = min(minDur, minWindow)

	if !window.Valid(durationMs) || window.Duration() < minWindow {
		window = types.Segment{Start: 0, End: durationMs}
	}
	if !segment.Valid(durationMs) {
		segment = types.Segment{Start: 0, End: durationMs / 4}
	}

	w := &WindowSegment{
		axis:       axis,
		durationMs: durationMs,
		minDur:     minDur,
		maxDur:     maxDur,
		minWindow:  minWindow,
		window:     window,
		region:     types.RegionWindow,
	}
	w.segment = w.fitSegment(segment)
	return w
}

func (w *WindowSegment) Window() types.Segment  { return w.window }
func (w *WindowSegment) Segment() types.Segment { return w.segment }

// ActiveRegion returns which region edits target
func (w *WindowSegment) ActiveRegion() types.ActiveRegion { return w.region }

// Active returns the range of the selected region
func (w *WindowSegment) Active() types.Segment {
	if w.region == types.RegionSegment {
		return w.segment
	}
	return w.window
}

// ZoomRange is the time range shown in the detail view
func (w *WindowSegment) ZoomRange() types.Segment {
	return w.window
}

func (w *WindowSegment) DurationMs() int64 {
	return w.durationMs
}

// Select chooses the region later edits target
func (w *WindowSegment) Select(region types.ActiveRegion) {
	if w.region == region {
		return
	}
	w.region = region
	w.notify()
}

func (w *WindowSegment) windowLimits() rangeLimits {
	return rangeLimits{floor: 0, ceil: w.durationMs, minDur: w.minWindow, maxDur: w.durationMs}
}

func (w *WindowSegment) segmentLimits() rangeLimits {
	return rangeLimits{floor: w.window.Start, ceil: w.window.End, minDur: w.minDur, maxDur: w.maxDur}
}

// AddToStart moves the selected region's start by byMs
func (w *WindowSegment) AddToStart(byMs int64) {
	switch w.region {
	case types.RegionWindow:
		start := clampStart(w.window, byMs, w.windowLimits())
		if start == w.window.Start {
			return
		}
		w.setWindow(types.Segment{Start: start, End: w.window.End})
	case types.RegionSegment:
		start := clampStart(w.segment, byMs, w.segmentLimits())
		if start == w.segment.Start {
			return
		}
		w.segment.Start = start
		w.notify()
	}
}

// AddToEnd moves the selected region's end by byMs
func (w *WindowSegment) AddToEnd(byMs int64) {
	switch w.region {
	case types.RegionWindow:
		end := clampEnd(w.window, byMs, w.windowLimits())
		if end == w.window.End {
			return
		}
		w.setWindow(types.Segment{Start: w.window.Start, End: end})
	case types.RegionSegment:
		end := clampEnd(w.segment, byMs, w.segmentLimits())
		if end == w.segment.End {
			return
		}
		w.segment.End = end
		w.notify()
	}
}

// MoveWindow shifts the selected region by byMs without resizing it. The
// window must stay inside the clip and the segment inside the window; a move
// that would push either bound out is ignored.
func (w *WindowSegment) MoveWindow(byMs int64) {
	switch w.region {
	case types.RegionWindow:
		moved, ok := shift(w.window, byMs, 0, w.durationMs)
		if !ok {
			return
		}
		w.setWindow(moved)
	case types.RegionSegment:
		moved, ok := shift(w.segment, byMs, w.window.Start, w.window.End)
		if !ok {
			return
		}
		w.segment = moved
		w.notify()
	}
}

// OnWindowDrag routes a horizontal drag on the selected region. Inside the
// region, away from both edges, the drag moves it; within touchTarget of an
// edge it resizes that edge. Only one action happens per call and the start
// edge wins when both are in reach.
func (w *WindowSegment) OnWindowDrag(p types.Point, deltaPx, touchTarget float64) {
	r := w.Active()
	xStart := w.axis.DurationToPx(r.Start)
	xEnd := w.axis.DurationToPx(r.End)
	by := w.axis.PxToDuration(deltaPx)

	switch {
	case p.X > xStart+touchTarget && p.X < xEnd-touchTarget:
		w.MoveWindow(by)
	case abs(xStart-p.X) <= touchTarget:
		w.AddToStart(by)
	case abs(xEnd-p.X) <= touchTarget:
		w.AddToEnd(by)
	}
}

// setWindow replaces the window and pulls the segment back inside it
func (w *WindowSegment) setWindow(window types.Segment) {
	w.window = window
	w.segment = w.fitSegment(w.segment)
	w.notify()
}

// fitSegment forces seg into the current window and the length limits
func (w *WindowSegment) fitSegment(seg types.Segment) types.Segment {
	if seg.Duration() > w.maxDur {
		seg.End = seg.Start + w.maxDur
	}
	if seg.Duration() < w.minDur {
		seg.End = seg.Start + w.minDur
	}
	fitted := fitInside(seg, w.window)
	if fitted.Duration() > w.maxDur {
		fitted.End = fitted.Start + w.maxDur
	}
	return fitted
}
