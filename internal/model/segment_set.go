package model

import (
	"cmp"
	"slices"

	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

// SegmentSet is the multi-segment editor. Segments stay ordered by start and
// never overlap; at most one is active, and while a group is being built for
// merging nothing is active.
type SegmentSet struct {
	axis       *timeaxis.Axis
	durationMs int64
	minDur     int64
	maxDur     int64

	segments []types.Segment
	active   int
	grouped  []int

	undo [][]types.Segment
	redo [][]types.Segment

	marker    int64
	hasMarker bool

	observers
}

// NewSegmentSet builds a set over the clip described by axis. Initial
// segments shorter than the resolved minimum, or outside the clip, are
// dropped. The first remaining segment starts active.
func NewSegmentSet(axis *timeaxis.Axis, initial []types.Segment, minimumMs, maximumMs int64) *SegmentSet {
	durationMs := axis.DurationMs()
	minDur, maxDur := segmentLimits(durationMs, minimumMs, maximumMs)

	kept := make([]types.Segment, 0, len(initial))
	for _, seg := range initial {
		if seg.Duration() >= minDur && seg.Valid(durationMs) {
			kept = append(kept, seg)
		}
	}
	slices.SortStableFunc(kept, func(a, b types.Segment) int {
		return cmp.Compare(a.Start, b.Start)
	})

	s := &SegmentSet{
		axis:       axis,
		durationMs: durationMs,
		minDur:     minDur,
		maxDur:     maxDur,
		segments:   kept,
		active:     -1,
	}
	if len(kept) > 0 {
		s.active = 0
	}
	return s
}

// Segments returns a copy of the current segments
func (s *SegmentSet) Segments() []types.Segment {
	return slices.Clone(s.segments)
}

// Active returns the active index, if any
func (s *SegmentSet) Active() (int, bool) {
	return s.active, s.active >= 0
}

// ActiveSegment returns the active segment, if any
func (s *SegmentSet) ActiveSegment() (types.Segment, bool) {
	if s.active < 0 || s.active >= len(s.segments) {
		return types.Segment{}, false
	}
	return s.segments[s.active], true
}

// Grouped returns the grouped indices in ascending order
func (s *SegmentSet) Grouped() []int {
	return slices.Clone(s.grouped)
}

func (s *SegmentSet) CanUndo() bool { return len(s.undo) > 0 }
func (s *SegmentSet) CanRedo() bool { return len(s.redo) > 0 }

// Limits returns the resolved minimum and maximum segment length
func (s *SegmentSet) Limits() (int64, int64) {
	return s.minDur, s.maxDur
}

func (s *SegmentSet) DurationMs() int64 {
	return s.durationMs
}

// hitTest returns the first segment whose pixel extent contains x, or -1
func (s *SegmentSet) hitTest(x float64) int {
	for i, seg := range s.segments {
		if s.axis.Contains(x, seg.Start, seg.End) {
			return i
		}
	}
	return -1
}

// AddSegment appends a minimum-length segment after the last one and makes it
// active. Nothing happens when the clip has no room left.
func (s *SegmentSet) AddSegment() {
	var start int64
	if n := len(s.segments); n > 0 {
		start = s.segments[n-1].End
	}
	if start+s.minDur > s.durationMs {
		return
	}
	end := min(start+s.minDur, s.durationMs)
	s.segments = append(s.segments, types.Segment{Start: start, End: end})
	s.active = len(s.segments) - 1
	s.grouped = nil
	s.notify()
}

// RemoveActive deletes the active segment. The one before it becomes active.
func (s *SegmentSet) RemoveActive() {
	if s.active < 0 || s.active >= len(s.segments) {
		return
	}
	idx := s.active
	s.segments = slices.Delete(s.segments, idx, idx+1)
	if len(s.segments) == 0 || idx-1 < 0 {
		s.active = -1
	} else {
		s.active = idx - 1
	}
	s.notify()
}

// RemoveAll clears every segment. The previous list can be restored with Undo.
func (s *SegmentSet) RemoveAll() {
	s.active = -1
	s.grouped = nil
	s.pushUndo()
	s.segments = nil
	s.notify()
}

// OnTap toggles the segment under p, see Toggle
func (s *SegmentSet) OnTap(p types.Point) {
	if idx := s.hitTest(p.X); idx >= 0 {
		s.Toggle(idx)
	}
}

// Toggle flips segment idx between active and inactive, or when a group is
// being built flips its membership. The group is always widened to the
// contiguous run between its lowest and highest index.
func (s *SegmentSet) Toggle(idx int) {
	if idx < 0 || idx >= len(s.segments) {
		return
	}

	if len(s.grouped) == 0 {
		if s.active == idx {
			s.active = -1
		} else {
			s.active = idx
		}
		s.notify()
		return
	}

	picked := slices.Clone(s.grouped)
	if i := slices.Index(picked, idx); i >= 0 {
		picked = slices.Delete(picked, i, i+1)
	} else {
		picked = append(picked, idx)
	}
	s.grouped = contiguous(picked)
	s.notify()
}

// OnLongPress starts a group from the segment under p
func (s *SegmentSet) OnLongPress(p types.Point) {
	if idx := s.hitTest(p.X); idx >= 0 {
		s.StartGroup(idx)
	}
}

// StartGroup clears the active segment and starts a new group holding idx
func (s *SegmentSet) StartGroup(idx int) {
	if idx < 0 || idx >= len(s.segments) {
		return
	}
	s.active = -1
	s.grouped = []int{idx}
	s.notify()
}

// OnHorizontalDrag resizes the active segment when the pointer is within
// touchTarget of an edge. A segment narrower than two touch targets may have
// both edges moved by the same drag.
func (s *SegmentSet) OnHorizontalDrag(p types.Point, deltaPx, touchTarget float64) {
	seg, ok := s.ActiveSegment()
	if !ok {
		return
	}
	xStart := s.axis.DurationToPx(seg.Start)
	xEnd := s.axis.DurationToPx(seg.End)
	by := s.axis.PxToDuration(deltaPx)

	if abs(xEnd-p.X) <= touchTarget {
		s.AddToEnd(by)
	}
	if abs(xStart-p.X) <= touchTarget {
		s.AddToStart(by)
	}
}

// AddToStart moves the active segment's start by byMs, staying clear of the
// previous segment and within the length limits.
func (s *SegmentSet) AddToStart(byMs int64) {
	seg, ok := s.ActiveSegment()
	if !ok {
		return
	}
	var floor int64
	if s.active > 0 {
		floor = s.segments[s.active-1].End
	}
	start := clampStart(seg, byMs, rangeLimits{floor: floor, ceil: s.durationMs, minDur: s.minDur, maxDur: s.maxDur})
	if start == seg.Start {
		return
	}
	s.segments[s.active].Start = start
	s.notify()
}

// AddToEnd moves the active segment's end by byMs, staying clear of the next
// segment and within the length limits.
func (s *SegmentSet) AddToEnd(byMs int64) {
	seg, ok := s.ActiveSegment()
	if !ok {
		return
	}
	ceil := s.durationMs
	if s.active+1 < len(s.segments) {
		ceil = s.segments[s.active+1].Start
	}
	end := clampEnd(seg, byMs, rangeLimits{floor: 0, ceil: ceil, minDur: s.minDur, maxDur: s.maxDur})
	if end == seg.End {
		return
	}
	s.segments[s.active].End = end
	s.notify()
}

// MergeGrouped replaces the grouped run with one segment spanning it. At
// least two segments must be grouped.
func (s *SegmentSet) MergeGrouped() {
	if len(s.grouped) < 2 {
		return
	}
	firstIdx, lastIdx := s.grouped[0], s.grouped[len(s.grouped)-1]
	if firstIdx < 0 || lastIdx >= len(s.segments) || firstIdx > lastIdx {
		return
	}

	s.pushUndo()
	merged := types.Segment{Start: s.segments[firstIdx].Start, End: s.segments[lastIdx].End}
	s.segments = slices.Replace(s.segments, firstIdx, lastIdx+1, merged)
	s.grouped = nil
	s.notify()
}

// ClearGroup leaves grouping mode without merging
func (s *SegmentSet) ClearGroup() {
	if len(s.grouped) == 0 {
		return
	}
	s.grouped = nil
	s.notify()
}

// Undo restores the list saved by the last merge or clear. The active
// segment and any group are dropped since their indices no longer apply.
func (s *SegmentSet) Undo() {
	s.active = -1
	s.grouped = nil
	if len(s.undo) == 0 {
		s.notify()
		return
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, slices.Clone(s.segments))
	s.segments = prev
	s.notify()
}

// Redo reapplies the last undone change
func (s *SegmentSet) Redo() {
	s.active = -1
	s.grouped = nil
	if len(s.redo) == 0 {
		s.notify()
		return
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, slices.Clone(s.segments))
	s.segments = next
	s.notify()
}

func (s *SegmentSet) pushUndo() {
	s.undo = append(s.undo, slices.Clone(s.segments))
}

// ZoomRange is the time range shown in the detail view: the active segment,
// bounded by its neighbours.
func (s *SegmentSet) ZoomRange() (types.Segment, bool) {
	seg, ok := s.ActiveSegment()
	if !ok {
		return types.Segment{}, false
	}
	view := seg
	if s.active > 0 {
		view.Start = max(view.Start, s.segments[s.active-1].End)
	}
	if s.active+1 < len(s.segments) {
		view.End = min(view.End, s.segments[s.active+1].Start)
	}
	return view, true
}

// AddMarker captures a segment in two presses. The first press remembers
// posMs as the start, the second closes the segment at posMs. The captured
// range is stretched to the minimum length, cut to the maximum, and dropped
// if it would overlap an existing segment.
func (s *SegmentSet) AddMarker(posMs int64) {
	posMs = clamp64(posMs, 0, s.durationMs)
	if !s.hasMarker {
		s.marker, s.hasMarker = posMs, true
		s.notify()
		return
	}

	start, end := s.marker, posMs
	s.hasMarker = false
	if end < start {
		start, end = end, start
	}
	if end-start < s.minDur {
		end = start + s.minDur
		if end > s.durationMs {
			end = s.durationMs
			start = end - s.minDur
		}
	}
	if end-start > s.maxDur {
		end = start + s.maxDur
	}

	seg := types.Segment{Start: start, End: end}
	idx := len(s.segments)
	for i, other := range s.segments {
		if other.Overlaps(seg) {
			s.notify()
			return
		}
		if other.Start >= seg.End && idx == len(s.segments) {
			idx = i
		}
	}
	s.segments = slices.Insert(s.segments, idx, seg)
	s.active = idx
	s.grouped = nil
	s.notify()
}

// PendingMarker returns the start captured by a first AddMarker press
func (s *SegmentSet) PendingMarker() (int64, bool) {
	return s.marker, s.hasMarker
}

// contiguous sorts picked and returns every index from its lowest to highest
func contiguous(picked []int) []int {
	if len(picked) == 0 {
		return nil
	}
	slices.Sort(picked)
	first, last := picked[0], picked[len(picked)-1]
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
