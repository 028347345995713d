package model

import "github.com/schollz/waveseg/internal/types"

// rangeLimits bounds how one edge of a range may move. floor and ceil are the
// outer walls (a neighbour, the window or the clip), minDur and maxDur the
// allowed length of the range.
type rangeLimits struct {
	floor  int64
	ceil   int64
	minDur int64
	maxDur int64
}

// clampStart moves r.Start by byMs, clamped to
// [max(floor, End-maxDur), End-minDur]. An empty clamp interval leaves Start
// where it is.
func clampStart(r types.Segment, byMs int64, l rangeLimits) int64 {
	lo := max(l.floor, r.End-l.maxDur)
	hi := r.End - l.minDur
	if lo > hi {
		return r.Start
	}
	return clamp64(r.Start+byMs, lo, hi)
}

// clampEnd moves r.End by byMs, clamped to
// [Start+minDur, min(ceil, Start+maxDur)].
func clampEnd(r types.Segment, byMs int64, l rangeLimits) int64 {
	lo := r.Start + l.minDur
	hi := min(l.ceil, r.Start+l.maxDur)
	if lo > hi {
		return r.End
	}
	return clamp64(r.End+byMs, lo, hi)
}

// shift moves both bounds of r by byMs. The move is all or nothing: if either
// bound would leave [lo, hi] the range stays put and ok is false.
func shift(r types.Segment, byMs, lo, hi int64) (types.Segment, bool) {
	if byMs == 0 {
		return r, false
	}
	moved := types.Segment{Start: r.Start + byMs, End: r.End + byMs}
	if moved.Start < lo || moved.End > hi {
		return r, false
	}
	return moved, true
}

// fitInside slides r into outer, keeping its length when it fits and
// collapsing it to outer when it does not.
func fitInside(r, outer types.Segment) types.Segment {
	d := r.Duration()
	if d >= outer.Duration() {
		return outer
	}
	if r.Start < outer.Start {
		r = types.Segment{Start: outer.Start, End: outer.Start + d}
	}
	if r.End > outer.End {
		r = types.Segment{Start: outer.End - d, End: outer.End}
	}
	return r
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// segmentLimits resolves the configured minimum and maximum segment length
// against a clip. The minimum never drops under the 50 ms floor, neither
// bound exceeds the clip and the maximum is never below the minimum.
func segmentLimits(durationMs, minimumMs, maximumMs int64) (int64, int64) {
	minDur := min(durationMs, max(minimumMs, types.MinimumSegmentDurationFloor))
	maxDur := max(min(maximumMs, durationMs), minDur)
	return minDur, maxDur
}
