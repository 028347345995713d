// Package timeaxis maps between clip time in milliseconds and canvas pixels.
//
// The mapping is the straight line through (start, 0) and (end, width):
//
//	px = width * (t - start) / (end - start)
//
// and its inverse
//
//	t = (px * (end - start) / width) + start
//
// The axis keeps nothing but the last canvas width it was told about, since
// gestures arrive in pixels while segments live in time.
package timeaxis

import (
	"fmt"
	"math"
)

// Axis is the time/pixel mapping for one clip
type Axis struct {
	durationMs int64
	width      float64
}

// New returns an axis for a clip of durationMs with no canvas width yet
func New(durationMs int64) *Axis {
	return &Axis{durationMs: durationMs}
}

// SetWidth records the latest canvas width
func (a *Axis) SetWidth(width float64) {
	if width < 0 {
		width = 0
	}
	a.width = width
}

// Width returns the last recorded canvas width
func (a *Axis) Width() float64 {
	return a.width
}

// DurationMs returns the clip duration the axis spans
func (a *Axis) DurationMs() int64 {
	return a.durationMs
}

// DurationToPx maps timeMs over the whole clip
func (a *Axis) DurationToPx(timeMs int64) float64 {
	return a.DurationToPxIn(timeMs, 0, a.durationMs)
}

// DurationToPxIn maps timeMs with the canvas spanning [startMs, endMs]
func (a *Axis) DurationToPxIn(timeMs, startMs, endMs int64) float64 {
	span := endMs - startMs
	if span == 0 {
		return 0
	}
	return a.width * float64(timeMs-startMs) / float64(span)
}

// PxToDuration maps a pixel offset back to time over the whole clip.
// Called with a drag delta it yields a time delta.
func (a *Axis) PxToDuration(px float64) int64 {
	return a.PxToDurationIn(px, 0, a.durationMs)
}

// PxToDurationIn is the inverse of DurationToPxIn. The fractional part is
// dropped toward zero so equal left and right drags move by equal amounts.
func (a *Axis) PxToDurationIn(px float64, startMs, endMs int64) int64 {
	if a.width == 0 {
		return startMs
	}
	ms := px * float64(endMs-startMs) / a.width
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return startMs
	}
	return int64(ms) + startMs
}

// Span returns the pixel extent [x0, x1] of a time range over the whole clip
func (a *Axis) Span(startMs, endMs int64) (float64, float64) {
	return a.DurationToPx(startMs), a.DurationToPx(endMs)
}

// Contains reports whether x lies within the pixel extent of [startMs, endMs]
func (a *Axis) Contains(x float64, startMs, endMs int64) bool {
	x0, x1 := a.Span(startMs, endMs)
	return x >= x0 && x <= x1
}

// MmSs formats ms as m:ss
func MmSs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Seconds formats ms as seconds with two decimals
func Seconds(ms int64) string {
	return fmt.Sprintf("%.2f", float64(ms)/1000)
}
