package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

func newTestPicker(window, segment types.Segment) *WindowSegment {
	axis := timeaxis.New(20000)
	axis.SetWidth(200)
	return NewWindowSegment(axis, window, segment, 50, 15000)
}

func TestWindowSegmentDefaults(t *testing.T) {
	w := newTestPicker(types.Segment{}, types.Segment{})
	assert.Equal(t, seg(0, 20000), w.Window())
	assert.Equal(t, seg(0, 5000), w.Segment())
	assert.Equal(t, types.RegionWindow, w.ActiveRegion())
	assert.Equal(t, w.Window(), w.Active())

	t.Run("segment outside the window is pulled in", func(t *testing.T) {
		w := newTestPicker(seg(2000, 6000), seg(8000, 9000))
		assert.Equal(t, seg(5000, 6000), w.Segment())
	})

	t.Run("segment longer than the window collapses onto it", func(t *testing.T) {
		w := newTestPicker(seg(2000, 3000), seg(0, 5000))
		assert.Equal(t, seg(2000, 3000), w.Segment())
	})

	t.Run("segment longer than the maximum is cut", func(t *testing.T) {
		w := newTestPicker(types.Segment{}, seg(0, 18000))
		assert.Equal(t, seg(0, 15000), w.Segment())
	})
}

func TestWindowEdits(t *testing.T) {
	t.Run("start keeps the minimum window", func(t *testing.T) {
		w := newTestPicker(types.Segment{}, types.Segment{})
		w.AddToStart(30000)
		assert.Equal(t, seg(19500, 20000), w.Window())
		assert.Equal(t, seg(19500, 20000), w.Segment(), "segment follows the window")
	})

	t.Run("end keeps the minimum window", func(t *testing.T) {
		w := newTestPicker(types.Segment{}, types.Segment{})
		w.AddToEnd(-30000)
		assert.Equal(t, seg(0, 500), w.Window())
		assert.Equal(t, seg(0, 500), w.Segment())
	})

	t.Run("window stays inside the clip", func(t *testing.T) {
		w := newTestPicker(seg(2000, 10000), seg(3000, 4000))
		w.AddToStart(-5000)
		w.AddToEnd(50000)
		assert.Equal(t, seg(0, 20000), w.Window())
		assert.Equal(t, seg(3000, 4000), w.Segment())
	})
}

func TestSegmentEdits(t *testing.T) {
	w := newTestPicker(seg(2000, 10000), seg(2000, 7000))
	w.Select(types.RegionSegment)
	assert.Equal(t, seg(2000, 7000), w.Active())

	w.AddToStart(-5000)
	assert.Equal(t, seg(2000, 7000), w.Segment(), "start stops at the window start")

	w.AddToEnd(10000)
	assert.Equal(t, seg(2000, 10000), w.Segment(), "end stops at the window end")

	w.AddToStart(100000)
	assert.Equal(t, seg(9950, 10000), w.Segment(), "start keeps the minimum segment")

	w.AddToEnd(-100000)
	assert.Equal(t, seg(9950, 10000), w.Segment(), "end keeps the minimum segment")

	assert.Equal(t, seg(2000, 10000), w.Window(), "segment edits never touch the window")
}

func TestMoveWindow(t *testing.T) {
	t.Run("window move is all or nothing", func(t *testing.T) {
		w := newTestPicker(seg(2000, 10000), seg(2000, 7000))

		w.MoveWindow(-3000)
		assert.Equal(t, seg(2000, 10000), w.Window(), "would clip at 0")

		w.MoveWindow(-2000)
		assert.Equal(t, seg(0, 8000), w.Window())
		assert.Equal(t, seg(2000, 7000), w.Segment())

		w.MoveWindow(12001)
		assert.Equal(t, seg(0, 8000), w.Window(), "would clip at the clip end")

		w.MoveWindow(12000)
		assert.Equal(t, seg(12000, 20000), w.Window())
		assert.Equal(t, seg(12000, 17000), w.Segment(), "segment is dragged along")
	})

	t.Run("segment move stays in the window", func(t *testing.T) {
		w := newTestPicker(seg(0, 8000), seg(2000, 7000))
		w.Select(types.RegionSegment)

		w.MoveWindow(1500)
		assert.Equal(t, seg(2000, 7000), w.Segment(), "would leave the window")

		w.MoveWindow(1000)
		assert.Equal(t, seg(3000, 8000), w.Segment())
		assert.Equal(t, 5000, int(w.Segment().Duration()), "moving never resizes")
	})

	t.Run("zero move does not notify", func(t *testing.T) {
		w := newTestPicker(seg(2000, 10000), seg(2000, 7000))
		calls := 0
		w.Subscribe(func() { calls++ })
		w.MoveWindow(0)
		assert.Equal(t, 0, calls)
	})
}

func TestOnWindowDrag(t *testing.T) {
	// one cell is 100ms
	w := newTestPicker(seg(2000, 10000), seg(3000, 4000))

	// Test 1: dragging the inside moves the window
	t.Run("move", func(t *testing.T) {
		w.OnWindowDrag(types.Point{X: 60}, 10, 5)
		assert.Equal(t, seg(3000, 11000), w.Window())
	})

	// Test 2: dragging near the start edge resizes it
	t.Run("start edge", func(t *testing.T) {
		w.OnWindowDrag(types.Point{X: 30}, -5, 5)
		assert.Equal(t, seg(2500, 11000), w.Window())
	})

	// Test 3: dragging near the end edge resizes it
	t.Run("end edge", func(t *testing.T) {
		w.OnWindowDrag(types.Point{X: 110}, 5, 5)
		assert.Equal(t, seg(2500, 11500), w.Window())
	})

	// Test 4: dragging outside the region does nothing
	t.Run("outside", func(t *testing.T) {
		w.OnWindowDrag(types.Point{X: 190}, 5, 5)
		assert.Equal(t, seg(2500, 11500), w.Window())
	})

	// Test 5: a narrow region only moves its start edge
	t.Run("narrow region", func(t *testing.T) {
		n := newTestPicker(seg(5000, 5500), seg(5000, 5100))
		n.OnWindowDrag(types.Point{X: 52}, -10, 5)
		assert.Equal(t, seg(4000, 5500), n.Window())
	})

	// Test 6: drags target the selected region
	t.Run("segment region", func(t *testing.T) {
		w.Select(types.RegionSegment)
		w.OnWindowDrag(types.Point{X: 35}, 10, 2)
		assert.Equal(t, seg(4000, 5000), w.Segment())
		assert.Equal(t, seg(2500, 11500), w.Window())
	})
}

func TestSelectNotifies(t *testing.T) {
	w := newTestPicker(types.Segment{}, types.Segment{})
	calls := 0
	w.Subscribe(func() { calls++ })

	w.Select(types.RegionSegment)
	w.Select(types.RegionSegment)
	assert.Equal(t, 1, calls)
	assert.Equal(t, types.RegionSegment, w.ActiveRegion())
}
