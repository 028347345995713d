package timeaxis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationToPx(t *testing.T) {
	a := New(1000)
	a.SetWidth(300)

	assert.Equal(t, 150.0, a.DurationToPxIn(500, 0, 1000))
	assert.Equal(t, int64(500), a.PxToDurationIn(150, 0, 1000))

	assert.Equal(t, 0.0, a.DurationToPx(0))
	assert.Equal(t, 300.0, a.DurationToPx(1000))
}

func TestSubRange(t *testing.T) {
	a := New(10000)
	a.SetWidth(200)

	t.Run("start of range maps to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, a.DurationToPxIn(2000, 2000, 4000))
		assert.Equal(t, 200.0, a.DurationToPxIn(4000, 2000, 4000))
		assert.Equal(t, 100.0, a.DurationToPxIn(3000, 2000, 4000))
	})

	t.Run("inverse adds range start", func(t *testing.T) {
		assert.Equal(t, int64(3000), a.PxToDurationIn(100, 2000, 4000))
		assert.Equal(t, int64(2000), a.PxToDurationIn(0, 2000, 4000))
	})
}

func TestRoundTrip(t *testing.T) {
	for _, width := range []float64{1, 37, 300, 1280.5} {
		for _, duration := range []int64{1, 999, 1000, 20000, 3600000} {
			a := New(duration)
			a.SetWidth(width)
			step := duration / 97
			if step == 0 {
				step = 1
			}
			for ms := int64(0); ms <= duration; ms += step {
				back := a.PxToDuration(a.DurationToPx(ms))
				assert.InDelta(t, ms, back, 1, "width=%v duration=%d ms=%d", width, duration, ms)
			}
		}
	}
}

func TestDragDeltaIsSymmetric(t *testing.T) {
	a := New(20000)
	a.SetWidth(300)

	right := a.PxToDuration(7)
	left := a.PxToDuration(-7)
	assert.Equal(t, right, -left)
	assert.Equal(t, int64(466), right)
}

func TestDegenerate(t *testing.T) {
	t.Run("empty range", func(t *testing.T) {
		a := New(1000)
		a.SetWidth(100)
		assert.Equal(t, 0.0, a.DurationToPxIn(500, 400, 400))
	})

	t.Run("no canvas width yet", func(t *testing.T) {
		a := New(1000)
		assert.Equal(t, 0.0, a.DurationToPx(500))
		assert.Equal(t, int64(0), a.PxToDuration(50))
		assert.Equal(t, int64(250), a.PxToDurationIn(50, 250, 750))
	})

	t.Run("negative width is treated as zero", func(t *testing.T) {
		a := New(1000)
		a.SetWidth(-5)
		assert.Equal(t, 0.0, a.Width())
	})
}

func TestContains(t *testing.T) {
	a := New(1000)
	a.SetWidth(100)

	assert.True(t, a.Contains(10, 100, 200))
	assert.True(t, a.Contains(20, 100, 200))
	assert.True(t, a.Contains(15, 100, 200))
	assert.False(t, a.Contains(21, 100, 200))
	assert.False(t, a.Contains(9.9, 100, 200))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		ms   int64
		mmss string
		secs string
	}{
		{0, "0:00", "0.00"},
		{1500, "0:01", "1.50"},
		{59999, "0:59", "60.00"},
		{61000, "1:01", "61.00"},
		{605250, "10:05", "605.25"},
		{-10, "0:00", "-0.01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.mmss, MmSs(tt.ms), "MmSs(%d)", tt.ms)
		assert.Equal(t, tt.secs, Seconds(tt.ms), "Seconds(%d)", tt.ms)
	}
}
