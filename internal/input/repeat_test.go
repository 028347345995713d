package input

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fireLog struct {
	mu  sync.Mutex
	got []int64
}

func (f *fireLog) fire(byMs int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, byMs)
}

func (f *fireLog) snapshot() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.got)
}

func TestRepeater(t *testing.T) {
	t.Run("press nudges once straight away", func(t *testing.T) {
		r := NewRepeater()
		log := &fireLog{}
		r.Press(-1, log.fire)
		assert.Equal(t, []int64{-10}, log.snapshot())
		assert.True(t, r.Active())
		r.Release()
		assert.False(t, r.Active())
	})

	t.Run("holding repeats the long nudge", func(t *testing.T) {
		r := NewRepeater()
		r.Delay = 20 * time.Millisecond
		r.Interval = 5 * time.Millisecond
		log := &fireLog{}

		r.Press(1, log.fire)
		assert.Eventually(t, func() bool {
			return len(log.snapshot()) >= 3
		}, time.Second, 5*time.Millisecond)
		r.Release()

		got := log.snapshot()
		assert.Equal(t, int64(10), got[0])
		for _, v := range got[1:] {
			assert.Equal(t, int64(50), v)
		}

		// nothing fires after release
		n := len(log.snapshot())
		time.Sleep(30 * time.Millisecond)
		assert.LessOrEqual(t, len(log.snapshot()), n+1, "at most one tick already in flight")
	})

	t.Run("release before the delay stops repeats", func(t *testing.T) {
		r := NewRepeater()
		r.Delay = 50 * time.Millisecond
		log := &fireLog{}
		r.Press(1, log.fire)
		r.Stop()
		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, []int64{10}, log.snapshot())
	})

	t.Run("a new press replaces the old one", func(t *testing.T) {
		r := NewRepeater()
		log := &fireLog{}
		r.Press(1, log.fire)
		r.Press(-1, log.fire)
		assert.Equal(t, []int64{10, -10}, log.snapshot())
		r.Release()
		r.Release()
		assert.False(t, r.Active())
	})
}
