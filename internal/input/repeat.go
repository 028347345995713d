package input

import (
	"sync"
	"time"

	"github.com/schollz/waveseg/internal/types"
)

// Repeater implements the nudge buttons: a press nudges once by Tap ms and
// holding it past Delay keeps nudging by Hold ms every Interval until it is
// released.
type Repeater struct {
	Tap      int64
	Hold     int64
	Delay    time.Duration
	Interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewRepeater returns a repeater with the stock nudge sizes
func NewRepeater() *Repeater {
	return &Repeater{
		Tap:      types.TapAdjustmentMs,
		Hold:     types.LongTapAdjustmentMs,
		Delay:    DefaultLongPress,
		Interval: 10 * time.Millisecond,
	}
}

// Press calls fire(sign*Tap) straight away and starts repeating
// fire(sign*Hold) once the press has lasted Delay. fire runs on the
// repeater's goroutine for the repeats, so hosts with a single event loop
// should forward it as a message.
func (r *Repeater) Press(sign int64, fire func(byMs int64)) {
	r.Release()
	fire(sign * r.Tap)

	stop := make(chan struct{})
	r.mu.Lock()
	r.stop = stop
	r.mu.Unlock()

	go func() {
		wait := time.NewTimer(r.Delay)
		defer wait.Stop()
		select {
		case <-stop:
			return
		case <-wait.C:
		}

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fire(sign * r.Hold)
			}
		}
	}()
}

// Release stops any repeating
func (r *Repeater) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Stop is Release for teardown
func (r *Repeater) Stop() {
	r.Release()
}

// Active reports whether a press is being held
func (r *Repeater) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}
