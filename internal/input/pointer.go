package input

import (
	"time"

	"github.com/schollz/waveseg/internal/types"
)

// DefaultLongPress is how long a still press must be held to count as a long
// press
const DefaultLongPress = 500 * time.Millisecond

// Decoder reduces raw pointer down/move/up events into gestures. Call Tick
// periodically while a press is held so long presses fire without waiting
// for the release.
type Decoder struct {
	LongPressAfter time.Duration
	// DragThreshold is how far the pointer must travel before a press
	// becomes a drag
	DragThreshold float64

	down      bool
	dragging  bool
	longFired bool
	start     types.Point
	last      types.Point
	downAt    time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{LongPressAfter: DefaultLongPress, DragThreshold: 1}
}

// Down starts a press at p
func (d *Decoder) Down(p types.Point, at time.Time) []Gesture {
	d.down, d.dragging, d.longFired = true, false, false
	d.start, d.last, d.downAt = p, p, at
	return nil
}

// Move reports pointer motion. Once the pointer has left the threshold every
// move is a horizontal drag carrying the x delta since the previous event.
func (d *Decoder) Move(p types.Point, at time.Time) []Gesture {
	if !d.down {
		return nil
	}
	if !d.dragging && !d.longFired && abs(p.X-d.start.X) >= d.DragThreshold {
		d.dragging = true
	}
	if !d.dragging {
		return nil
	}
	delta := p.X - d.last.X
	d.last = p
	if delta == 0 {
		return nil
	}
	return []Gesture{{Kind: HorizontalDrag, Point: p, DeltaPx: delta}}
}

// Up ends the press. A short still press is a tap.
func (d *Decoder) Up(p types.Point, at time.Time) []Gesture {
	if !d.down {
		return nil
	}
	out := d.Tick(at)
	if !d.dragging && !d.longFired {
		out = append(out, Gesture{Kind: Tap, Point: d.start})
	}
	d.down, d.dragging, d.longFired = false, false, false
	return out
}

// Tick fires the long press once the press has been held still long enough
func (d *Decoder) Tick(at time.Time) []Gesture {
	if !d.down || d.dragging || d.longFired {
		return nil
	}
	if at.Sub(d.downAt) < d.LongPressAfter {
		return nil
	}
	d.longFired = true
	return []Gesture{{Kind: LongPress, Point: d.start}}
}

// Pressed reports whether a press is in progress
func (d *Decoder) Pressed() bool {
	return d.down
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
