// Package player drives playback of the clip being edited. The editors never
// touch it directly; the host toggles and seeks it on gestures.
package player

import (
	"sync"
	"time"
)

// Player is the transport the host talks to
type Player interface {
	Play() error
	Pause() error
	Seek(ms int64) error
	Position() int64
	IsPlaying() bool
	// OnStateChange registers fn to run whenever playback starts or stops
	OnStateChange(fn func(playing bool))
}

// Clock is a silent Player that only keeps time. It backs the OSC player and
// stands in when no audio engine is configured.
type Clock struct {
	mu         sync.Mutex
	durationMs int64
	playing    bool
	anchorMs   int64
	anchorAt   time.Time
	listeners  []func(bool)

	now func() time.Time
}

// NewClock returns a stopped clock at 0 for a clip of durationMs
func NewClock(durationMs int64) *Clock {
	return &Clock{durationMs: durationMs, now: time.Now}
}

func (c *Clock) Play() error {
	c.setPlaying(true)
	return nil
}

func (c *Clock) Pause() error {
	c.setPlaying(false)
	return nil
}

// Seek jumps to ms, clamped to the clip
func (c *Clock) Seek(ms int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorMs = min(max(ms, 0), c.durationMs)
	c.anchorAt = c.now()
	return nil
}

// Position returns the playhead in ms. A running clock stops at the clip end.
func (c *Clock) Position() int64 {
	c.mu.Lock()
	pos, ended := c.positionLocked()
	var listeners []func(bool)
	if ended {
		c.anchorMs, c.anchorAt, c.playing = pos, c.now(), false
		listeners = c.listeners
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(false)
	}
	return pos
}

func (c *Clock) IsPlaying() bool {
	c.Position()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Clock) OnStateChange(fn func(playing bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// sync replaces the estimate with a position reported by the audio engine
func (c *Clock) sync(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorMs = min(max(ms, 0), c.durationMs)
	c.anchorAt = c.now()
}

func (c *Clock) positionLocked() (int64, bool) {
	if !c.playing {
		return c.anchorMs, false
	}
	pos := c.anchorMs + c.now().Sub(c.anchorAt).Milliseconds()
	if pos >= c.durationMs {
		return c.durationMs, true
	}
	return pos, false
}

func (c *Clock) setPlaying(playing bool) {
	c.mu.Lock()
	if c.playing == playing {
		c.mu.Unlock()
		return
	}
	pos, _ := c.positionLocked()
	c.anchorMs, c.anchorAt, c.playing = pos, c.now(), playing
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(playing)
	}
}
