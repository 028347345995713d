package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/waveseg/internal/types"
)

// TickMsg asks the host to redraw the playhead
type TickMsg time.Time

// PlaybackMsg reports the transport state after a toggle
type PlaybackMsg struct {
	Playing bool
}

// TogglePlaybackCmd starts or stops playback through the router and reports the
// new state so the host can start its playhead ticker.
func TogglePlaybackCmd(r *Router) tea.Cmd {
	if r.Player == nil {
		return nil
	}
	r.Dispatch(Gesture{Kind: TogglePlayback})
	playing := r.Player.IsPlaying()
	return func() tea.Msg {
		return PlaybackMsg{Playing: playing}
	}
}

// Ticker schedules playhead refreshes. Each tick is due at a fixed offset from
// the start, so late ticks do not push later ones back.
type Ticker struct {
	Interval time.Duration

	start time.Time
	count int64
	now   func() time.Time
}

func NewTicker() *Ticker {
	return &Ticker{
		Interval: types.PlayerRefreshRateMs * time.Millisecond,
		now:      time.Now,
	}
}

// Start resets the schedule and returns the first tick
func (t *Ticker) Start() tea.Cmd {
	t.start = t.now()
	t.count = 0
	return t.Next()
}

// Next returns the following tick
func (t *Ticker) Next() tea.Cmd {
	t.count++
	wait := max(t.due(t.count).Sub(t.now()), 0)
	return tea.Tick(wait, func(at time.Time) tea.Msg {
		return TickMsg(at)
	})
}

func (t *Ticker) due(n int64) time.Time {
	return t.start.Add(time.Duration(n) * t.Interval)
}
