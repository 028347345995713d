package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/waveseg/internal/config"
	"github.com/schollz/waveseg/internal/input"
	"github.com/schollz/waveseg/internal/player"
	"github.com/schollz/waveseg/internal/report"
	"github.com/schollz/waveseg/internal/resample"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

func testApp(t *testing.T, mode types.ViewMode) (*app, chan tea.Msg) {
	t.Helper()
	cfg := config.Default()
	cfg.Mode = mode.String()
	cfg.Segments = []types.Segment{{Start: 0, End: 2000}, {Start: 3000, End: 5000}}

	amps := make([]int, 400)
	for i := range amps {
		amps[i] = i % 50
	}
	a := newApp(cfg, "take.wav", amps, timeaxis.New(10000), player.NewClock(10000))
	msgs := make(chan tea.Msg, 16)
	a.send = func(m tea.Msg) { msgs <- m }
	a.Update(tea.WindowSizeMsg{Width: 104, Height: 40})
	return a, msgs
}

// drain feeds delivered resample results back into the app
func drain(t *testing.T, a *app, msgs chan tea.Msg, n int) {
	t.Helper()
	for range n {
		select {
		case m := <-msgs:
			a.Update(m)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for resample")
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(a *app, x, y int) {
	a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestAppSegmentation(t *testing.T) {
	a, msgs := testApp(t, types.SegmentationView)
	require.Equal(t, 100, a.layout.Width)
	assert.Equal(t, 100.0, a.axis.Width())

	// Test 1: both panels are resampled to the spike count
	drain(t, a, msgs, 2)
	count := a.cfg.Geometry().SpikeCount(100)
	assert.Len(t, a.heights, count)
	assert.Len(t, a.detailHeights, count)
	assert.Equal(t, types.Segment{Start: 0, End: 2000}, a.zoom)

	// Test 2: keys reach the editor
	a.Update(runes("a"))
	assert.Len(t, a.segments.Segments(), 3)

	// Test 3: a click on the overview taps the segment under it
	click(a, a.layout.Left+40, a.layout.MainTop+1)
	idx, ok := a.segments.Active()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// Test 4: the zoom moved with the active segment
	drain(t, a, msgs, 1)
	assert.Equal(t, types.Segment{Start: 3000, End: 5000}, a.zoom)

	// Test 5: a nudge button moves the active start once per click
	b := a.layout.Buttons[1]
	click(a, b.X0+1, a.layout.ButtonsRow)
	assert.Nil(t, a.pressedNudge)
	r := a.report()
	assert.Equal(t, "segmentation", r.Mode)
	assert.Equal(t, int64(3010), r.Segments[1].Start)
	assert.Nil(t, r.Window)
}

func TestAppPlayback(t *testing.T) {
	a, _ := testApp(t, types.SegmentationView)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, input.PlaybackMsg{Playing: true}, msg)
	assert.True(t, a.player.IsPlaying())

	_, cmd = a.Update(msg)
	assert.True(t, a.ticking)
	assert.NotNil(t, cmd)

	// a second start report does not start another tick chain
	_, cmd = a.Update(input.PlaybackMsg{Playing: true})
	assert.Nil(t, cmd)

	require.NoError(t, a.player.Pause())
	_, cmd = a.Update(input.TickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.False(t, a.ticking)
}

func TestAppPicker(t *testing.T) {
	a, msgs := testApp(t, types.PickerView)
	drain(t, a, msgs, 2)
	assert.Nil(t, a.segments)

	a.Update(runes("s"))
	assert.Equal(t, types.RegionSegment, a.picker.ActiveRegion())

	r := a.report()
	assert.Equal(t, "picker", r.Mode)
	require.NotNil(t, r.Window)
	require.NotNil(t, r.Segment)
	assert.Equal(t, types.Segment{Start: 0, End: 10000}, *r.Window)
	assert.Empty(t, r.Segments)
	assert.Contains(t, a.View(), "picker")
}

func TestAppStaleHeights(t *testing.T) {
	a, msgs := testApp(t, types.SegmentationView)
	drain(t, a, msgs, 2)
	before := a.heights

	// Test 1: a result from an older generation is dropped
	a.Update(heightsMsg{res: resample.Result{Generation: 0, Heights: []float64{1, 2}}})
	assert.Equal(t, before, a.heights)

	// Test 2: the newest generation is applied
	fresh := []float64{3, 4}
	a.Update(heightsMsg{detail: true, res: resample.Result{Generation: a.detailWorker.Current(), Heights: fresh}})
	assert.Equal(t, fresh, a.detailHeights)
}

func TestResume(t *testing.T) {
	dir := t.TempDir()
	window := types.Segment{Start: 1000, End: 8000}
	segment := types.Segment{Start: 2000, End: 3000}
	path := filepath.Join(dir, "take.json")
	require.NoError(t, report.WriteFile(path, report.Report{
		File:       "take.wav",
		DurationMs: 10000,
		Mode:       "picker",
		Window:     &window,
		Segment:    &segment,
	}))

	// Test 1: the picker selection and mode are restored
	t.Run("picker report", func(t *testing.T) {
		cfg := config.Default()
		cfg.Segments = []types.Segment{{Start: 0, End: 500}}
		require.NoError(t, resume(cfg, path, true))
		assert.Equal(t, "picker", cfg.Mode)
		assert.Equal(t, window, cfg.Window)
		assert.Equal(t, segment, cfg.Segment)
		assert.Equal(t, []types.Segment{{Start: 0, End: 500}}, cfg.Segments)
	})

	// Test 2: an explicit mode wins over the report's
	t.Run("mode kept", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, resume(cfg, path, false))
		assert.Equal(t, "segmentation", cfg.Mode)
		assert.Equal(t, window, cfg.Window)
	})

	// Test 3: segments come back in order
	t.Run("segmentation report", func(t *testing.T) {
		segs := filepath.Join(dir, "segs.json")
		want := []types.Segment{{Start: 0, End: 2000}, {Start: 3000, End: 5000}}
		require.NoError(t, report.WriteFile(segs, report.Report{Mode: "segmentation", DurationMs: 10000, Segments: want}))
		cfg := config.Default()
		require.NoError(t, resume(cfg, segs, true))
		assert.Equal(t, want, cfg.Segments)
	})

	// Test 4: missing and malformed reports are errors
	t.Run("bad report", func(t *testing.T) {
		assert.Error(t, resume(config.Default(), filepath.Join(dir, "missing.json"), true))
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
		assert.Error(t, resume(config.Default(), bad, true))
	})
}
