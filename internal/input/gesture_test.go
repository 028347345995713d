package input

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/waveseg/internal/model"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

type fakePlayer struct {
	playing bool
	pos     int64
	seeks   []int64
	err     error
}

func (p *fakePlayer) Play() error {
	if p.err != nil {
		return p.err
	}
	p.playing = true
	return nil
}

func (p *fakePlayer) Pause() error {
	p.playing = false
	return nil
}

func (p *fakePlayer) Seek(ms int64) error {
	if p.err != nil {
		return p.err
	}
	p.pos = ms
	p.seeks = append(p.seeks, ms)
	return nil
}

func (p *fakePlayer) Position() int64          { return p.pos }
func (p *fakePlayer) IsPlaying() bool          { return p.playing }
func (p *fakePlayer) OnStateChange(func(bool)) {}

func seg(start, end int64) types.Segment {
	return types.Segment{Start: start, End: end}
}

// newSegmentRouter builds a router over a 20s clip drawn 200 cells wide, so
// one cell is 100ms
func newSegmentRouter(initial ...types.Segment) (*Router, *model.SegmentSet, *fakePlayer) {
	axis := timeaxis.New(20000)
	axis.SetWidth(200)
	s := model.NewSegmentSet(axis, initial, 1000, 15000)
	p := &fakePlayer{}
	return &Router{Editor: SegmentEditor{s}, Player: p, Axis: axis, TouchTarget: 1}, s, p
}

func newPickerRouter(window, segment types.Segment) (*Router, *model.WindowSegment, *fakePlayer) {
	axis := timeaxis.New(20000)
	axis.SetWidth(200)
	w := model.NewWindowSegment(axis, window, segment, 50, 15000)
	p := &fakePlayer{}
	return &Router{Editor: PickerEditor{WindowSegment: w, Axis: axis}, Player: p, Axis: axis, TouchTarget: 1}, w, p
}

func TestRouterSegmentationReplay(t *testing.T) {
	r, s, _ := newSegmentRouter(seg(0, 2000), seg(3000, 5000))

	r.DispatchAll([]Gesture{
		{Kind: Tap, Point: types.Point{X: 40}},
		{Kind: HorizontalDrag, Point: types.Point{X: 50}, DeltaPx: 5},
		{Kind: LongPress, Point: types.Point{X: 10}},
		{Kind: Tap, Point: types.Point{X: 40}},
	})

	assert.Equal(t, []types.Segment{seg(0, 2000), seg(3000, 5500)}, s.Segments())
	require.Equal(t, []int{0, 1}, s.Grouped())

	s.MergeGrouped()
	assert.Equal(t, []types.Segment{seg(0, 5500)}, s.Segments())

	t.Run("replaying gives the same result", func(t *testing.T) {
		r2, s2, _ := newSegmentRouter(seg(0, 2000), seg(3000, 5000))
		r2.DispatchAll([]Gesture{
			{Kind: Tap, Point: types.Point{X: 40}},
			{Kind: HorizontalDrag, Point: types.Point{X: 50}, DeltaPx: 5},
		})
		r3, s3, _ := newSegmentRouter(seg(0, 2000), seg(3000, 5000))
		r3.DispatchAll([]Gesture{
			{Kind: Tap, Point: types.Point{X: 40}},
			{Kind: HorizontalDrag, Point: types.Point{X: 50}, DeltaPx: 5},
		})
		assert.Equal(t, s2.Segments(), s3.Segments())
	})
}

func TestRouterPlayback(t *testing.T) {
	// Test 1: toggling seeks to the active segment before playing
	t.Run("toggle plays from the active segment", func(t *testing.T) {
		r, _, p := newSegmentRouter(seg(3000, 5000))
		r.Dispatch(Gesture{Kind: TogglePlayback})
		assert.True(t, p.playing)
		assert.Equal(t, []int64{3000}, p.seeks)

		r.Dispatch(Gesture{Kind: TogglePlayback})
		assert.False(t, p.playing)
		assert.Len(t, p.seeks, 1, "pausing never seeks")
	})

	// Test 2: a tap while playing stops playback and still taps
	t.Run("tap stops playback", func(t *testing.T) {
		r, s, p := newSegmentRouter(seg(0, 2000), seg(3000, 5000))
		p.playing = true
		r.Dispatch(Gesture{Kind: Tap, Point: types.Point{X: 40}})
		assert.False(t, p.playing)
		idx, _ := s.Active()
		assert.Equal(t, 1, idx)
	})

	// Test 3: scrubbing seeks inside the detail range
	t.Run("scrub", func(t *testing.T) {
		r, _, p := newSegmentRouter(seg(3000, 5000))
		r.Dispatch(Gesture{Kind: Scrub, Point: types.Point{X: 100}})
		assert.Equal(t, int64(4000), p.pos)

		r.Dispatch(Gesture{Kind: Scrub, Point: types.Point{X: 250}})
		assert.Equal(t, int64(4000), p.pos, "scrub past the canvas is ignored")
	})

	// Test 4: failures are logged, not fatal
	t.Run("player errors", func(t *testing.T) {
		r, _, p := newSegmentRouter(seg(3000, 5000))
		p.err = errors.New("engine down")
		assert.NotPanics(t, func() { r.Dispatch(Gesture{Kind: TogglePlayback}) })
		assert.False(t, p.playing)
	})

	t.Run("no player", func(t *testing.T) {
		r, s, _ := newSegmentRouter(seg(3000, 5000))
		r.Player = nil
		r.Dispatch(Gesture{Kind: TogglePlayback})
		r.Dispatch(Gesture{Kind: Scrub, Point: types.Point{X: 10}})
		r.Dispatch(Gesture{Kind: Tap, Point: types.Point{X: 40}})
		_, ok := s.Active()
		assert.False(t, ok, "tap still toggles")
		assert.Nil(t, TogglePlaybackCmd(r))
	})

	// Test 5: the key command toggles and reports the new state
	t.Run("toggle command", func(t *testing.T) {
		r, _, p := newSegmentRouter(seg(3000, 5000))
		cmd := TogglePlaybackCmd(r)
		require.NotNil(t, cmd)
		assert.Equal(t, PlaybackMsg{Playing: true}, cmd())
		assert.Equal(t, []int64{3000}, p.seeks)

		cmd = TogglePlaybackCmd(r)
		require.NotNil(t, cmd)
		assert.Equal(t, PlaybackMsg{Playing: false}, cmd())
	})
}

func TestRouterPicker(t *testing.T) {
	r, w, p := newPickerRouter(seg(2000, 10000), seg(3000, 4000))

	r.Dispatch(Gesture{Kind: Tap, Point: types.Point{X: 35}})
	assert.Equal(t, types.RegionSegment, w.ActiveRegion())

	r.Dispatch(Gesture{Kind: HorizontalDrag, Point: types.Point{X: 35}, DeltaPx: 10})
	assert.Equal(t, seg(4000, 5000), w.Segment())

	r.Dispatch(Gesture{Kind: Tap, Point: types.Point{X: 80}})
	assert.Equal(t, types.RegionWindow, w.ActiveRegion())

	r.Dispatch(Gesture{Kind: LongPress, Point: types.Point{X: 80}})
	assert.Equal(t, types.RegionWindow, w.ActiveRegion(), "long press does nothing in the picker")

	r.Dispatch(Gesture{Kind: TogglePlayback})
	assert.Equal(t, []int64{4000}, p.seeks, "picker plays the segment")

	r.Dispatch(Gesture{Kind: Scrub, Point: types.Point{X: 50}})
	assert.Equal(t, int64(4000), p.pos, "scrub maps across the window")
}

func TestDecoderToRouter(t *testing.T) {
	r, s, _ := newSegmentRouter(seg(0, 2000), seg(3000, 5000))
	d := NewDecoder()
	at := time.Unix(0, 0)

	// tap segment 1, then drag its end edge 3 cells right one cell at a time
	r.DispatchAll(d.Down(types.Point{X: 40}, at))
	r.DispatchAll(d.Up(types.Point{X: 40}, at.Add(50*time.Millisecond)))
	r.DispatchAll(d.Down(types.Point{X: 50}, at.Add(time.Second)))
	for i := 1; i <= 3; i++ {
		r.DispatchAll(d.Move(types.Point{X: 50 + float64(i)}, at.Add(time.Second+time.Duration(i)*10*time.Millisecond)))
	}
	r.DispatchAll(d.Up(types.Point{X: 53}, at.Add(time.Second+40*time.Millisecond)))
	assert.Equal(t, seg(3000, 5300), s.Segments()[1])

	// a jump further than the touch target loses the edge
	r.DispatchAll(d.Down(types.Point{X: 53}, at.Add(2*time.Second)))
	r.DispatchAll(d.Move(types.Point{X: 58}, at.Add(2*time.Second+10*time.Millisecond)))
	r.DispatchAll(d.Up(types.Point{X: 58}, at.Add(2*time.Second+20*time.Millisecond)))
	assert.Equal(t, seg(3000, 5300), s.Segments()[1])
}

func TestGestureKindString(t *testing.T) {
	assert.Equal(t, "tap", Tap.String())
	assert.Equal(t, "long-press", LongPress.String())
	assert.Equal(t, "drag", HorizontalDrag.String())
	assert.Equal(t, "scrub", Scrub.String())
	assert.Equal(t, "toggle-playback", TogglePlayback.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
