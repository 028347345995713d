package input

import (
	"github.com/schollz/waveseg/internal/logger"
	"github.com/schollz/waveseg/internal/model"
	"github.com/schollz/waveseg/internal/player"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

// Kind is the sort of decoded gesture
type Kind int

const (
	Tap Kind = iota
	LongPress
	HorizontalDrag
	// Scrub seeks playback to a point on the detail view
	Scrub
	TogglePlayback
)

func (k Kind) String() string {
	switch k {
	case Tap:
		return "tap"
	case LongPress:
		return "long-press"
	case HorizontalDrag:
		return "drag"
	case Scrub:
		return "scrub"
	case TogglePlayback:
		return "toggle-playback"
	}
	return "unknown"
}

// Gesture is one decoded pointer action in canvas coordinates
type Gesture struct {
	Kind    Kind
	Point   types.Point
	DeltaPx float64
}

// Editor is what gestures act on
type Editor interface {
	OnTap(p types.Point)
	OnLongPress(p types.Point)
	OnDrag(p types.Point, deltaPx, touchTarget float64)
	// PlayRange is the range playback starts from
	PlayRange() (types.Segment, bool)
	// DetailRange is the range the detail view shows
	DetailRange() (types.Segment, bool)
}

// Router turns gestures into editor and player calls. It holds no state of
// its own so a recorded gesture list replays the same way every time.
type Router struct {
	Editor      Editor
	Player      player.Player
	Axis        *timeaxis.Axis
	TouchTarget float64
}

// Dispatch applies g
func (r *Router) Dispatch(g Gesture) {
	logger.Debugf("gesture %s at %.1f,%.1f delta %.1f", g.Kind, g.Point.X, g.Point.Y, g.DeltaPx)

	switch g.Kind {
	case Tap:
		// a tap while playing stops playback and still reaches the editor
		if r.Player != nil && r.Player.IsPlaying() {
			r.pause()
		}
		r.Editor.OnTap(g.Point)
	case LongPress:
		r.Editor.OnLongPress(g.Point)
	case HorizontalDrag:
		r.Editor.OnDrag(g.Point, g.DeltaPx, r.TouchTarget)
	case Scrub:
		r.scrub(g.Point.X)
	case TogglePlayback:
		r.togglePlayback()
	}
}

// DispatchAll applies gestures in order
func (r *Router) DispatchAll(gestures []Gesture) {
	for _, g := range gestures {
		r.Dispatch(g)
	}
}

func (r *Router) pause() {
	if err := r.Player.Pause(); err != nil {
		logger.Error("pause failed", err)
	}
}

func (r *Router) scrub(x float64) {
	if r.Player == nil || r.Axis == nil {
		return
	}
	detail, ok := r.Editor.DetailRange()
	if !ok || x < 0 || x > r.Axis.Width() {
		return
	}
	ms := r.Axis.PxToDurationIn(x, detail.Start, detail.End)
	if err := r.Player.Seek(ms); err != nil {
		logger.Error("seek failed", err)
	}
}

func (r *Router) togglePlayback() {
	if r.Player == nil {
		return
	}
	if r.Player.IsPlaying() {
		r.pause()
		return
	}
	if play, ok := r.Editor.PlayRange(); ok {
		if err := r.Player.Seek(play.Start); err != nil {
			logger.Error("seek failed", err)
			return
		}
	}
	if err := r.Player.Play(); err != nil {
		logger.Error("play failed", err)
	}
}

// SegmentEditor adapts a SegmentSet to the router
type SegmentEditor struct {
	*model.SegmentSet
}

func (e SegmentEditor) OnDrag(p types.Point, deltaPx, touchTarget float64) {
	e.OnHorizontalDrag(p, deltaPx, touchTarget)
}

func (e SegmentEditor) PlayRange() (types.Segment, bool) {
	return e.ActiveSegment()
}

func (e SegmentEditor) DetailRange() (types.Segment, bool) {
	return e.ZoomRange()
}

// PickerEditor adapts a WindowSegment to the router. A tap on the segment
// selects it, a tap anywhere else selects the window.
type PickerEditor struct {
	*model.WindowSegment
	Axis *timeaxis.Axis
}

func (e PickerEditor) OnTap(p types.Point) {
	s := e.Segment()
	if e.Axis.Contains(p.X, s.Start, s.End) {
		e.Select(types.RegionSegment)
		return
	}
	e.Select(types.RegionWindow)
}

func (e PickerEditor) OnLongPress(types.Point) {}

func (e PickerEditor) OnDrag(p types.Point, deltaPx, touchTarget float64) {
	e.OnWindowDrag(p, deltaPx, touchTarget)
}

func (e PickerEditor) PlayRange() (types.Segment, bool) {
	return e.Segment(), true
}

func (e PickerEditor) DetailRange() (types.Segment, bool) {
	return e.ZoomRange(), true
}
