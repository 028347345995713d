package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/waveseg/internal/logger"
	"github.com/schollz/waveseg/internal/model"
	"github.com/schollz/waveseg/internal/types"
)

// KeyMap holds the bindings for both editors
type KeyMap struct {
	Quit      key.Binding
	Play      key.Binding
	Add       key.Binding
	Remove    key.Binding
	RemoveAll key.Binding
	Merge     key.Binding
	Group     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Escape    key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Marker    key.Binding

	StartEarlier key.Binding
	StartLater   key.Binding
	EndEarlier   key.Binding
	EndLater     key.Binding

	SelectWindow  key.Binding
	SelectSegment key.Binding
	MoveLeft      key.Binding
	MoveRight     key.Binding
	JogLeft       key.Binding
	JogRight      key.Binding
	FastJogLeft   key.Binding
	FastJogRight  key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding

	Help key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+q", "ctrl+c"), key.WithHelp("q", "quit")),
		Play:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add segment")),
		Remove:    key.NewBinding(key.WithKeys("d", "backspace"), key.WithHelp("d", "remove")),
		RemoveAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "remove all")),
		Merge:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge group")),
		Group:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next segment")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev segment")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Undo:      key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("U", "ctrl+y"), key.WithHelp("U", "redo")),
		Marker:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "mark start/end")),

		StartEarlier: key.NewBinding(key.WithKeys(",", "<"), key.WithHelp(",/<", "start -")),
		StartLater:   key.NewBinding(key.WithKeys(".", ">"), key.WithHelp("./>", "start +")),
		EndEarlier:   key.NewBinding(key.WithKeys("[", "{"), key.WithHelp("[/{", "end -")),
		EndLater:     key.NewBinding(key.WithKeys("]", "}"), key.WithHelp("]/}", "end +")),

		SelectWindow:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "edit window")),
		SelectSegment: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "edit segment")),
		MoveLeft:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "move left")),
		MoveRight:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "move right")),
		JogLeft:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "pan")),
		JogRight:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "pan")),
		FastJogLeft:   key.NewBinding(key.WithKeys("shift+left")),
		FastJogRight:  key.NewBinding(key.WithKeys("shift+right")),
		ZoomIn:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "zoom in")),
		ZoomOut:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "zoom out")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// nudge returns the signed adjustment for a nudge key. The shifted variant
// of each key nudges by the long-press amount.
func nudge(msg tea.KeyMsg, small, large string) int64 {
	switch msg.String() {
	case small:
		return types.TapAdjustmentMs
	case large:
		return types.LongTapAdjustmentMs
	}
	return 0
}

// HandleSegmentationInput handles keys for the multi-segment editor
func HandleSegmentationInput(s *model.SegmentSet, r *Router, km KeyMap, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit

	case key.Matches(msg, km.Play):
		return TogglePlaybackCmd(r)

	case key.Matches(msg, km.Add):
		s.AddSegment()

	case key.Matches(msg, km.Remove):
		s.RemoveActive()

	case key.Matches(msg, km.RemoveAll):
		s.RemoveAll()

	case key.Matches(msg, km.Merge):
		s.MergeGrouped()

	case key.Matches(msg, km.Undo):
		s.Undo()

	case key.Matches(msg, km.Redo):
		s.Redo()

	case key.Matches(msg, km.Escape):
		// Leave grouping, or drop the active segment
		if len(s.Grouped()) > 0 {
			s.ClearGroup()
		} else if idx, ok := s.Active(); ok {
			s.Toggle(idx)
		}

	case key.Matches(msg, km.Group):
		// Start a group from the active segment, as a long press would
		if idx, ok := s.Active(); ok {
			s.StartGroup(idx)
		}

	case key.Matches(msg, km.Next), key.Matches(msg, km.Prev):
		step := 1
		if key.Matches(msg, km.Prev) {
			step = -1
		}
		selectNeighbour(s, step)

	case key.Matches(msg, km.Marker):
		if r.Player == nil {
			logger.Warnf("marker needs a playback position")
			return nil
		}
		s.AddMarker(r.Player.Position())

	case key.Matches(msg, km.StartEarlier):
		s.AddToStart(-nudge(msg, ",", "<"))
	case key.Matches(msg, km.StartLater):
		s.AddToStart(nudge(msg, ".", ">"))
	case key.Matches(msg, km.EndEarlier):
		s.AddToEnd(-nudge(msg, "[", "{"))
	case key.Matches(msg, km.EndLater):
		s.AddToEnd(nudge(msg, "]", "}"))
	}
	return nil
}

// HandlePickerInput handles keys for the window and segment picker
func HandlePickerInput(w *model.WindowSegment, r *Router, km KeyMap, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit

	case key.Matches(msg, km.Play):
		return TogglePlaybackCmd(r)

	case key.Matches(msg, km.SelectWindow):
		w.Select(types.RegionWindow)
	case key.Matches(msg, km.SelectSegment):
		w.Select(types.RegionSegment)

	case key.Matches(msg, km.MoveLeft):
		w.MoveWindow(-types.LongTapAdjustmentMs)
	case key.Matches(msg, km.MoveRight):
		w.MoveWindow(types.LongTapAdjustmentMs)

	case key.Matches(msg, km.JogLeft):
		w.JogView(-1, false)
	case key.Matches(msg, km.JogRight):
		w.JogView(1, false)
	case key.Matches(msg, km.FastJogLeft):
		w.JogView(-1, true)
	case key.Matches(msg, km.FastJogRight):
		w.JogView(1, true)

	case key.Matches(msg, km.ZoomIn):
		w.ZoomView(true)
	case key.Matches(msg, km.ZoomOut):
		w.ZoomView(false)

	case key.Matches(msg, km.StartEarlier):
		w.AddToStart(-nudge(msg, ",", "<"))
	case key.Matches(msg, km.StartLater):
		w.AddToStart(nudge(msg, ".", ">"))
	case key.Matches(msg, km.EndEarlier):
		w.AddToEnd(-nudge(msg, "[", "{"))
	case key.Matches(msg, km.EndLater):
		w.AddToEnd(nudge(msg, "]", "}"))
	}
	return nil
}

// selectNeighbour activates the segment step places from the active one, or
// toggles it in the group while grouping
func selectNeighbour(s *model.SegmentSet, step int) {
	segs := s.Segments()
	if len(segs) == 0 {
		return
	}
	from := -1
	if grouped := s.Grouped(); len(grouped) > 0 {
		from = grouped[len(grouped)-1]
		if step < 0 {
			from = grouped[0]
		}
	} else if idx, ok := s.Active(); ok {
		from = idx
	}

	next := from + step
	if from < 0 && step < 0 {
		next = len(segs) - 1
	}
	if next < 0 || next >= len(segs) {
		return
	}
	s.Toggle(next)
}
