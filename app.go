package main

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/waveseg/internal/config"
	"github.com/schollz/waveseg/internal/input"
	"github.com/schollz/waveseg/internal/logger"
	"github.com/schollz/waveseg/internal/model"
	"github.com/schollz/waveseg/internal/player"
	"github.com/schollz/waveseg/internal/report"
	"github.com/schollz/waveseg/internal/resample"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
	"github.com/schollz/waveseg/internal/views"
)

// heightsMsg carries a finished resample back to the event loop
type heightsMsg struct {
	detail bool
	res    resample.Result
}

// nudgeMsg is a repeat fired by a held nudge button
type nudgeMsg struct {
	action views.Nudge
	byMs   int64
}

// pressTickMsg checks a held press for a long press
type pressTickMsg struct{}

// app wraps the editors and implements the tea.Model interface
type app struct {
	cfg  *config.Config
	file string
	mode types.ViewMode

	amps       []int
	durationMs int64
	axis       *timeaxis.Axis

	segments *model.SegmentSet
	picker   *model.WindowSegment
	router   *input.Router
	player   player.Player

	keys     input.KeyMap
	help     help.Model
	decoder  *input.Decoder
	repeater *input.Repeater
	ticker   *input.Ticker
	ticking  bool

	mainWorker    resample.Worker
	detailWorker  resample.Worker
	heights       []float64
	detailHeights []float64
	zoom          types.Segment
	hasZoom       bool
	zoomDirty     bool
	detailStale   bool

	width, height int
	layout        views.Layout
	palette       views.Palette
	pressedPanel  views.Panel
	pressedNudge  *views.Nudge
	status        string

	// send forwards messages from other goroutines into the program
	send func(tea.Msg)
}

func newApp(cfg *config.Config, file string, amps []int, axis *timeaxis.Axis, pl player.Player) *app {
	a := &app{
		cfg:        cfg,
		file:       file,
		mode:       cfg.ViewMode(),
		amps:       amps,
		durationMs: axis.DurationMs(),
		axis:       axis,
		player:     pl,
		keys:       input.DefaultKeyMap(),
		help:       help.New(),
		decoder:    input.NewDecoder(),
		repeater:   input.NewRepeater(),
		ticker:     input.NewTicker(),
		palette:    views.DefaultPalette(true),
		zoomDirty:  true,
		send:       func(tea.Msg) {},
	}

	a.router = &input.Router{
		Player:      pl,
		Axis:        axis,
		TouchTarget: cfg.TouchTarget,
	}
	markDirty := func() { a.zoomDirty = true }
	if a.mode == types.PickerView {
		a.picker = model.NewWindowSegment(axis, cfg.Window, cfg.Segment, cfg.MinimumSegmentDuration, cfg.MaximumSegmentDuration)
		a.picker.Subscribe(markDirty)
		a.router.Editor = input.PickerEditor{WindowSegment: a.picker, Axis: axis}
	} else {
		a.segments = model.NewSegmentSet(axis, cfg.Segments, cfg.MinimumSegmentDuration, cfg.MaximumSegmentDuration)
		a.segments.Subscribe(markDirty)
		a.router.Editor = input.SegmentEditor{SegmentSet: a.segments}
	}
	return a
}

func (a *app) Init() tea.Cmd {
	return nil
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.relayout()

	case tea.KeyMsg:
		cmd = a.handleKey(msg)

	case tea.MouseMsg:
		cmd = a.handleMouse(msg)

	case pressTickMsg:
		a.router.DispatchAll(a.decoder.Tick(time.Now()))

	case nudgeMsg:
		a.nudge(msg.action, msg.byMs)

	case heightsMsg:
		// a newer request may have been prepared after this one was delivered
		w := &a.mainWorker
		if msg.detail {
			w = &a.detailWorker
		}
		if !w.Accept(msg.res) {
			logger.Debugf("dropped resample %d, waiting for %d", msg.res.Generation, w.Current())
			break
		}
		if msg.detail {
			a.detailHeights = msg.res.Heights
		} else {
			a.heights = msg.res.Heights
		}

	case input.PlaybackMsg:
		if msg.Playing && !a.ticking {
			a.ticking = true
			cmd = a.ticker.Start()
		}

	case input.TickMsg:
		if a.player.IsPlaying() {
			cmd = a.ticker.Next()
		} else {
			a.ticking = false
		}
	}

	if a.zoomDirty {
		a.zoomDirty = false
		a.refreshDetail()
	}
	return a, cmd
}

func (a *app) handleKey(msg tea.KeyMsg) tea.Cmd {
	a.status = ""
	if key.Matches(msg, a.keys.Help) {
		a.help.ShowAll = !a.help.ShowAll
		a.relayout()
		return nil
	}
	if a.picker != nil {
		return input.HandlePickerInput(a.picker, a.router, a.keys, msg)
	}
	return input.HandleSegmentationInput(a.segments, a.router, a.keys, msg)
}

func (a *app) handleMouse(msg tea.MouseMsg) tea.Cmd {
	now := time.Now()
	panel, p := a.layout.Hit(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if a.picker != nil && panel == views.PanelDetail {
				a.picker.ZoomView(msg.Button == tea.MouseButtonWheelUp)
			}
			return nil
		case tea.MouseButtonLeft:
		default:
			return nil
		}

		a.status = ""
		a.pressedPanel = panel
		switch panel {
		case views.PanelMain:
			a.decoder.Down(p, now)
			return tea.Tick(a.decoder.LongPressAfter, func(time.Time) tea.Msg {
				return pressTickMsg{}
			})
		case views.PanelDetail:
			a.router.Dispatch(input.Gesture{Kind: input.Scrub, Point: p})
		case views.PanelButtons:
			if b, ok := a.layout.ButtonAt(msg.X, msg.Y); ok {
				a.pressNudge(b.Action)
			}
		}

	case tea.MouseActionMotion:
		switch a.pressedPanel {
		case views.PanelMain:
			a.router.DispatchAll(a.decoder.Move(a.mainPoint(msg), now))
		case views.PanelDetail:
			a.router.Dispatch(input.Gesture{Kind: input.Scrub, Point: p})
		}

	case tea.MouseActionRelease:
		switch a.pressedPanel {
		case views.PanelMain:
			a.router.DispatchAll(a.decoder.Up(a.mainPoint(msg), now))
		case views.PanelButtons:
			a.repeater.Release()
			a.pressedNudge = nil
		}
		a.pressedPanel = views.PanelNone
	}
	return nil
}

// mainPoint maps a screen position onto the overview canvas even when it
// has left the panel, so drags keep tracking
func (a *app) mainPoint(msg tea.MouseMsg) types.Point {
	return types.Point{
		X: float64(msg.X - a.layout.Left),
		Y: float64(msg.Y - a.layout.MainTop),
	}
}

// pressNudge applies the first nudge straight away and forwards the repeats,
// which arrive on the repeater's goroutine
func (a *app) pressNudge(action views.Nudge) {
	a.pressedNudge = &action
	first := true
	a.repeater.Press(action.Sign(), func(byMs int64) {
		if first {
			first = false
			a.nudge(action, byMs)
			return
		}
		a.send(nudgeMsg{action: action, byMs: byMs})
	})
}

type edgeEditor interface {
	AddToStart(byMs int64)
	AddToEnd(byMs int64)
}

func (a *app) nudge(action views.Nudge, byMs int64) {
	var e edgeEditor = a.segments
	if a.picker != nil {
		e = a.picker
	}
	if action.Start() {
		e.AddToStart(byMs)
	} else {
		e.AddToEnd(byMs)
	}
}

func (a *app) relayout() {
	if a.width == 0 {
		return
	}
	a.help.Width = max(a.width-4, 1)
	extra := lipgloss.Height(a.help.View(a.helpKeys())) - 1
	a.layout = views.NewLayout(a.width, a.height-extra, a.cfg.EnableAdjustment)
	a.axis.SetWidth(float64(a.layout.Width))

	logger.Debugf("layout %dx%d: main %d rows, detail %d rows", a.width, a.height, a.layout.MainRows, a.layout.DetailRows)
	a.mainWorker.Go(a.request(a.amps, a.layout.MainRows), func(r resample.Result) {
		a.send(heightsMsg{res: r})
	})
	a.zoomDirty, a.detailStale = true, true
}

// refreshDetail resamples the zoomed range when it has moved
func (a *app) refreshDetail() {
	if a.width == 0 {
		return
	}
	zoom, ok := a.router.Editor.DetailRange()
	if !a.detailStale && ok == a.hasZoom && zoom == a.zoom {
		return
	}
	a.zoom, a.hasZoom, a.detailStale = zoom, ok, false
	if !ok {
		a.detailHeights = nil
		return
	}
	samples := resample.SliceRange(a.amps, a.durationMs, zoom.Start, zoom.End)
	a.detailWorker.Go(a.request(samples, a.layout.DetailRows), func(r resample.Result) {
		a.send(heightsMsg{detail: true, res: r})
	})
}

func (a *app) request(samples []int, rows int) resample.Request {
	return resample.Request{
		Samples:    samples,
		Count:      a.cfg.Geometry().SpikeCount(float64(a.layout.Width)),
		Policy:     a.cfg.Amplitude(),
		MinHeight:  types.MinSpikeHeight,
		MaxHeight:  views.VirtualHeight(rows),
		Multiplier: a.cfg.Multiplier,
	}
}

func (a *app) View() string {
	if a.width == 0 {
		return "loading..."
	}
	f := views.Frame{
		File:          a.file,
		Layout:        a.layout,
		Geometry:      a.cfg.Geometry(),
		Palette:       a.palette,
		Heights:       a.heights,
		DetailHeights: a.detailHeights,
		Playhead:      a.player.Position(),
		Playing:       a.player.IsPlaying(),
		Pressed:       a.pressedNudge,
		Status:        a.status,
		Help:          a.help.View(a.helpKeys()),
	}
	if a.picker != nil {
		return views.RenderPicker(f, a.picker)
	}
	return views.RenderSegmentation(f, a.segments)
}

// report is the selection the session ends with
func (a *app) report() report.Report {
	r := report.Report{
		File:       a.file,
		DurationMs: a.durationMs,
		Mode:       a.mode.String(),
	}
	if a.picker != nil {
		window, seg := a.picker.Window(), a.picker.Segment()
		r.Window, r.Segment = &window, &seg
		return r
	}
	r.Segments = a.segments.Segments()
	return r
}

func (a *app) helpKeys() helpKeys {
	return helpKeys{km: a.keys, picker: a.picker != nil}
}

// helpKeys adapts the key map to the help footer
type helpKeys struct {
	km     input.KeyMap
	picker bool
}

func (h helpKeys) ShortHelp() []key.Binding {
	k := h.km
	if h.picker {
		return []key.Binding{k.Play, k.SelectWindow, k.SelectSegment, k.JogLeft, k.ZoomIn, k.Help, k.Quit}
	}
	return []key.Binding{k.Play, k.Add, k.Remove, k.Group, k.Merge, k.Undo, k.Help, k.Quit}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	k := h.km
	nudges := []key.Binding{k.StartEarlier, k.StartLater, k.EndEarlier, k.EndLater}
	if h.picker {
		return [][]key.Binding{
			{k.Play, k.SelectWindow, k.SelectSegment},
			{k.MoveLeft, k.MoveRight, k.JogLeft, k.JogRight, k.ZoomIn, k.ZoomOut},
			nudges,
			{k.Help, k.Quit},
		}
	}
	return [][]key.Binding{
		{k.Play, k.Marker, k.Add, k.Remove, k.RemoveAll},
		{k.Next, k.Prev, k.Group, k.Merge, k.Escape},
		{k.Undo, k.Redo},
		nudges,
		{k.Help, k.Quit},
	}
}
