package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schollz/waveseg/internal/model"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

// Common styles used across all views
type ViewStyles struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Container lipgloss.Style
	Playback  lipgloss.Style
	Button    lipgloss.Style
	Warning   lipgloss.Style
}

// getCommonStyles returns the standard style definitions used across views
func getCommonStyles() *ViewStyles {
	return &ViewStyles{
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0")),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Container: lipgloss.NewStyle().Padding(1, 2),
		Playback:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Button:    lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Container padding, matched by Layout
const (
	padTop  = 1
	padLeft = 2
)

// minCanvasRows keeps both panels drawable on short terminals
const minCanvasRows = 3

// Panel is the screen area a mouse event landed in
type Panel int

const (
	PanelNone Panel = iota
	PanelMain
	PanelDetail
	PanelButtons
)

// Nudge is the action of an adjustment button
type Nudge int

const (
	NudgeStartEarlier Nudge = iota
	NudgeStartLater
	NudgeEndEarlier
	NudgeEndLater
)

// Sign is the direction the button moves its edge
func (n Nudge) Sign() int64 {
	if n == NudgeStartEarlier || n == NudgeEndEarlier {
		return -1
	}
	return 1
}

// Start reports whether the button moves the start edge
func (n Nudge) Start() bool {
	return n == NudgeStartEarlier || n == NudgeStartLater
}

// Button is a clickable nudge button, X0 and X1 in screen columns
type Button struct {
	Label  string
	X0, X1 int
	Action Nudge
}

// Layout places every panel on screen. Rows are screen rows.
type Layout struct {
	Width      int
	Left       int
	HeaderRow  int
	MainTop    int
	MainRows   int
	StatusRow  int
	DetailTop  int
	DetailRows int
	// ButtonsRow is -1 when the nudge buttons are hidden
	ButtonsRow int
	HelpRow    int
	Buttons    []Button
}

var buttonLabels = []struct {
	label  string
	action Nudge
}{
	{"◀ start", NudgeStartEarlier},
	{"start ▶", NudgeStartLater},
	{"◀ end", NudgeEndEarlier},
	{"end ▶", NudgeEndLater},
}

// NewLayout splits a terminal of termWidth x termHeight between the two
// canvases, giving the overview three fifths of the free rows.
func NewLayout(termWidth, termHeight int, buttons bool) Layout {
	l := Layout{
		Width:      max(termWidth-2*padLeft, 1),
		Left:       padLeft,
		HeaderRow:  padTop,
		ButtonsRow: -1,
	}

	// header, two rulers, status, help, bottom padding
	fixed := padTop + 1 + 2 + 1 + 2 + 1 + 1
	if buttons {
		fixed++
	}
	free := termHeight - fixed
	l.MainRows = max(free*3/5, minCanvasRows)
	l.DetailRows = max(free-l.MainRows, minCanvasRows)

	l.MainTop = l.HeaderRow + 1
	l.StatusRow = l.MainTop + l.MainRows + 2
	l.DetailTop = l.StatusRow + 1
	next := l.DetailTop + l.DetailRows + 2
	if buttons {
		l.ButtonsRow = next
		next++
		x := l.Left
		for i, b := range buttonLabels {
			w := lipgloss.Width(b.label) + 2
			l.Buttons = append(l.Buttons, Button{Label: b.label, X0: x, X1: x + w, Action: b.action})
			x += w + 1
			if i == 1 {
				x += 3
			}
		}
	}
	l.HelpRow = next
	return l
}

// Hit maps a screen position to a panel and a canvas-local point
func (l Layout) Hit(x, y int) (Panel, types.Point) {
	p := types.Point{X: float64(x - l.Left)}
	inColumns := x >= l.Left && x < l.Left+l.Width
	switch {
	case inColumns && y >= l.MainTop && y < l.MainTop+l.MainRows:
		p.Y = float64(y - l.MainTop)
		return PanelMain, p
	case inColumns && y >= l.DetailTop && y < l.DetailTop+l.DetailRows:
		p.Y = float64(y - l.DetailTop)
		return PanelDetail, p
	case l.ButtonsRow >= 0 && y == l.ButtonsRow:
		return PanelButtons, p
	}
	return PanelNone, p
}

// ButtonAt returns the nudge button under a screen position
func (l Layout) ButtonAt(x, y int) (Button, bool) {
	if l.ButtonsRow < 0 || y != l.ButtonsRow {
		return Button{}, false
	}
	for _, b := range l.Buttons {
		if x >= b.X0 && x < b.X1 {
			return b, true
		}
	}
	return Button{}, false
}

// Frame holds what both editors share on screen
type Frame struct {
	File     string
	Layout   Layout
	Geometry types.SpikeGeometry
	Palette  Palette
	Heights  []float64
	// DetailHeights are the spikes of the zoomed range
	DetailHeights []float64
	Playhead      int64
	Playing       bool
	Pressed       *Nudge
	Status        string
	Help          string
}

// RenderHeader renders the title line with the play state on the right
func RenderHeader(width int, leftContent, rightContent string, playing bool) string {
	styles := getCommonStyles()
	indicator := styles.Label.Render("■")
	if playing {
		indicator = styles.Playback.Render("▶")
	}

	leftLen := lipgloss.Width(leftContent)
	rightLen := lipgloss.Width(rightContent)
	paddingSize := max(width-leftLen-rightLen-2, 1)
	return leftContent + strings.Repeat(" ", paddingSize) + rightContent + " " + indicator + "\n"
}

// RenderButtons draws the nudge buttons of l, highlighting the held one
func RenderButtons(l Layout, pressed *Nudge) string {
	styles := getCommonStyles()
	var sb strings.Builder
	x := l.Left
	for _, b := range l.Buttons {
		sb.WriteString(strings.Repeat(" ", b.X0-x))
		style := styles.Button
		if pressed != nil && *pressed == b.Action {
			style = styles.Selected
		}
		sb.WriteString(style.Render(" " + b.Label + " "))
		x = b.X1
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderFooter renders the status message and help text
func RenderFooter(help, statusMsg string) string {
	styles := getCommonStyles()
	if statusMsg != "" {
		return styles.Warning.Render(statusMsg) + "  " + help
	}
	return help
}

func (f Frame) canvas(heights []float64, rows int, r types.Segment, regions []Region) string {
	return Canvas{
		Heights:  heights,
		Geometry: f.Geometry,
		Width:    f.Layout.Width,
		Rows:     rows,
		Start:    r.Start,
		End:      r.End,
		Regions:  regions,
		Playhead: f.Playhead,
		Palette:  f.Palette,
	}.Render()
}

func (f Frame) render(right, status string, main, detail string) string {
	styles := getCommonStyles()
	var content strings.Builder
	content.WriteString(RenderHeader(f.Layout.Width, "waveseg  "+filepath.Base(f.File), right, f.Playing))
	content.WriteString(main)
	content.WriteString(styles.Label.MaxWidth(f.Layout.Width).Render(status))
	content.WriteString("\n")
	content.WriteString(detail)
	if f.Layout.ButtonsRow >= 0 {
		content.WriteString(RenderButtons(f.Layout, f.Pressed))
	}
	content.WriteString(RenderFooter(f.Help, f.Status))
	return styles.Container.Render(content.String())
}

func formatRange(s types.Segment) string {
	return fmt.Sprintf("%ss - %ss (%ss)", timeaxis.Seconds(s.Start), timeaxis.Seconds(s.End), timeaxis.Seconds(s.Duration()))
}

// RenderSegmentation draws the multi-segment editor: the whole clip with
// every segment, then the active segment zoomed in.
func RenderSegmentation(f Frame, s *model.SegmentSet) string {
	durationMs := s.DurationMs()
	segments := s.Segments()
	active, hasActive := s.Active()
	grouped := s.Grouped()

	regions := make([]Region, 0, len(segments)+1)
	for i, seg := range segments {
		kind := RegionSegment
		switch {
		case hasActive && i == active:
			kind = RegionActive
		case len(grouped) > 0 && i >= grouped[0] && i <= grouped[len(grouped)-1]:
			kind = RegionGrouped
		}
		regions = append(regions, Region{Range: seg, Kind: kind})
	}
	if mark, ok := s.PendingMarker(); ok {
		regions = append(regions, Region{Range: types.Segment{Start: mark, End: mark}, Kind: RegionMarker})
	}
	main := f.canvas(f.Heights, f.Layout.MainRows, types.Segment{End: durationMs}, regions)

	var status strings.Builder
	fmt.Fprintf(&status, "%d segments", len(segments))
	if hasActive {
		fmt.Fprintf(&status, " | #%d %s", active+1, formatRange(segments[active]))
	}
	if len(grouped) > 0 {
		fmt.Fprintf(&status, " | grouped #%d-#%d", grouped[0]+1, grouped[len(grouped)-1]+1)
	}
	if mark, ok := s.PendingMarker(); ok {
		fmt.Fprintf(&status, " | mark %ss", timeaxis.Seconds(mark))
	}
	if s.CanUndo() {
		status.WriteString(" | undo")
	}
	if s.CanRedo() {
		status.WriteString(" | redo")
	}
	fmt.Fprintf(&status, " | %s", timeaxis.MmSs(max(f.Playhead, 0)))

	var detail string
	if zoom, ok := s.ZoomRange(); ok {
		detail = f.canvas(f.DetailHeights, f.Layout.DetailRows, zoom, []Region{{Range: segments[active], Kind: RegionActive}})
	} else {
		detail = emptyPanel(f.Layout.Width, f.Layout.DetailRows+2, "tap a segment to zoom in")
	}

	return f.render(timeaxis.MmSs(durationMs)+"  segmentation", status.String(), main, detail)
}

// RenderPicker draws the window and segment picker: the whole clip with the
// window and segment, then the window zoomed in.
func RenderPicker(f Frame, w *model.WindowSegment) string {
	window, seg := w.Window(), w.Segment()
	main := f.canvas(f.Heights, f.Layout.MainRows, types.Segment{End: w.DurationMs()}, []Region{
		{Range: window, Kind: RegionWindow},
		{Range: seg, Kind: RegionPicked},
	})
	detail := f.canvas(f.DetailHeights, f.Layout.DetailRows, w.ZoomRange(), []Region{
		{Range: seg, Kind: RegionPicked},
	})

	status := fmt.Sprintf("editing %s | window %s | segment %s | %s",
		w.ActiveRegion(), formatRange(window), formatRange(seg), timeaxis.MmSs(max(f.Playhead, 0)))

	return f.render(timeaxis.MmSs(w.DurationMs())+"  picker", status, main, detail)
}

// emptyPanel fills rows lines with a centered message
func emptyPanel(width, rows int, msg string) string {
	styles := getCommonStyles()
	var sb strings.Builder
	for y := 0; y < rows; y++ {
		if y == rows/2 {
			sb.WriteString(styles.Label.Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, msg)))
		} else {
			sb.WriteString(strings.Repeat(" ", width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
