package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

// segmentsPerChar is the vertical resolution of one terminal cell
const segmentsPerChar = 8

// VirtualHeight is the spike height range of a canvas rows tall
func VirtualHeight(rows int) float64 {
	return float64(max(rows, 1) * segmentsPerChar)
}

// RegionKind selects how a highlighted range is tinted
type RegionKind int

const (
	RegionSegment RegionKind = iota
	RegionActive
	RegionGrouped
	RegionWindow
	RegionPicked
	RegionMarker
)

// Region is a highlighted time range on a canvas
type Region struct {
	Range types.Segment
	Kind  RegionKind
}

// Canvas is one waveform panel. Start and End are the clip range it shows;
// regions and the playhead are placed on it through the time axis.
type Canvas struct {
	Heights  []float64
	Geometry types.SpikeGeometry
	Width    int
	Rows     int
	Start    int64
	End      int64
	Regions  []Region
	// Playhead is drawn when it lies inside [Start, End]. Negative hides it.
	Playhead int64
	Palette  Palette
}

// cell is the style key of one column
type cell struct {
	fg, bg string
}

// Render draws the spikes, tints the columns covered by regions and marks
// the playhead, followed by a time ruler.
func (c Canvas) Render() string {
	width := max(c.Width, 1)
	rows := max(c.Rows, 1)
	virtualHeight := rows * segmentsPerChar

	// Create a higher resolution grid (8 segments per character height)
	grid := make([][]bool, virtualHeight)
	for i := range grid {
		grid[i] = make([]bool, width)
	}
	center := float64(virtualHeight) / 2
	for x, h := range c.spikeColumns(width) {
		if h <= 0 {
			continue
		}
		top := max(int(math.Round(center-h/2)), 0)
		bottom := min(int(math.Round(center+h/2)), virtualHeight)
		if bottom == top {
			bottom = min(top+1, virtualHeight)
		}
		for y := top; y < bottom; y++ {
			grid[y][x] = true
		}
	}

	columns := c.columnStyles(width)

	var sb strings.Builder
	centerY := rows / 2
	for y := 0; y < rows; y++ {
		var run strings.Builder
		runStyle := columns[0]
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(c.Palette.style(runStyle).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < width; x++ {
			var char string
			if y < centerY {
				char = getUpperHalfChar(grid, x, y)
			} else {
				char = getLowerHalfChar(grid, x, y)
			}
			if columns[x] != runStyle {
				flush()
				runStyle = columns[x]
			}
			run.WriteString(char)
		}
		flush()
		sb.WriteString("\n")
	}

	sb.WriteString(generateTimestampRuler(width, c.Start, c.End))
	return sb.String()
}

// spikeColumns spreads the spike heights over the canvas columns. Each spike
// covers Geometry.Width columns followed by Geometry.Padding empty ones.
func (c Canvas) spikeColumns(width int) []float64 {
	out := make([]float64, width)
	g := c.Geometry.Clamp()
	step := g.TotalWidth()
	for i, h := range c.Heights {
		x0 := int(math.Round(float64(i) * step))
		x1 := int(math.Round(float64(i)*step + g.Width))
		for x := x0; x < x1 && x < width; x++ {
			out[x] = h
		}
	}
	return out
}

// columnStyles returns the colors of every column. Later regions win over
// earlier ones, the playhead wins over all of them.
func (c Canvas) columnStyles(width int) []cell {
	axis := timeaxis.New(c.End)
	axis.SetWidth(float64(width))

	p := c.Palette
	out := make([]cell, width)
	for x := range out {
		out[x] = cell{fg: p.Spike.Hex()}
	}
	for _, r := range c.Regions {
		tint := p.tint(r.Kind)
		x0 := int(math.Floor(axis.DurationToPxIn(r.Range.Start, c.Start, c.End)))
		x1 := int(math.Ceil(axis.DurationToPxIn(r.Range.End, c.Start, c.End)))
		x0 = max(x0, 0)
		x1 = min(x1, width)
		if x1 <= x0 && x0 < width {
			x1 = x0 + 1
		}
		for x := x0; x < x1; x++ {
			out[x] = cell{
				fg: p.Spike.BlendLab(tint, 0.6).Clamped().Hex(),
				bg: p.Background.BlendLab(tint, 0.35).Clamped().Hex(),
			}
		}
	}
	if (types.Segment{Start: c.Start, End: c.End}).Contains(c.Playhead) {
		x := min(int(axis.DurationToPxIn(c.Playhead, c.Start, c.End)), width-1)
		out[x] = cell{fg: p.Background.Hex(), bg: p.Playhead.Hex()}
	}
	return out
}

// Palette holds the colors a canvas is drawn with
type Palette struct {
	Background colorful.Color
	Spike      colorful.Color
	Segment    colorful.Color
	Active     colorful.Color
	Grouped    colorful.Color
	Window     colorful.Color
	Picked     colorful.Color
	Marker     colorful.Color
	Playhead   colorful.Color
}

// DefaultPalette returns colors for a dark or light terminal
func DefaultPalette(dark bool) Palette {
	p := Palette{
		Background: mustHex("#1c1c1c"),
		Spike:      mustHex("#9e9e9e"),
		Segment:    mustHex("#3b82f6"),
		Active:     mustHex("#f59e0b"),
		Grouped:    mustHex("#10b981"),
		Window:     mustHex("#6366f1"),
		Picked:     mustHex("#f43f5e"),
		Marker:     mustHex("#eab308"),
		Playhead:   mustHex("#ffffff"),
	}
	if !dark {
		p.Background = mustHex("#f5f5f5")
		p.Spike = mustHex("#424242")
		p.Playhead = mustHex("#000000")
	}
	return p
}

// mustHex parses a palette constant
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (p Palette) tint(k RegionKind) colorful.Color {
	switch k {
	case RegionActive:
		return p.Active
	case RegionGrouped:
		return p.Grouped
	case RegionWindow:
		return p.Window
	case RegionPicked:
		return p.Picked
	case RegionMarker:
		return p.Marker
	}
	return p.Segment
}

func (p Palette) style(c cell) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.fg))
	if c.bg != "" {
		s = s.Background(lipgloss.Color(c.bg))
	}
	return s
}

// getUpperHalfChar returns block character for upper half of waveform.
// Spikes grow away from the center line, so upper cells fill from their
// bottom edge.
func getUpperHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar

	extent := 0
	for i := segmentsPerChar - 1; i >= 0; i-- {
		if grid[baseY+i][x] {
			extent = segmentsPerChar - i
		}
	}
	return lowerBlock(extent)
}

// getLowerHalfChar returns block character for lower half of waveform,
// filled from the top edge of the cell
func getLowerHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar

	extent := 0
	for i := 0; i < segmentsPerChar; i++ {
		if grid[baseY+i][x] {
			extent = i + 1
		}
	}
	return upperBlock(extent)
}

var (
	lowerBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	upperBlocks = []string{" ", "▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"}
)

func lowerBlock(extent int) string {
	return lowerBlocks[min(max(extent, 0), segmentsPerChar)]
}

func upperBlock(extent int) string {
	return upperBlocks[min(max(extent, 0), segmentsPerChar)]
}

// generateTimestampRuler creates a timestamp ruler below the waveform
func generateTimestampRuler(width int, startMs, endMs int64) string {
	duration := endMs - startMs
	if duration <= 0 || width <= 0 {
		return strings.Repeat(" ", max(width, 0)) + "\n" + strings.Repeat(" ", max(width, 0)) + "\n"
	}

	// Pick an interval that gives a readable number of labels
	var interval int64
	switch {
	case duration < 1000:
		interval = 100
	case duration < 10000:
		interval = 1000
	case duration < 60000:
		interval = 5000
	default:
		interval = 15000
	}
	for duration/interval > 12 {
		interval *= 2
	}
	// Labels need room, assume about 8 columns each
	for interval > 0 && int(duration/interval)*8 > width {
		interval *= 2
	}

	label := timeaxis.Seconds
	if duration >= 60000 {
		label = timeaxis.MmSs
	}

	tickLine := []rune(strings.Repeat(" ", width))
	labelLine := []rune(strings.Repeat(" ", width))

	first := (startMs + interval - 1) / interval * interval
	for t := first; t <= endMs; t += interval {
		pos := int(float64(width-1) * float64(t-startMs) / float64(duration))
		if pos < 0 || pos >= width {
			continue
		}
		tickLine[pos] = '|'

		// Center the label on the tick mark
		text := []rune(label(t))
		startPos := min(max(pos-len(text)/2, 0), max(width-len(text), 0))
		for i, ch := range text {
			if startPos+i < width {
				labelLine[startPos+i] = ch
			}
		}
	}

	return string(tickLine) + "\n" + string(labelLine) + "\n"
}
