package types

import "fmt"

// AmplitudeType selects how a chunk of raw amplitudes collapses into one spike
type AmplitudeType int

const (
	AmplitudeAvg AmplitudeType = iota
	AmplitudeMax
	AmplitudeMin
)

func (a AmplitudeType) String() string {
	switch a {
	case AmplitudeAvg:
		return "avg"
	case AmplitudeMax:
		return "max"
	case AmplitudeMin:
		return "min"
	default:
		return "unknown"
	}
}

// ParseAmplitudeType maps "avg", "max" or "min" to an AmplitudeType
func ParseAmplitudeType(s string) (AmplitudeType, error) {
	switch s {
	case "avg", "AVG":
		return AmplitudeAvg, nil
	case "max", "MAX":
		return AmplitudeMax, nil
	case "min", "MIN":
		return AmplitudeMin, nil
	}
	return AmplitudeAvg, fmt.Errorf("unknown amplitude type %q", s)
}

// ActiveRegion is the region that picker-mode edits target
type ActiveRegion int

const (
	RegionWindow ActiveRegion = iota
	RegionSegment
)

func (r ActiveRegion) String() string {
	if r == RegionSegment {
		return "segment"
	}
	return "window"
}

// ViewMode selects which editor the host shows
type ViewMode int

const (
	SegmentationView ViewMode = iota
	PickerView
)

func (v ViewMode) String() string {
	if v == PickerView {
		return "picker"
	}
	return "segmentation"
}

// Segment is a time range in milliseconds, Start < End
type Segment struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Duration returns End - Start
func (s Segment) Duration() int64 {
	return s.End - s.Start
}

// Valid reports whether 0 <= Start < End <= durationMs
func (s Segment) Valid(durationMs int64) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= durationMs
}

// Contains reports whether t lies inside [Start, End]
func (s Segment) Contains(t int64) bool {
	return t >= s.Start && t <= s.End
}

// Overlaps reports whether the open ranges of s and o intersect.
// Touching segments (s.End == o.Start) do not overlap.
func (s Segment) Overlaps(o Segment) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Segment) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// Point is a canvas-local pointer position
type Point struct {
	X float64
	Y float64
}

// Spike geometry limits, in canvas cells
const (
	MinSpikeWidth   = 1.0
	MaxSpikeWidth   = 24.0
	MinSpikePadding = 0.0
	MaxSpikePadding = 12.0
	MinSpikeRadius  = 0.0
	MaxSpikeRadius  = 12.0
)

// MinSpikeHeight is the floor every drawable spike is clamped to
const MinSpikeHeight = 0.5

// Nudge sizes used by the start/end adjustment buttons
const (
	TapAdjustmentMs     = 10
	LongTapAdjustmentMs = 50
)

// PlayerRefreshRateMs is how often the playhead is redrawn while playing
const PlayerRefreshRateMs = 10

// TouchTargetCells is how close to an edge a drag must start to resize it
const TouchTargetCells = 1.0

// Duration limits
const (
	DefaultMinimumSegmentDuration = 1000
	DefaultMaximumSegmentDuration = 15000
	MinimumSegmentDurationFloor   = 50
	MinimumWindowDuration         = 500
)

// SpikeGeometry describes how wide each spike is drawn
type SpikeGeometry struct {
	Width   float64 `yaml:"width" toml:"width" validate:"gte=0"`
	Radius  float64 `yaml:"radius" toml:"radius" validate:"gte=0"`
	Padding float64 `yaml:"padding" toml:"padding" validate:"gte=0"`
}

// Clamp returns the geometry with every field forced into its documented range
func (g SpikeGeometry) Clamp() SpikeGeometry {
	return SpikeGeometry{
		Width:   clampFloat(g.Width, MinSpikeWidth, MaxSpikeWidth),
		Radius:  clampFloat(g.Radius, MinSpikeRadius, MaxSpikeRadius),
		Padding: clampFloat(g.Padding, MinSpikePadding, MaxSpikePadding),
	}
}

// TotalWidth is the horizontal space one spike occupies
func (g SpikeGeometry) TotalWidth() float64 {
	c := g.Clamp()
	return c.Width + c.Padding
}

// SpikeCount returns how many spikes fit into canvasWidth
func (g SpikeGeometry) SpikeCount(canvasWidth float64) int {
	total := g.TotalWidth()
	if total <= 0 || canvasWidth <= 0 {
		return 0
	}
	return int(canvasWidth / total)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
