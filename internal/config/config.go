// Package config holds the construction-time settings of a widget: duration
// limits, spike geometry, resampling policy and the player transport.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/schollz/waveseg/internal/types"
)

type OSC struct {
	Host string `yaml:"host" toml:"host" validate:"omitempty,hostname|ip"`
	// Port of the audio engine. 0 plays on a silent clock instead.
	Port int `yaml:"port" toml:"port" validate:"gte=0,lte=65535"`
	// ListenPort receives position reports from the engine
	ListenPort int `yaml:"listen_port" toml:"listen_port" validate:"gte=0,lte=65535"`
}

type Config struct {
	Mode string `yaml:"mode" toml:"mode" validate:"oneof=segmentation picker"`

	MinimumSegmentDuration int64 `yaml:"minimum_segment_duration" toml:"minimum_segment_duration" validate:"gte=0"`
	MaximumSegmentDuration int64 `yaml:"maximum_segment_duration" toml:"maximum_segment_duration" validate:"gte=50,gtefield=MinimumSegmentDuration"`

	Spike types.SpikeGeometry `yaml:"spike" toml:"spike"`

	// AmplitudeType is avg, max or min. Empty picks the mode default.
	AmplitudeType    string  `yaml:"amplitude_type" toml:"amplitude_type" validate:"omitempty,oneof=avg max min"`
	EnableAdjustment bool    `yaml:"enable_adjustment" toml:"enable_adjustment"`
	Multiplier       float64 `yaml:"multiplier" toml:"multiplier" validate:"gt=0,lte=100"`
	TouchTarget      float64 `yaml:"touch_target" toml:"touch_target" validate:"gte=0,lte=20"`

	SlicesPerSecond int     `yaml:"slices_per_second" toml:"slices_per_second" validate:"gte=1,lte=1000"`
	ScaleFactor     float64 `yaml:"scale_factor" toml:"scale_factor" validate:"gt=0"`

	// Segments seeds the segmentation editor
	Segments []types.Segment `yaml:"segments" toml:"segments"`
	// Window and Segment seed the picker. Zero values pick the defaults.
	Window  types.Segment `yaml:"window" toml:"window"`
	Segment types.Segment `yaml:"segment" toml:"segment"`

	OSC OSC `yaml:"osc" toml:"osc"`
}

// Default returns the stock settings
func Default() *Config {
	return &Config{
		Mode:                   types.SegmentationView.String(),
		MinimumSegmentDuration: types.DefaultMinimumSegmentDuration,
		MaximumSegmentDuration: types.DefaultMaximumSegmentDuration,
		Spike:                  types.SpikeGeometry{Width: 2, Radius: 2, Padding: 1},
		EnableAdjustment:       true,
		Multiplier:             1,
		TouchTarget:            types.TouchTargetCells,
		SlicesPerSecond:        40,
		ScaleFactor:            4000,
		OSC:                    OSC{Host: "localhost"},
	}
}

// Load reads path over the defaults. The format follows the extension and
// falls back to trying TOML then YAML. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := autoDetect(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

func autoDetect(data []byte, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err == nil {
		return nil
	}
	return errors.New("unable to parse config file (tried TOML, YAML)")
}

// ViewMode returns the configured editor
func (c *Config) ViewMode() types.ViewMode {
	if c.Mode == types.PickerView.String() {
		return types.PickerView
	}
	return types.SegmentationView
}

// Amplitude returns the reduction policy. Segmentation averages and the
// picker shows peaks unless one is set.
func (c *Config) Amplitude() types.AmplitudeType {
	if c.AmplitudeType != "" {
		if a, err := types.ParseAmplitudeType(c.AmplitudeType); err == nil {
			return a
		}
	}
	if c.ViewMode() == types.PickerView {
		return types.AmplitudeMax
	}
	return types.AmplitudeAvg
}

// Geometry returns the spike geometry forced into its drawable range
func (c *Config) Geometry() types.SpikeGeometry {
	return c.Spike.Clamp()
}
