package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hypebeast/go-osc/osc"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/schollz/waveseg/internal/audio"
	"github.com/schollz/waveseg/internal/config"
	"github.com/schollz/waveseg/internal/logger"
	"github.com/schollz/waveseg/internal/player"
	"github.com/schollz/waveseg/internal/report"
	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
	"github.com/schollz/waveseg/internal/views"
)

var (
	Version = "dev"

	// Command-line configuration
	flags struct {
		config     string
		log        string
		logLevel   string
		mode       string
		amplitude  string
		minimum    int64
		maximum    int64
		multiplier float64
		oscHost    string
		oscPort    int
		oscListen  int
		noAdjust   bool
		json       bool
		out        string
		resume     string
	}
)

var rootCmd = &cobra.Command{
	Use:   "waveseg <audio file>",
	Short: "Mark segments on an audio waveform in the terminal",
	Long: `waveseg draws the waveform of an audio file and lets you mark time
ranges on it with the mouse or keyboard.

Modes:
• segmentation: a list of non-overlapping segments that can be resized,
  grouped, merged and undone
• picker: one segment nested in a zoom window

The selection is printed when you quit.`,
	Version: Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runWaveseg,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "YAML or TOML settings file")
	f.StringVarP(&flags.log, "log", "l", "", "Write debug logs to specified file (empty disables)")
	f.StringVar(&flags.logLevel, "log-level", "debug", "Log level: debug, info, warn or error")
	f.StringVarP(&flags.mode, "mode", "m", types.SegmentationView.String(), "Editor: segmentation or picker")
	f.StringVarP(&flags.amplitude, "amplitude", "a", "", "Spike reduction: avg, max or min (default depends on mode)")
	f.Int64Var(&flags.minimum, "min", types.DefaultMinimumSegmentDuration, "Minimum segment length in ms")
	f.Int64Var(&flags.maximum, "max", types.DefaultMaximumSegmentDuration, "Maximum segment length in ms")
	f.Float64Var(&flags.multiplier, "multiplier", 1, "Spike height multiplier")
	f.StringVar(&flags.oscHost, "osc-host", "localhost", "Audio engine host")
	f.IntVar(&flags.oscPort, "osc-port", 0, "Audio engine OSC port (0 plays on a silent clock)")
	f.IntVar(&flags.oscListen, "osc-listen", 0, "Port to receive position reports on (0 disables)")
	f.BoolVar(&flags.noAdjust, "no-adjust", false, "Hide the nudge buttons")
	f.BoolVar(&flags.json, "json", false, "Print the selection as JSON")
	f.StringVarP(&flags.out, "out", "o", "", "Write the selection as JSON to this file instead of stdout")
	f.StringVarP(&flags.resume, "resume", "r", "", "Start from the selection in a JSON report written earlier")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config and lets explicitly set flags override it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("mode") {
		cfg.Mode = flags.mode
	}
	if changed("amplitude") {
		cfg.AmplitudeType = flags.amplitude
	}
	if changed("min") {
		cfg.MinimumSegmentDuration = flags.minimum
	}
	if changed("max") {
		cfg.MaximumSegmentDuration = flags.maximum
	}
	if changed("multiplier") {
		cfg.Multiplier = flags.multiplier
	}
	if changed("osc-host") {
		cfg.OSC.Host = flags.oscHost
	}
	if changed("osc-port") {
		cfg.OSC.Port = flags.oscPort
	}
	if changed("osc-listen") {
		cfg.OSC.ListenPort = flags.oscListen
	}
	if changed("no-adjust") {
		cfg.EnableAdjustment = !flags.noAdjust
	}
	if flags.resume != "" {
		if err := resume(cfg, flags.resume, !changed("mode")); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resume seeds cfg with the selection of a report. The report's mode is
// taken only when takeMode is set.
func resume(cfg *config.Config, path string, takeMode bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	r, err := report.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if takeMode && r.Mode != "" {
		cfg.Mode = r.Mode
	}
	if len(r.Segments) > 0 {
		cfg.Segments = r.Segments
	}
	if r.Window != nil {
		cfg.Window = *r.Window
	}
	if r.Segment != nil {
		cfg.Segment = *r.Segment
	}
	logger.Debugf("resumed %d segments from %s", len(r.Segments), path)
	return nil
}

func runWaveseg(cmd *cobra.Command, args []string) error {
	// Set up debug logging early
	if flags.log != "" {
		f, err := tea.LogToFile(flags.log, "debug")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}
	logger.SetLevel(flags.logLevel)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open audio: %w", err)
	}

	provider := audio.ForPolicy(cfg.Amplitude() == types.AmplitudeMax, cfg.SlicesPerSecond, cfg.ScaleFactor)
	amps, durationMs := audio.Load(provider, path)
	if durationMs <= 0 {
		return errors.New("no audio could be read from " + args[0])
	}
	logger.Infof("loaded %s: %d ms, %d amplitudes, mode %s", path, durationMs, len(amps), cfg.Mode)

	pl := newPlayer(cfg, path, durationMs)
	pl.OnStateChange(func(playing bool) {
		logger.Debugf("playback running=%v at %d ms", playing, pl.Position())
	})

	a := newApp(cfg, path, amps, timeaxis.New(durationMs), pl)
	a.palette = views.DefaultPalette(termenv.HasDarkBackground())

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	a.send = p.Send

	finalModel, err := p.Run()
	a.repeater.Stop()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	final, ok := finalModel.(*app)
	if !ok {
		return errors.New("unexpected model type returned from program")
	}
	r := final.report()
	if flags.out != "" {
		if err := report.WriteFile(flags.out, r); err != nil {
			return err
		}
		logger.Infof("selection written to %s", flags.out)
		return nil
	}
	return report.Write(os.Stdout, r, flags.json)
}

// newPlayer returns the OSC player when an engine port is configured and a
// silent clock otherwise
func newPlayer(cfg *config.Config, path string, durationMs int64) player.Player {
	if cfg.OSC.Port == 0 {
		logger.Infof("no audio engine configured, playing on a silent clock")
		return player.NewClock(durationMs)
	}

	pl := player.NewOSC(cfg.OSC.Host, cfg.OSC.Port, path, durationMs)
	logger.Infof("OSC player sending to %s:%d", cfg.OSC.Host, cfg.OSC.Port)
	if cfg.OSC.ListenPort == 0 {
		return pl
	}

	d := osc.NewStandardDispatcher()
	if err := pl.Register(d); err != nil {
		logger.Error("register OSC handlers", err)
		return pl
	}
	server := &osc.Server{Addr: fmt.Sprintf(":%d", cfg.OSC.ListenPort), Dispatcher: d}
	go func() {
		logger.Infof("Starting OSC server on port %d", cfg.OSC.ListenPort)
		if err := server.ListenAndServe(); err != nil {
			logger.Error("OSC server stopped", err)
		}
	}()
	return pl
}
