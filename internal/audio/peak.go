package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/schollz/gowaveform"

	"github.com/schollz/waveseg/internal/logger"
)

// PeakProvider reports the loudest sample per slice using min/max pairs
type PeakProvider struct {
	SlicesPerSecond int
	ScaleFactor     float64

	mu    sync.Mutex
	cache map[string]*gowaveform.Waveform
}

func NewPeakProvider(slicesPerSecond int, scaleFactor float64) *PeakProvider {
	if slicesPerSecond <= 0 {
		slicesPerSecond = DefaultSlicesPerSecond
	}
	if scaleFactor <= 0 {
		scaleFactor = DefaultScaleFactor
	}
	return &PeakProvider{
		SlicesPerSecond: slicesPerSecond,
		ScaleFactor:     scaleFactor,
		cache:           make(map[string]*gowaveform.Waveform),
	}
}

func (p *PeakProvider) load(path string) (*gowaveform.Waveform, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if wf, ok := p.cache[path]; ok {
		return wf, nil
	}
	wf, err := gowaveform.LoadWaveform(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	p.cache[path] = wf
	logger.Debugf("loaded %s: %.2fs at %dHz", path, wf.Duration(), wf.SampleRate)
	return wf, nil
}

func (p *PeakProvider) Amplitudes(path string, startMs, endMs int64) ([]int, error) {
	wf, err := p.load(path)
	if err != nil {
		return nil, err
	}
	totalMs := int64(wf.Duration() * 1000)
	if endMs <= 0 || endMs > totalMs {
		endMs = totalMs
	}
	if startMs < 0 {
		startMs = 0
	}
	if startMs >= endMs {
		return nil, fmt.Errorf("%d-%dms: %w", startMs, endMs, ErrEmptyRange)
	}

	width := max(int((endMs-startMs)*int64(p.SlicesPerSecond)/1000), 1)
	view, err := wf.GenerateView(gowaveform.WaveformOptions{
		Start: float64(startMs) / 1000,
		End:   float64(endMs) / 1000,
		Width: width,
	})
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", path, err)
	}

	// Data holds min,max pairs per slice, mixed over channels as int16
	out := make([]int, 0, view.Length)
	for i := 0; i+1 < len(view.Data); i += 2 {
		lo := math.Abs(float64(view.Data[i]))
		hi := math.Abs(float64(view.Data[i+1]))
		peak := max(lo, hi) / math.MaxInt16
		out = append(out, int(peak*p.ScaleFactor))
	}
	return out, nil
}

func (p *PeakProvider) Duration(path string, startMs, endMs int64) (int64, error) {
	return readDuration(path, startMs, endMs, decode)
}

// ForPolicy picks the provider that matches how spikes are reduced: peaks
// for "max", averages otherwise
func ForPolicy(peaks bool, slicesPerSecond int, scaleFactor float64) Provider {
	if peaks {
		return NewPeakProvider(slicesPerSecond, scaleFactor)
	}
	return NewAverageProvider(slicesPerSecond, scaleFactor)
}

// Load fetches amplitudes and duration for the whole file. Failures are
// logged and give an empty result, which renders as a flat waveform.
func Load(p Provider, path string) ([]int, int64) {
	durationMs, err := p.Duration(path, 0, 0)
	if err != nil {
		logger.Error("duration lookup failed", err)
		return nil, 0
	}
	amps, err := p.Amplitudes(path, 0, 0)
	if err != nil {
		logger.Warnf("amplitudes for %s: %v", path, err)
		return nil, durationMs
	}
	return amps, durationMs
}
