// Package audio turns audio files into the integer amplitude lists the
// resampler consumes.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/go-audio/wav"
	"github.com/schollz/audiomorph"

	"github.com/schollz/waveseg/internal/logger"
)

// Stock extraction settings
const (
	DefaultSlicesPerSecond = 40
	DefaultScaleFactor     = 4000
)

var ErrEmptyRange = errors.New("empty range")

// Provider extracts amplitudes for a range of a file. An endMs of 0 means
// the end of the file.
type Provider interface {
	Amplitudes(path string, startMs, endMs int64) ([]int, error)
	Duration(path string, startMs, endMs int64) (int64, error)
}

// clip is a decoded file mixed down to mono and scaled to [-1, 1]
type clip struct {
	sampleRate int
	mono       []float64
}

func (c *clip) durationMs() int64 {
	if c.sampleRate == 0 {
		return 0
	}
	return int64(len(c.mono)) * 1000 / int64(c.sampleRate)
}

// frames returns the sample indexes for a ms range, clamped to the clip
func (c *clip) frames(startMs, endMs int64) (int, int, error) {
	if endMs <= 0 {
		endMs = c.durationMs()
	}
	from := int(startMs * int64(c.sampleRate) / 1000)
	to := int(endMs * int64(c.sampleRate) / 1000)
	from = min(max(from, 0), len(c.mono))
	to = min(max(to, 0), len(c.mono))
	if from >= to {
		return 0, 0, fmt.Errorf("%d-%dms: %w", startMs, endMs, ErrEmptyRange)
	}
	return from, to, nil
}

func decode(path string) (*clip, error) {
	a, err := audiomorph.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if a.NumChannels == 0 || len(a.Data) == 0 {
		return &clip{sampleRate: a.SampleRate}, nil
	}

	full := float64(int64(1) << max(a.BitDepth-1, 0))
	n := len(a.Data[0])
	mono := make([]float64, n)
	for ch := 0; ch < a.NumChannels && ch < len(a.Data); ch++ {
		for i, s := range a.Data[ch][:min(n, len(a.Data[ch]))] {
			if a.BitDepth == 8 {
				s -= 128
			}
			mono[i] += float64(s) / full
		}
	}
	for i := range mono {
		mono[i] /= float64(a.NumChannels)
	}
	return &clip{sampleRate: a.SampleRate, mono: mono}, nil
}

// AverageProvider decodes the file and averages |amplitude| per slice
type AverageProvider struct {
	SlicesPerSecond int
	ScaleFactor     float64

	mu    sync.Mutex
	cache map[string]*clip
}

func NewAverageProvider(slicesPerSecond int, scaleFactor float64) *AverageProvider {
	if slicesPerSecond <= 0 {
		slicesPerSecond = DefaultSlicesPerSecond
	}
	if scaleFactor <= 0 {
		scaleFactor = DefaultScaleFactor
	}
	return &AverageProvider{
		SlicesPerSecond: slicesPerSecond,
		ScaleFactor:     scaleFactor,
		cache:           make(map[string]*clip),
	}
}

func (p *AverageProvider) load(path string) (*clip, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.cache[path]; ok {
		return c, nil
	}
	c, err := decode(path)
	if err != nil {
		return nil, err
	}
	p.cache[path] = c
	logger.Debugf("decoded %s: %d samples at %dHz", path, len(c.mono), c.sampleRate)
	return c, nil
}

func (p *AverageProvider) Amplitudes(path string, startMs, endMs int64) ([]int, error) {
	c, err := p.load(path)
	if err != nil {
		return nil, err
	}
	from, to, err := c.frames(startMs, endMs)
	if err != nil {
		return nil, err
	}

	per := max(c.sampleRate/p.SlicesPerSecond, 1)
	out := make([]int, 0, (to-from)/per+1)
	for i := from; i < to; i += per {
		end := min(i+per, to)
		var sum float64
		for _, s := range c.mono[i:end] {
			sum += math.Abs(s)
		}
		out = append(out, int(sum/float64(end-i)*p.ScaleFactor))
	}
	return out, nil
}

func (p *AverageProvider) Duration(path string, startMs, endMs int64) (int64, error) {
	return readDuration(path, startMs, endMs, p.load)
}

// readDuration reads the length from a WAV header when it can and decodes
// the file otherwise
func readDuration(path string, startMs, endMs int64, load func(string) (*clip, error)) (int64, error) {
	total, err := wavDuration(path)
	if err != nil {
		c, derr := load(path)
		if derr != nil {
			return 0, derr
		}
		total = c.durationMs()
	}
	if endMs <= 0 || endMs > total {
		endMs = total
	}
	startMs = max(startMs, 0)
	if startMs >= endMs {
		return 0, nil
	}
	return endMs - startMs, nil
}

func wavDuration(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0, fmt.Errorf("%s: not a wav file", path)
	}
	// the length comes from the data chunk, the file size includes the header
	if err := d.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	bytesPerSecond := int64(d.SampleRate) * int64(d.NumChans) * int64(d.BitDepth) / 8
	if bytesPerSecond <= 0 {
		return 0, fmt.Errorf("%s: invalid wav format", path)
	}
	return d.PCMLen() * 1000 / bytesPerSecond, nil
}
