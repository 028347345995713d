// Package resample turns raw amplitude samples into a fixed number of
// drawable spike heights.
package resample

import (
	"math"

	"github.com/schollz/waveseg/internal/types"
)

// Reducer collapses one chunk of values into a single value
type Reducer func([]float64) float64

// ReducerFor returns the reducer for an amplitude policy
func ReducerFor(policy types.AmplitudeType) Reducer {
	switch policy {
	case types.AmplitudeMax:
		return maxOf
	case types.AmplitudeMin:
		return minOf
	default:
		return average
	}
}

// Resample returns exactly targetCount heights in [minHeight, maxHeight].
// Empty input yields targetCount copies of minHeight.
func Resample(samples []int, targetCount int, policy types.AmplitudeType, minHeight, maxHeight, multiplier float64) []float64 {
	if targetCount <= 0 {
		return []float64{}
	}
	if len(samples) == 0 {
		return filled(targetCount, minHeight)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s)
	}

	reduce := ReducerFor(policy)
	var reduced []float64
	if targetCount > len(values) {
		reduced = FillToSize(values, targetCount, reduce)
	} else {
		reduced = ChunkToSize(values, targetCount, reduce)
	}

	out := Normalize(reduced, minHeight, maxHeight)
	for i, v := range out {
		out[i] = clamp(v*multiplier, minHeight, maxHeight)
	}
	return out
}

// FillToSize replicates every value ceil(size/len) times and chunks the
// result back down to size.
func FillToSize(values []float64, size int, reduce Reducer) []float64 {
	if size <= 0 || len(values) == 0 {
		return []float64{}
	}
	capacity := int(math.Ceil(SafeDiv(float64(size), float64(len(values)))))
	expanded := make([]float64, 0, capacity*len(values))
	for _, v := range values {
		for i := 0; i < capacity; i++ {
			expanded = append(expanded, v)
		}
	}
	return ChunkToSize(expanded, size, reduce)
}

// ChunkToSize reduces values (len >= size) to exactly size groups.
//
// Every element whose index is a multiple of ceil(N/remainder) is dropped so
// that the surplus is spread across the sequence, and the rest is cut into
// chunks of N/size. Passes repeat on the reduced values until the count
// matches. Each pass drops at most remainder elements, so a pass never
// yields fewer than size chunks and always shrinks the sequence.
func ChunkToSize(values []float64, size int, reduce Reducer) []float64 {
	if size <= 0 || len(values) == 0 {
		return []float64{}
	}
	if len(values) < size {
		return FillToSize(values, size, reduce)
	}

	current := values
	for {
		n := len(current)
		chunkSize := n / size
		remainder := n % size
		remainderIndex := int(math.Ceil(SafeDiv(float64(n), float64(remainder))))

		kept := make([]float64, 0, n)
		for i, v := range current {
			if remainderIndex == 0 || i%remainderIndex != 0 {
				kept = append(kept, v)
			}
		}

		chunks := make([]float64, 0, size+1)
		for start := 0; start < len(kept); start += chunkSize {
			end := start + chunkSize
			if end > len(kept) {
				end = len(kept)
			}
			chunks = append(chunks, reduce(kept[start:end]))
		}

		if len(chunks) == size {
			return chunks
		}
		current = chunks
	}
}

// Normalize remaps values linearly from their observed [min, max] to
// [lo, hi]. A flat input is returned unchanged.
func Normalize(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(values) == 0 {
		return out
	}

	observedMin, observedMax := minOf(values), maxOf(values)
	if observedMin == observedMax {
		return out
	}
	for i, v := range values {
		out[i] = (hi-lo)*SafeDiv(v-observedMin, observedMax-observedMin) + lo
	}
	return out
}

// SafeDiv returns a/b, or 0 when b is 0
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// SliceRange returns the samples that cover [startMs, endMs] of a clip
// lasting durationMs. Indices are scaled linearly and clamped.
func SliceRange(samples []int, durationMs, startMs, endMs int64) []int {
	if durationMs <= 0 || len(samples) == 0 {
		return []int{}
	}
	n := float64(len(samples))
	startIdx := clampInt(int(n*float64(startMs)/float64(durationMs)), 0, len(samples))
	endIdx := clampInt(int(n*float64(endMs)/float64(durationMs)), 0, len(samples))
	if endIdx <= startIdx {
		return []int{}
	}
	return samples[startIdx:endIdx]
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func average(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func maxOf(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
