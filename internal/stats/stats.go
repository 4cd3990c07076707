// Package stats provides the summary statistics used by the benchmark
// collectors. All functions are pure; percentile functions require the
// caller to pre-sort and to handle empty inputs.
package stats

import (
	"errors"
	"math"
)

// ErrEmptyInput is returned when a percentile is requested over zero
// samples. Callers are expected to check emptiness first and substitute
// a zero-filled summary instead of propagating this.
var ErrEmptyInput = errors.New("stats: empty input")

// PercentileAscending returns the p-quantile of values sorted ascending.
// Intended for lower-is-better distributions (latency, inter-arrival
// time): roughly a p fraction of samples are at or below the result.
func PercentileAscending(sorted []float64, p float64) (float64, error) {
	return percentile(sorted, p)
}

// PercentileDescending returns the p-quantile of values sorted descending.
// Intended for higher-is-better distributions (frames or commands per
// second): the result is the rate achieved or exceeded for a p fraction
// of the measured seconds.
func PercentileDescending(sorted []float64, p float64) (float64, error) {
	return percentile(sorted, p)
}

func percentile(sorted []float64, p float64) (float64, error) {
	if len(sorted) == 0 {
		return 0, ErrEmptyInput
	}
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx], nil
}

// Stability is the population standard deviation of values, used as a
// jitter indicator. Fewer than 2 samples yields 0, never an error.
func Stability(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	// Welford's algorithm (population), matching the variance clamp used
	// for RTT aggregation so repeated values can't produce NaN.
	var mean, m2 float64
	for i, v := range values {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}
	variance := m2 / float64(len(values))
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the smallest value, or 0 for empty input.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
