package metrics

import (
	"errors"
	"math"
	"sort"
)

// ErrNoSamples is returned by Describe when no values were observed.
var ErrNoSamples = errors.New("no samples")

// Stats is a basic statistics snapshot over one series of values.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Avg    float64
	Median float64
	P90    float64
	P95    float64
	P99    float64
}

// Describe computes the full snapshot for values. The input slice is
// left unmodified. Returns ErrNoSamples when values is empty.
func Describe(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, ErrNoSamples
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return Stats{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Avg:    sum / float64(len(sorted)),
		Median: Median(sorted),
		P90:    Percentile(sorted, 90),
		P95:    Percentile(sorted, 95),
		P99:    Percentile(sorted, 99),
	}, nil
}

// Percentile returns the k-th percentile of sorted (ascending) values
// using the nearest-rank method: the element at index ceil(k/100*n)-1,
// clamped to the valid range.
func Percentile(sorted []float64, k float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if k <= 0 {
		return sorted[0]
	}
	if k >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(k/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Median returns the upper median of sorted (ascending) values, the
// element at index n/2. For an even count this is the greater of the
// two middle elements, so the result is always an observed value.
func Median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}
