package metrics

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDescribe_TwoSamples(t *testing.T) {
	t.Parallel()

	s, err := Describe([]float64{100, 200})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	assert.Equal(t, s.Count, 2)
	assert.Equal(t, s.Min, 100.0)
	assert.Equal(t, s.Max, 200.0)
	assert.Equal(t, s.Avg, 150.0)
	assert.Equal(t, s.Median, 200.0)
	assert.Equal(t, s.P95, 200.0)
	assert.Equal(t, s.P99, 200.0)
}

func TestDescribe_Empty(t *testing.T) {
	t.Parallel()

	_, err := Describe(nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("err=%v", err)
	}
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 2}
	if _, err := Describe(values); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	assert.DeepEqual(t, values, []float64{3, 1, 2})
}

func TestPercentile_Edges(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4}
	if got := Percentile(values, 0); got != 1 {
		t.Fatalf("p0=%v", got)
	}
	if got := Percentile(values, 100); got != 4 {
		t.Fatalf("p100=%v", got)
	}
	if got := Percentile(nil, 95); got != 0 {
		t.Fatalf("empty=%v", got)
	}
}

func TestPercentile_NearestRank(t *testing.T) {
	t.Parallel()

	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	cases := []struct {
		k    float64
		want float64
	}{
		{50, 50},
		{90, 90},
		{95, 100},
		{99, 100},
	}
	for _, tc := range cases {
		if got := Percentile(values, tc.k); got != tc.want {
			t.Fatalf("p%.0f=%v want %v", tc.k, got, tc.want)
		}
	}
}

func TestPercentile_NonDecreasing(t *testing.T) {
	t.Parallel()

	values := []float64{5, 1, 9, 3, 7, 2, 8}
	s, err := Describe(values)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if s.Min > s.Median || s.Median > s.P90 || s.P90 > s.P95 || s.P95 > s.P99 || s.P99 > s.Max {
		t.Fatalf("ordering violated: %+v", s)
	}
}

func TestMedian_OddAndSingle(t *testing.T) {
	t.Parallel()

	if got := Median([]float64{1, 2, 3}); got != 2 {
		t.Fatalf("median=%v", got)
	}
	if got := Median([]float64{42}); got != 42 {
		t.Fatalf("median=%v", got)
	}
}
