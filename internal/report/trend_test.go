package report

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"loadctl/internal/model"
)

func TestReadFile_RecoversAppendedBlocks(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "report.csv")

	run1 := []model.Summary{sampleSummary("Apps", 10), sampleSummary("Login", 4)}
	run2 := []model.Summary{sampleSummary("Apps", 20)}
	if err := WriteFile(path, run1, Options{}); err != nil {
		t.Fatalf("WriteFile #1: %v", err)
	}
	if err := WriteFile(path, run2, Options{Append: true}); err != nil {
		t.Fatalf("WriteFile #2: %v", err)
	}

	blocks, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks=%d", len(blocks))
	}
	if len(blocks[0]) != 2 || len(blocks[1]) != 1 {
		t.Fatalf("rows=%d/%d", len(blocks[0]), len(blocks[1]))
	}
	assert.Equal(t, blocks[0][0].Endpoint, "Apps")
	assert.Equal(t, blocks[0][0].TotalRequests, 10)
	assert.Equal(t, blocks[1][0].TotalRequests, 20)
}

func TestReadFile_RoundTripsRow(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "report.csv")
	in := sampleSummary("Apps", 10)
	if err := WriteFile(path, []model.Summary{in}, Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	blocks, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := blocks[0][0]
	assert.Equal(t, got.Endpoint, in.Endpoint)
	assert.Equal(t, got.Timestamp, in.Timestamp)
	assert.Equal(t, got.TotalRequests, in.TotalRequests)
	assert.Equal(t, got.SuccessRatePct, in.SuccessRatePct)
	assert.Equal(t, got.MinMs, in.MinMs)
	assert.Equal(t, got.MedianMs, in.MedianMs)
	assert.Equal(t, got.P95Ms, in.P95Ms)
	assert.Equal(t, got.BytesSent, in.BytesSent)
	assert.Equal(t, got.RequestsPerSec, in.RequestsPerSec)
	assert.Equal(t, got.PeakRPS, in.PeakRPS)
}

func TestTrend_GroupsByEndpoint(t *testing.T) {
	t.Parallel()

	blocks := [][]model.Summary{
		{sampleSummary("Apps", 10), sampleSummary("Login", 4)},
		{sampleSummary("Apps", 20)},
		{sampleSummary("Apps", 30), sampleSummary("Login", 6)},
	}

	series := Trend(blocks)
	if len(series) != 2 {
		t.Fatalf("series=%d", len(series))
	}
	assert.Equal(t, series[0].Endpoint, "Apps")
	assert.Equal(t, len(series[0].Runs), 3)
	assert.Equal(t, series[0].Runs[2].TotalRequests, 30)
	assert.Equal(t, series[1].Endpoint, "Login")
	assert.Equal(t, len(series[1].Runs), 2)
}
