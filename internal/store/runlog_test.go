package store

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRunLog_MissingFile_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "runs.yaml")
	log, err := LoadRunLog(path)
	if err != nil {
		t.Fatalf("LoadRunLog: %v", err)
	}
	if log == nil {
		t.Fatalf("run log is nil")
	}
	if len(log.Runs) != 0 {
		t.Fatalf("runs=%d", len(log.Runs))
	}
}

func TestSaveRunLog_RoundTrip(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "runs.yaml")

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := &RunLog{Runs: []RunRecord{{
		ID:          "20260301-100000",
		Script:      "scripts/load.js",
		StartedAt:   started,
		Duration:    "1m",
		VUs:         10,
		ResultsPath: "results/raw-20260301-100000.json",
		ReportPath:  "results/report.csv",
	}}}
	if err := SaveRunLog(path, in); err != nil {
		t.Fatalf("SaveRunLog: %v", err)
	}

	out, err := LoadRunLog(path)
	if err != nil {
		t.Fatalf("LoadRunLog: %v", err)
	}
	if len(out.Runs) != 1 {
		t.Fatalf("runs=%d", len(out.Runs))
	}
	if out.Runs[0].ID != "20260301-100000" || out.Runs[0].Script != "scripts/load.js" {
		t.Fatalf("run=%+v", out.Runs[0])
	}
	if !out.Runs[0].StartedAt.Equal(started) {
		t.Fatalf("started_at=%v", out.Runs[0].StartedAt)
	}
	if out.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not set")
	}
}

func TestRunLog_Append_OrdersByStart(t *testing.T) {
	t.Parallel()

	var log RunLog
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	log.Append(RunRecord{ID: "b", StartedAt: base.Add(time.Hour)})
	log.Append(RunRecord{ID: "a", StartedAt: base})

	if log.Runs[0].ID != "a" || log.Runs[1].ID != "b" {
		t.Fatalf("order=%v,%v", log.Runs[0].ID, log.Runs[1].ID)
	}

	latest, ok := log.Latest()
	if !ok || latest.ID != "b" {
		t.Fatalf("latest=%+v ok=%v", latest, ok)
	}
}

func TestRunLog_Append_ReplacesSameID(t *testing.T) {
	t.Parallel()

	var log RunLog
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	log.Append(RunRecord{ID: "run-1", StartedAt: started, ExitStatus: 0})
	log.Append(RunRecord{ID: "run-1", StartedAt: started, ExitStatus: 3})

	if len(log.Runs) != 1 {
		t.Fatalf("runs=%d", len(log.Runs))
	}
	if log.Runs[0].ExitStatus != 3 {
		t.Fatalf("exit_status=%d", log.Runs[0].ExitStatus)
	}
}

func TestRunLog_Latest_Empty(t *testing.T) {
	t.Parallel()

	var log RunLog
	if _, ok := log.Latest(); ok {
		t.Fatalf("expected ok=false on empty log")
	}
}
