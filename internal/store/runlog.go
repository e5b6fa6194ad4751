package store

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// RunLog persists the history of load test runs.
type RunLog struct {
	UpdatedAt time.Time   `yaml:"updated_at"`
	Runs      []RunRecord `yaml:"runs"`
}

// RunRecord is a minimal snapshot of one completed run and where its
// artifacts went.
type RunRecord struct {
	ID          string    `yaml:"id"`
	Script      string    `yaml:"script"`
	StartedAt   time.Time `yaml:"started_at"`
	Duration    string    `yaml:"duration"`
	VUs         int       `yaml:"vus"`
	ExitStatus  int       `yaml:"exit_status"`
	ResultsPath string    `yaml:"results_path"`
	SummaryPath string    `yaml:"summary_path"`
	ReportPath  string    `yaml:"report_path"`
}

// LoadRunLog loads the run log from disk. If the file is missing,
// returns an empty log.
func LoadRunLog(path string) (*RunLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RunLog{}, nil
		}
		return nil, err
	}

	var log RunLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// SaveRunLog writes the run log to disk.
func SaveRunLog(path string, log *RunLog) error {
	if log == nil {
		return nil
	}
	log.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Append adds a record, replacing any earlier record with the same ID,
// and keeps runs ordered by start time.
func (l *RunLog) Append(rec RunRecord) {
	for i, r := range l.Runs {
		if r.ID == rec.ID {
			l.Runs[i] = rec
			sortRuns(l.Runs)
			return
		}
	}
	l.Runs = append(l.Runs, rec)
	sortRuns(l.Runs)
}

// Latest returns the most recent record, false when the log is empty.
func (l *RunLog) Latest() (RunRecord, bool) {
	if len(l.Runs) == 0 {
		return RunRecord{}, false
	}
	return l.Runs[len(l.Runs)-1], true
}

func sortRuns(runs []RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
}
