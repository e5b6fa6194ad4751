package k6

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

const summaryFixture = `{
  "metrics": {
    "http_req_duration": {"avg": 151.2, "min": 42.1, "med": 140.8, "max": 912.4, "p(90)": 310.5, "p(95)": 420.9},
    "http_reqs": {"count": 1200, "rate": 39.99},
    "checks": {"value": 0.975, "passes": 1170, "fails": 30},
    "vus_max": {"value": 25, "min": 25, "max": 25}
  },
  "root_group": {
    "name": "",
    "path": "",
    "groups": {
      "login": {
        "name": "login",
        "path": "::login",
        "groups": {},
        "checks": {
          "Login :: status is 200": {"name": "Login :: status is 200", "path": "::login::Login :: status is 200", "passes": 580, "fails": 20}
        }
      }
    },
    "checks": {
      "Apps :: status is 200": {"name": "Apps :: status is 200", "path": "::Apps :: status is 200", "passes": 590, "fails": 10}
    }
  }
}`

func writeSummary(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadSummary_Metrics(t *testing.T) {
	s, err := LoadSummary(writeSummary(t, summaryFixture))
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}

	dur, ok := s.Metric("http_req_duration")
	if !ok {
		t.Fatal("http_req_duration missing")
	}
	assert.Equal(t, dur.Avg, 151.2)
	assert.Equal(t, dur.P90, 310.5)
	assert.Equal(t, dur.P95, 420.9)

	reqs, ok := s.Metric("http_reqs")
	if !ok {
		t.Fatal("http_reqs missing")
	}
	assert.Equal(t, reqs.Count, float64(1200))

	checks, ok := s.Metric("checks")
	if !ok {
		t.Fatal("checks missing")
	}
	assert.Equal(t, checks.Passes, int64(1170))
	assert.Equal(t, checks.Fails, int64(30))
}

func TestLoadSummary_MissingMetric(t *testing.T) {
	s, err := LoadSummary(writeSummary(t, summaryFixture))
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if _, ok := s.Metric("no_such_metric"); ok {
		t.Fatal("expected ok=false for unknown metric")
	}
}

func TestSummary_AllChecks(t *testing.T) {
	s, err := LoadSummary(writeSummary(t, summaryFixture))
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}

	checks := s.AllChecks()
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	assert.Equal(t, checks[0].Name, "Apps :: status is 200")
	assert.Equal(t, checks[1].Name, "Login :: status is 200")
	assert.Equal(t, checks[1].Passes, int64(580))
}

func TestCheck_PassRatePct(t *testing.T) {
	c := Check{Passes: 580, Fails: 20}
	assert.Equal(t, c.PassRatePct(), float64(580)/float64(600)*100)

	if got := (Check{}).PassRatePct(); got != 0 {
		t.Fatalf("empty check pass rate = %v, want 0", got)
	}
}

func TestLoadSummary_Errors(t *testing.T) {
	if _, err := LoadSummary(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadSummary(writeSummary(t, "{not json")); err == nil {
		t.Fatal("expected error for malformed summary")
	}
}
