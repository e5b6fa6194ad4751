package k6

import (
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigFastest

// Summary is the end-of-test export k6 writes via --summary-export.
type Summary struct {
	Metrics   map[string]SummaryMetric `json:"metrics"`
	RootGroup Group                    `json:"root_group"`
}

// SummaryMetric carries whichever aggregate fields apply to the metric
// kind: trends export min/med/avg and percentiles, counters count/rate,
// rates value plus passes/fails, gauges value/min/max.
type SummaryMetric struct {
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Med    float64 `json:"med"`
	Max    float64 `json:"max"`
	P90    float64 `json:"p(90)"`
	P95    float64 `json:"p(95)"`
	Count  float64 `json:"count"`
	Rate   float64 `json:"rate"`
	Value  float64 `json:"value"`
	Passes int64   `json:"passes"`
	Fails  int64   `json:"fails"`
}

// Group mirrors k6's nested check groups.
type Group struct {
	Name   string           `json:"name"`
	Path   string           `json:"path"`
	Groups map[string]Group `json:"groups"`
	Checks map[string]Check `json:"checks"`
}

// Check is one named check with pass/fail counts.
type Check struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Passes int64  `json:"passes"`
	Fails  int64  `json:"fails"`
}

// PassRatePct returns the percentage of passing runs, 0 when the check
// never ran.
func (c Check) PassRatePct() float64 {
	total := c.Passes + c.Fails
	if total == 0 {
		return 0
	}
	return 100 * float64(c.Passes) / float64(total)
}

// LoadSummary reads a --summary-export file.
func LoadSummary(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Metric returns the named metric and whether it was exported.
func (s Summary) Metric(name string) (SummaryMetric, bool) {
	m, ok := s.Metrics[name]
	return m, ok
}

// AllChecks flattens the group tree into checks sorted by path.
func (s Summary) AllChecks() []Check {
	out := collectChecks(s.RootGroup, nil)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func collectChecks(g Group, out []Check) []Check {
	for _, c := range g.Checks {
		out = append(out, c)
	}
	for _, sub := range g.Groups {
		out = collectChecks(sub, out)
	}
	return out
}
