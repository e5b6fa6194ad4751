package grafana

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	d := Build("InfluxDB-k6")

	assert.Equal(t, d.UID, DefaultUID)
	assert.Equal(t, d.Title, "k6 Load Test Results")
	if len(d.Panels) != 4 {
		t.Fatalf("expected 4 panels, got %d", len(d.Panels))
	}
	for _, p := range d.Panels {
		assert.Equal(t, p.Datasource, "InfluxDB-k6")
		if len(p.Targets) == 0 {
			t.Fatalf("panel %q has no targets", p.Title)
		}
		for _, tgt := range p.Targets {
			if !tgt.RawQuery {
				t.Fatalf("panel %q target %s is not a raw query", p.Title, tgt.RefID)
			}
		}
	}

	if len(d.Templating.List) != 1 {
		t.Fatalf("expected 1 template variable, got %d", len(d.Templating.List))
	}
	v := d.Templating.List[0]
	assert.Equal(t, v.Name, "endpoint")
	assert.Equal(t, v.Query, `SHOW TAG VALUES FROM "http_reqs" WITH KEY = "endpoint"`)
	if !v.IncludeAll || !v.Multi {
		t.Fatal("endpoint variable should allow all and multi")
	}
}

func TestBuild_Queries(t *testing.T) {
	t.Parallel()

	d := Build("ds")
	joined := ""
	for _, p := range d.Panels {
		for _, tgt := range p.Targets {
			joined += tgt.Query + "\n"
		}
	}

	for _, want := range []string{
		`FROM "http_reqs"`,
		`percentile("value", 95)`,
		`FROM "checks"`,
		`FROM "data_received"`,
		`FROM "data_sent"`,
		`/^$endpoint$/`,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("queries missing %q:\n%s", want, joined)
		}
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	data, err := Render(Build("ds"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var back Dashboard
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v", err)
	}
	assert.Equal(t, back.UID, DefaultUID)

	// New dashboards import with a null id.
	if !strings.Contains(string(data), `"id": null`) {
		t.Fatalf("expected null id in output:\n%s", data)
	}
}
