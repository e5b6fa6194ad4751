package grafana

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigFastest

// Dashboard is the subset of Grafana's dashboard model this tool emits.
// Grafana fills in everything omitted here with defaults on import.
type Dashboard struct {
	ID            *int       `json:"id"`
	UID           string     `json:"uid"`
	Title         string     `json:"title"`
	Tags          []string   `json:"tags"`
	Timezone      string     `json:"timezone"`
	SchemaVersion int        `json:"schemaVersion"`
	Version       int        `json:"version"`
	Refresh       string     `json:"refresh"`
	Time          TimeRange  `json:"time"`
	Templating    Templating `json:"templating"`
	Panels        []Panel    `json:"panels"`
}

type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Templating struct {
	List []TemplateVar `json:"list"`
}

// TemplateVar is a query-backed dashboard variable.
type TemplateVar struct {
	Name       string `json:"name"`
	Label      string `json:"label,omitempty"`
	Type       string `json:"type"`
	Datasource string `json:"datasource"`
	Query      string `json:"query"`
	Refresh    int    `json:"refresh"`
	IncludeAll bool   `json:"includeAll"`
	Multi      bool   `json:"multi"`
}

type Panel struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	Datasource string   `json:"datasource"`
	GridPos    GridPos  `json:"gridPos"`
	Targets    []Target `json:"targets"`
}

type GridPos struct {
	H int `json:"h"`
	W int `json:"w"`
	X int `json:"x"`
	Y int `json:"y"`
}

// Target is a raw InfluxQL query against the k6 output database.
type Target struct {
	RefID        string `json:"refId"`
	Query        string `json:"query"`
	RawQuery     bool   `json:"rawQuery"`
	ResultFormat string `json:"resultFormat"`
	Alias        string `json:"alias,omitempty"`
}

// DefaultUID keeps repeat imports updating one dashboard instead of
// piling up copies.
const DefaultUID = "loadctl-k6"

// Build assembles the k6 results dashboard against the named InfluxDB
// datasource. The queries read the raw series k6 writes with its
// influxdb output, filtered by the endpoint template variable.
func Build(datasource string) Dashboard {
	endpointFilter := `("endpoint" =~ /^$endpoint$/) AND $timeFilter`

	return Dashboard{
		UID:           DefaultUID,
		Title:         "k6 Load Test Results",
		Tags:          []string{"k6", "loadctl"},
		Timezone:      "browser",
		SchemaVersion: 27,
		Refresh:       "10s",
		Time:          TimeRange{From: "now-1h", To: "now"},
		Templating: Templating{List: []TemplateVar{{
			Name:       "endpoint",
			Label:      "Endpoint",
			Type:       "query",
			Datasource: datasource,
			Query:      `SHOW TAG VALUES FROM "http_reqs" WITH KEY = "endpoint"`,
			Refresh:    1,
			IncludeAll: true,
			Multi:      true,
		}}},
		Panels: []Panel{
			{
				ID:         1,
				Title:      "Requests per Second",
				Type:       "graph",
				Datasource: datasource,
				GridPos:    GridPos{H: 8, W: 12, X: 0, Y: 0},
				Targets: []Target{{
					RefID:        "A",
					Query:        fmt.Sprintf(`SELECT sum("value") FROM "http_reqs" WHERE %s GROUP BY time(1s) fill(0)`, endpointFilter),
					RawQuery:     true,
					ResultFormat: "time_series",
					Alias:        "requests/s",
				}},
			},
			{
				ID:         2,
				Title:      "Response Time p95 (ms)",
				Type:       "graph",
				Datasource: datasource,
				GridPos:    GridPos{H: 8, W: 12, X: 12, Y: 0},
				Targets: []Target{{
					RefID:        "A",
					Query:        fmt.Sprintf(`SELECT percentile("value", 95) FROM "http_req_duration" WHERE %s GROUP BY time(10s), "endpoint" fill(none)`, endpointFilter),
					RawQuery:     true,
					ResultFormat: "time_series",
					Alias:        "$tag_endpoint",
				}},
			},
			{
				ID:         3,
				Title:      "Check Success Rate (%)",
				Type:       "stat",
				Datasource: datasource,
				GridPos:    GridPos{H: 6, W: 8, X: 0, Y: 8},
				Targets: []Target{{
					RefID:        "A",
					Query:        fmt.Sprintf(`SELECT mean("value") * 100 FROM "checks" WHERE %s`, endpointFilter),
					RawQuery:     true,
					ResultFormat: "time_series",
				}},
			},
			{
				ID:         4,
				Title:      "Data Throughput (bytes/s)",
				Type:       "graph",
				Datasource: datasource,
				GridPos:    GridPos{H: 6, W: 16, X: 8, Y: 8},
				Targets: []Target{
					{
						RefID:        "A",
						Query:        `SELECT sum("value") FROM "data_received" WHERE $timeFilter GROUP BY time(1s) fill(0)`,
						RawQuery:     true,
						ResultFormat: "time_series",
						Alias:        "received",
					},
					{
						RefID:        "B",
						Query:        `SELECT sum("value") FROM "data_sent" WHERE $timeFilter GROUP BY time(1s) fill(0)`,
						RawQuery:     true,
						ResultFormat: "time_series",
						Alias:        "sent",
					},
				},
			},
		},
	}
}

// Render marshals a dashboard as indented JSON suitable for file
// provisioning or the import API.
func Render(d Dashboard) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
