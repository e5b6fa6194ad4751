package influx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"loadctl/internal/model"
)

// measurement is the series written by WriteSummaries. The k6 process
// itself writes the raw per-request series when run with an influxdb
// output; this one holds the finished per-endpoint rollups.
const measurement = "endpoint_summary"

// Client is a thin HTTP client for an InfluxDB 1.x server.
type Client struct {
	baseURL  string
	database string
	username string
	password string
	http     *http.Client
}

// New creates a client for the given base URL (e.g. http://host:8086).
// Username may be empty when the server runs without auth.
func New(baseURL, database, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		database: database,
		username: username,
		password: password,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Database returns the database name the client writes to.
func (c *Client) Database() string {
	return c.database
}

// Ping checks that the server responds on /ping.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	return c.send(req)
}

// EnsureDatabase creates the configured database. CREATE DATABASE is
// idempotent on InfluxDB 1.x, so calling it on every setup is safe.
func (c *Client) EnsureDatabase(ctx context.Context) error {
	form := url.Values{"q": {fmt.Sprintf("CREATE DATABASE %q", c.database)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

// WriteSummaries writes one endpoint_summary point per summary with
// nanosecond timestamps. A nil or empty slice is a no-op.
func (c *Client) WriteSummaries(ctx context.Context, summaries []model.Summary) error {
	if len(summaries) == 0 {
		return nil
	}

	var b strings.Builder
	for _, s := range summaries {
		b.WriteString(line(s))
		b.WriteString("\n")
	}

	endpoint := c.baseURL + "/write?db=" + url.QueryEscape(c.database) + "&precision=ns"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(b.String()))
	if err != nil {
		return err
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) error {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return fmt.Errorf("influxdb request failed: %s: %s", res.Status, msg)
		}
		return fmt.Errorf("influxdb request failed: %s", res.Status)
	}
	return nil
}

// line renders one summary in line protocol. Field order is fixed so
// the payload is reproducible.
func line(s model.Summary) string {
	fields := []string{
		"total_requests=" + strconv.Itoa(s.TotalRequests) + "i",
		"success_rate_pct=" + formatFloat(s.SuccessRatePct),
		"min_ms=" + formatFloat(s.MinMs),
		"max_ms=" + formatFloat(s.MaxMs),
		"avg_ms=" + formatFloat(s.AvgMs),
		"median_ms=" + formatFloat(s.MedianMs),
		"p90_ms=" + formatFloat(s.P90Ms),
		"p95_ms=" + formatFloat(s.P95Ms),
		"p99_ms=" + formatFloat(s.P99Ms),
		"avg_blocked_ms=" + formatFloat(s.AvgBlockedMs),
		"avg_connecting_ms=" + formatFloat(s.AvgConnectingMs),
		"avg_tls_ms=" + formatFloat(s.AvgTLSMs),
		"avg_sending_ms=" + formatFloat(s.AvgSendingMs),
		"avg_waiting_ms=" + formatFloat(s.AvgWaitingMs),
		"avg_receiving_ms=" + formatFloat(s.AvgReceivingMs),
		"bytes_sent=" + formatFloat(s.BytesSent),
		"bytes_received=" + formatFloat(s.BytesReceived),
		"requests_per_sec=" + formatFloat(s.RequestsPerSec),
		"peak_rps=" + strconv.Itoa(s.PeakRPS) + "i",
	}

	var b strings.Builder
	b.WriteString(measurement)
	b.WriteString(",endpoint=")
	b.WriteString(escapeTag(s.Endpoint))
	b.WriteString(" ")
	b.WriteString(strings.Join(fields, ","))
	b.WriteString(" ")
	b.WriteString(strconv.FormatInt(s.Timestamp.UnixNano(), 10))
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeTag escapes the characters line protocol reserves in tag values.
func escapeTag(v string) string {
	r := strings.NewReplacer(",", `\,`, "=", `\=`, " ", `\ `)
	return r.Replace(v)
}
