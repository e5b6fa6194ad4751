package influx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"loadctl/internal/model"
)

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	var gotPath string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	c := New(s.URL, "k6", "", "")
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	assert.Equal(t, gotPath, "/ping")
}

func TestClient_EnsureDatabase(t *testing.T) {
	t.Parallel()

	var gotQuery, gotAuth string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotQuery = r.PostForm.Get("q")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"results":[{}]}`))
	}))
	defer s.Close()

	c := New(s.URL, "perf", "admin", "secret")
	if err := c.EnsureDatabase(context.Background()); err != nil {
		t.Fatalf("EnsureDatabase: %v", err)
	}
	assert.Equal(t, gotQuery, `CREATE DATABASE "perf"`)
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Fatalf("expected basic auth header, got %q", gotAuth)
	}
}

func TestClient_WriteSummaries(t *testing.T) {
	t.Parallel()

	var gotBody, gotRawQuery string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotRawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := New(s.URL, "k6", "", "")
	err := c.WriteSummaries(context.Background(), []model.Summary{{
		Endpoint:       "Apps Portal",
		Timestamp:      ts,
		TotalRequests:  10,
		SuccessRatePct: 99.5,
		MinMs:          100,
		MaxMs:          200,
		RequestsPerSec: 2.5,
		PeakRPS:        4,
	}})
	if err != nil {
		t.Fatalf("WriteSummaries: %v", err)
	}

	assert.Equal(t, gotRawQuery, "db=k6&precision=ns")
	if !strings.HasPrefix(gotBody, `endpoint_summary,endpoint=Apps\ Portal `) {
		t.Fatalf("unexpected series key: %q", gotBody)
	}
	for _, want := range []string{
		"total_requests=10i",
		"success_rate_pct=99.5",
		"min_ms=100",
		"peak_rps=4i",
	} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("body missing %q: %q", want, gotBody)
		}
	}
	if !strings.HasSuffix(strings.TrimRight(gotBody, "\n"), "1772359200000000000") {
		t.Fatalf("body missing ns timestamp: %q", gotBody)
	}
}

func TestClient_WriteSummaries_Empty(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty batch")
	}))
	defer s.Close()

	c := New(s.URL, "k6", "", "")
	if err := c.WriteSummaries(context.Background(), nil); err != nil {
		t.Fatalf("WriteSummaries: %v", err)
	}
}

func TestClient_ErrorIncludesBody(t *testing.T) {
	t.Parallel()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unable to parse"}`))
	}))
	defer s.Close()

	c := New(s.URL, "k6", "", "")
	err := c.WriteSummaries(context.Background(), []model.Summary{{Endpoint: "Apps"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	got := err.Error()
	if want := "400"; !strings.Contains(got, want) {
		t.Fatalf("error missing status: %q", got)
	}
	if want := `"error":"unable to parse"`; !strings.Contains(got, want) {
		t.Fatalf("error missing body: %q", got)
	}
}

func TestEscapeTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, escapeTag("Apps Portal"), `Apps\ Portal`)
	assert.Equal(t, escapeTag("a,b=c"), `a\,b\=c`)
	assert.Equal(t, escapeTag("plain"), "plain")
}
