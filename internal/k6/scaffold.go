package k6

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Endpoint is one request target in a generated script.
type Endpoint struct {
	Name string
	Path string
}

// ScriptSpec describes the starter script rendered by RenderScript.
type ScriptSpec struct {
	BaseURL      string
	VUs          int
	Duration     string
	P95Threshold int // milliseconds, 0 disables the threshold block
	SleepSeconds int
	Endpoints    []Endpoint
}

// RenderScript renders a runnable k6 script that tags every request and
// check with its endpoint name, so the report pipeline can group results
// without guessing.
func RenderScript(spec ScriptSpec) (string, error) {
	if len(spec.Endpoints) == 0 {
		return "", fmt.Errorf("at least one endpoint is required")
	}
	for _, ep := range spec.Endpoints {
		if ep.Name == "" {
			return "", fmt.Errorf("endpoint name is required")
		}
		if !strings.HasPrefix(ep.Path, "/") {
			return "", fmt.Errorf("endpoint path %q must start with /", ep.Path)
		}
	}
	baseURL := spec.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	vus := spec.VUs
	if vus <= 0 {
		vus = 10
	}
	duration := spec.Duration
	if duration == "" {
		duration = "1m"
	}
	sleep := spec.SleepSeconds
	if sleep <= 0 {
		sleep = 1
	}

	var b strings.Builder
	b.WriteString("import http from \"k6/http\";\n")
	b.WriteString("import { check, sleep } from \"k6\";\n")
	b.WriteString("\n")
	b.WriteString("export const options = {\n")
	fmt.Fprintf(&b, "  vus: %d,\n", vus)
	fmt.Fprintf(&b, "  duration: %q,\n", duration)
	if spec.P95Threshold > 0 {
		b.WriteString("  thresholds: {\n")
		fmt.Fprintf(&b, "    http_req_duration: [\"p(95)<%d\"],\n", spec.P95Threshold)
		b.WriteString("  },\n")
	}
	b.WriteString("};\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "const BASE_URL = __ENV.BASE_URL || %q;\n", baseURL)
	b.WriteString("\n")
	b.WriteString("export default function () {\n")
	for i, ep := range spec.Endpoints {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  const %s = http.get(`${BASE_URL}%s`, {\n", jsIdent(ep.Name, i), ep.Path)
		fmt.Fprintf(&b, "    tags: { endpoint: %q },\n", ep.Name)
		b.WriteString("  });\n")
		fmt.Fprintf(&b, "  check(%s, {\n", jsIdent(ep.Name, i))
		fmt.Fprintf(&b, "    %q: (r) => r.status === 200,\n", ep.Name+" :: status is 200")
		fmt.Fprintf(&b, "  }, { endpoint: %q });\n", ep.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  sleep(%d);\n", sleep)
	b.WriteString("}\n")

	return b.String(), nil
}

// WriteScript writes a rendered script, refusing to clobber an existing
// file so hand-edited scripts survive a rerun of init.
func WriteScript(path string, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// jsIdent derives a usable JS variable name from an endpoint name,
// falling back to a positional name for anything non-alphanumeric.
func jsIdent(name string, pos int) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', b.Len() > 0 && r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("res%d", pos)
	}
	return "res" + b.String()
}
