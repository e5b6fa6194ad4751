package k6

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"

	"loadctl/internal/execx"
)

// DefaultBin is the binary looked up on PATH when the config does not
// name one.
const DefaultBin = "k6"

// ExitError reports a k6 process that started but exited non-zero:
// script errors and crossed thresholds land here, as distinct from the
// binary being missing or unrunnable.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("k6 exited with status %d", e.Code)
}

// RunSpec describes one k6 invocation.
type RunSpec struct {
	Script        string
	VUs           int
	Duration      string
	BaseURL       string            // exported to the script as __ENV.BASE_URL
	OutJSON       string            // --out json=<path>
	InfluxOut     string            // --out influxdb=<url/db>
	SummaryExport string            // --summary-export <path>
	Tags          map[string]string // --tag key=value
	EnvVars       map[string]string // --env KEY=VALUE
	Quiet         bool
}

// Args builds the argument vector for spec. Env vars and tags are
// emitted in sorted order so the argv is stable.
func (s RunSpec) Args() ([]string, error) {
	if s.Script == "" {
		return nil, errors.New("script is required")
	}

	args := []string{"run"}
	if s.VUs > 0 {
		args = append(args, "--vus", strconv.Itoa(s.VUs))
	}
	if s.Duration != "" {
		args = append(args, "--duration", s.Duration)
	}
	if s.OutJSON != "" {
		args = append(args, "--out", "json="+s.OutJSON)
	}
	if s.InfluxOut != "" {
		args = append(args, "--out", "influxdb="+s.InfluxOut)
	}
	if s.SummaryExport != "" {
		args = append(args, "--summary-export", s.SummaryExport)
	}
	if s.Quiet {
		args = append(args, "--quiet")
	}

	env := make(map[string]string, len(s.EnvVars)+1)
	for k, v := range s.EnvVars {
		env[k] = v
	}
	if s.BaseURL != "" {
		env["BASE_URL"] = s.BaseURL
	}
	for _, k := range sortedKeys(env) {
		args = append(args, "--env", k+"="+env[k])
	}
	for _, k := range sortedKeys(s.Tags) {
		args = append(args, "--tag", k+"="+s.Tags[k])
	}

	args = append(args, s.Script)
	return args, nil
}

// Runner invokes the k6 binary.
type Runner struct {
	Bin  string
	Exec execx.Runner
}

// NewRunner creates a runner for bin, defaulting to DefaultBin and a
// host OSRunner.
func NewRunner(bin string, runner execx.Runner) *Runner {
	if bin == "" {
		bin = DefaultBin
	}
	if runner == nil {
		runner = execx.NewOSRunner(nil, nil)
	}
	return &Runner{Bin: bin, Exec: runner}
}

// Run executes the load test described by spec, streaming k6 output.
// A non-zero k6 exit is returned as *ExitError.
func (r *Runner) Run(ctx context.Context, spec RunSpec) error {
	args, err := spec.Args()
	if err != nil {
		return err
	}
	if err := r.Exec.Run(ctx, r.Bin, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return err
	}
	return nil
}

// Version reports the k6 binary version.
func (r *Runner) Version(ctx context.Context) (string, error) {
	return r.Exec.Output(ctx, r.Bin, "version")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
