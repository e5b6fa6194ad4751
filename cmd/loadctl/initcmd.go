package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loadctl/internal/config"
	"loadctl/internal/k6"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a starter k6 script and loadctl.yaml",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return usagef("init takes at most one directory")
		}
		return nil
	},
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// starterConfig is written instead of a yaml.Marshal dump so the
// scaffolded file carries the optional keys as comments.
func starterConfig() string {
	return fmt.Sprintf(`# loadctl configuration. LOADCTL_* environment variables override the
# influx and grafana credentials below.
run:
  script: %s
  vus: %d
  duration: %s
  base_url: %s
  k6_bin: %s
  output_dir: %s
  log_path: %s
report:
  path: %s
  endpoint_tag: %s
  check_separator: "%s"
  chart_dir: %s
influx:
  url: %s
  database: %s
  # username: admin
  # password: secret
grafana:
  url: %s
  # api_key: glsa_...
  datasource: %s
`,
		config.DefaultScript,
		config.DefaultVUs,
		config.DefaultDuration,
		config.DefaultBaseURL,
		config.DefaultK6Bin,
		config.DefaultOutputDir,
		config.DefaultRunLogPath,
		config.DefaultReportPath,
		config.DefaultEndpointTag,
		config.DefaultCheckSeparator,
		config.DefaultChartDir,
		config.DefaultInfluxURL,
		config.DefaultInfluxDatabase,
		config.DefaultGrafanaURL,
		config.DefaultDatasource,
	)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfgPath := filepath.Join(dir, config.DefaultConfigPath)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	script, err := k6.RenderScript(k6.ScriptSpec{
		BaseURL:      config.DefaultBaseURL,
		VUs:          config.DefaultVUs,
		Duration:     config.DefaultDuration,
		P95Threshold: 500,
		Endpoints: []k6.Endpoint{
			{Name: "Home", Path: "/"},
			{Name: "Health", Path: "/health"},
		},
	})
	if err != nil {
		return err
	}

	scriptPath := filepath.Join(dir, config.DefaultScript)
	if err := k6.WriteScript(scriptPath, script); err != nil {
		return err
	}

	if err := os.WriteFile(cfgPath, []byte(starterConfig()), 0o644); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, scriptPath)
	fmt.Fprintln(os.Stdout, cfgPath)
	fmt.Fprintln(os.Stdout, "edit the endpoints in the script, then: loadctl run")
	return nil
}
