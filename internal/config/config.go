package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath     = "loadctl.yaml"
	DefaultK6Bin          = "k6"
	DefaultScript         = "scripts/load.js"
	DefaultVUs            = 10
	DefaultDuration       = "1m"
	DefaultBaseURL        = "http://localhost:8080"
	DefaultOutputDir      = "results"
	DefaultRunLogPath     = "results/runs.yaml"
	DefaultReportPath     = "results/report.csv"
	DefaultEndpointTag    = "endpoint"
	DefaultCheckSeparator = " :: "
	DefaultChartDir       = "results/charts"
	DefaultInfluxURL      = "http://localhost:8086"
	DefaultInfluxDatabase = "k6"
	DefaultGrafanaURL     = "http://localhost:3000"
	DefaultDatasource     = "InfluxDB-k6"
)

// Config holds run, report and integration settings.
type Config struct {
	Run     RunConfig     `yaml:"run"`
	Report  ReportConfig  `yaml:"report"`
	Influx  InfluxConfig  `yaml:"influx"`
	Grafana GrafanaConfig `yaml:"grafana"`
}

// RunConfig controls how k6 is invoked and where artifacts land.
type RunConfig struct {
	Script    string            `yaml:"script"`
	VUs       int               `yaml:"vus"`
	Duration  string            `yaml:"duration"`
	BaseURL   string            `yaml:"base_url"`
	K6Bin     string            `yaml:"k6_bin"`
	OutputDir string            `yaml:"output_dir"`
	LogPath   string            `yaml:"log_path"`
	Tags      map[string]string `yaml:"tags,omitempty"`
}

// ReportConfig controls aggregation and CSV output.
type ReportConfig struct {
	Path           string `yaml:"path"`
	EndpointTag    string `yaml:"endpoint_tag"`
	CheckSeparator string `yaml:"check_separator"`
	ChartDir       string `yaml:"chart_dir"`
}

// InfluxConfig points at the InfluxDB server k6 streams into.
type InfluxConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// GrafanaConfig points at the Grafana instance dashboards go to.
type GrafanaConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key,omitempty"`
	Datasource string `yaml:"datasource"`
}

// Load reads and parses a YAML config file. Environment overrides are
// applied on top of the file, then defaults fill whatever is left.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as an
// empty one, so every command works without a config file present.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the config used when no file exists.
func Default() Config {
	var cfg Config
	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return cfg
}

// Save writes a YAML config file to disk. 0600 because the influx
// password and grafana key may be in it.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate performs minimal validation for required fields.
func Validate(cfg Config) error {
	if cfg.Run.Script == "" {
		return fmt.Errorf("run.script is required")
	}
	if cfg.Run.VUs <= 0 {
		return fmt.Errorf("run.vus must be positive")
	}
	if cfg.Run.Duration == "" {
		return fmt.Errorf("run.duration is required")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Run.Script == "" {
		cfg.Run.Script = DefaultScript
	}
	if cfg.Run.VUs == 0 {
		cfg.Run.VUs = DefaultVUs
	}
	if cfg.Run.Duration == "" {
		cfg.Run.Duration = DefaultDuration
	}
	if cfg.Run.BaseURL == "" {
		cfg.Run.BaseURL = DefaultBaseURL
	}
	if cfg.Run.K6Bin == "" {
		cfg.Run.K6Bin = DefaultK6Bin
	}
	if cfg.Run.OutputDir == "" {
		cfg.Run.OutputDir = DefaultOutputDir
	}
	if cfg.Run.LogPath == "" {
		cfg.Run.LogPath = DefaultRunLogPath
	}

	if cfg.Report.Path == "" {
		cfg.Report.Path = DefaultReportPath
	}
	if cfg.Report.EndpointTag == "" {
		cfg.Report.EndpointTag = DefaultEndpointTag
	}
	if cfg.Report.CheckSeparator == "" {
		cfg.Report.CheckSeparator = DefaultCheckSeparator
	}
	if cfg.Report.ChartDir == "" {
		cfg.Report.ChartDir = DefaultChartDir
	}

	if cfg.Influx.URL == "" {
		cfg.Influx.URL = DefaultInfluxURL
	}
	if cfg.Influx.Database == "" {
		cfg.Influx.Database = DefaultInfluxDatabase
	}

	if cfg.Grafana.URL == "" {
		cfg.Grafana.URL = DefaultGrafanaURL
	}
	if cfg.Grafana.Datasource == "" {
		cfg.Grafana.Datasource = DefaultDatasource
	}
}

// applyEnv overlays LOADCTL_* environment variables, so CI can point a
// checked-in config at different hosts without editing it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LOADCTL_K6_BIN"); v != "" {
		cfg.Run.K6Bin = v
	}
	if v := os.Getenv("LOADCTL_BASE_URL"); v != "" {
		cfg.Run.BaseURL = v
	}
	if v := os.Getenv("LOADCTL_INFLUX_URL"); v != "" {
		cfg.Influx.URL = v
	}
	if v := os.Getenv("LOADCTL_INFLUX_USERNAME"); v != "" {
		cfg.Influx.Username = v
	}
	if v := os.Getenv("LOADCTL_INFLUX_PASSWORD"); v != "" {
		cfg.Influx.Password = v
	}
	if v := os.Getenv("LOADCTL_GRAFANA_URL"); v != "" {
		cfg.Grafana.URL = v
	}
	if v := os.Getenv("LOADCTL_GRAFANA_API_KEY"); v != "" {
		cfg.Grafana.APIKey = v
	}
}
