package grafana

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// provisionFile matches Grafana's datasource provisioning schema
// (provisioning/datasources/*.yaml).
type provisionFile struct {
	APIVersion  int                   `yaml:"apiVersion"`
	Datasources []ProvisionDatasource `yaml:"datasources"`
}

// ProvisionDatasource describes one InfluxDB datasource entry.
type ProvisionDatasource struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Access    string `yaml:"access"`
	URL       string `yaml:"url"`
	Database  string `yaml:"database"`
	User      string `yaml:"user,omitempty"`
	IsDefault bool   `yaml:"isDefault"`
	Editable  bool   `yaml:"editable"`
}

// NewDatasource fills the InfluxDB datasource entry for the given
// connection.
func NewDatasource(name, influxURL, database, user string) ProvisionDatasource {
	return ProvisionDatasource{
		Name:      name,
		Type:      "influxdb",
		Access:    "proxy",
		URL:       influxURL,
		Database:  database,
		User:      user,
		IsDefault: true,
		Editable:  true,
	}
}

// RenderDatasource renders a provisioning file for one datasource, so
// a Grafana container can pick the connection up without any clicking
// around.
func RenderDatasource(ds ProvisionDatasource) ([]byte, error) {
	return yaml.Marshal(provisionFile{
		APIVersion:  1,
		Datasources: []ProvisionDatasource{ds},
	})
}

// WriteFiles writes the dashboard JSON and the datasource provisioning
// YAML into dir, returning the two paths.
func WriteFiles(dir string, d Dashboard, ds ProvisionDatasource) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	dashPath := filepath.Join(dir, "dashboard-k6.json")
	dashData, err := Render(d)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(dashPath, dashData, 0o644); err != nil {
		return "", "", err
	}

	dsPath := filepath.Join(dir, "datasource-influxdb.yaml")
	dsData, err := RenderDatasource(ds)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(dsPath, dsData, 0o644); err != nil {
		return "", "", err
	}

	return dashPath, dsPath, nil
}
