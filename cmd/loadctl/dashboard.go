package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"loadctl/internal/grafana"
)

var (
	flagDashboardPush bool
	flagDashboardOut  string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Generate or push the Grafana dashboard for k6 results",
	Long: `Dashboard renders the k6 results dashboard and the matching InfluxDB
datasource. By default both land as provisioning files; with --push the
dashboard is imported straight into Grafana over its API instead.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			return usagef("dashboard takes no arguments")
		}
		return nil
	},
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&flagDashboardPush, "push", false, "import into Grafana via the API instead of writing files")
	dashboardCmd.Flags().StringVar(&flagDashboardOut, "out", "grafana", "provisioning output directory")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d := grafana.Build(cfg.Grafana.Datasource)

	if flagDashboardPush {
		if cfg.Grafana.APIKey == "" {
			return usagef("grafana.api_key (or LOADCTL_GRAFANA_API_KEY) is required for --push")
		}
		ctx, cancel := signalContext()
		defer cancel()

		client := grafana.NewClient(cfg.Grafana.URL, cfg.Grafana.APIKey)
		if err := client.ImportDashboard(ctx, d); err != nil {
			return errors.Wrap(err, "import dashboard")
		}
		fmt.Fprintf(os.Stdout, "dashboard %q imported to %s\n", d.Title, cfg.Grafana.URL)
		return nil
	}

	ds := grafana.NewDatasource(cfg.Grafana.Datasource, cfg.Influx.URL, cfg.Influx.Database, cfg.Influx.Username)
	dashPath, dsPath, err := grafana.WriteFiles(flagDashboardOut, d, ds)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, dashPath)
	fmt.Fprintln(os.Stdout, dsPath)
	return nil
}
