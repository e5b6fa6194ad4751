package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loadctl/internal/config"
	"loadctl/internal/grafana"
	"loadctl/internal/influx"
	"loadctl/internal/k6"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that k6, InfluxDB and Grafana are reachable",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			return usagef("doctor takes no arguments")
		}
		return nil
	},
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	failed := 0
	check := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Fprintf(os.Stdout, "fail  %s: %v\n", name, err)
			return
		}
		if detail != "" {
			fmt.Fprintf(os.Stdout, "ok    %s (%s)\n", name, detail)
			return
		}
		fmt.Fprintf(os.Stdout, "ok    %s\n", name)
	}

	check("config", config.Validate(cfg), "")

	k6Version, err := k6.NewRunner(cfg.Run.K6Bin, nil).Version(ctx)
	check("k6 binary", err, k6Version)

	ic := cfg.Influx
	check("influxdb", influx.New(ic.URL, ic.Database, ic.Username, ic.Password).Ping(ctx), ic.URL)

	check("grafana", grafana.NewClient(cfg.Grafana.URL, cfg.Grafana.APIKey).Health(ctx), cfg.Grafana.URL)

	if failed > 0 {
		return fmt.Errorf("%d of 4 checks failed", failed)
	}
	return nil
}
