package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"loadctl/internal/influx"
)

var influxCmd = &cobra.Command{
	Use:   "influx",
	Short: "Manage the InfluxDB backing store for k6 results",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		return usagef("unknown influx subcommand %q", args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var influxSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Ping InfluxDB and create the k6 database if missing",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			return usagef("setup takes no arguments")
		}
		return nil
	},
	RunE: runInfluxSetup,
}

var influxPushCmd = &cobra.Command{
	Use:   "push <results.json>",
	Short: "Aggregate a results file and write per-endpoint summaries to InfluxDB",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("push requires exactly one results file")
		}
		return nil
	},
	RunE: runInfluxPush,
}

func init() {
	influxCmd.AddCommand(influxSetupCmd)
	influxCmd.AddCommand(influxPushCmd)
	rootCmd.AddCommand(influxCmd)
}

func runInfluxSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ic := cfg.Influx
	client := influx.New(ic.URL, ic.Database, ic.Username, ic.Password)

	ctx, cancel := signalContext()
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return errors.Wrap(err, "influxdb ping")
	}
	if err := client.EnsureDatabase(ctx); err != nil {
		return errors.Wrap(err, "create database")
	}
	fmt.Fprintf(os.Stdout, "influxdb ok, database %q ready\n", client.Database())
	return nil
}

func runInfluxPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	summaries, err := aggregateResults(args[0], cfg.Report)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no samples in %s, nothing to push", args[0])
	}

	ctx, cancel := signalContext()
	defer cancel()

	ic := cfg.Influx
	client := influx.New(ic.URL, ic.Database, ic.Username, ic.Password)
	if err := client.WriteSummaries(ctx, summaries); err != nil {
		return errors.Wrap(err, "write summaries")
	}
	fmt.Fprintf(os.Stdout, "pushed %d endpoint summaries to %s\n", len(summaries), ic.URL)
	return nil
}
