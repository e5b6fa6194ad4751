package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"loadctl/internal/config"
	"loadctl/internal/k6"
)

var version = "0.1.0"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "loadctl",
	Short: "k6 load test orchestration and reporting",
	Long: `loadctl wraps the k6 load-testing tool: it runs scripts, parses the
NDJSON results, aggregates per-endpoint statistics into CSV reports,
and provisions the InfluxDB/Grafana pair that visualizes the runs.

Typical flow:
  loadctl init                     # scaffold a script and config
  loadctl run                      # run k6, append the CSV report
  loadctl trend                    # compare runs in the report
  loadctl dashboard --push         # provision the Grafana dashboard
  loadctl doctor                   # check k6/InfluxDB/Grafana wiring`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		return usagef("unknown command %q", args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to loadctl.yaml (default: ./loadctl.yaml when present)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// usageError marks user mistakes (bad arguments, bad flags) so main can
// exit 2 instead of 1.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode separates usage mistakes (2) and k6's own failures (3) from
// runtime errors (1).
func exitCode(err error) int {
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		return 2
	}
	var k6Err *k6.ExitError
	if errors.As(err, &k6Err) {
		return 3
	}
	return 1
}

// loadConfig resolves the effective config: an explicit --config must
// exist, the default path may be absent.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	return config.LoadOrDefault(config.DefaultConfigPath)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()
	return ctx, cancel
}
