package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loadctl/internal/k6"
	"loadctl/internal/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [summary.json]",
	Short: "Print the headline metrics from a k6 summary export",
	Long: `Summary reads the file k6 writes with --summary-export and prints the
run-level metrics plus per-check pass rates. Unlike report, this view
covers the whole run without per-endpoint grouping. Without an argument
the latest recorded run's summary is used.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return usagef("summary takes at most one summary file")
		}
		return nil
	},
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// latestSummaryPath finds the summary export of the newest recorded run.
func latestSummaryPath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	rl, err := store.LoadRunLog(cfg.Run.LogPath)
	if err != nil {
		return "", err
	}
	rec, ok := rl.Latest()
	if !ok || rec.SummaryPath == "" {
		return "", fmt.Errorf("no recorded runs, pass a summary file")
	}
	return rec.SummaryPath, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		var err error
		if path, err = latestSummaryPath(); err != nil {
			return err
		}
	}

	s, err := k6.LoadSummary(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	if m, ok := s.Metric("http_reqs"); ok {
		fmt.Fprintf(tw, "requests\t%.0f\t%.2f/s\n", m.Count, m.Rate)
	}
	if m, ok := s.Metric("http_req_duration"); ok {
		fmt.Fprintf(tw, "duration ms\tavg=%.2f\tmin=%.2f\tmed=%.2f\tp90=%.2f\tp95=%.2f\tmax=%.2f\n",
			m.Avg, m.Min, m.Med, m.P90, m.P95, m.Max)
	}
	if m, ok := s.Metric("checks"); ok {
		fmt.Fprintf(tw, "checks\t%.2f%%\tpass=%d\tfail=%d\n", m.Value*100, m.Passes, m.Fails)
	}
	if m, ok := s.Metric("data_received"); ok {
		fmt.Fprintf(tw, "data received\t%.1f KB\t%.2f KB/s\n", m.Count/1024, m.Rate/1024)
	}
	if m, ok := s.Metric("data_sent"); ok {
		fmt.Fprintf(tw, "data sent\t%.1f KB\t%.2f KB/s\n", m.Count/1024, m.Rate/1024)
	}
	if m, ok := s.Metric("vus_max"); ok {
		fmt.Fprintf(tw, "vus max\t%.0f\n", m.Value)
	}
	tw.Flush()

	checks := s.AllChecks()
	if len(checks) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	tw = tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tPASS\tFAIL\tRATE%")
	for _, c := range checks {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\n", c.Name, c.Passes, c.Fails, c.PassRatePct())
	}
	tw.Flush()
	return nil
}
