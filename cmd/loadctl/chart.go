package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"loadctl/internal/chart"
)

var flagChartDir string

var chartCmd = &cobra.Command{
	Use:   "chart <results.json>",
	Short: "Render PNG charts from a k6 results file",
	Long: `Chart aggregates a results file the same way report does and renders
the latency profile, success rate, throughput and data volume as PNG
files named after the results file.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("chart requires exactly one results file")
		}
		return nil
	},
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVar(&flagChartDir, "dir", "", "chart output directory (overrides config)")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Report.ChartDir
	if flagChartDir != "" {
		dir = flagChartDir
	}

	summaries, err := aggregateResults(args[0], cfg.Report)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no samples in %s, nothing to chart", args[0])
	}

	prefix := chartPrefix(args[0])
	paths, err := chart.WriteAll(dir, prefix, summaries)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(os.Stdout, p)
	}
	return nil
}

// chartPrefix names charts after the results file, falling back to a
// timestamp when the name would be empty.
func chartPrefix(resultsPath string) string {
	base := filepath.Base(resultsPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return time.Now().UTC().Format("20060102-150405")
	}
	return base
}
