package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loadctl/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend [report.csv]",
	Short: "Compare endpoint metrics across appended report runs",
	Long: `Trend reads a report that accumulated several runs in append mode and
prints, per endpoint, how requests, success rate and p95 moved from run
to run.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return usagef("trend takes at most one report file")
		}
		return nil
	},
	RunE: runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Report.Path
	if len(args) > 0 {
		path = args[0]
	}

	blocks, err := report.ReadFile(path)
	if err != nil {
		return err
	}
	series := report.Trend(blocks)
	if len(series) == 0 {
		fmt.Fprintln(os.Stdout, "no runs in report")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tRUN\tREQUESTS\tSUCCESS%\tP95 ms\tP95 +/-")
	for _, s := range series {
		for i, run := range s.Runs {
			delta := "-"
			if i > 0 {
				delta = fmt.Sprintf("%+.2f", run.P95Ms-s.Runs[i-1].P95Ms)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
				s.Endpoint, run.Timestamp.Format("2006-01-02 15:04:05"), run.TotalRequests, run.SuccessRatePct, run.P95Ms, delta)
		}
	}
	tw.Flush()
	return nil
}
