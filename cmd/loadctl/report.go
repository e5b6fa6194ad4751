package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"loadctl/internal/config"
	"loadctl/internal/metrics"
	"loadctl/internal/model"
	"loadctl/internal/report"
)

var (
	flagReportOut    string
	flagReportAppend bool
)

var reportCmd = &cobra.Command{
	Use:   "report <results.json>",
	Short: "Aggregate a k6 NDJSON results file into the CSV report",
	Long: `Report reads a k6 results file produced with --out json, groups the
samples per endpoint, and writes one CSV row per endpoint. With
--append the rows are added to the existing report after a blank
separator line, which is how run-over-run history accumulates.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("report requires exactly one results file")
		}
		return nil
	},
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagReportOut, "out", "", "report path (overrides config)")
	reportCmd.Flags().BoolVar(&flagReportAppend, "append", false, "append to the existing report")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reportPath := cfg.Report.Path
	if flagReportOut != "" {
		reportPath = flagReportOut
	}

	summaries, err := writeReport(args[0], reportPath, cfg.Report, flagReportAppend)
	if err != nil {
		return err
	}
	if len(summaries) > 0 {
		printSummaries(os.Stdout, summaries)
	}
	return nil
}

// writeReport is the shared results-to-CSV pipeline used by run,
// report and influx push.
func writeReport(resultsPath, reportPath string, rc config.ReportConfig, appendMode bool) ([]model.Summary, error) {
	summaries, err := aggregateResults(resultsPath, rc)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		log.Printf("warning: no samples aggregated from %s, writing empty report", resultsPath)
	}

	if err := report.WriteFile(reportPath, summaries, report.Options{Append: appendMode}); err != nil {
		return nil, err
	}
	log.Printf("report written path=%s endpoints=%d append=%v", reportPath, len(summaries), appendMode)
	return summaries, nil
}

// aggregateResults reads an NDJSON results file and produces the
// per-endpoint summaries, reporting skipped lines on the way.
func aggregateResults(resultsPath string, rc config.ReportConfig) ([]model.Summary, error) {
	samples, skipped, err := metrics.ReadFile(resultsPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("%s: %d samples, %d malformed line(s) skipped", resultsPath, len(samples), skipped)
	}

	agg := metrics.NewAggregator(metrics.Resolver{
		TagKey:    rc.EndpointTag,
		Separator: rc.CheckSeparator,
	})
	agg.AddAll(samples)
	if v := agg.PeakVUs(); v > 0 {
		log.Printf("peak vus=%d", v)
	}
	return agg.Summarize(time.Now().UTC()), nil
}

func printSummaries(w io.Writer, summaries []model.Summary) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tREQUESTS\tSUCCESS%\tAVG ms\tMED ms\tP95 ms\tMAX ms\tREQ/S\tPEAK")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			s.Endpoint, s.TotalRequests, s.SuccessRatePct, s.AvgMs, s.MedianMs, s.P95Ms, s.MaxMs, s.RequestsPerSec, s.PeakRPS)
	}
	tw.Flush()
}
