package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loadctl/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded k6 runs",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 {
			return usagef("runs takes no arguments")
		}
		return nil
	},
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rl, err := store.LoadRunLog(cfg.Run.LogPath)
	if err != nil {
		return err
	}
	if len(rl.Runs) == 0 {
		fmt.Fprintln(os.Stdout, "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSCRIPT\tVUS\tDURATION\tEXIT\tRESULTS")
	for _, rec := range rl.Runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			rec.ID,
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Script,
			rec.VUs,
			rec.Duration,
			rec.ExitStatus,
			rec.ResultsPath,
		)
	}
	return w.Flush()
}
