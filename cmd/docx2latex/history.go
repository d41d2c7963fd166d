package main

import (
	"fmt"
	"os"
	"time"

	"github.com/harmonips/docx2latex/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyze runs",
	Long: `List recorded analyze runs, newest first.

Usage:
  docx2latex history
  docx2latex history --limit 5 --human`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// HistoryResult is the JSON response of the history command.
type HistoryResult struct {
	Runs []history.Run `json:"runs"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "loading config: %v", err))
	}

	db, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		os.Exit(outputError(ExitError, "opening run history: %v", err))
	}
	defer db.Close()

	runs, err := db.List(historyLimit)
	if err != nil {
		os.Exit(outputError(ExitError, "listing runs: %v", err))
	}

	if humanOutput {
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%4d  %s  %-30s  %s\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime),
				truncateString(r.Document, 30), r.Status)
		}
		return nil
	}

	outputJSON(HistoryResult{Runs: runs})
	return nil
}
