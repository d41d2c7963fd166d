package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harmonips/docx2latex/internal/config"
	"github.com/harmonips/docx2latex/internal/convert"
	"github.com/harmonips/docx2latex/internal/export"
	"github.com/harmonips/docx2latex/internal/history"
	"github.com/harmonips/docx2latex/internal/match"
	"github.com/harmonips/docx2latex/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	analyzeBib string
	analyzeOut string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBib, "bib", "", "BibTeX library to match citations against")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Output directory (default: <output root>/<document stem>)")
	analyzeCmd.MarkFlagRequired("bib")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <document>",
	Short: "Convert a document and match its citations against a BibTeX library",
	Long: `Convert a document and match its citations against a BibTeX library.

The document is converted to Markdown (pandoc for .docx, direct text
extraction for .pdf, pass-through for .md), its references section is split
into ordered citations, and each citation is matched by DOI first, title
second. Accepted entries are exported rekeyed as ref001, ref002, ... in
document order.

Usage:
  docx2latex analyze paper.docx --bib library.bib
  docx2latex analyze paper.docx --bib library.bib --out build/paper --human`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// AnalyzeResult is the JSON response of the analyze command.
type AnalyzeResult struct {
	Status        string          `json:"status"`
	Summary       export.Summary  `json:"summary"`
	Citations     int             `json:"citations"`
	Outcomes      []match.Outcome `json:"outcomes"`
	Bibliography  string          `json:"bibliography,omitempty"`
	AuditLog      string          `json:"audit_log,omitempty"`
	Dump          string          `json:"dump,omitempty"`
	WriteFailures []string        `json:"write_failures,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "loading config: %v", err))
	}

	docPath := args[0]
	if _, err := os.Stat(docPath); err != nil {
		os.Exit(outputError(ExitConfigError, "document not found: %s", docPath))
	}
	if _, err := os.Stat(analyzeBib); err != nil {
		os.Exit(outputError(ExitConfigError, "bibliography not found: %s", analyzeBib))
	}

	outputDir := analyzeOut
	if outputDir == "" {
		outputDir = cfg.OutputDir(docPath)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		os.Exit(outputError(ExitError, "creating output directory: %v", err))
	}

	// Upstream conversion is a precondition: one invocation, caller-enforced
	// timeout, no retries.
	if needsPandoc(docPath) {
		if err := convert.Probe(cfg.Pandoc()); err != nil {
			os.Exit(outputError(ExitConfigError, "%v", err))
		}
	}

	timeout := time.Duration(cfg.PandocTimeout) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultPandocTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	contentPath := config.ContentPath(outputDir)
	if err := convert.ToMarkdown(ctx, cfg.Pandoc(), docPath, contentPath); err != nil {
		os.Exit(outputError(ExitDataError, "%v", err))
	}

	started := time.Now()
	report, err := pipeline.Run(pipeline.Options{
		ContentPath: contentPath,
		BibPath:     analyzeBib,
		OutputDir:   outputDir,
	})
	if err != nil {
		os.Exit(outputError(exitCodeFor(err), "%v", err))
	}

	recordRun(cfg, started, docPath, report)

	if humanOutput {
		printAnalyzeHuman(report)
	} else {
		outputJSON(AnalyzeResult{
			Status:        report.Status(),
			Summary:       report.Summary,
			Citations:     len(report.Citations),
			Outcomes:      report.Outcomes,
			Bibliography:  report.BibliographyPath,
			AuditLog:      report.AuditLogPath,
			Dump:          report.DumpPath,
			WriteFailures: report.WriteFailures,
		})
	}

	return nil
}

func printAnalyzeHuman(report *pipeline.Report) {
	fmt.Println(report.Status())
	if report.BibliographyPath != "" {
		fmt.Printf("  bibliography: %s\n", report.BibliographyPath)
	}
	if report.AuditLogPath != "" {
		fmt.Printf("  audit log:    %s\n", report.AuditLogPath)
	}
	if report.DumpPath != "" {
		fmt.Printf("  diagnostics:  %s\n", report.DumpPath)
	}
	for _, f := range report.WriteFailures {
		fmt.Printf("  write failed: %s\n", f)
	}
}

// recordRun stores the run in history. Best effort: a history failure never
// fails the run whose artifacts are already on disk.
func recordRun(cfg *config.Config, started time.Time, docPath string, report *pipeline.Report) {
	db, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		}
		return
	}
	defer db.Close()

	_, err = db.Record(history.Run{
		StartedAt: started,
		Document:  docPath,
		BibSource: analyzeBib,
		Matched:   report.Summary.Matched,
		Duplicate: report.Summary.Duplicates,
		Unmatched: report.Summary.Unmatched,
		Status:    report.Status(),
	})
	if err != nil && humanOutput {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

func needsPandoc(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx", ".doc":
		return true
	}
	return false
}

// exitCodeFor maps pipeline errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrMissingInput):
		return ExitConfigError
	case errors.Is(err, pipeline.ErrSourceRead):
		return ExitDataError
	}
	return ExitError
}
