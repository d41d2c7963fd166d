package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harmonips/docx2latex/internal/config"
	"github.com/harmonips/docx2latex/internal/convert"
	"github.com/spf13/cobra"
)

var convertOut string

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "", "Output directory (default: <output root>/<document stem>)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <document>",
	Short: "Convert a document to Markdown without matching",
	Long: `Convert a document to Markdown without matching.

Runs only the upstream conversion step: pandoc for .docx, direct text
extraction for .pdf. The converted text lands at <output dir>/content.md.

Usage:
  docx2latex convert paper.docx
  docx2latex convert paper.pdf --out build/paper`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

// ConvertResult is the JSON response of the convert command.
type ConvertResult struct {
	Content string `json:"content"`
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "loading config: %v", err))
	}

	docPath := args[0]
	if _, err := os.Stat(docPath); err != nil {
		os.Exit(outputError(ExitConfigError, "document not found: %s", docPath))
	}

	outputDir := convertOut
	if outputDir == "" {
		outputDir = cfg.OutputDir(docPath)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		os.Exit(outputError(ExitError, "creating output directory: %v", err))
	}

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

	if humanOutput {
		fmt.Printf("converted: %s\n", contentPath)
	} else {
		outputJSON(ConvertResult{Content: contentPath})
	}

	return nil
}
