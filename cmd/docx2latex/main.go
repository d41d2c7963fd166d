// Package main provides the docx2latex CLI entry point.
package main

import (
	"os"

	"github.com/harmonips/docx2latex/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docx2latex",
	Short: "DOCX to LaTeX converter for medical publications",
	Long: `docx2latex converts a word-processor manuscript into a LaTeX article
skeleton and reconciles its citation list against a BibTeX library.

The core workflow is the analyze command: convert the document, locate its
references section, split it into citations, match each against the library
by DOI then title, and export the accepted entries rekeyed in document order.
All commands output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// loadConfig resolves the effective configuration: global YAML config,
// project config.json, then environment overrides (loaded from .env when
// present).
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	global, err := config.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	project, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	return config.Resolve(project, global), nil
}
