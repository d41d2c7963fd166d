package main

import (
	"fmt"
	"os"

	"github.com/harmonips/docx2latex/internal/extract"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refsCmd)
}

var refsCmd = &cobra.Command{
	Use:   "refs <converted-text>",
	Short: "Locate and split the references section of converted document text",
	Long: `Locate and split the references section of converted document text.

Reads already-converted Markdown, finds the References/Bibliography heading,
and lists the citations in order of appearance. Useful for checking what the
splitter sees before running a full analyze.

Usage:
  docx2latex refs output/paper/content.md
  docx2latex refs output/paper/content.md --human`,
	Args: cobra.ExactArgs(1),
	RunE: runRefs,
}

// RefsResult is the JSON response of the refs command.
type RefsResult struct {
	Found     bool               `json:"found"`
	Citations []extract.Citation `json:"citations"`
}

func runRefs(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		os.Exit(outputError(ExitDataError, "reading document text %s: %v", args[0], err))
	}

	block := extract.LocateReferences(string(data))
	citations := extract.SplitCitations(block)

	if humanOutput {
		if len(citations) == 0 {
			fmt.Println("no references section found")
			return nil
		}
		for _, c := range citations {
			fmt.Printf("%03d  %s\n", c.Ordinal, truncateString(c.Raw, 100))
		}
		return nil
	}

	outputJSON(RefsResult{Found: len(citations) > 0, Citations: citations})
	return nil
}
