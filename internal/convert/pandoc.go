// Package convert produces the converted Markdown text that the matching core
// consumes: DOCX goes through pandoc, PDF through direct text extraction, and
// Markdown passes through untouched.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Probe checks that pandoc is installed and responding. It mirrors the
// application startup dependency check: a missing pandoc is reported up front,
// before any run is attempted.
func Probe(pandoc string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, pandoc, "--version").Run(); err != nil {
		return fmt.Errorf("pandoc not available (%s): %w", pandoc, err)
	}
	return nil
}

// PandocArgs builds the argument list for one conversion.
func PandocArgs(inPath, outPath string) []string {
	return []string{inPath, "-o", outPath, "--wrap=none"}
}

// RunPandoc converts a DOCX document to Markdown at outPath. The conversion is
// invoked once, synchronously, under the caller's context deadline; failures
// are precondition failures for the matching core and are never retried here.
func RunPandoc(ctx context.Context, pandoc, inPath, outPath string) error {
	cmd := exec.CommandContext(ctx, pandoc, PandocArgs(inPath, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("pandoc conversion of %s failed: %s: %w", inPath, msg, err)
		}
		return fmt.Errorf("pandoc conversion of %s failed: %w", inPath, err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("pandoc did not produce %s: %w", outPath, err)
	}
	return nil
}

// ToMarkdown converts a source document to Markdown at outPath, choosing the
// converter by extension: pandoc for .docx/.doc, direct text extraction for
// .pdf, pass-through copy for already-converted .md/.markdown/.txt.
func ToMarkdown(ctx context.Context, pandoc, inPath, outPath string) error {
	switch strings.ToLower(filepath.Ext(inPath)) {
	case ".docx", ".doc":
		return RunPandoc(ctx, pandoc, inPath, outPath)
	case ".pdf":
		text, err := ExtractPDFText(inPath)
		if err != nil {
			return fmt.Errorf("extracting text from %s: %w", inPath, err)
		}
		if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		return nil
	case ".md", ".markdown", ".txt":
		data, err := os.ReadFile(inPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", inPath, err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported document type: %s", inPath)
	}
}
