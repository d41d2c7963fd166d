// Package pipeline runs one reference-matching pass end to end: locate the
// references section, split it into citations, match each against the
// bibliography index, rekey acceptances, and persist the artifacts.
//
// A run is synchronous and run-to-completion. It owns its dedup state and
// trace exclusively; nothing is shared across invocations.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/harmonips/docx2latex/internal/bib"
	"github.com/harmonips/docx2latex/internal/config"
	"github.com/harmonips/docx2latex/internal/export"
	"github.com/harmonips/docx2latex/internal/extract"
	"github.com/harmonips/docx2latex/internal/match"
)

// Error taxonomy. Precondition and read failures abort a run; per-citation
// outcomes never do.
var (
	// ErrMissingInput marks a required external input that is absent.
	ErrMissingInput = errors.New("missing required input")
	// ErrSourceRead marks a document or bibliography source that exists but
	// cannot be read.
	ErrSourceRead = errors.New("source read failure")
)

// Options configures one run.
type Options struct {
	ContentPath string // converted document text (Markdown)
	BibPath     string // bibliography source (.bib)
	OutputDir   string // destination for artifacts
}

// Report is the in-memory result of a run. It is complete even when
// persisting an artifact failed; write failures only affect persistence.
type Report struct {
	Citations []extract.Citation `json:"citations"`
	Outcomes  []match.Outcome    `json:"outcomes"`
	Entries   []export.Entry     `json:"entries"`
	Summary   export.Summary     `json:"summary"`
	Trace     *match.Trace       `json:"-"`

	// NoReferences is set when the document has no references section or the
	// block holds no recognizable citation markers. Normal completion.
	NoReferences bool `json:"no_references"`

	// Paths of artifacts actually written this run.
	BibliographyPath string `json:"bibliography_path,omitempty"`
	AuditLogPath     string `json:"audit_log_path,omitempty"`
	DumpPath         string `json:"dump_path,omitempty"`

	// WriteFailures lists artifacts that could not be persisted.
	WriteFailures []string `json:"write_failures,omitempty"`
}

// Status renders the one-line user-visible result.
func (r *Report) Status() string {
	if r.NoReferences {
		return "no references section found"
	}
	return fmt.Sprintf("matched %d, skipped %d duplicates, unmatched %d",
		r.Summary.Matched, r.Summary.Duplicates, r.Summary.Unmatched)
}

// Run executes one matching pass. Inputs are checked up front: an absent or
// unreadable input aborts before any matching begins.
func Run(opts Options) (*Report, error) {
	doc, err := readInput(opts.ContentPath, "document text")
	if err != nil {
		return nil, err
	}
	bibSource, err := readInput(opts.BibPath, "bibliography source")
	if err != nil {
		return nil, err
	}

	tr := match.NewTrace()
	state := match.NewRunState()
	report := &Report{Trace: tr}

	idx := bib.ParseIndex(bibSource)
	tr.Add(0, match.StageRun, "bibliography source %s: %d entries indexed", opts.BibPath, len(idx.Entries))

	block := extract.LocateReferences(doc)
	if block == "" {
		tr.Add(0, match.StageRun, "no references section in document")
	} else {
		tr.Add(0, match.StageRun, "references block located (%d bytes)", len(block))
	}

	report.Citations = extract.SplitCitations(block)
	tr.Add(0, match.StageRun, "%d citations extracted", len(report.Citations))
	report.NoReferences = len(report.Citations) == 0

	matcher := match.NewMatcher(idx, state, tr)
	var steps []export.StepSnapshot

	for _, c := range report.Citations {
		out, entry := matcher.Match(c)
		report.Outcomes = append(report.Outcomes, out)

		if out.Accepted {
			key := bib.ExportKey(c.Ordinal)
			report.Entries = append(report.Entries, export.Entry{
				Key:  key,
				Body: bib.Rekey(entry, key),
			})
		}

		dois, titles := state.Snapshot()
		steps = append(steps, export.StepSnapshot{Ordinal: c.Ordinal, DOIs: dois, Titles: titles})
	}

	report.Summary = export.Summarize(report.Outcomes)
	tr.Add(0, match.StageRun, "run complete: %s", report.Status())

	persist(opts, report, steps)
	return report, nil
}

// persist writes the artifacts. Failures become status conditions on the
// report; the in-memory result is already complete.
func persist(opts Options, report *Report, steps []export.StepSnapshot) {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		report.WriteFailures = append(report.WriteFailures, fmt.Sprintf("creating %s: %v", opts.OutputDir, err))
		return
	}

	if len(report.Entries) > 0 {
		path := config.BibliographyPath(opts.OutputDir)
		if err := export.WriteBibliography(path, report.Entries); err != nil {
			report.WriteFailures = append(report.WriteFailures, err.Error())
		} else {
			report.BibliographyPath = path
		}
	}

	auditPath := config.AuditLogPath(opts.OutputDir)
	if err := export.WriteAuditLog(auditPath, report.Trace, report.Outcomes, report.Citations); err != nil {
		report.WriteFailures = append(report.WriteFailures, err.Error())
	} else {
		report.AuditLogPath = auditPath
	}

	if report.Summary.Matched == 0 {
		dumpPath := config.DumpPath(opts.OutputDir)
		if err := export.WriteDump(dumpPath, report.Citations, steps); err != nil {
			report.WriteFailures = append(report.WriteFailures, err.Error())
		} else {
			report.DumpPath = dumpPath
		}
	}
}

// readInput reads a required input file, classifying the failure.
func readInput(path, what string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: %s path not given", ErrMissingInput, what)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s %s does not exist", ErrMissingInput, what, path)
		}
		return "", fmt.Errorf("%w: reading %s %s: %v", ErrSourceRead, what, path, err)
	}
	return string(data), nil
}
