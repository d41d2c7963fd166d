// Package export persists the results of a matching run: the rekeyed
// bibliography file, the audit log, and the diagnostic dump written when a run
// accepts nothing.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/harmonips/docx2latex/internal/extract"
	"github.com/harmonips/docx2latex/internal/match"
)

// Provenance is the fixed comment line prefixed to every generated
// bibliography file.
const Provenance = "% Generated by docx2latex"

// Entry is one accepted, rekeyed bibliography entry.
type Entry struct {
	Key  string `json:"key"`  // deterministic key, e.g. "ref008"
	Body string `json:"body"` // rewritten entry block text
}

// Summary counts the per-citation outcomes of one run.
type Summary struct {
	Matched    int `json:"matched"`
	Duplicates int `json:"duplicates"`
	Unmatched  int `json:"unmatched"`
}

// Summarize tallies outcomes.
func Summarize(outcomes []match.Outcome) Summary {
	var s Summary
	for _, out := range outcomes {
		switch {
		case out.Accepted:
			s.Matched++
		case out.Reason == match.ReasonDuplicate:
			s.Duplicates++
		default:
			s.Unmatched++
		}
	}
	return s
}

// RenderBibliography renders accepted entries in ordinal order, blank-line
// separated, under the provenance comment.
func RenderBibliography(entries []Entry) string {
	var b strings.Builder
	b.WriteString(Provenance + "\n\n")
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Body)
	}
	b.WriteString("\n")
	return b.String()
}

// WriteBibliography writes the output bibliography file. Nothing is written
// when no entries were accepted.
func WriteBibliography(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.WriteFile(path, []byte(RenderBibliography(entries)), 0644); err != nil {
		return fmt.Errorf("writing bibliography %s: %w", path, err)
	}
	return nil
}

// RenderAuditLog renders the full decision trail: one line per trace event,
// one line per citation outcome, then the run summary.
func RenderAuditLog(tr *match.Trace, outcomes []match.Outcome, citations []extract.Citation) string {
	var b strings.Builder

	b.WriteString("== trace ==\n")
	for _, e := range tr.Events {
		b.WriteString(e.String())
		b.WriteString("\n")
	}

	b.WriteString("\n== citations ==\n")
	rawByOrdinal := make(map[int]string, len(citations))
	for _, c := range citations {
		rawByOrdinal[c.Ordinal] = c.Raw
	}
	for _, out := range outcomes {
		fmt.Fprintf(&b, "%03d | %-5s | %-9s | %s\n", out.Ordinal, out.Method, out.Reason, rawByOrdinal[out.Ordinal])
	}

	s := Summarize(outcomes)
	b.WriteString("\n== summary ==\n")
	fmt.Fprintf(&b, "matched %d, skipped %d duplicates, unmatched %d\n", s.Matched, s.Duplicates, s.Unmatched)

	return b.String()
}

// WriteAuditLog rewrites the audit log wholesale for this run.
func WriteAuditLog(path string, tr *match.Trace, outcomes []match.Outcome, citations []extract.Citation) error {
	if err := os.WriteFile(path, []byte(RenderAuditLog(tr, outcomes, citations)), 0644); err != nil {
		return fmt.Errorf("writing audit log %s: %w", path, err)
	}
	return nil
}

// StepSnapshot is the dedup-set state captured after one citation was decided.
type StepSnapshot struct {
	Ordinal int
	DOIs    []string
	Titles  []string
}

// RenderDump renders the diagnostic dump for a wholly failed run: every
// extracted citation plus the dedup-set snapshot after each step.
func RenderDump(citations []extract.Citation, steps []StepSnapshot) string {
	var b strings.Builder
	b.WriteString("diagnostic dump: run accepted zero entries\n\n")

	b.WriteString("== citations ==\n")
	for _, c := range citations {
		fmt.Fprintf(&b, "%03d | %s\n", c.Ordinal, c.Raw)
	}
	if len(citations) == 0 {
		b.WriteString("(none extracted)\n")
	}

	b.WriteString("\n== dedup state by step ==\n")
	for _, step := range steps {
		fmt.Fprintf(&b, "after %03d: dois=[%s] titles=[%s]\n",
			step.Ordinal, strings.Join(step.DOIs, ", "), strings.Join(step.Titles, ", "))
	}
	if len(steps) == 0 {
		b.WriteString("(no steps)\n")
	}

	return b.String()
}

// WriteDump writes the diagnostic dump. Intended only for zero-acceptance
// runs; the caller decides when.
func WriteDump(path string, citations []extract.Citation, steps []StepSnapshot) error {
	if err := os.WriteFile(path, []byte(RenderDump(citations, steps)), 0644); err != nil {
		return fmt.Errorf("writing diagnostic dump %s: %w", path, err)
	}
	return nil
}
