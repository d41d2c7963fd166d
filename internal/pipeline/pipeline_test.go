package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harmonips/docx2latex/internal/config"
)

const testDocument = `# A Paper

Some body text.

## References

1. Smith J. Title One. 2020
2. Doe J. Title Two. 2021
`

const testLibrary = `@article{Smith2020-aa,
  title = {Smith J. Title One},
  year = {2020},
  doi = {10.1000/one},
}

@article{Doe2021-bb,
  title = {Doe J. Title Two},
  year = {2021},
}
`

// writeInputs lays out a document and library in a temp dir and returns run
// options pointing at them.
func writeInputs(t *testing.T, doc, library string) Options {
	t.Helper()
	dir := t.TempDir()

	contentPath := filepath.Join(dir, "content.md")
	if err := os.WriteFile(contentPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	bibPath := filepath.Join(dir, "library.bib")
	if err := os.WriteFile(bibPath, []byte(library), 0644); err != nil {
		t.Fatal(err)
	}

	return Options{
		ContentPath: contentPath,
		BibPath:     bibPath,
		OutputDir:   filepath.Join(dir, "out"),
	}
}

func TestRun_TwoTitleMatches(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Summary.Matched != 2 {
		t.Fatalf("expected 2 matches, got %+v", report.Summary)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 exported entries, got %d", len(report.Entries))
	}
	if report.Entries[0].Key != "ref001" || report.Entries[1].Key != "ref002" {
		t.Errorf("keys = %s, %s; want ref001, ref002", report.Entries[0].Key, report.Entries[1].Key)
	}

	data, err := os.ReadFile(report.BibliographyPath)
	if err != nil {
		t.Fatalf("reading output bibliography: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "@article{ref001,") || !strings.Contains(out, "@article{ref002,") {
		t.Errorf("output should carry rekeyed entries, got:\n%s", out)
	}
	if strings.Contains(out, "Smith2020-aa") {
		t.Errorf("original keys should be rewritten, got:\n%s", out)
	}

	if report.AuditLogPath == "" {
		t.Error("audit log should be written")
	}
	if report.DumpPath != "" {
		t.Error("no diagnostic dump on a run with acceptances")
	}
}

func TestRun_SkippedCitationLeavesKeyGap(t *testing.T) {
	doc := `## References

1. Smith J. Title One. 2020
2. Nobody N. Not In Library. 1999
3. Doe J. Title Two. 2021
`
	opts := writeInputs(t, doc, testLibrary)

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Summary.Matched != 2 || report.Summary.Unmatched != 1 {
		t.Fatalf("expected 2 matched / 1 unmatched, got %+v", report.Summary)
	}
	if report.Entries[0].Key != "ref001" || report.Entries[1].Key != "ref003" {
		t.Errorf("unmatched citation must leave a key gap, got %s, %s",
			report.Entries[0].Key, report.Entries[1].Key)
	}
}

func TestRun_SharedDOIDuplicate(t *testing.T) {
	doc := `## References

1. Smith J. Title One. 2020. doi:10.1000/one
2. Smith J. Title One again. 2020. doi:10.1000/one
`
	opts := writeInputs(t, doc, testLibrary)

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Summary.Matched != 1 || report.Summary.Duplicates != 1 {
		t.Fatalf("expected 1 matched / 1 duplicate, got %+v", report.Summary)
	}
	dup := report.Outcomes[1]
	if dup.Accepted || dup.DuplicateOf != 1 {
		t.Errorf("second citation should duplicate-skip referencing ordinal 1, got %+v", dup)
	}
}

func TestRun_NoReferencesSection(t *testing.T) {
	opts := writeInputs(t, "# Paper\n\nNo references in this one.\n", testLibrary)

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("a document without references must complete normally, got: %v", err)
	}

	if !report.NoReferences {
		t.Error("NoReferences should be set")
	}
	if report.Status() != "no references section found" {
		t.Errorf("status = %q", report.Status())
	}
	if report.BibliographyPath != "" {
		t.Error("no bibliography should be written")
	}
}

func TestRun_ZeroAcceptanceWritesDump(t *testing.T) {
	doc := "## References\n\n1. Nobody N. Not In Library. 1999\n"
	opts := writeInputs(t, doc, testLibrary)

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.DumpPath == "" {
		t.Fatal("zero-acceptance run should write the diagnostic dump")
	}
	data, err := os.ReadFile(report.DumpPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Nobody N. Not In Library") {
		t.Errorf("dump should enumerate the extracted citations, got:\n%s", data)
	}
}

func TestRun_Idempotent(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)

	first, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	firstData, err := os.ReadFile(first.BibliographyPath)
	if err != nil {
		t.Fatal(err)
	}

	second, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	secondData, err := os.ReadFile(second.BibliographyPath)
	if err != nil {
		t.Fatal(err)
	}

	if string(firstData) != string(secondData) {
		t.Error("identical inputs must produce byte-identical bibliography output")
	}

	firstAudit, _ := os.ReadFile(first.AuditLogPath)
	secondAudit, _ := os.ReadFile(second.AuditLogPath)
	if string(firstAudit) != string(secondAudit) {
		t.Error("identical inputs must produce byte-identical audit logs")
	}
}

func TestRun_MissingBibliography(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)
	opts.BibPath = filepath.Join(filepath.Dir(opts.BibPath), "absent.bib")

	report, err := Run(opts)
	if err == nil {
		t.Fatal("expected error for missing bibliography source")
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got: %v", err)
	}
	if !strings.Contains(err.Error(), "absent.bib") {
		t.Errorf("error should name the attempted path, got: %v", err)
	}
	if report != nil {
		t.Error("no report should be produced when a precondition fails")
	}
	if _, statErr := os.Stat(config.BibliographyPath(opts.OutputDir)); !os.IsNotExist(statErr) {
		t.Error("no output file should be written when a precondition fails")
	}
}

func TestRun_UnreadableBibliography(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)
	// A directory exists but cannot be read as a file.
	unreadable := filepath.Join(filepath.Dir(opts.BibPath), "dir.bib")
	if err := os.Mkdir(unreadable, 0755); err != nil {
		t.Fatal(err)
	}
	opts.BibPath = unreadable

	_, err := Run(opts)
	if err == nil {
		t.Fatal("expected error for unreadable bibliography source")
	}
	if !errors.Is(err, ErrSourceRead) {
		t.Errorf("expected ErrSourceRead, got: %v", err)
	}
	if !strings.Contains(err.Error(), "dir.bib") {
		t.Errorf("error should name the attempted path, got: %v", err)
	}
}

func TestRun_MissingContentPath(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)
	opts.ContentPath = ""

	_, err := Run(opts)
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput for empty path, got: %v", err)
	}
}

func TestRun_WriteFailureKeepsResult(t *testing.T) {
	opts := writeInputs(t, testDocument, testLibrary)
	// A file where the output directory should be: MkdirAll fails.
	if err := os.WriteFile(opts.OutputDir, []byte("in the way"), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := Run(opts)
	if err != nil {
		t.Fatalf("write failures must not abort the run, got: %v", err)
	}

	if report.Summary.Matched != 2 || len(report.Entries) != 2 {
		t.Errorf("in-memory result should be intact, got %+v", report.Summary)
	}
	if len(report.WriteFailures) == 0 {
		t.Error("write failure should be reported as a status condition")
	}
	if report.BibliographyPath != "" || report.AuditLogPath != "" {
		t.Error("no artifact paths should be claimed when persistence failed")
	}
}
