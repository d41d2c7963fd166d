package match

import (
	"strings"
	"testing"

	"github.com/harmonips/docx2latex/internal/bib"
	"github.com/harmonips/docx2latex/internal/extract"
)

const testSource = `@article{Smith2020-aa,
  title = {Smith J. Alpha},
  year = {2020},
  doi = {10.1000/alpha},
}

@article{Doe2021-bb,
  title = {Doe J. Beta},
  year = {2021},
}

@article{Roe2022-cc,
  title = {Roe K. Gamma},
  year = {2022},
  doi = {10.1000/gamma},
}
`

func newTestMatcher() (*Matcher, *RunState, *Trace) {
	idx := bib.ParseIndex(testSource)
	state := NewRunState()
	tr := NewTrace()
	return NewMatcher(idx, state, tr), state, tr
}

func TestMatch_DOIAccepts(t *testing.T) {
	m, _, _ := newTestMatcher()

	out, entry := m.Match(extract.Citation{Ordinal: 1, Raw: "1. Smith J. Alpha. 2020. doi:10.1000/alpha"})

	if !out.Accepted || out.Method != MethodDOI {
		t.Fatalf("expected DOI acceptance, got %+v", out)
	}
	if entry.Key != "Smith2020-aa" {
		t.Errorf("matched entry = %s, want Smith2020-aa", entry.Key)
	}
}

func TestMatch_TitleFallbackWhenDOIMisses(t *testing.T) {
	m, _, tr := newTestMatcher()

	// DOI present in the citation but absent from the source; title matches.
	out, entry := m.Match(extract.Citation{Ordinal: 1, Raw: "1. Smith J. Alpha. 2020. doi:10.9999/absent"})

	if !out.Accepted || out.Method != MethodTitle {
		t.Fatalf("expected title fallback acceptance, got %+v", out)
	}
	if entry.Key != "Smith2020-aa" {
		t.Errorf("matched entry = %s, want Smith2020-aa", entry.Key)
	}

	// The failed DOI lookup must be visible in the trace.
	var sawDOIMiss bool
	for _, e := range tr.Events {
		if e.Stage == StageLookup && strings.Contains(e.Detail, "not in bibliography source") {
			sawDOIMiss = true
		}
	}
	if !sawDOIMiss {
		t.Error("trace should record the DOI lookup miss before the title attempt")
	}
}

func TestMatch_TitleOnlyCitation(t *testing.T) {
	m, _, _ := newTestMatcher()

	out, entry := m.Match(extract.Citation{Ordinal: 2, Raw: "2. Doe J. Beta. 2021"})

	if !out.Accepted || out.Method != MethodTitle {
		t.Fatalf("expected title acceptance, got %+v", out)
	}
	if entry.Key != "Doe2021-bb" {
		t.Errorf("matched entry = %s, want Doe2021-bb", entry.Key)
	}
}

func TestMatch_SharedDOIDuplicateSkipped(t *testing.T) {
	m, _, _ := newTestMatcher()

	first, _ := m.Match(extract.Citation{Ordinal: 1, Raw: "1. Smith J. Alpha. 2020. doi:10.1000/alpha"})
	second, _ := m.Match(extract.Citation{Ordinal: 4, Raw: "4. Smith J. Alpha repeat. 2020. doi:10.1000/alpha"})

	if !first.Accepted {
		t.Fatalf("first citation should accept, got %+v", first)
	}
	if second.Accepted {
		t.Fatalf("second citation should be skipped, got %+v", second)
	}
	if second.Reason != ReasonDuplicate {
		t.Errorf("second reason = %q, want %q", second.Reason, ReasonDuplicate)
	}
	if second.DuplicateOf != 1 {
		t.Errorf("duplicate should reference ordinal 1, got %d", second.DuplicateOf)
	}
}

func TestMatch_RepeatedTitleDuplicateSkipped(t *testing.T) {
	m, _, _ := newTestMatcher()

	first, _ := m.Match(extract.Citation{Ordinal: 1, Raw: "1. Doe J. Beta. 2021"})
	second, _ := m.Match(extract.Citation{Ordinal: 2, Raw: "2. Doe J. Beta. 2021"})

	if !first.Accepted {
		t.Fatalf("first citation should accept, got %+v", first)
	}
	if second.Accepted || second.Reason != ReasonDuplicate || second.DuplicateOf != 1 {
		t.Errorf("repeat citation should duplicate-skip referencing ordinal 1, got %+v", second)
	}
}

func TestMatch_EntryAcceptedByDOINotReexportedByTitle(t *testing.T) {
	m, _, _ := newTestMatcher()

	first, _ := m.Match(extract.Citation{Ordinal: 1, Raw: "1. doi:10.1000/alpha"})
	if !first.Accepted || first.Method != MethodDOI {
		t.Fatalf("expected DOI acceptance, got %+v", first)
	}

	// Same bibliographic identity, reached via title this time.
	second, _ := m.Match(extract.Citation{Ordinal: 2, Raw: "2. Smith J. Alpha. 2020"})
	if second.Accepted {
		t.Fatalf("same identity must not export twice, got %+v", second)
	}
	if second.Reason != ReasonDuplicate || second.DuplicateOf != 1 {
		t.Errorf("expected duplicate of ordinal 1, got %+v", second)
	}
}

func TestMatch_Unmatched(t *testing.T) {
	m, _, tr := newTestMatcher()

	out, _ := m.Match(extract.Citation{Ordinal: 3, Raw: "3. Unknown A. Mystery Work. 1999"})

	if out.Accepted {
		t.Fatalf("expected no acceptance, got %+v", out)
	}
	if out.Method != MethodNone || out.Reason != ReasonUnmatched {
		t.Errorf("expected NONE/no_match, got %+v", out)
	}

	var sawOutcome bool
	for _, e := range tr.Events {
		if e.Stage == StageOutcome && e.Detail == "unmatched" {
			sawOutcome = true
		}
	}
	if !sawOutcome {
		t.Error("trace should record the unmatched outcome")
	}
}

func TestMatch_AmbiguousTitleFlaggedInTrace(t *testing.T) {
	source := `@article{a1,
  title = {Common Phrase One},
  year = {2020},
}
@article{a2,
  title = {Common Phrase Two},
  year = {2021},
}
`
	idx := bib.ParseIndex(source)
	tr := NewTrace()
	m := NewMatcher(idx, NewRunState(), tr)

	out, entry := m.Match(extract.Citation{Ordinal: 1, Raw: "[1] Author A, et al. Common Phrase. 2020"})

	if !out.Accepted {
		t.Fatalf("ambiguous match should still accept the first occurrence, got %+v", out)
	}
	if entry.Key != "a1" {
		t.Errorf("first textual occurrence should win, got %s", entry.Key)
	}

	var flagged bool
	for _, e := range tr.Events {
		if e.Stage == StageAmbiguous {
			flagged = true
		}
	}
	if !flagged {
		t.Error("ambiguous title match should be flagged in the trace")
	}
}

func TestRunState_Snapshot(t *testing.T) {
	state := NewRunState()
	state.MarkExported(2, "10.1000/b", "Beta Title")
	state.MarkExported(1, "10.1000/a", "Alpha Title")

	dois, titles := state.Snapshot()

	if len(dois) != 2 || dois[0] != "10.1000/a" || dois[1] != "10.1000/b" {
		t.Errorf("snapshot DOIs should be sorted, got %v", dois)
	}
	if len(titles) != 2 || titles[0] != "alpha title" {
		t.Errorf("snapshot titles should be case-folded and sorted, got %v", titles)
	}
}
