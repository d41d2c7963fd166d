package match

import (
	"regexp"
	"strings"

	"github.com/harmonips/docx2latex/internal/bib"
	"github.com/harmonips/docx2latex/internal/extract"
)

// Strategy is one way of resolving a citation against the bibliography index.
// Strategies are tried in fixed priority order; the first one that decides the
// citation (accept or duplicate-skip) wins. A strategy that cannot decide
// returns decided=false and the next one runs.
type Strategy interface {
	Method() Method
	Try(c extract.Citation, idx *bib.Index, state *RunState, tr *Trace) (Outcome, bib.Entry, bool)
}

// Strategies returns the strategy chain in priority order: DOI before title.
func Strategies() []Strategy {
	return []Strategy{doiStrategy{}, titleStrategy{}}
}

// doiMarkerRegex matches the token following a literal "doi:" marker.
var doiMarkerRegex = regexp.MustCompile(`(?i)doi:\s*(\S+)`)

// titleCandidateRegex extracts a title candidate by structure: period, space,
// optional quote or italic marker, a run of name/punctuation characters,
// period, space, four-digit year. The run is greedy, so the candidate extends
// to the last ". <year>" boundary in the citation.
var titleCandidateRegex = regexp.MustCompile(`\. ["'*_]?([A-Za-z][A-Za-z0-9 ,.:;\-'&/()]*)\. (\d{4})\b`)

type doiStrategy struct{}

func (doiStrategy) Method() Method { return MethodDOI }

func (doiStrategy) Try(c extract.Citation, idx *bib.Index, state *RunState, tr *Trace) (Outcome, bib.Entry, bool) {
	token := ExtractDOI(c.Raw)
	if token == "" {
		tr.Add(c.Ordinal, StageExtract, "no doi: marker in citation")
		return Outcome{}, bib.Entry{}, false
	}
	doi := bib.NormalizeDOI(token)
	tr.Add(c.Ordinal, StageExtract, "doi %q", doi)

	if earlier, seen := state.SeenDOI(doi); seen {
		tr.Add(c.Ordinal, StageLookup, "doi %q already exported by citation %d", doi, earlier)
		return duplicate(c.Ordinal, MethodDOI, earlier), bib.Entry{}, true
	}

	entry, ok := idx.LookupDOI(doi)
	if !ok {
		tr.Add(c.Ordinal, StageLookup, "doi %q not in bibliography source", doi)
		return Outcome{}, bib.Entry{}, false
	}
	tr.Add(c.Ordinal, StageLookup, "doi %q -> entry %s", doi, entry.Key)

	if earlier, seen := state.SeenTitle(entry.Title); entry.Title != "" && seen {
		tr.Add(c.Ordinal, StageLookup, "entry %s already exported by citation %d", entry.Key, earlier)
		return duplicate(c.Ordinal, MethodDOI, earlier), bib.Entry{}, true
	}

	state.MarkExported(c.Ordinal, entry.DOI, entry.Title)
	return accepted(c.Ordinal, MethodDOI), entry, true
}

type titleStrategy struct{}

func (titleStrategy) Method() Method { return MethodTitle }

func (titleStrategy) Try(c extract.Citation, idx *bib.Index, state *RunState, tr *Trace) (Outcome, bib.Entry, bool) {
	candidate := ExtractTitle(c.Raw)
	if candidate == "" {
		tr.Add(c.Ordinal, StageExtract, "no title candidate in citation")
		return Outcome{}, bib.Entry{}, false
	}
	tr.Add(c.Ordinal, StageExtract, "title candidate %q", candidate)

	if earlier, seen := state.SeenTitle(candidate); seen {
		tr.Add(c.Ordinal, StageLookup, "title already exported by citation %d", earlier)
		return duplicate(c.Ordinal, MethodTitle, earlier), bib.Entry{}, true
	}

	entry, hits := idx.FindTitle(candidate)
	if hits == 0 {
		tr.Add(c.Ordinal, StageLookup, "title candidate not found in bibliography source")
		return Outcome{}, bib.Entry{}, false
	}
	if hits > 1 {
		// First textual occurrence wins; surface the ambiguity instead of
		// resolving it silently.
		tr.Add(c.Ordinal, StageAmbiguous, "title candidate matches %d entries, keeping first (%s)", hits, entry.Key)
	}
	tr.Add(c.Ordinal, StageLookup, "title candidate -> entry %s", entry.Key)

	if earlier, seen := state.SeenTitle(entry.Title); entry.Title != "" && seen {
		tr.Add(c.Ordinal, StageLookup, "entry %s already exported by citation %d", entry.Key, earlier)
		return duplicate(c.Ordinal, MethodTitle, earlier), bib.Entry{}, true
	}
	if earlier, seen := state.SeenDOI(entry.DOI); entry.DOI != "" && seen {
		tr.Add(c.Ordinal, StageLookup, "entry %s already exported by citation %d", entry.Key, earlier)
		return duplicate(c.Ordinal, MethodTitle, earlier), bib.Entry{}, true
	}

	state.MarkExported(c.Ordinal, entry.DOI, entry.Title)
	state.MarkExported(c.Ordinal, "", candidate)
	return accepted(c.Ordinal, MethodTitle), entry, true
}

// ExtractDOI pulls the token following a case-insensitive "doi:" marker from
// citation text. Trailing punctuation is stripped. Returns "" when the
// citation carries no DOI marker.
func ExtractDOI(raw string) string {
	m := doiMarkerRegex.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;:)")
}

// ExtractTitle pulls a title candidate from citation text by structural
// pattern. Returns "" when no candidate is present.
func ExtractTitle(raw string) string {
	m := titleCandidateRegex.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func accepted(ordinal int, method Method) Outcome {
	return Outcome{Ordinal: ordinal, Method: method, Accepted: true, Reason: ReasonMatched}
}

func duplicate(ordinal int, method Method, earlier int) Outcome {
	return Outcome{Ordinal: ordinal, Method: method, Reason: ReasonDuplicate, DuplicateOf: earlier}
}
