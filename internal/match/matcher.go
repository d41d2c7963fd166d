package match

import (
	"github.com/harmonips/docx2latex/internal/bib"
	"github.com/harmonips/docx2latex/internal/extract"
)

// Matcher resolves citations against one bibliography index, accumulating
// dedup state and trace events across the run.
type Matcher struct {
	index      *bib.Index
	state      *RunState
	trace      *Trace
	strategies []Strategy
}

// NewMatcher builds a matcher over the given index. The state and trace are
// owned by the caller's run and returned with its results.
func NewMatcher(idx *bib.Index, state *RunState, tr *Trace) *Matcher {
	return &Matcher{
		index:      idx,
		state:      state,
		trace:      tr,
		strategies: Strategies(),
	}
}

// Match decides one citation. Acceptance is decided at most once: the first
// strategy to accept or duplicate-skip ends the chain. When no strategy
// decides, the citation is unmatched with method NONE; that never aborts a
// run.
func (m *Matcher) Match(c extract.Citation) (Outcome, bib.Entry) {
	for _, s := range m.strategies {
		out, entry, decided := s.Try(c, m.index, m.state, m.trace)
		if !decided {
			continue
		}
		m.traceOutcome(out)
		return out, entry
	}

	out := Outcome{Ordinal: c.Ordinal, Method: MethodNone, Reason: ReasonUnmatched}
	m.traceOutcome(out)
	return out, bib.Entry{}
}

func (m *Matcher) traceOutcome(out Outcome) {
	switch {
	case out.Accepted:
		m.trace.Add(out.Ordinal, StageOutcome, "accepted via %s", out.Method)
	case out.Reason == ReasonDuplicate:
		m.trace.Add(out.Ordinal, StageOutcome, "skipped: duplicate of citation %d", out.DuplicateOf)
	default:
		m.trace.Add(out.Ordinal, StageOutcome, "unmatched")
	}
}
