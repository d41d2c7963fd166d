// Package match decides, for each extracted citation, whether the
// bibliography source holds a corresponding entry. Two strategies are tried in
// fixed priority order: exact DOI lookup first, title substring second. Every
// extraction attempt, lookup and outcome is appended to an explicit trace that
// the caller owns, so a run is fully reproducible without ambient logging.
package match

// Method identifies which strategy decided a citation.
type Method string

const (
	MethodDOI   Method = "DOI"
	MethodTitle Method = "TITLE"
	MethodNone  Method = "NONE"
)

// Outcome records the matching decision for one citation.
type Outcome struct {
	Ordinal  int    `json:"ordinal"`
	Method   Method `json:"method"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`

	// DuplicateOf is the ordinal of the earlier acceptance when the citation
	// was skipped as a duplicate, 0 otherwise.
	DuplicateOf int `json:"duplicate_of,omitempty"`
}

// Outcome reasons.
const (
	ReasonMatched   = "matched"
	ReasonDuplicate = "duplicate"
	ReasonUnmatched = "no_match"
)
