package match

import (
	"sort"
	"strings"
)

// RunState holds the dedup sets for a single export run: the normalized DOIs
// and case-folded titles already exported, each mapped to the ordinal of the
// citation that exported them. One run owns its RunState exclusively and
// discards it when the run completes.
type RunState struct {
	dois   map[string]int
	titles map[string]int
}

// NewRunState returns empty dedup sets.
func NewRunState() *RunState {
	return &RunState{
		dois:   make(map[string]int),
		titles: make(map[string]int),
	}
}

// SeenDOI reports whether a normalized DOI was already exported, and by which
// ordinal.
func (s *RunState) SeenDOI(doi string) (int, bool) {
	ord, ok := s.dois[doi]
	return ord, ok
}

// SeenTitle reports whether a title was already exported (case-insensitive),
// and by which ordinal.
func (s *RunState) SeenTitle(title string) (int, bool) {
	ord, ok := s.titles[strings.ToLower(title)]
	return ord, ok
}

// MarkExported records an accepted entry's identity under the accepting
// citation's ordinal. Empty identity components are ignored.
func (s *RunState) MarkExported(ordinal int, doi, title string) {
	if doi != "" {
		if _, exists := s.dois[doi]; !exists {
			s.dois[doi] = ordinal
		}
	}
	if title != "" {
		folded := strings.ToLower(title)
		if _, exists := s.titles[folded]; !exists {
			s.titles[folded] = ordinal
		}
	}
}

// Snapshot renders the dedup sets in deterministic order, for the diagnostic
// dump written on zero-acceptance runs.
func (s *RunState) Snapshot() (dois, titles []string) {
	for d := range s.dois {
		dois = append(dois, d)
	}
	for t := range s.titles {
		titles = append(titles, t)
	}
	sort.Strings(dois)
	sort.Strings(titles)
	return dois, titles
}
