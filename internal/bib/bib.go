// Package bib parses a BibTeX source file just far enough to match against:
// entry blocks with their key, DOI and title fields, indexed by normalized DOI
// and scannable by title substring. The source is parsed once per run; nothing
// beyond matching needs is extracted.
package bib

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Entry is one @TYPE{key, ...} block from the bibliography source.
type Entry struct {
	Type  string // entry type, e.g. "article"
	Key   string // declared citation key
	DOI   string // normalized doi field, empty if absent
	Title string // title field, empty if absent
	Raw   string // the untouched block text
}

// Index holds the parsed entries in source order with lookup structures.
type Index struct {
	Entries []Entry

	byDOI map[string]int // normalized DOI -> index into Entries
}

// Regex patterns, shared with rekeying.
var (
	// Match entry start: @type{key,
	entryStartRegex = regexp.MustCompile(`@(\w+)\s*\{\s*([^,\s{}]+)\s*,`)
	// Match DOI field: doi = {value} or doi = "value"
	doiFieldRegex = regexp.MustCompile(`(?mi)^\s*doi\s*=\s*[{"]([^}"]+)[}"]`)
	// Match title field: title = {value} or title = "value"
	titleFieldRegex = regexp.MustCompile(`(?mi)^\s*title\s*=\s*[{"]([^}"]+)[}"]`)
)

// LoadIndex reads and parses a bibliography source file.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography source %s: %w", path, err)
	}
	return ParseIndex(string(data)), nil
}

// ParseIndex parses bibliography source text into an index. Text outside
// @TYPE{...} blocks is ignored; a source with no blocks yields an empty index.
func ParseIndex(source string) *Index {
	idx := &Index{byDOI: make(map[string]int)}

	starts := entryStartRegex.FindAllStringSubmatchIndex(source, -1)
	for i, m := range starts {
		end := len(source)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		raw := strings.TrimRight(source[m[0]:end], " \t\r\n")
		entry := Entry{
			Type: source[m[2]:m[3]],
			Key:  source[m[4]:m[5]],
			Raw:  raw,
		}
		if dm := doiFieldRegex.FindStringSubmatch(raw); dm != nil {
			entry.DOI = NormalizeDOI(dm[1])
		}
		if tm := titleFieldRegex.FindStringSubmatch(raw); tm != nil {
			entry.Title = strings.TrimSpace(tm[1])
		}

		pos := len(idx.Entries)
		idx.Entries = append(idx.Entries, entry)
		if entry.DOI != "" {
			if _, exists := idx.byDOI[entry.DOI]; !exists {
				idx.byDOI[entry.DOI] = pos
			}
		}
	}

	return idx
}

// LookupDOI returns the entry holding exactly the given DOI, after
// normalization on both sides.
func (idx *Index) LookupDOI(doi string) (Entry, bool) {
	pos, ok := idx.byDOI[NormalizeDOI(doi)]
	if !ok {
		return Entry{}, false
	}
	return idx.Entries[pos], true
}

// FindTitle scans entries in source order for a title field containing the
// candidate as a case-insensitive substring. It returns the first match and
// the total number of matching entries, so callers can flag ambiguity.
func (idx *Index) FindTitle(candidate string) (Entry, int) {
	needle := strings.ToLower(candidate)
	var first Entry
	count := 0
	for _, e := range idx.Entries {
		if e.Title == "" {
			continue
		}
		if strings.Contains(strings.ToLower(e.Title), needle) {
			if count == 0 {
				first = e
			}
			count++
		}
	}
	return first, count
}

// NormalizeDOI normalizes a DOI for comparison.
// Removes common prefixes like "https://doi.org/" and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
