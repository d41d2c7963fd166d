package extract

import (
	"regexp"
	"strings"
)

// headingRegex matches a level-2 References/Bibliography heading on its own
// line, trailing whitespace tolerated.
var headingRegex = regexp.MustCompile(`(?mi)^## +(?:References|Bibliography)[ \t]*\r?$`)

// nextSectionRegex matches the next level-2 heading after the references heading.
var nextSectionRegex = regexp.MustCompile(`(?m)^## +.+$`)

// LocateReferences returns the references block of a converted document:
// everything between a "## References" or "## Bibliography" heading and the
// next level-2 heading (or end of document).
//
// A missing references section is common and returns an empty block, not an
// error.
func LocateReferences(doc string) string {
	loc := headingRegex.FindStringIndex(doc)
	if loc == nil {
		return ""
	}

	rest := doc[loc[1]:]
	if next := nextSectionRegex.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}

	return strings.TrimSpace(rest)
}
