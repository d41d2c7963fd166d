package extract

import (
	"regexp"
	"strings"
)

// markerRegex recognizes a citation marker at block start or immediately after
// a line break, followed by required whitespace. Three numbering conventions
// are supported, and may co-occur in one block:
//
//	N.   (including the escaped-dot artifact N\. left by some converters)
//	[N]
//	N)
var markerRegex = regexp.MustCompile(`(?:\A|\n)(\d+\\?\.|\[\d+\]|\d+\))[ \t]+`)

// SplitCitations partitions a references block into ordered citations, one per
// recognized marker. Ordinals are assigned by order of appearance, 1-based,
// regardless of the numeral printed in the marker. A block with no
// recognizable markers yields no citations; that is silent degradation, not a
// failure.
func SplitCitations(block string) []Citation {
	matches := markerRegex.FindAllStringSubmatchIndex(block, -1)
	if matches == nil {
		return nil
	}

	var citations []Citation
	for i, m := range matches {
		marker := block[m[2]:m[3]]

		end := len(block)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		body := strings.TrimSpace(block[m[3]:end])
		if body == "" {
			continue
		}

		citations = append(citations, Citation{
			Ordinal: len(citations) + 1,
			Raw:     marker + " " + body,
		})
	}

	return citations
}
