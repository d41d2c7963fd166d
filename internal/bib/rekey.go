package bib

import "fmt"

// ExportKey builds the deterministic citation key for an accepted citation:
// "ref" plus the citation's ordinal zero-padded to three digits. The ordinal
// is the citation's position in the source document, not a running count of
// accepted entries, so skipped citations leave gaps in the key sequence.
func ExportKey(ordinal int) string {
	return fmt.Sprintf("ref%03d", ordinal)
}

// Rekey returns the entry's raw block with its declared key (the token
// immediately following "@type{") rewritten to the given key.
func Rekey(e Entry, key string) string {
	m := entryStartRegex.FindStringSubmatchIndex(e.Raw)
	if m == nil {
		return e.Raw
	}
	// m[4]:m[5] is the key token.
	return e.Raw[:m[4]] + key + e.Raw[m[5]:]
}
