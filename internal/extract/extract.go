// Package extract locates and splits the references section of a converted document.
package extract

// Citation is a single reference pulled from the references block.
type Citation struct {
	// Ordinal is the 1-based position of appearance within the block.
	// It is assigned by order of appearance, never from the numeral printed
	// in the citation's own marker (converters mis-number).
	Ordinal int `json:"ordinal"`

	// Raw is the citation text, trimmed, prefixed with its original marker.
	Raw string `json:"raw"`
}
