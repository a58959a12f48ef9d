package bpe

import (
	"strings"
	"unicode/utf8"
)

// InitialSplit returns the starting segmentation of word: one symbol per
// code point followed by the end-of-word marker. Symbols are slices of word,
// so an invalid UTF-8 byte becomes a symbol of its own and is kept verbatim.
func InitialSplit(word, marker string) []string {
	syms := make([]string, 0, len(word)+1)
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		syms = append(syms, word[i:i+size])
		i += size
	}
	return append(syms, marker)
}

// RenderWord writes the output form of a segmented word to b. Marker text is
// removed from every symbol, and every symbol other than the bare marker is
// followed by a single space.
func RenderWord(b *strings.Builder, syms []string, marker string) {
	for _, s := range syms {
		b.WriteString(strings.ReplaceAll(s, marker, ""))
		if s != marker {
			b.WriteByte(' ')
		}
	}
}

// RenderLine renders the segmented words of one line with trailing spaces
// removed.
func RenderLine(words [][]string, marker string) string {
	var b strings.Builder
	for _, syms := range words {
		RenderWord(&b, syms, marker)
	}
	return strings.TrimRight(b.String(), " ")
}
