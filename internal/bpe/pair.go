// Package bpe implements byte-pair-encoding vocabulary training and the
// replay of a learned merge list onto new text.
//
// Training keeps a pair frequency index that is built once from the corpus
// and then updated incrementally: each merge only touches the counts of pairs
// adjacent to an actual merge site, so the cost of a merge is proportional to
// the number of places it rewrites rather than to the corpus size.
package bpe

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultEndOfWord is the symbol appended to every word's initial split.
const DefaultEndOfWord = "_"

// ErrInvalidMarker is returned for end-of-word markers that cannot round-trip
// through the vocab file format.
var ErrInvalidMarker = errors.New("invalid end-of-word marker")

// Pair is an ordered pair of adjacent symbols.
type Pair struct {
	First  string
	Second string
}

// Merged returns the symbol produced by merging the pair.
func (p Pair) Merged() string { return p.First + p.Second }

// String returns the pair in vocab file form: "<first> <second>".
func (p Pair) String() string { return p.First + " " + p.Second }

// before reports whether p wins a frequency tie against q: the smaller
// Second symbol wins, then the smaller First symbol.
func (p Pair) before(q Pair) bool {
	if p.Second != q.Second {
		return p.Second < q.Second
	}
	return p.First < q.First
}

// ValidateMarker checks that m can be used as an end-of-word marker.
func ValidateMarker(m string) error {
	if m == "" {
		return fmt.Errorf("%w: empty", ErrInvalidMarker)
	}
	if strings.ContainsAny(m, " \r\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidMarker, m)
	}
	return nil
}

func markerOrDefault(m string) string {
	if m == "" {
		return DefaultEndOfWord
	}
	return m
}
