package bpe

import (
	"maps"
	"slices"

	"github.com/emirpasic/gods/v2/sets/hashset"
)

// PairIndex maps adjacent symbol pairs to their aggregate frequency across
// the corpus. Invariants:
//   - counts[p] is the sum over all words w of freq(w) times the number of
//     adjacent occurrences of p in w's split.
//   - counts never holds a zero or negative entry.
//   - words[p] holds at least every word whose split contains p. It may hold
//     words that no longer do; those are no-ops when p is merged.
type PairIndex struct {
	counts map[Pair]int
	words  map[Pair]*hashset.Set[string]
}

// NewPairIndex returns an empty index.
func NewPairIndex() *PairIndex {
	return &PairIndex{
		counts: make(map[Pair]int),
		words:  make(map[Pair]*hashset.Set[string]),
	}
}

// BuildIndex performs the one full pass over the split table.
func BuildIndex(freq map[string]int, splits map[string][]string) *PairIndex {
	x := NewPairIndex()
	for word, n := range freq {
		syms := splits[word]
		for i := 0; i+1 < len(syms); i++ {
			x.add(Pair{syms[i], syms[i+1]}, word, n)
		}
	}
	return x
}

func (x *PairIndex) add(p Pair, word string, n int) {
	x.counts[p] += n
	set, ok := x.words[p]
	if !ok {
		set = hashset.New[string]()
		x.words[p] = set
	}
	set.Add(word)
}

// sub decrements p by n and drops the entry once it is exhausted.
func (x *PairIndex) sub(p Pair, n int) {
	c := x.counts[p] - n
	if c <= 0 {
		delete(x.counts, p)
		delete(x.words, p)
		return
	}
	x.counts[p] = c
}

// Count returns the frequency of p, zero if absent.
func (x *PairIndex) Count(p Pair) int { return x.counts[p] }

// Len returns the number of indexed pairs.
func (x *PairIndex) Len() int { return len(x.counts) }

// Words returns the words registered for p in sorted order.
func (x *PairIndex) Words(p Pair) []string {
	set, ok := x.words[p]
	if !ok {
		return nil
	}
	words := set.Values()
	slices.Sort(words)
	return words
}

// Snapshot returns a copy of the pair counts.
func (x *PairIndex) Snapshot() map[Pair]int { return maps.Clone(x.counts) }

// Best returns the pair with the highest frequency. Ties go to the pair with
// the lexicographically smallest Second symbol, then the smallest First
// symbol. ok is false when the index is empty.
func (x *PairIndex) Best() (p Pair, freq int, ok bool) {
	for q, n := range x.counts {
		if n > freq || (n == freq && q.before(p)) {
			p, freq = q, n
		}
	}
	return p, freq, freq > 0
}
