package bpe

// apply merges every adjacent occurrence of p in every word that contains it,
// keeping the pair index exact as it goes.
func (t *Trainer) apply(p Pair) {
	merged := p.Merged()
	for _, word := range t.index.Words(p) {
		t.splits[word] = t.mergeWord(word, t.splits[word], p, merged)
	}
}

// mergeWord rewrites syms in place. Around each merge site the pairs formed
// with the left and right neighbours are moved over to the merged symbol and
// the merged pair itself is decremented, each by the word's frequency.
func (t *Trainer) mergeWord(word string, syms []string, p Pair, merged string) []string {
	n := t.corpus.Freq[word]

	pos := 0
	for pos < len(syms)-1 {
		if syms[pos] != p.First || syms[pos+1] != p.Second {
			pos++
			continue
		}

		if pos > 0 {
			left := syms[pos-1]
			t.index.sub(Pair{left, p.First}, n)
			t.index.add(Pair{left, merged}, word, n)
		}
		if pos+2 < len(syms) {
			right := syms[pos+2]
			t.index.sub(Pair{p.Second, right}, n)
			t.index.add(Pair{merged, right}, word, n)
		}
		t.index.sub(p, n)

		syms[pos] = merged
		syms = append(syms[:pos+1], syms[pos+2:]...)
		// pos is not advanced: the merged symbol is checked again against
		// its new right neighbour.
	}
	return syms
}

// collapse is the bookkeeping-free form of mergeWord used by replay.
func collapse(syms []string, p Pair, merged string) []string {
	pos := 0
	for pos < len(syms)-1 {
		if syms[pos] == p.First && syms[pos+1] == p.Second {
			syms[pos] = merged
			syms = append(syms[:pos+1], syms[pos+2:]...)
			continue
		}
		pos++
	}
	return syms
}
