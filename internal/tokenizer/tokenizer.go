// Package tokenizer segments text with a learned BPE merge list.
package tokenizer

// Tokenizer segments one line of text into space-separated subwords.
type Tokenizer interface {
	// Tokenize returns the segmented form of line.
	Tokenize(line string) (string, error)
}
