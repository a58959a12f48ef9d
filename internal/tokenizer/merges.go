package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/text"
)

// ErrEmptyPath is returned when NewMergeTokenizer is called with an empty path.
var ErrEmptyPath = errors.New("vocab path must not be empty")

// Options configures a MergeTokenizer.
type Options struct {
	EndOfWord string
	Form      text.Form
	Workers   int
}

// MergeTokenizer implements Tokenizer by replaying a merge list.
type MergeTokenizer struct {
	replayer *bpe.Replayer
	form     text.Form
}

// NewMergeTokenizer loads the vocab file at vocabPath.
func NewMergeTokenizer(vocabPath string, opts Options) (*MergeTokenizer, error) {
	if vocabPath == "" {
		return nil, ErrEmptyPath
	}

	merges, err := bpe.ReadVocabFile(vocabPath)
	if err != nil {
		return nil, err
	}

	return NewMergeTokenizerFromMerges(merges, opts), nil
}

// NewMergeTokenizerFromVocab parses a merge list from raw vocab file contents.
func NewMergeTokenizerFromVocab(data []byte, opts Options) (*MergeTokenizer, error) {
	merges, err := bpe.ReadVocab(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse vocab: %w", err)
	}
	return NewMergeTokenizerFromMerges(merges, opts), nil
}

// NewMergeTokenizerFromMerges wraps an in-memory merge list.
func NewMergeTokenizerFromMerges(merges []bpe.Pair, opts Options) *MergeTokenizer {
	return &MergeTokenizer{
		replayer: bpe.NewReplayer(merges, bpe.ReplayOptions{
			EndOfWord: opts.EndOfWord,
			Workers:   opts.Workers,
		}),
		form: opts.Form,
	}
}

// Tokenize segments a single line.
func (t *MergeTokenizer) Tokenize(line string) (string, error) {
	words := corpus.SplitWords(text.NormalizeLine(line, t.form))
	if len(words) == 0 {
		return "", nil
	}

	segs := make([][]string, len(words))
	for i, w := range words {
		segs[i] = t.replayer.Word(w)
	}
	return bpe.RenderLine(segs, t.replayer.Marker()), nil
}

// TokenizeLines segments many lines, fanning distinct words out across the
// replayer's workers. Lines must already be normalized, as corpus.ReadLines
// does with Form().
func (t *MergeTokenizer) TokenizeLines(ctx context.Context, lines []string) ([]string, error) {
	return t.replayer.Apply(ctx, corpus.Tokenize(lines).Lines)
}

// Form returns the normalization form applied by Tokenize.
func (t *MergeTokenizer) Form() text.Form { return t.form }
