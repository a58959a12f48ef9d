package bpe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/example/go-subword/internal/corpus"
)

var (
	// ErrNegativeVocabSize is returned when a negative merge count is requested.
	ErrNegativeVocabSize = errors.New("vocab size must not be negative")
	// ErrTrainerUsed is returned when Train is called more than once.
	ErrTrainerUsed = errors.New("trainer already ran")
)

// Stage is a state of the training state machine.
type Stage int

const (
	StageInit Stage = iota
	StageCounting
	StageSplitting
	StageBuildIndex
	StageSelect
	StageApply
	StageFinalize
	StageDone
)

var stageNames = [...]string{
	StageInit:       "init",
	StageCounting:   "counting",
	StageSplitting:  "splitting",
	StageBuildIndex: "build_index",
	StageSelect:     "select",
	StageApply:      "apply",
	StageFinalize:   "finalize",
	StageDone:       "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// MergeEvent describes one completed merge.
type MergeEvent struct {
	Step      int // 1-based
	Pair      Pair
	Freq      int
	IndexSize int
}

// Options configures a Trainer.
type Options struct {
	// EndOfWord is the marker appended to each word. Empty means DefaultEndOfWord.
	EndOfWord string
	// OnMerge, if set, is called after every merge.
	OnMerge func(MergeEvent)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result is the output of a training run.
type Result struct {
	// Merges in selection order.
	Merges []Pair
	// Lines is the tokenized corpus, one entry per input line.
	Lines []string
}

// Trainer owns all mutable training state for one run: the word frequency
// table, the split table, the pair index and the merge list.
type Trainer struct {
	lines  []string
	marker string
	opts   Options
	log    *slog.Logger

	stage  Stage
	corpus *corpus.Corpus
	splits map[string][]string
	index  *PairIndex
	merges []Pair
}

// NewTrainer returns a trainer for the given raw corpus lines.
func NewTrainer(lines []string, opts Options) *Trainer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		lines:  lines,
		marker: markerOrDefault(opts.EndOfWord),
		opts:   opts,
		log:    logger,
	}
}

// Stage returns the current state.
func (t *Trainer) Stage() Stage { return t.stage }

// Frequencies returns a copy of the current pair counts, or nil before the
// index is built.
func (t *Trainer) Frequencies() map[Pair]int {
	if t.index == nil {
		return nil
	}
	return t.index.Snapshot()
}

// Train learns up to numMerges merges. It stops early, without error, once
// no adjacent pair is left. A canceled ctx aborts between merges.
func (t *Trainer) Train(ctx context.Context, numMerges int) (*Result, error) {
	if numMerges < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeVocabSize, numMerges)
	}
	if t.stage != StageInit {
		return nil, ErrTrainerUsed
	}

	t.enter(StageCounting)
	t.corpus = corpus.Tokenize(t.lines)

	t.enter(StageSplitting)
	t.splits = make(map[string][]string, len(t.corpus.Freq))
	for word := range t.corpus.Freq {
		t.splits[word] = InitialSplit(word, t.marker)
	}

	t.enter(StageBuildIndex)
	t.index = BuildIndex(t.corpus.Freq, t.splits)
	t.log.Debug("pair index built", "words", len(t.splits), "pairs", t.index.Len())

	t.merges = make([]Pair, 0, min(numMerges, t.index.Len()))
	for len(t.merges) < numMerges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t.stage = StageSelect
		p, freq, ok := t.index.Best()
		if !ok {
			t.log.Debug("pair index exhausted", "merges", len(t.merges), "requested", numMerges)
			break
		}
		t.merges = append(t.merges, p)

		t.stage = StageApply
		t.apply(p)

		if t.opts.OnMerge != nil {
			t.opts.OnMerge(MergeEvent{
				Step:      len(t.merges),
				Pair:      p,
				Freq:      freq,
				IndexSize: t.index.Len(),
			})
		}
	}

	t.enter(StageFinalize)
	out := make([]string, len(t.corpus.Lines))
	for i, words := range t.corpus.Lines {
		segs := make([][]string, len(words))
		for j, w := range words {
			segs[j] = t.splits[w]
		}
		out[i] = RenderLine(segs, t.marker)
	}

	t.enter(StageDone)
	t.log.Info("training finished",
		"lines", len(t.corpus.Lines),
		"words", len(t.corpus.Freq),
		"merges", len(t.merges),
		"requested", numMerges,
	)

	return &Result{Merges: slices.Clone(t.merges), Lines: out}, nil
}

func (t *Trainer) enter(s Stage) {
	t.stage = s
	t.log.Debug("training stage", "stage", s.String())
}
