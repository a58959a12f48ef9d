package bpe

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ReplayOptions configures a Replayer.
type ReplayOptions struct {
	// EndOfWord must match the marker used during training. Empty means
	// DefaultEndOfWord.
	EndOfWord string
	// Workers bounds the number of words segmented concurrently. Zero or
	// negative means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Replayer applies a recorded merge list to new text. It keeps no frequency
// state: every word is rewritten by each merge in recorded order. Segmentations
// are memoized per distinct word, and a Replayer is safe for concurrent use.
type Replayer struct {
	merges  []Pair
	marker  string
	workers int
	log     *slog.Logger

	mu    sync.RWMutex
	cache map[string][]string
}

// NewReplayer returns a Replayer for merges. The slice is copied.
func NewReplayer(merges []Pair, opts ReplayOptions) *Replayer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		merges:  slices.Clone(merges),
		marker:  markerOrDefault(opts.EndOfWord),
		workers: workers,
		log:     logger,
		cache:   make(map[string][]string),
	}
}

// Marker returns the end-of-word marker in use.
func (r *Replayer) Marker() string { return r.marker }

// Word returns the segmentation of a single word, end-of-word marker
// included. The returned slice must not be modified.
func (r *Replayer) Word(word string) []string {
	r.mu.RLock()
	syms, ok := r.cache[word]
	r.mu.RUnlock()
	if ok {
		return syms
	}

	syms = r.segment(word)

	r.mu.Lock()
	r.cache[word] = syms
	r.mu.Unlock()
	return syms
}

func (r *Replayer) segment(word string) []string {
	syms := InitialSplit(word, r.marker)
	for _, p := range r.merges {
		if len(syms) < 2 {
			break
		}
		syms = collapse(syms, p, p.Merged())
	}
	return syms
}

// Apply segments every word of every line and returns the rendered lines.
func (r *Replayer) Apply(ctx context.Context, lines [][]string) ([]string, error) {
	pending := r.uncached(lines)

	results := make([][]string, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, word := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.segment(word)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	for i, word := range pending {
		r.cache[word] = results[i]
	}
	r.mu.Unlock()

	out := make([]string, len(lines))
	for i, words := range lines {
		segs := make([][]string, len(words))
		for j, w := range words {
			segs[j] = r.Word(w)
		}
		out[i] = RenderLine(segs, r.marker)
	}

	r.log.Debug("replay finished", "lines", len(lines), "new_words", len(pending), "merges", len(r.merges))
	return out, nil
}

// uncached returns the distinct words of lines that have no memoized
// segmentation yet, in first-seen order.
func (r *Replayer) uncached(lines [][]string) []string {
	seen := make(map[string]struct{})
	var pending []string

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, words := range lines {
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := r.cache[w]; !ok {
				pending = append(pending, w)
			}
		}
	}
	return pending
}
