package bpe

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/go-subword/internal/corpus"
	"github.com/google/go-cmp/cmp"
)

func tokenize(lines []string) [][]string {
	return corpus.Tokenize(lines).Lines
}

func TestReplay_Scenario(t *testing.T) {
	r := NewReplayer(pairs("b _", "a b_"), ReplayOptions{})

	got, err := r.Apply(context.Background(), tokenize([]string{"ac ab"}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"a c ab"}, got); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_OrderMatters(t *testing.T) {
	lines := tokenize([]string{"abc"})

	inOrder, err := NewReplayer(pairs("a b", "ab c"), ReplayOptions{}).Apply(context.Background(), lines)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	reversed, err := NewReplayer(pairs("ab c", "a b"), ReplayOptions{}).Apply(context.Background(), lines)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if diff := cmp.Diff([]string{"abc"}, inOrder); diff != "" {
		t.Errorf("in-order replay mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ab c"}, reversed); diff != "" {
		t.Errorf("reversed replay mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_MatchesTraining(t *testing.T) {
	for _, seed := range []uint64{3, 17, 42} {
		lines := randomCorpus(seed, 150)
		res := train(t, lines, 80)

		r := NewReplayer(res.Merges, ReplayOptions{Workers: 4})
		got, err := r.Apply(context.Background(), tokenize(lines))
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if diff := cmp.Diff(res.Lines, got); diff != "" {
			t.Fatalf("seed %d: replay differs from training (-train +replay):\n%s", seed, diff)
		}
	}
}

func TestReplay_WordBoundaries(t *testing.T) {
	// A merge spanning the marker and the next word's first symbol must not
	// join two words.
	r := NewReplayer(pairs("_ a", "b _"), ReplayOptions{})

	got, err := r.Apply(context.Background(), tokenize([]string{"b a"}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"b a"}, got); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_Empty(t *testing.T) {
	r := NewReplayer(nil, ReplayOptions{})

	got, err := r.Apply(context.Background(), tokenize([]string{"", "ab"}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"", "a b"}, got); diff != "" {
		t.Errorf("replay mismatch (-want +got):\n%s", diff)
	}

	got, err = r.Apply(context.Background(), nil)
	if err != nil {
		t.Fatalf("Apply(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Apply(nil) = %v; want empty", got)
	}
}

func TestReplay_Word(t *testing.T) {
	r := NewReplayer(pairs("b _", "a b_"), ReplayOptions{})

	if diff := cmp.Diff([]string{"ab_"}, r.Word("ab")); diff != "" {
		t.Errorf("Word(ab) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "c", "_"}, r.Word("ac")); diff != "" {
		t.Errorf("Word(ac) mismatch (-want +got):\n%s", diff)
	}
	if r.Marker() != DefaultEndOfWord {
		t.Errorf("Marker() = %q; want %q", r.Marker(), DefaultEndOfWord)
	}
}

func TestReplay_CopiesMerges(t *testing.T) {
	merges := pairs("b _", "a b_")
	r := NewReplayer(merges, ReplayOptions{})
	merges[0] = Pair{"x", "y"}

	if diff := cmp.Diff([]string{"ab_"}, r.Word("ab")); diff != "" {
		t.Errorf("replayer observed caller mutation (-want +got):\n%s", diff)
	}
}

func TestReplay_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReplayer(pairs("a b"), ReplayOptions{}).Apply(ctx, tokenize([]string{"ab"}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Apply error = %v; want context.Canceled", err)
	}
}

func TestReplay_ConcurrentUse(t *testing.T) {
	lines := randomCorpus(5, 60)
	res := train(t, lines, 40)
	r := NewReplayer(res.Merges, ReplayOptions{Workers: 2})
	words := tokenize(lines)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	outs := make([][]string, 8)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = r.Apply(context.Background(), words)
		}()
	}
	wg.Wait()

	for i := range 8 {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if diff := cmp.Diff(res.Lines, outs[i]); diff != "" {
			t.Fatalf("goroutine %d: output mismatch (-want +got):\n%s", i, diff)
		}
	}
}
