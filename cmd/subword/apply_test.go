package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/testutil"
)

func TestApplyCmd(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ac ab")
	vocab := testutil.WriteLines(t, dir, "vocab.txt", "b _", "a b_")
	out := filepath.Join(dir, "out.txt")

	_, err := execute(t, "apply", "--input", in, "--output", out, "--vocab", vocab)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	assertLines(t, out, "a c ab")
}

func TestRunApply(t *testing.T) {
	tests := []struct {
		name  string
		vocab []string
		input []string
		want  []string
	}{
		{
			name:  "partial merges",
			vocab: []string{"b _", "a b_"},
			input: []string{"ac ab"},
			want:  []string{"a c ab"},
		},
		{
			name:  "merge order matters",
			vocab: []string{"b c", "a b"},
			input: []string{"abc"},
			want:  []string{"a bc"},
		},
		{
			name:  "empty vocab splits every character",
			vocab: nil,
			input: []string{"hello world"},
			want:  []string{"h e l l o w o r l d"},
		},
		{
			name:  "repeated spaces collapse",
			vocab: []string{"a _"},
			input: []string{"  a   a  "},
			want:  []string{"a a"},
		},
		{
			name:  "blank line stays blank",
			vocab: []string{"a _"},
			input: []string{"a", "", "a"},
			want:  []string{"a", "", "a"},
		},
		{
			name:  "blank vocab lines are skipped",
			vocab: []string{"b _", "", "a b_"},
			input: []string{"ab"},
			want:  []string{"ab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := testutil.WriteLines(t, dir, "in.txt", tt.input...)
			vocab := testutil.WriteLines(t, dir, "vocab.txt", tt.vocab...)
			out := filepath.Join(dir, "out.txt")

			if err := runApply(context.Background(), learnConfig(in, out, vocab, 0)); err != nil {
				t.Fatalf("runApply: %v", err)
			}

			assertLines(t, out, tt.want...)
		})
	}
}

func TestRunApply_MalformedVocab(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ab")
	vocab := testutil.WriteLines(t, dir, "vocab.txt", "b _", "a b c")
	out := filepath.Join(dir, "out.txt")

	err := runApply(context.Background(), learnConfig(in, out, vocab, 0))
	if !errors.Is(err, bpe.ErrMalformedVocabEntry) {
		t.Fatalf("expected ErrMalformedVocabEntry, got: %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name line 2", err)
	}

	testutil.RequireMissing(t, out)
}

func TestRunApply_MissingVocab(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ab")
	vocab := filepath.Join(dir, "vocab.txt")
	out := filepath.Join(dir, "out.txt")

	err := runApply(context.Background(), learnConfig(in, out, vocab, 0))
	if err == nil {
		t.Fatal("expected error for missing vocab")
	}
	if !strings.Contains(err.Error(), vocab) {
		t.Errorf("error %q does not name %s", err, vocab)
	}

	testutil.RequireMissing(t, out)
}

func TestRunApply_NormalizesInput(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ne\u0301")
	vocab := testutil.WriteLines(t, dir, "vocab.txt", "\u00e9 _")
	out := filepath.Join(dir, "out.txt")

	cfg := learnConfig(in, out, vocab, 0)
	cfg.BPE.Normalize = "nfc"
	if err := runApply(context.Background(), cfg); err != nil {
		t.Fatalf("runApply: %v", err)
	}

	assertLines(t, out, "n \u00e9")
}
