// Package doctor provides preflight checks for subword runs.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/text"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the paths to check. Empty paths are skipped.
type Config struct {
	// InputPath is the corpus to read.
	InputPath string
	// Form is the normalization applied while reading the corpus.
	Form text.Form
	// VocabPath is the merge list. It is parsed when present.
	VocabPath string
	// RequireVocab fails the vocab check when the file does not exist
	// (apply mode). Otherwise a missing vocab is fine: learn creates it.
	RequireVocab bool
	// OutputPath is the tokenized output; its directory must be writable.
	OutputPath string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- input corpus -----------------------------------------------------
	if cfg.InputPath == "" {
		fmt.Fprintf(w, "%s input corpus: skipped\n", PassMark)
	} else if lines, err := corpus.ReadFile(cfg.InputPath, cfg.Form); err != nil {
		res.fail(fmt.Sprintf("input corpus: %v", err))
		fmt.Fprintf(w, "%s input corpus %s: %v\n", FailMark, cfg.InputPath, err)
	} else {
		c := corpus.Tokenize(lines)
		fmt.Fprintf(w, "%s input corpus: %s (%d lines, %d words, %d distinct)\n",
			PassMark, cfg.InputPath, len(c.Lines), c.NumWords(), len(c.Freq))
	}

	// ---- vocab ------------------------------------------------------------
	switch merges, err := checkVocab(cfg.VocabPath, cfg.RequireVocab); {
	case cfg.VocabPath == "":
		fmt.Fprintf(w, "%s vocab: skipped\n", PassMark)
	case err != nil:
		res.fail(fmt.Sprintf("vocab: %v", err))
		fmt.Fprintf(w, "%s vocab %s: %v\n", FailMark, cfg.VocabPath, err)
	case merges < 0:
		fmt.Fprintf(w, "%s vocab: %s (not present yet)\n", PassMark, cfg.VocabPath)
	default:
		fmt.Fprintf(w, "%s vocab: %s (%d merges)\n", PassMark, cfg.VocabPath, merges)
	}

	// ---- output directory -------------------------------------------------
	if cfg.OutputPath == "" {
		fmt.Fprintf(w, "%s output directory: skipped\n", PassMark)
	} else if err := checkWritableDir(filepath.Dir(cfg.OutputPath)); err != nil {
		res.fail(fmt.Sprintf("output directory: %v", err))
		fmt.Fprintf(w, "%s output directory %s: %v\n", FailMark, filepath.Dir(cfg.OutputPath), err)
	} else {
		fmt.Fprintf(w, "%s output directory: %s\n", PassMark, filepath.Dir(cfg.OutputPath))
	}

	return res
}

// checkVocab parses the vocab at path and returns its merge count, or -1 if
// the file is absent and not required.
func checkVocab(path string, required bool) (int, error) {
	if path == "" {
		return 0, nil
	}
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return -1, nil
	}
	merges, err := bpe.ReadVocabFile(path)
	if err != nil {
		return 0, err
	}
	return len(merges), nil
}

// checkWritableDir creates and removes a probe file in dir.
func checkWritableDir(dir string) error {
	f, err := os.CreateTemp(dir, ".subword-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
