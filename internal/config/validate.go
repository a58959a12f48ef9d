package config

import (
	"errors"
	"fmt"

	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/text"
)

// ErrMissingPath is returned when a path required by the selected mode is empty.
var ErrMissingPath = errors.New("missing required path")

// Mode is the learn-or-apply selector.
type Mode string

const (
	ModeLearn Mode = "learn"
	ModeApply Mode = "apply"
)

// Validate checks the settings used by mode and returns the parsed
// normalization form.
func (c Config) Validate(mode Mode) (text.Form, error) {
	required := []struct {
		flag  string
		value string
	}{
		{"input", c.Paths.Input},
		{"output", c.Paths.Output},
		{"vocab", c.Paths.Vocab},
	}
	for _, r := range required {
		if r.value == "" {
			return text.FormNone, fmt.Errorf("%w: --%s is required in %s mode", ErrMissingPath, r.flag, mode)
		}
	}

	if mode == ModeLearn && c.BPE.VocabSize < 0 {
		return text.FormNone, fmt.Errorf("--vocab-size must not be negative, got %d", c.BPE.VocabSize)
	}
	if err := bpe.ValidateMarker(c.BPE.EndOfWord); err != nil {
		return text.FormNone, err
	}
	if c.Replay.Workers < 0 {
		return text.FormNone, fmt.Errorf("--replay-workers must not be negative, got %d", c.Replay.Workers)
	}

	return text.ParseForm(c.BPE.Normalize)
}
