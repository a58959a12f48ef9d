package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/corpus"
	"github.com/spf13/cobra"
)

// progressEvery is the merge interval between progress log lines.
const progressEvery = 1000

func newLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn",
		Short: "Learn a merge list from --input and write --vocab and --output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			return runLearn(cmd.Context(), cfg)
		},
	}
}

func runLearn(ctx context.Context, cfg config.Config) error {
	form, err := cfg.Validate(config.ModeLearn)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	lines, err := corpus.ReadFile(cfg.Paths.Input, form)
	if err != nil {
		return err
	}

	// Both outputs are created before training so a bad path fails fast.
	vocabFile, err := createOutput(cfg.Paths.Vocab)
	if err != nil {
		return err
	}
	defer vocabFile.Close()

	outFile, err := createOutput(cfg.Paths.Output)
	if err != nil {
		return err
	}
	defer outFile.Close()

	logger := slog.Default()
	logger.Info("learning merges",
		"input", cfg.Paths.Input,
		"lines", len(lines),
		"vocab_size", cfg.BPE.VocabSize,
	)

	trainer := bpe.NewTrainer(lines, bpe.Options{
		EndOfWord: cfg.BPE.EndOfWord,
		Logger:    logger,
		OnMerge: func(ev bpe.MergeEvent) {
			if ev.Step%progressEvery == 0 {
				logger.Info("merge progress",
					"step", ev.Step,
					"pair", ev.Pair.String(),
					"freq", ev.Freq,
					"pairs", ev.IndexSize,
				)
			}
		},
	})

	res, err := trainer.Train(ctx, cfg.BPE.VocabSize)
	if err != nil {
		return err
	}

	if err := bpe.WriteVocab(vocabFile, res.Merges); err != nil {
		return fmt.Errorf("write vocab %s: %w", cfg.Paths.Vocab, err)
	}
	if err := vocabFile.Close(); err != nil {
		return fmt.Errorf("close vocab %s: %w", cfg.Paths.Vocab, err)
	}

	if err := corpus.WriteLines(outFile, res.Lines); err != nil {
		return fmt.Errorf("write output %s: %w", cfg.Paths.Output, err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", cfg.Paths.Output, err)
	}

	logger.Info("learned merges",
		"merges", len(res.Merges),
		"vocab", cfg.Paths.Vocab,
		"output", cfg.Paths.Output,
	)
	return nil
}

// createOutput creates or truncates path.
func createOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
