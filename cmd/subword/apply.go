package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply the merge list in --vocab to --input and write --output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			return runApply(cmd.Context(), cfg)
		},
	}
}

func runApply(ctx context.Context, cfg config.Config) error {
	form, err := cfg.Validate(config.ModeApply)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// The whole vocab is parsed before any output exists.
	tok, err := tokenizer.NewMergeTokenizer(cfg.Paths.Vocab, tokenizer.Options{
		EndOfWord: cfg.BPE.EndOfWord,
		Form:      form,
		Workers:   cfg.Replay.Workers,
	})
	if err != nil {
		return err
	}

	lines, err := corpus.ReadFile(cfg.Paths.Input, tok.Form())
	if err != nil {
		return err
	}

	outFile, err := createOutput(cfg.Paths.Output)
	if err != nil {
		return err
	}
	defer outFile.Close()

	slog.Info("applying merges",
		"vocab", cfg.Paths.Vocab,
		"input", cfg.Paths.Input,
		"lines", len(lines),
	)

	out, err := tok.TokenizeLines(ctx, lines)
	if err != nil {
		return err
	}

	if err := corpus.WriteLines(outFile, out); err != nil {
		return fmt.Errorf("write output %s: %w", cfg.Paths.Output, err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", cfg.Paths.Output, err)
	}

	slog.Info("applied merges", "output", cfg.Paths.Output, "lines", len(out))
	return nil
}
