package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/go-subword/internal/bench"
	"github.com/example/go-subword/internal/bpe"
	"github.com/example/go-subword/internal/corpus"
	"github.com/example/go-subword/internal/text"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark training on --input and check that every run agrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if cfg.Paths.Input == "" {
				return errors.New("--input is required for bench")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}
			if cfg.BPE.VocabSize < 0 {
				return fmt.Errorf("--vocab-size must not be negative, got %d", cfg.BPE.VocabSize)
			}
			if err := bpe.ValidateMarker(cfg.BPE.EndOfWord); err != nil {
				return err
			}

			form, err := text.ParseForm(cfg.BPE.Normalize)
			if err != nil {
				return err
			}
			lines, err := corpus.ReadFile(cfg.Paths.Input, form)
			if err != nil {
				return err
			}

			results, err := bench.Run(cmd.Context(), bench.Options{
				Lines:     lines,
				VocabSize: cfg.BPE.VocabSize,
				Runs:      runs,
				Trainer:   bpe.Options{EndOfWord: cfg.BPE.EndOfWord},
			})
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckDeterminism(results)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of training runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}
