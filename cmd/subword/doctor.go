package main

import (
	"errors"
	"fmt"

	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/doctor"
	"github.com/example/go-subword/internal/text"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run preflight checks on the configured input, vocab and output paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			var requireVocab bool
			switch config.Mode(mode) {
			case config.ModeLearn:
			case config.ModeApply:
				requireVocab = true
			default:
				return fmt.Errorf("--mode must be 'learn' or 'apply'")
			}

			form, err := text.ParseForm(cfg.BPE.Normalize)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			result := doctor.Run(doctor.Config{
				InputPath:    cfg.Paths.Input,
				Form:         form,
				VocabPath:    cfg.Paths.Vocab,
				RequireVocab: requireVocab,
				OutputPath:   cfg.Paths.Output,
			}, stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(stdout, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(config.ModeLearn), "Mode to check for: learn|apply (apply requires an existing vocab)")

	return cmd
}
