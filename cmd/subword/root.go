package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/example/go-subword/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

const rootLong = `subword learns a BPE merge list from a whitespace-tokenized corpus and
replays a learned merge list over new text.

Run it through the learn and apply subcommands, or with --learn-bpe or
--apply-bpe on the root command.`

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	var learnBPE, applyBPE bool

	cmd := &cobra.Command{
		Use:   "subword",
		Short: "Learn and apply byte-pair-encoding subword merges",
		Long:  rootLong,
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if learnBPE {
				return runLearn(cmd.Context(), cfg)
			}
			return runApply(cmd.Context(), cfg)
		},
	}

	// main prints the returned error itself.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.Flags().BoolVar(&learnBPE, "learn-bpe", false, "Learn a merge list from --input (same as the learn subcommand)")
	cmd.Flags().BoolVar(&applyBPE, "apply-bpe", false, "Apply the merge list in --vocab (same as the apply subcommand)")
	cmd.MarkFlagsMutuallyExclusive("learn-bpe", "apply-bpe")
	cmd.MarkFlagsOneRequired("learn-bpe", "apply-bpe")

	cmd.AddCommand(newLearnCmd())
	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())

	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	return cmd
}

// flagAliases maps legacy flag spellings to current names.
var flagAliases = map[string]string{
	"inpath":  "input",
	"outpath": "output",
}

// normalizeFlagName accepts underscores in place of dashes and the legacy
// --inpath and --outpath spellings.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if alias, ok := flagAliases[name]; ok {
		name = alias
	}
	return pflag.NormalizedName(name)
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}
