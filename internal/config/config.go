package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig  `mapstructure:"paths"`
	BPE      BPEConfig    `mapstructure:"bpe"`
	Replay   ReplayConfig `mapstructure:"replay"`
	LogLevel string       `mapstructure:"log_level"`
}

type PathsConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	Vocab  string `mapstructure:"vocab"`
}

type BPEConfig struct {
	VocabSize int    `mapstructure:"vocab_size"`
	EndOfWord string `mapstructure:"end_of_word"`
	Normalize string `mapstructure:"normalize"`
}

type ReplayConfig struct {
	Workers int `mapstructure:"workers"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Input:  "",
			Output: "",
			Vocab:  "",
		},
		BPE: BPEConfig{
			VocabSize: 10000,
			EndOfWord: "_",
			Normalize: "none",
		},
		Replay: ReplayConfig{
			Workers: 0,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("input", defaults.Paths.Input, "Path to the input text file")
	fs.String("output", defaults.Paths.Output, "Path to the tokenized output file")
	fs.String("vocab", defaults.Paths.Vocab, "Path to the vocab (merge list) file")
	fs.Int("vocab-size", defaults.BPE.VocabSize, "Number of merges to learn (learn mode only)")
	fs.String("end-of-word", defaults.BPE.EndOfWord, "End-of-word marker appended to every word")
	fs.String("normalize", defaults.BPE.Normalize, "Unicode normalization of input lines (none|nfc|nfkc)")
	fs.Int("replay-workers", defaults.Replay.Workers, "Concurrent word workers in apply mode (0 = GOMAXPROCS)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("SUBWORD")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("subword")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// flagKeys maps flag names to their config keys.
var flagKeys = map[string]string{
	"input":          "paths.input",
	"output":         "paths.output",
	"vocab":          "paths.vocab",
	"vocab-size":     "bpe.vocab_size",
	"end-of-word":    "bpe.end_of_word",
	"normalize":      "bpe.normalize",
	"replay-workers": "replay.workers",
	"log-level":      "log_level",
}

// bindFlags binds each registered flag to its nested key so that a flag set
// on the command line beats env and config file values, while an unset flag
// does not mask them.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.input", c.Paths.Input)
	v.SetDefault("paths.output", c.Paths.Output)
	v.SetDefault("paths.vocab", c.Paths.Vocab)
	v.SetDefault("bpe.vocab_size", c.BPE.VocabSize)
	v.SetDefault("bpe.end_of_word", c.BPE.EndOfWord)
	v.SetDefault("bpe.normalize", c.BPE.Normalize)
	v.SetDefault("replay.workers", c.Replay.Workers)
	v.SetDefault("log_level", c.LogLevel)
}
