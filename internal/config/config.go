// Package config layers CLI flags over environment variables over an
// optional config file over built-in defaults, the same viper/pflag
// precedence chain go-pocket-tts uses for its runtime options.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every run-time option the CLI accepts, mirroring the
// reference engine's program_options plus the values it derived from
// the platform at startup.
type Config struct {
	AlexNet   string `mapstructure:"alexnet"`
	PCA       string `mapstructure:"pca"`
	Arch      string `mapstructure:"arch"`
	Output    string `mapstructure:"output"`
	Threads   int    `mapstructure:"threads"`
	BatchSize int    `mapstructure:"batch"`
	Binary    bool   `mapstructure:"binary"`
	Verbose   bool   `mapstructure:"verbose"`
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// LoadOptions configures Load: the command whose flags to bind, an
// optional explicit config file path, and the defaults to fall back
// to.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

// DefaultConfig mirrors the reference engine's defaults: both thread
// and batch counts default to the machine's logical CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Threads:   n,
		BatchSize: n,
	}
}

// RegisterFlags adds every CLI flag, named after the reference
// engine's short/long option pairs.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.StringP("alexnet", "a", defaults.AlexNet, "binary Alexnet data")
	fs.StringP("pca", "p", defaults.PCA, "binary PCA data")
	fs.String("arch", defaults.Arch, "YAML architecture description overriding the built-in AlexNet shape")
	fs.StringP("output", "o", defaults.Output, "set output file")
	fs.IntP("threads", "t", defaults.Threads, "create NUM worker threads")
	fs.IntP("batch", "s", defaults.BatchSize, "set forward batch size")
	fs.BoolP("binary", "b", defaults.Binary, "set output mode to binary")
	fs.BoolP("verbose", "v", defaults.Verbose, "enable verbose mode")
}

// Load resolves Config from, in increasing precedence: built-in
// defaults, an optional config file, environment variables prefixed
// GOFEATURE_, then CLI flags.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("GOFEATURE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	} else {
		v.SetConfigName("gofeature")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("alexnet", c.AlexNet)
	v.SetDefault("pca", c.PCA)
	v.SetDefault("arch", c.Arch)
	v.SetDefault("output", c.Output)
	v.SetDefault("threads", c.Threads)
	v.SetDefault("batch", c.BatchSize)
	v.SetDefault("binary", c.Binary)
	v.SetDefault("verbose", c.Verbose)
}

// Validate checks the cross-field invariants the CLI enforces: at
// least one of AlexNet/PCA must be set, and both thread/batch counts
// must be positive.
func (c Config) Validate() error {
	if c.AlexNet == "" && c.PCA == "" {
		return fmt.Errorf("config: requires at least one data option (--alexnet or --pca)")
	}
	if c.Threads < 1 {
		return fmt.Errorf("config: invalid number of threads")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("config: invalid number of batch size")
	}
	return nil
}
