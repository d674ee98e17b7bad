// Package config resolves framewatch settings from flags and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FRAMEWATCH_SNAPLEN.
const EnvPrefix = "FRAMEWATCH"

// ErrHelp is returned by Load when -h or --help was given.
var ErrHelp = pflag.ErrHelp

type Config struct {
	Interface    string        `mapstructure:"interface"`
	SnapLen      int           `mapstructure:"snaplen"`
	Promisc      bool          `mapstructure:"promisc"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	IdleInterval time.Duration `mapstructure:"idle-interval"`
	LogLevel     string        `mapstructure:"log-level"`
	NoColor      bool          `mapstructure:"no-color"`
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("interface", "i", "", "Network interface to capture from; skips the selection prompt")
	fs.IntP("snaplen", "s", 1600, "Maximum bytes captured per frame")
	fs.Bool("promisc", true, "Open the interface in promiscuous mode")
	fs.Duration("read-timeout", 0, "pcap read timeout (0 blocks until a frame arrives)")
	fs.Duration("idle-interval", 100*time.Millisecond, "Keyboard poll interval while paused")
	fs.String("log-level", "info", "Diagnostic log level: debug, info, warn, error")
	fs.Bool("no-color", false, "Disable colored output")
	return fs
}

// Load parses args (without the program name) and overlays environment
// variables. Flags given explicitly win over the environment.
func Load(args []string) (*Config, error) {
	fs := newFlagSet("framewatch")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SnapLen <= 0 {
		cfg.SnapLen = 1600
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 100 * time.Millisecond
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.ReadTimeout < 0 {
		return errors.New("read-timeout must not be negative")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log-level %q", cfg.LogLevel)
	}
	if cfg.SnapLen > 262144 {
		return fmt.Errorf("snaplen %d exceeds 262144", cfg.SnapLen)
	}
	return nil
}
