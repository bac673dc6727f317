package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"logbench/applog"
	"logbench/suite"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "LOGBENCH"

	defaultRuns            = 5
	defaultSink            = "discard"
	defaultSteadyTolerance = 0.05
)

type Config struct {
	Iterations      int           `mapstructure:"iterations"`
	Runs            int           `mapstructure:"runs"`
	Payloads        []string      `mapstructure:"payloads"`
	Sink            string        `mapstructure:"sink"`
	Output          string        `mapstructure:"output"`
	MetricsFile     string        `mapstructure:"metrics_file"`
	SteadyTolerance float64       `mapstructure:"steady_tolerance"`
	Cooldown        time.Duration `mapstructure:"cooldown"`

	Log  LogConfig  `mapstructure:"log"`
	Demo DemoConfig `mapstructure:"demo"`
}

type LogConfig struct {
	Level         string `mapstructure:"level"`
	Format        string `mapstructure:"format"`
	Backend       string `mapstructure:"backend"`
	RevealPrivate bool   `mapstructure:"reveal_private"`
}

type DemoConfig struct {
	NetworkDelay time.Duration `mapstructure:"network_delay"`
	UserName     string        `mapstructure:"user_name"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("iterations", suite.DefaultIterations)
	v.SetDefault("runs", defaultRuns)
	v.SetDefault("payloads", suite.DefaultPayloads)
	v.SetDefault("sink", defaultSink)
	v.SetDefault("output", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("steady_tolerance", defaultSteadyTolerance)
	v.SetDefault("cooldown", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", applog.FormatAuto)
	v.SetDefault("log.backend", applog.BackendSlog)
	v.SetDefault("log.reveal_private", false)
	v.SetDefault("demo.network_delay", "2s")
	v.SetDefault("demo.user_name", "")
	return v
}

// Load reads .env, the optional config file and the environment into a
// validated Config. Without an explicit file a missing logbench.yaml is not
// an error. LOGBENCH_PAYLOADS holds a single payload, verbatim; use the
// config file for a list.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("logbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if len(c.Payloads) == 0 {
		return errors.New("payloads must not be empty")
	}
	if c.SteadyTolerance < 0 {
		return fmt.Errorf("steady_tolerance must not be negative, got %v", c.SteadyTolerance)
	}
	if c.Sink == "" {
		return errors.New("sink must be discard, stdout or a file path")
	}
	if _, err := c.Log.Options(""); err != nil {
		return err
	}
	return nil
}

// Options converts the log section into facility options.
func (l LogConfig) Options(subsystem string) (applog.Options, error) {
	level, err := applog.ParseLevel(l.Level)
	if err != nil {
		return applog.Options{}, err
	}
	if !slices.Contains([]string{applog.FormatAuto, applog.FormatJSON, applog.FormatText}, l.Format) {
		return applog.Options{}, fmt.Errorf("unknown log format %q", l.Format)
	}
	if !slices.Contains([]string{applog.BackendSlog, applog.BackendZerolog}, l.Backend) {
		return applog.Options{}, fmt.Errorf("unknown log backend %q", l.Backend)
	}
	return applog.Options{
		Subsystem:     subsystem,
		Level:         level,
		Format:        l.Format,
		Backend:       l.Backend,
		RevealPrivate: l.RevealPrivate,
	}, nil
}
