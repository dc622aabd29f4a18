package config

import (
	"os"
	"strings"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval       = 30
	DefaultListenAddr     = ":9110"
	DefaultLogLevel       = "info"
	DefaultWindowMinutes  = 15
	DefaultWindowSamples  = 40
	DefaultMaxGapFactor   = 3
	DefaultInertiaSeconds = 180
	DefaultPersistMinutes = 5
	DefaultHistoryDB      = "/var/lib/heatpumpmon/history.db"
	DefaultElectricalUnit = "auto"
	DefaultDeviceID       = "heatpump"
)

// Config holds all runtime settings for the monitoring engine.
type Config struct {
	Interval       int    `mapstructure:"interval"`
	ListenAddr     string `mapstructure:"listen_addr"`
	LogLevel       string `mapstructure:"log_level"`
	WindowMinutes  int    `mapstructure:"window_minutes"`
	WindowSamples  int    `mapstructure:"window_samples"`
	MaxGapFactor   int    `mapstructure:"max_gap_factor"`
	InertiaSeconds int    `mapstructure:"inertia_seconds"`
	PersistMinutes int    `mapstructure:"persist_minutes"`
	HistoryDB      string `mapstructure:"history_db"`
	ElectricalUnit string `mapstructure:"electrical_unit"`
	DeviceID       string `mapstructure:"device_id"`
	Debug          bool   `mapstructure:"debug"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Load reads configuration from file, environment and flags.
// Precedence: flags > environment > config file > defaults.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("window_minutes", DefaultWindowMinutes)
	v.SetDefault("window_samples", DefaultWindowSamples)
	v.SetDefault("max_gap_factor", DefaultMaxGapFactor)
	v.SetDefault("inertia_seconds", DefaultInertiaSeconds)
	v.SetDefault("persist_minutes", DefaultPersistMinutes)
	v.SetDefault("history_db", DefaultHistoryDB)
	v.SetDefault("electrical_unit", DefaultElectricalUnit)
	v.SetDefault("device_id", DefaultDeviceID)

	flags := pflag.NewFlagSet("heatpumpmon", pflag.ContinueOnError)
	flags.Int("interval", DefaultInterval, "Nominal polling interval in seconds")
	flags.String("listen-addr", DefaultListenAddr, "HTTP listen address")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Int("window-minutes", DefaultWindowMinutes, "COP accumulation window span in minutes")
	flags.Int("window-samples", DefaultWindowSamples, "Maximum samples retained in the COP window")
	flags.Int("max-gap-factor", DefaultMaxGapFactor, "Maximum integration gap as multiple of the interval")
	flags.Int("inertia-seconds", DefaultInertiaSeconds, "Post-cycle inertia lock duration in seconds")
	flags.String("history-db", DefaultHistoryDB, "Path to the energy history database")
	flags.String("electrical-unit", DefaultElectricalUnit, "Electrical sensor unit (auto, watt, kilowatt)")
	flags.String("device-id", DefaultDeviceID, "Device identifier used for history series")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	v.SetEnvPrefix("HEATPUMPMON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("HEATPUMPMON_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("heatpumpmon.conf")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.WindowMinutes <= 0 || c.WindowSamples <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "window span and sample count must be positive")
	}
	// The count trim must not shorten the window below its time span, or
	// the optimal quality tier becomes unreachable.
	if c.WindowSamples*c.Interval < c.WindowMinutes*60 {
		return errFactory.WithMessage(errors.ErrInvalidConfig,
			"window_samples cannot cover window_minutes at the configured interval")
	}
	if c.MaxGapFactor <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "max_gap_factor must be positive")
	}
	if c.InertiaSeconds < 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "inertia_seconds must not be negative")
	}
	if c.HistoryDB == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "history_db is required")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	switch c.ElectricalUnit {
	case "auto", "watt", "kilowatt":
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, c.ElectricalUnit)
	}

	return nil
}
