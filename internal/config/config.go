package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Jitter   JitterConfig   `yaml:"jitter" mapstructure:"jitter"`
	Columns  ColumnsConfig  `yaml:"columns" mapstructure:"columns"`
	Sentinel SentinelConfig `yaml:"sentinel" mapstructure:"sentinel"`
	Planned  PlannedConfig  `yaml:"planned" mapstructure:"planned"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Build    BuildConfig    `yaml:"build" mapstructure:"build"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the upstream enriched sample CSV.
type SourceConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig locates the published sqlite store.
type StoreConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Table string `yaml:"table" mapstructure:"table"`
}

// JitterConfig configures the privacy displacement applied to published
// coordinates.
type JitterConfig struct {
	RadiusMeters  float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
	Salt          string  `yaml:"salt" mapstructure:"salt"`
	KeepOriginals bool    `yaml:"keep_originals" mapstructure:"keep_originals"`
	OrigSuffix    string  `yaml:"orig_suffix" mapstructure:"orig_suffix"`
}

// ColumnsConfig names the preferred coordinate columns; candidate detection
// applies when they are absent.
type ColumnsConfig struct {
	Lat string `yaml:"lat" mapstructure:"lat"`
	Lon string `yaml:"lon" mapstructure:"lon"`
}

// SentinelConfig is the placeholder coordinate pair the mobile app writes
// when GPS was never captured.
type SentinelConfig struct {
	Lat float64 `yaml:"lat" mapstructure:"lat"`
	Lon float64 `yaml:"lon" mapstructure:"lon"`
}

// PlannedConfig locates the QR-to-planned-countries table.
type PlannedConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ResolverConfig configures the reverse-geocoding client.
type ResolverConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec       float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	ChunkSize        int     `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkTimeoutSecs int     `yaml:"chunk_timeout_secs" mapstructure:"chunk_timeout_secs"`
}

// BuildConfig configures the rebuild pipeline.
type BuildConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ECHO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.path", "data/echorepo_samples_with_email.csv")
	v.SetDefault("store.path", "data/db/echo.db")
	v.SetDefault("store.table", "samples")
	v.SetDefault("jitter.radius_meters", 1000)
	v.SetDefault("jitter.salt", "change-this-salt")
	v.SetDefault("jitter.keep_originals", true)
	v.SetDefault("jitter.orig_suffix", "_orig")
	v.SetDefault("columns.lat", "GPS_lat")
	v.SetDefault("columns.lon", "GPS_long")
	v.SetDefault("sentinel.lat", 46.5)
	v.SetDefault("sentinel.lon", 11.35)
	v.SetDefault("planned.path", "data/planned.xlsx")
	v.SetDefault("resolver.base_url", "https://api.bigdatacloud.net")
	v.SetDefault("resolver.rate_per_sec", 10)
	v.SetDefault("resolver.chunk_size", 5000)
	v.SetDefault("resolver.chunk_timeout_secs", 120)
	v.SetDefault("build.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
