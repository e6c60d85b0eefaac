// Package config loads the application configuration through viper from defaults, an
// optional yaml file and AQI_ prefixed environment variables.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/aouyang1/go-aqi-forecaster/ingest"
	"github.com/aouyang1/go-aqi-forecaster/store"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"github.com/spf13/viper"
)

const EnvPrefix = "AQI"

const (
	StoreFile  = "file"
	StoreRedis = "redis"
	StoreS3    = "s3"
)

type Config struct {
	City     string         `mapstructure:"city"`
	Country  string         `mapstructure:"country"`
	Data     DataConfig     `mapstructure:"data"`
	Model    ModelConfig    `mapstructure:"model"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DataConfig struct {
	Path              string  `mapstructure:"path"`
	TimestampColumn   string  `mapstructure:"timestamp_column"`
	ValueColumn       string  `mapstructure:"value_column"`
	TimestampLayout   string  `mapstructure:"timestamp_layout"`
	Timezone          string  `mapstructure:"timezone"`
	OutlierPercentile float64 `mapstructure:"outlier_percentile"`
}

type ModelConfig struct {
	Store string      `mapstructure:"store"`
	Path  string      `mapstructure:"path"`
	Redis RedisConfig `mapstructure:"redis"`
	S3    S3Config    `mapstructure:"s3"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	Region    string `mapstructure:"region"`
}

type ForecastConfig struct {
	DefaultDays      int     `mapstructure:"default_days"`
	ShowComponents   bool    `mapstructure:"show_components"`
	ConfidenceZscore float64 `mapstructure:"confidence_zscore"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("city", "Lahore")
	v.SetDefault("country", "PK")

	v.SetDefault("data.path", "cleaned_lahore_aqi.csv")
	v.SetDefault("data.timestamp_column", ingest.DefaultTimestampColumn)
	v.SetDefault("data.value_column", ingest.DefaultValueColumn)
	v.SetDefault("data.timestamp_layout", timedataset.DefaultTimestampLayout)
	v.SetDefault("data.timezone", "Asia/Karachi")
	v.SetDefault("data.outlier_percentile", timedataset.DefaultOutlierPercentile)

	v.SetDefault("model.store", StoreFile)
	v.SetDefault("model.path", "models/lahore_forecast_model.json")
	v.SetDefault("model.redis.addr", "localhost:6379")
	v.SetDefault("model.redis.db", 0)
	v.SetDefault("model.redis.key", "aqi:model:lahore")
	v.SetDefault("model.s3.region", "us-east-1")
	v.SetDefault("model.s3.key", "lahore_forecast_model.json")

	v.SetDefault("forecast.default_days", aqi.DefaultForecastDays)
	v.SetDefault("forecast.show_components", true)
	v.SetDefault("forecast.confidence_zscore", 1.96)

	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// New returns a viper instance with defaults and environment overrides registered.
// Nested keys map to variables like AQI_MODEL_STORE.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a yaml config file. An empty path searches ./aqi.yaml and
// $HOME/.config/aqi/config.yaml and a missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aqi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "aqi"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return nil
		}
		return fmt.Errorf("unable to read config, %w", err)
	}
	return nil
}

// Load decodes and validates the configuration
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config, %w, %w", aqi.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s, %w", fmt.Sprintf(format, args...), aqi.ErrConfiguration)
}

// Validate rejects missing or out of range values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.City) == "" {
		return invalid("city is required")
	}
	if c.Data.TimestampColumn == "" || c.Data.ValueColumn == "" {
		return invalid("data timestamp and value columns are required")
	}
	if p := c.Data.OutlierPercentile; p <= 0 || p > 1 {
		return invalid("data outlier percentile %.3f not within (0, 1]", p)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := aqi.ValidateForecastDays(c.Forecast.DefaultDays); err != nil {
		return fmt.Errorf("forecast default days, %w", err)
	}
	if c.Forecast.ConfidenceZscore <= 0 {
		return invalid("forecast confidence zscore must be positive")
	}

	switch c.Model.Store {
	case StoreFile:
		if c.Model.Path == "" {
			return invalid("model path is required for the file store")
		}
	case StoreRedis:
		if c.Model.Redis.Addr == "" || c.Model.Redis.Key == "" {
			return invalid("model redis addr and key are required")
		}
	case StoreS3:
		if c.Model.S3.Endpoint == "" || c.Model.S3.Bucket == "" || c.Model.S3.Key == "" {
			return invalid("model s3 endpoint, bucket and key are required")
		}
	default:
		return invalid("unknown model store %q", c.Model.Store)
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("invalid log format %q", c.Logging.Format)
	}
	return nil
}

// Location returns the time zone of the readings
func (c *Config) Location() (*time.Location, error) {
	if c.Data.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return nil, invalid("unknown timezone %q", c.Data.Timezone)
	}
	return loc, nil
}

// ModelKey returns the key of the model artifact within the configured store
func (c *Config) ModelKey() string {
	switch c.Model.Store {
	case StoreRedis:
		return c.Model.Redis.Key
	case StoreS3:
		return c.Model.S3.Key
	}
	return c.Model.Path
}

// ArtifactStore connects to the configured model store
func (c *Config) ArtifactStore(ctx context.Context, logger *slog.Logger) (store.ArtifactStore, error) {
	switch c.Model.Store {
	case StoreRedis:
		client, err := store.NewRedisClient(ctx, c.Model.Redis.Addr, c.Model.Redis.Password, c.Model.Redis.DB)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, logger), nil
	case StoreS3:
		s3 := c.Model.S3
		return store.NewS3Store(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
	case StoreFile:
		return store.NewFileStore("", logger), nil
	}
	return nil, invalid("unknown model store %q", c.Model.Store)
}

// HistorySource describes how the historical readings are read and cleaned
func (c *Config) HistorySource() (aqi.HistorySource, error) {
	loc, err := c.Location()
	if err != nil {
		return aqi.HistorySource{}, err
	}
	return aqi.HistorySource{
		Path: c.Data.Path,
		Ingest: &ingest.Options{
			TimestampColumn: c.Data.TimestampColumn,
			ValueColumn:     c.Data.ValueColumn,
			Comma:           ',',
		},
		Resampler:         timedataset.NewResampler(c.Data.TimestampLayout, loc),
		OutlierPercentile: c.Data.OutlierPercentile,
	}, nil
}

// SlogLevel parses the configured log level
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch l.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, invalid("invalid log level %q", l.Level)
}

// Handler builds the slog handler writing to w
func (l LoggingConfig) Handler(w io.Writer) (slog.Handler, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch l.Format {
	case "console":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	}
	return nil, invalid("invalid log format %q", l.Format)
}
