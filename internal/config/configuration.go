// Package config loads ggedit host settings from GGEDIT_* environment
// variables and an optional YAML file.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "GGEDIT"

type Config struct {
	// Blob storage
	BlobDriver  string `mapstructure:"BLOB_DRIVER" validate:"oneof=memory fs s3"`
	BlobDir     string `mapstructure:"BLOB_DIR" validate:"required_if=BlobDriver fs"`
	S3Bucket    string `mapstructure:"S3_BUCKET" validate:"required_if=BlobDriver s3"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT" validate:"omitempty,url"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	// Gallery history; empty keeps it in memory
	HistoryPath string `mapstructure:"HISTORY_PATH"`

	// Export
	DownloadDir   string        `mapstructure:"DOWNLOAD_DIR" validate:"required"`
	ExportTimeout time.Duration `mapstructure:"EXPORT_TIMEOUT" validate:"gte=0"`
	Workers       int           `mapstructure:"WORKERS" validate:"gte=0,lte=256"`
	DecodeCache   int           `mapstructure:"DECODE_CACHE" validate:"gte=0"`
	RecordUploads bool          `mapstructure:"RECORD_UPLOADS"`

	// Observability
	LogLevel        string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	MetricsTextfile string `mapstructure:"METRICS_TEXTFILE"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			_ = viper.BindEnv(tag)
		}
	}
}

func setDefaults() {
	viper.SetDefault("BLOB_DRIVER", "fs")
	viper.SetDefault("BLOB_DIR", "./ggedit-data/blobs")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("HISTORY_PATH", "./ggedit-data/history.db")
	viper.SetDefault("DOWNLOAD_DIR", ".")
	viper.SetDefault("EXPORT_TIMEOUT", 30*time.Second)
	viper.SetDefault("WORKERS", 0)
	viper.SetDefault("DECODE_CACHE", 4)
	viper.SetDefault("RECORD_UPLOADS", true)
	viper.SetDefault("LOG_LEVEL", "warn")
}

// LoadConfig reads configuration. file is an optional YAML path; environment
// variables override values from it.
func LoadConfig(ctx context.Context, file string) (*Config, error) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AllowEmptyEnv(true)
	bindEnv(Config{})
	viper.AutomaticEnv()
	setDefaults()

	if file != "" {
		viper.SetConfigFile(file)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	validate := validator.New()
	if err := validate.StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
