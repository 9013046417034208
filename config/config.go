package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Source   SourceConfig   `mapstructure:"source"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	CORSMaxAge     int      `mapstructure:"cors_max_age"` // seconds
}

// SourceConfig holds the upstream product catalog configuration
type SourceConfig struct {
	URL          string        `mapstructure:"url"`
	PrimaryKey   string        `mapstructure:"primary_key"`
	SecondaryKey string        `mapstructure:"secondary_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst    int           `mapstructure:"rate_burst"`
}

// MetadataConfig holds the common-words window
type MetadataConfig struct {
	CommonWordsSkip int `mapstructure:"common_words_skip"`
	CommonWordsTake int `mapstructure:"common_words_take"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Load loads configuration from a .env file, environment variables, config
// files and, when flags is non-nil, command line flags. Flags take precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/productfilter/")

	// Environment variable settings
	v.SetEnvPrefix("PRODUCTFILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are only visible to Unmarshal once bound
	for _, key := range []string{"source.primary_key", "source.secondary_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	setDefaults(v)

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env. Variables already present in the
// environment are left untouched. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "log.level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.allowed_methods", []string{"GET", "OPTIONS"})
	v.SetDefault("server.allowed_headers", []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"})
	v.SetDefault("server.cors_max_age", 3600)

	// Source defaults
	v.SetDefault("source.url", "https://pastebin.com/raw/JucRNpWs")
	v.SetDefault("source.timeout", "10s")
	// The limiter is shared by every request, so it is off unless configured
	v.SetDefault("source.rate_limit", 0)
	v.SetDefault("source.rate_burst", 1)

	// Metadata defaults
	v.SetDefault("metadata.common_words_skip", 5)
	v.SetDefault("metadata.common_words_take", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Source.PrimaryKey == "" {
		return fmt.Errorf("source primary key is required (set PRODUCTFILTER_SOURCE_PRIMARY_KEY)")
	}

	if config.Source.SecondaryKey == "" {
		return fmt.Errorf("source secondary key is required (set PRODUCTFILTER_SOURCE_SECONDARY_KEY)")
	}

	u, err := url.Parse(config.Source.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source URL must be an absolute http(s) URL, got: %q", config.Source.URL)
	}

	if config.Source.Timeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got: %s", config.Source.Timeout)
	}

	if config.Server.CORSMaxAge < 0 {
		return fmt.Errorf("server cors_max_age must not be negative, got: %d", config.Server.CORSMaxAge)
	}

	if config.Source.RateLimit < 0 {
		return fmt.Errorf("source rate limit must not be negative, got: %v", config.Source.RateLimit)
	}

	if config.Metadata.CommonWordsSkip < 0 {
		return fmt.Errorf("metadata common_words_skip must not be negative, got: %d", config.Metadata.CommonWordsSkip)
	}

	if config.Metadata.CommonWordsTake <= 0 {
		return fmt.Errorf("metadata common_words_take must be positive, got: %d", config.Metadata.CommonWordsTake)
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level %q is not valid: %w", config.Log.Level, err)
	}

	return nil
}
