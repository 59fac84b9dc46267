package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Seed configuration
	Seed SeedConfig `mapstructure:"seed"`

	// Snapshot configuration
	Snapshot SnapshotConfig `mapstructure:"snapshot"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// CacheConfig holds search-cache configuration
type CacheConfig struct {
	MaxSize       int           `mapstructure:"max_size"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // zero disables the sweeper
}

// SeedConfig holds record seed-file configuration
type SeedConfig struct {
	// Paths are YAML or JSON files loaded into the store at startup.
	Paths []string `mapstructure:"paths"`
}

// SnapshotConfig holds durable-storage configuration
type SnapshotConfig struct {
	// Path is the badger directory used to round-trip the record model.
	// Empty disables snapshotting.
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Cache defaults
	viper.SetDefault("cache.max_size", 100)
	viper.SetDefault("cache.ttl", 5*time.Minute)
	viper.SetDefault("cache.sweep_interval", time.Minute)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.patternbase/telemetry", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if host := os.Getenv("PATTERNBASE_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("PATTERNBASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if size := os.Getenv("CACHE_MAX_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			config.Cache.MaxSize = n
		}
	}
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Cache.TTL = d
		}
	}
	if path := os.Getenv("SNAPSHOT_PATH"); path != "" {
		config.Snapshot.Path = path
	}
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache max_size cannot be negative: %d", c.Cache.MaxSize)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative: %s", c.Cache.TTL)
	}
	return nil
}
