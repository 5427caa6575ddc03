// Package config provides configuration loading for the PDF converter.
// Supports YAML files, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Config holds all configuration for the converter service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Workspace     WorkspaceConfig     `yaml:"workspace"`
	Convert       ConvertConfig       `yaml:"convert"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WorkspaceConfig holds the transient directory settings.
type WorkspaceConfig struct {
	UploadDir  string        `yaml:"upload_dir"`
	OutputDir  string        `yaml:"output_dir"`
	StaleAfter time.Duration `yaml:"stale_after"` // 0 disables the startup sweep
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	UploadField    string        `yaml:"upload_field"`
	ImageDPI       float64       `yaml:"image_dpi"`
	ImageMaxWidth  int           `yaml:"image_max_width"`
	ImageMaxHeight int           `yaml:"image_max_height"`
	JPEGQuality    int           `yaml:"jpeg_quality"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file, then .env, then applies
// environment overrides. An empty path falls back to CONFIG_PATH.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(".env"); err != nil {
		return nil, domain.ConfigError("load .env", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             3000,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     3 * time.Minute,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Workspace: WorkspaceConfig{
			UploadDir:  "uploads",
			OutputDir:  "outputs",
			StaleAfter: time.Hour,
		},
		Convert: ConvertConfig{
			Timeout:        2 * time.Minute,
			MaxUploadBytes: 50 << 20,
			UploadField:    "pdf",
			ImageDPI:       100,
			ImageMaxWidth:  600,
			ImageMaxHeight: 600,
			JPEGQuality:    90,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "pdf-converter",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.ConfigError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	if c.Workspace.UploadDir == "" || c.Workspace.OutputDir == "" {
		return domain.ConfigError("upload_dir and output_dir are required", nil)
	}

	if c.Convert.Timeout <= 0 {
		return domain.ConfigError("convert timeout must be positive", nil)
	}

	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Convert.Timeout {
		return domain.ConfigError("server write_timeout must exceed convert timeout", nil)
	}

	if c.Convert.MaxUploadBytes <= 0 {
		return domain.ConfigError("max_upload_bytes must be positive", nil)
	}

	if c.Convert.ImageDPI < 10 || c.Convert.ImageDPI > 1200 {
		return domain.ConfigError(fmt.Sprintf("image_dpi out of range: %v", c.Convert.ImageDPI), nil)
	}

	if c.Convert.ImageMaxWidth < 1 || c.Convert.ImageMaxHeight < 1 {
		return domain.ConfigError("image bounds must be positive", nil)
	}

	if c.Convert.JPEGQuality < 1 || c.Convert.JPEGQuality > 100 {
		return domain.ConfigError("jpeg_quality must be between 1 and 100", nil)
	}

	switch c.Observability.LogFormat {
	case "json", "console":
	default:
		return domain.ConfigError(fmt.Sprintf("invalid log format: %s", c.Observability.LogFormat), nil)
	}

	return nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError("invalid PORT", err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Workspace.UploadDir = v
	}

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Workspace.OutputDir = v
	}

	if v := os.Getenv("CONVERT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.ConfigError("invalid CONVERT_TIMEOUT", err)
		}
		cfg.Convert.Timeout = d
		if cfg.Server.WriteTimeout > 0 && cfg.Server.WriteTimeout <= d {
			cfg.Server.WriteTimeout = d + 30*time.Second
		}
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.ConfigError("invalid MAX_UPLOAD_BYTES", err)
		}
		cfg.Convert.MaxUploadBytes = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = strings.ToLower(v)
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = strings.ToLower(v)
	}

	return nil
}
