// Package config loads service configuration from an optional YAML file
// with environment-variable overrides layered on top.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration.
type Config struct {
	// WorkDir is the root under which each render gets an isolated
	// subdirectory.
	WorkDir string `yaml:"work_dir"`

	Server ServerConfig `yaml:"server"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
}

// Load reads configuration from file or returns defaults. A missing
// file is not an error. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Save writes configuration to file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MaxUploadBytes converts the configured limit. Zero disables the limit.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: filepath.Join(os.TempDir(), "stillmotion"),
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STILLMOTION_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STILLMOTION_WORK_DIR"); v != "" {
		cfg.WorkDir = v
	}
	if v := os.Getenv("STILLMOTION_FFMPEG"); v != "" {
		cfg.FFmpeg.BinaryPath = v
	}
	if v := os.Getenv("STILLMOTION_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FFmpeg.Threads = n
		}
	}
	if v := os.Getenv("STILLMOTION_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxUploadMB = n
		}
	}
}

func findConfigFile() string {
	candidates := []string{
		"./stillmotion.yaml",
		"./config.yaml",
		filepath.Join(os.Getenv("HOME"), ".stillmotion", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WithConfig stores config in context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context, falling back to defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
