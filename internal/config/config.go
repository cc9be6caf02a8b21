// Package config loads the contactform service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted after the file is read.
const (
	EnvAddr     = "CONTACTFORM_ADDR"
	EnvLogLevel = "CONTACTFORM_LOG_LEVEL"
)

// Config is the full service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Theme  ThemeConfig  `yaml:"theme"`
}

// ServerConfig configures the HTTP component.
type ServerConfig struct {
	Addr       string          `yaml:"addr"`
	BasePath   string          `yaml:"basePath"`
	SessionTTL string          `yaml:"sessionTTL"`
	RateLimit  RateLimitConfig `yaml:"rateLimit"`

	// MountRateLimit bounds new sessions per client.
	MountRateLimit RateLimitConfig `yaml:"mountRateLimit"`

	// TrustProxy takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable it only behind a proxy that sets them.
	TrustProxy bool `yaml:"trustProxy"`
}

// RateLimitConfig sizes a per-client token bucket. A zero PerSecond disables
// limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"perSecond"`
	Burst     int     `yaml:"burst"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ThemeConfig is the static theme selection handed to renderers.
type ThemeConfig struct {
	Name      string            `yaml:"name"`
	Variant   string            `yaml:"variant"`
	AssetBase string            `yaml:"assetBase"`
	Tokens    map[string]string `yaml:"tokens"`
	CSSVars   map[string]string `yaml:"cssVars"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			BasePath:   "/contact",
			SessionTTL: "30m",
			RateLimit: RateLimitConfig{
				PerSecond: 5,
				Burst:     10,
			},
			MountRateLimit: RateLimitConfig{
				PerSecond: 2,
				Burst:     20,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults. An empty
// path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config: server.basePath %q must start with /", c.Server.BasePath)
	}
	if _, err := c.Server.TTL(); err != nil {
		return err
	}
	if c.Server.RateLimit.negative() {
		return errors.New("config: server.rateLimit values must not be negative")
	}
	if c.Server.MountRateLimit.negative() {
		return errors.New("config: server.mountRateLimit values must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}

func (r RateLimitConfig) negative() bool {
	return r.PerSecond < 0 || r.Burst < 0
}

// TTL parses SessionTTL. Empty means sessions never expire.
func (s ServerConfig) TTL() (time.Duration, error) {
	if s.SessionTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(s.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("config: server.sessionTTL: %w", err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("config: server.sessionTTL %q must not be negative", s.SessionTTL)
	}
	return ttl, nil
}

// RendererConfig converts the theme selection. It returns nil when no theme
// is configured.
func (t ThemeConfig) RendererConfig() *theme.RendererConfig {
	if t.Name == "" {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  t.Tokens,
		CSSVars: t.CSSVars,
	}
	if base := strings.TrimRight(t.AssetBase, "/"); base != "" {
		cfg.AssetURL = func(key string) string {
			if key == "" {
				return ""
			}
			return base + "/" + strings.TrimLeft(key, "/")
		}
	}
	return cfg
}
