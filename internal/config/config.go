// Package config resolves runtime settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:8000"
	DefaultAddr       = ":8080"
	DefaultTheme      = "dark"
	DefaultRenderer   = "terminal"
	DefaultLogLevel   = "info"
	DefaultSessionTTL = 30 * time.Minute
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
	// Schema optionally points at an attribute table replacing the built-in
	// one.
	Schema string `yaml:"schema"`
}

// APIConfig holds prediction service settings. BaseURL is resolved once and
// injected into the client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig holds web front end settings.
type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// UIConfig selects the output renderer and theme variant.
type UIConfig struct {
	Renderer string `yaml:"renderer"`
	Theme    string `yaml:"theme"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		API:    APIConfig{BaseURL: DefaultBaseURL},
		Server: ServerConfig{Addr: DefaultAddr, SessionTTL: DefaultSessionTTL},
		UI:     UIConfig{Renderer: DefaultRenderer, Theme: DefaultTheme},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// Load applies the YAML file at path (when non-empty) and then environment
// overrides on top of the defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := firstEnv("SCORECAST_API_URL", "NEXT_PUBLIC_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SCORECAST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SCORECAST_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("SCORECAST_RENDERER"); v != "" {
		cfg.UI.Renderer = v
	}
	if v := os.Getenv("SCORECAST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCORECAST_SCHEMA"); v != "" {
		cfg.Schema = v
	}

	var err error
	if cfg.API.Timeout, err = envDuration("SCORECAST_TIMEOUT", cfg.API.Timeout); err != nil {
		return err
	}
	if cfg.Server.SessionTTL, err = envDuration("SCORECAST_SESSION_TTL", cfg.Server.SessionTTL); err != nil {
		return err
	}
	if v := os.Getenv("SCORECAST_LOG_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SCORECAST_LOG_DEV: %v", ErrInvalid, err)
		}
		cfg.Log.Development = dev
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	base, err := url.Parse(strings.TrimSpace(c.API.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return fmt.Errorf("%w: api base url %q must be an absolute http(s) URL", ErrInvalid, c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api timeout must not be negative", ErrInvalid)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalid)
	}
	switch c.UI.Renderer {
	case "terminal", "html":
	default:
		return fmt.Errorf("%w: unknown renderer %q", ErrInvalid, c.UI.Renderer)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, c.UI.Theme)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return d, nil
}
