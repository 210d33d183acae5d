package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"SCORECAST_API_URL", "NEXT_PUBLIC_API_URL", "SCORECAST_TIMEOUT", "SCORECAST_ADDR",
	"SCORECAST_THEME", "SCORECAST_RENDERER", "SCORECAST_LOG_LEVEL", "SCORECAST_LOG_DEV",
	"SCORECAST_SCHEMA", "SCORECAST_SESSION_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), *cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "scorecast.yaml")
	data := []byte(`api:
  base_url: http://predictor.internal:9000
  timeout: 5s
server:
  addr: ":9090"
ui:
  renderer: html
  theme: light
log:
  level: debug
schema: ./student.yaml
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SCORECAST_THEME", "dark")
	t.Setenv("SCORECAST_LOG_DEV", "true")
	t.Setenv("SCORECAST_SESSION_TTL", "10m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		API:    APIConfig{BaseURL: "http://predictor.internal:9000", Timeout: 5 * time.Second},
		Server: ServerConfig{Addr: ":9090", SessionTTL: 10 * time.Minute},
		UI:     UIConfig{Renderer: "html", Theme: "dark"},
		Log:    LogConfig{Level: "debug", Development: true},
		Schema: "./student.yaml",
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_BaseURLFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "https://scores.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://scores.example.com" {
		t.Fatalf("expected fallback base url, got %q", cfg.API.BaseURL)
	}

	t.Setenv("SCORECAST_API_URL", "http://primary:8000")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://primary:8000" {
		t.Fatalf("expected primary base url, got %q", cfg.API.BaseURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"relative url":  {"SCORECAST_API_URL": "/api"},
		"bad timeout":   {"SCORECAST_TIMEOUT": "soon"},
		"bad renderer":  {"SCORECAST_RENDERER": "pdf"},
		"bad theme":     {"SCORECAST_THEME": "sepia"},
		"zero ttl":      {"SCORECAST_SESSION_TTL": "0s"},
		"bad dev flag":  {"SCORECAST_LOG_DEV": "sometimes"},
		"negative wait": {"SCORECAST_TIMEOUT": "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(""); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
