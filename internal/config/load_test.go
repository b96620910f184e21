package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOPICALMAP_CONFIG", "")
	t.Setenv("HALOSCAN_API_KEY", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenRouter.Model != "anthropic/claude-sonnet-4" {
		t.Fatalf("model=%q", cfg.OpenRouter.Model)
	}
	if cfg.OpenRouter.SiteName != "Topical Map SaaS" || cfg.OpenRouter.SiteURL != "http://localhost:3000" {
		t.Fatalf("site=%q %q", cfg.OpenRouter.SiteName, cfg.OpenRouter.SiteURL)
	}
	if !cfg.Pipeline.FailFast || cfg.Pipeline.Granularity != 0.25 || cfg.Pipeline.NeighboursSampleMax != 500 {
		t.Fatalf("pipeline=%+v", cfg.Pipeline)
	}
	if cfg.Haloscan.BaseURL != "https://api.haloscan.com/api" {
		t.Fatalf("haloscan base=%q", cfg.Haloscan.BaseURL)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver=%q", cfg.Database.Driver)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	p := writeConfig(t, `
haloscan:
  api_key: from-file
  timeout: 15s
openrouter:
  model: openai/gpt-4o
  timeout: 120
pipeline:
  fail_fast: false
  strict_ids: true
  granularity: 0.5
`)
	t.Setenv("TOPICALMAP_CONFIG", p)
	t.Setenv("HALOSCAN_API_KEY", "from-env")
	t.Setenv("OPENROUTER_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Haloscan.APIKey != "from-env" {
		t.Fatalf("env should win, got %q", cfg.Haloscan.APIKey)
	}
	if cfg.Haloscan.Timeout.Duration != 15*time.Second {
		t.Fatalf("timeout=%s", cfg.Haloscan.Timeout.Duration)
	}
	if cfg.OpenRouter.Timeout.Duration != 120*time.Second {
		t.Fatalf("openrouter timeout=%s", cfg.OpenRouter.Timeout.Duration)
	}
	if cfg.OpenRouter.Model != "openai/gpt-4o" {
		t.Fatalf("model=%q", cfg.OpenRouter.Model)
	}
	if cfg.Pipeline.FailFast || !cfg.Pipeline.StrictIDs || cfg.Pipeline.Granularity != 0.5 {
		t.Fatalf("pipeline=%+v", cfg.Pipeline)
	}
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("TOPICALMAP_CONFIG", "")
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoadPostgresFromParts(t *testing.T) {
	t.Setenv("TOPICALMAP_CONFIG", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "tm")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver=%q", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://tm:pw@db:5432/topicalmap?sslmode=disable" {
		t.Fatalf("dsn=%q", cfg.Database.DSN)
	}
}
