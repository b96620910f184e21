package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Berguit/topical-map-app/internal/platform/envutil"
)

// Load builds the process configuration: defaults, then an optional YAML
// file, then environment variables (including a local .env file).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	path := strings.TrimSpace(os.Getenv("TOPICALMAP_CONFIG"))
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if v := envutil.String("CORS_ALLOWED_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	cfg.Haloscan.BaseURL = envutil.String("HALOSCAN_BASE_URL", cfg.Haloscan.BaseURL)
	cfg.Haloscan.APIKey = envutil.String("HALOSCAN_API_KEY", cfg.Haloscan.APIKey)
	cfg.Haloscan.Timeout.Duration = envutil.Duration("HALOSCAN_TIMEOUT", cfg.Haloscan.Timeout.Duration)

	cfg.OpenRouter.BaseURL = envutil.String("OPENROUTER_BASE_URL", cfg.OpenRouter.BaseURL)
	cfg.OpenRouter.APIKey = envutil.String("OPENROUTER_API_KEY", cfg.OpenRouter.APIKey)
	cfg.OpenRouter.Model = envutil.String("OPENROUTER_MODEL", cfg.OpenRouter.Model)
	cfg.OpenRouter.SiteURL = envutil.String("OPENROUTER_SITE_URL", cfg.OpenRouter.SiteURL)
	cfg.OpenRouter.SiteName = envutil.String("OPENROUTER_SITE_NAME", cfg.OpenRouter.SiteName)
	cfg.OpenRouter.Timeout.Duration = envutil.Duration("OPENROUTER_TIMEOUT", cfg.OpenRouter.Timeout.Duration)

	cfg.Pipeline.FailFast = envutil.Bool("PIPELINE_FAIL_FAST", cfg.Pipeline.FailFast)
	cfg.Pipeline.StrictIDs = envutil.Bool("PIPELINE_STRICT_IDS", cfg.Pipeline.StrictIDs)
	cfg.Pipeline.Granularity = envutil.Float("PIPELINE_GRANULARITY", cfg.Pipeline.Granularity)
	cfg.Pipeline.NeighboursSampleMax = envutil.Int("PIPELINE_NEIGHBOURS_SAMPLE_MAX", cfg.Pipeline.NeighboursSampleMax)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("DATABASE_DSN", cfg.Database.DSN)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)
	if cfg.Database.DSN == "" && strings.TrimSpace(os.Getenv("POSTGRES_HOST")) != "" {
		cfg.Database.Driver = "postgres"
		cfg.Database.DSN = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_HOST", "localhost"),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_NAME", "topicalmap"),
		)
	}

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)
	cfg.Redis.CacheTTL.Duration = envutil.Duration("KEYWORD_CACHE_TTL", cfg.Redis.CacheTTL.Duration)
	cfg.Redis.LockTTL.Duration = envutil.Duration("GENERATION_LOCK_TTL", cfg.Redis.LockTTL.Duration)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)

	cfg.Temporal.Address = envutil.String("TEMPORAL_ADDRESS", cfg.Temporal.Address)
	cfg.Temporal.Namespace = envutil.String("TEMPORAL_NAMESPACE", cfg.Temporal.Namespace)
	cfg.Temporal.TaskQueue = envutil.String("TEMPORAL_TASK_QUEUE", cfg.Temporal.TaskQueue)
	cfg.Temporal.AutoRegisterNamespace = envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", cfg.Temporal.AutoRegisterNamespace)
	cfg.Temporal.ClientCertPath = envutil.String("TEMPORAL_CLIENT_CERT_PATH", cfg.Temporal.ClientCertPath)
	cfg.Temporal.ClientKeyPath = envutil.String("TEMPORAL_CLIENT_KEY_PATH", cfg.Temporal.ClientKeyPath)
	cfg.Temporal.ClientCAPath = envutil.String("TEMPORAL_CLIENT_CA_PATH", cfg.Temporal.ClientCAPath)
	cfg.Temporal.WorkerConcurrency = envutil.Int("WORKER_CONCURRENCY", cfg.Temporal.WorkerConcurrency)

	cfg.Auth.JWTSecret = envutil.String("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
}

func (c *Config) normalize() error {
	c.Env = strings.TrimSpace(c.Env)
	if c.Env == "" {
		c.Env = "development"
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8080"
	}
	c.Haloscan.BaseURL = strings.TrimRight(strings.TrimSpace(c.Haloscan.BaseURL), "/")
	c.OpenRouter.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenRouter.BaseURL), "/")

	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "sqlite":
		c.Database.Driver = "sqlite"
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			c.Database.SQLitePath = "topicalmap.db"
		}
	case "postgres", "postgresql":
		c.Database.Driver = "postgres"
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	if c.Pipeline.Granularity <= 0 || c.Pipeline.Granularity > 1 {
		return fmt.Errorf("pipeline.granularity must be in (0, 1], got %v", c.Pipeline.Granularity)
	}
	if c.Pipeline.NeighboursSampleMax <= 0 {
		c.Pipeline.NeighboursSampleMax = 500
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
