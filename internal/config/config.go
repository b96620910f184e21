package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes from YAML strings like "30s" or from integer seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if dd, err := time.ParseDuration(s); err == nil {
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or integer seconds: %q", s)
	}
	d.Duration = time.Duration(n) * time.Second
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

type Config struct {
	Env        string           `yaml:"env"`
	HTTP       HTTPConfig       `yaml:"http"`
	Haloscan   HaloscanConfig   `yaml:"haloscan"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Neo4j      Neo4jConfig      `yaml:"neo4j"`
	Temporal   TemporalConfig   `yaml:"temporal"`
	Auth       AuthConfig       `yaml:"auth"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type HaloscanConfig struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Timeout Duration `yaml:"timeout"`
}

type OpenRouterConfig struct {
	BaseURL  string   `yaml:"base_url"`
	APIKey   string   `yaml:"api_key"`
	Model    string   `yaml:"model"`
	SiteURL  string   `yaml:"site_url"`
	SiteName string   `yaml:"site_name"`
	Timeout  Duration `yaml:"timeout"`
}

type PipelineConfig struct {
	// FailFast aborts keyword aggregation on the first failed provider call.
	FailFast bool `yaml:"fail_fast"`
	// StrictIDs rejects topical maps whose node titles collide.
	StrictIDs           bool    `yaml:"strict_ids"`
	Granularity         float64 `yaml:"granularity"`
	NeighboursSampleMax int     `yaml:"neighbours_sample_max"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Channel  string   `yaml:"channel"`
	CacheTTL Duration `yaml:"cache_ttl"`
	LockTTL  Duration `yaml:"lock_ttl"`
}

type Neo4jConfig struct {
	URI      string   `yaml:"uri"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	Database string   `yaml:"database"`
	Timeout  Duration `yaml:"timeout"`
}

type TemporalConfig struct {
	// Address empty runs generations in process.
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
	// AutoRegisterNamespace creates the namespace on local clusters.
	AutoRegisterNamespace bool   `yaml:"auto_register_namespace"`
	ClientCertPath        string `yaml:"client_cert_path"`
	ClientKeyPath         string `yaml:"client_key_path"`
	ClientCAPath          string `yaml:"client_ca_path"`
	WorkerConcurrency     int    `yaml:"worker_concurrency"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr: ":8080",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Haloscan: HaloscanConfig{
			BaseURL: "https://api.haloscan.com/api",
			Timeout: Duration{Duration: 60 * time.Second},
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:  "https://openrouter.ai/api/v1",
			Model:    "anthropic/claude-sonnet-4",
			SiteURL:  "http://localhost:3000",
			SiteName: "Topical Map SaaS",
			Timeout:  Duration{Duration: 5 * time.Minute},
		},
		Pipeline: PipelineConfig{
			FailFast:            true,
			Granularity:         0.25,
			NeighboursSampleMax: 500,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "topicalmap.db",
		},
		Redis: RedisConfig{
			Channel:  "topicalmap:sse",
			CacheTTL: Duration{Duration: 24 * time.Hour},
			LockTTL:  Duration{Duration: 30 * time.Minute},
		},
		Neo4j: Neo4jConfig{
			User:    "neo4j",
			Timeout: Duration{Duration: 10 * time.Second},
		},
		Temporal: TemporalConfig{
			Namespace: "topicalmap",
			TaskQueue: "topicalmap",
		},
	}
}
