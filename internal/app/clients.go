package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/Berguit/topical-map-app/internal/config"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
	"github.com/Berguit/topical-map-app/internal/platform/logger"
	"github.com/Berguit/topical-map-app/internal/platform/neo4jdb"
	"github.com/Berguit/topical-map-app/internal/platform/openrouter"
	"github.com/Berguit/topical-map-app/internal/temporalx"
)

// Clients are the external systems the app talks to. Redis, Neo4j and
// Temporal are optional and stay nil when not configured.
type Clients struct {
	Redis      *goredis.Client
	Neo4j      *neo4jdb.Client
	Temporal   temporalsdkclient.Client
	Haloscan   *haloscan.Client
	OpenRouter *openrouter.Client
}

func wireClients(cfg *config.Config, log *logger.Logger, opts Options) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        addr,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		out.Redis = rdb
	} else {
		log.Warn("REDIS_ADDR not set; keyword cache and cross-instance events disabled")
	}

	neo, err := neo4jdb.New(cfg.Neo4j, log)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}
	out.Neo4j = neo

	if !opts.LocalPipeline {
		tc, err := temporalx.NewClient(cfg.Temporal, log)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init temporal: %w", err)
		}
		out.Temporal = tc
	}

	out.Haloscan = haloscan.New(haloscan.Config{
		BaseURL: cfg.Haloscan.BaseURL,
		APIKey:  cfg.Haloscan.APIKey,
		Timeout: cfg.Haloscan.Timeout.Duration,
	}, log)
	if !out.Haloscan.Configured() {
		log.Warn("HALOSCAN_API_KEY not set; keyword lookups will fail")
	}

	out.OpenRouter = openrouter.New(openrouter.Config{
		BaseURL:      cfg.OpenRouter.BaseURL,
		APIKey:       cfg.OpenRouter.APIKey,
		DefaultModel: cfg.OpenRouter.Model,
		SiteURL:      cfg.OpenRouter.SiteURL,
		SiteName:     cfg.OpenRouter.SiteName,
		Timeout:      cfg.OpenRouter.Timeout.Duration,
	}, log)
	if !out.OpenRouter.Configured() {
		log.Warn("OPENROUTER_API_KEY not set; generation will fail")
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.Neo4j != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = c.Neo4j.Close(ctx)
		cancel()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
