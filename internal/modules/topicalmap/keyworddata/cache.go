package keyworddata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Berguit/topical-map-app/internal/domain"
)

const cacheKeyPrefix = "topicalmap:keywords:"

// RedisCache stores bundles by normalised seed so repeated generations for
// the same topic do not spend provider credits.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *goredis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(seed string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(seed))
}

func (c *RedisCache) Get(ctx context.Context, seed string) (*domain.KeywordDataBundle, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(seed)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var b domain.KeywordDataBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, seed string, bundle *domain.KeywordDataBundle) error {
	if c == nil || c.rdb == nil || bundle == nil {
		return nil
	}
	raw, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(seed), raw, c.ttl).Err()
}
