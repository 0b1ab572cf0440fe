package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/searchlift-backend/internal/pkg/envutil"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// Cache is a read-through store for keyword-ideas metric responses. The
// ideas provider is paid and rate-limited, so repeat lookups within the TTL
// are served from here. Cache faults are soft: callers fall through to the
// provider.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, val any) error
	Close() error
}

type cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cache{
		log: log.With("service", "RedisMetricsCache"),
		rdb: rdb,
		ttl: envutil.Duration("KEYWORD_CACHE_TTL", 24*time.Hour),
	}, nil
}

func (c *cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, fmt.Errorf("redis cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Poisoned entry; drop it and treat as a miss.
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *cache) SetJSON(ctx context.Context, key string, val any) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis cache not initialized")
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// MetricsKey derives a stable cache key from the metric lookup inputs.
// Keyword order does not affect the key.
func MetricsKey(geo, lang string, kws []string) string {
	sorted := make([]string, len(kws))
	for i, k := range kws {
		sorted[i] = strings.ToLower(strings.TrimSpace(k))
	}
	sort.Strings(sorted)
	h := sha256.Sum256([]byte(strings.ToLower(geo) + "|" + strings.ToLower(lang) + "|" + strings.Join(sorted, "|")))
	return "kwmetrics:" + hex.EncodeToString(h[:16])
}
