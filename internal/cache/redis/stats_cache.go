package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"loandesk/internal/domain"
	"loandesk/internal/port"
)

type statsCache struct {
	client goredis.UniversalClient
	key    string
}

// NewStatsCache creates a Redis-backed StatsCache storing one JSON value.
func NewStatsCache(client goredis.UniversalClient, prefix string) port.StatsCache {
	return &statsCache{client: client, key: prefix + ":stats:summary"}
}

func (c *statsCache) Get(ctx context.Context) (*domain.Stats, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("statsCache.Get: %w", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("statsCache.Get decode: %w", err)
	}
	return &stats, nil
}

func (c *statsCache) Set(ctx context.Context, stats *domain.Stats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("statsCache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("statsCache.Set: %w", err)
	}
	return nil
}
