package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/shoppos/backend-go/internal/config"
	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
	"github.com/andresuchdata/shoppos/backend-go/internal/summary"
)

const summaryKeyPrefix = "shoppos:summary"

// SummaryCache holds aggregated sales days. Callers decide which days are
// settled enough to cache.
type SummaryCache interface {
	GetSummary(ctx context.Context, date domain.BusinessDate) (*summary.DailySummary, bool, error)
	SetSummary(ctx context.Context, s summary.DailySummary) error
	InvalidateSummary(ctx context.Context, date domain.BusinessDate) error
	// InvalidateAll drops every cached day and reports how many there were.
	InvalidateAll(ctx context.Context) (int, error)
}

type redisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSummaryCache struct{}

func NewSummaryCache(cfg config.CacheConfig) (SummaryCache, error) {
	if !cfg.Enabled {
		return &noopSummaryCache{}, nil
	}

	client, err := dial(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisSummaryCache(client, summaryTTL(cfg)), nil
}

// NewRedisSummaryCache wraps an existing client.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) SummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &redisSummaryCache{client: client, ttl: ttl}
}

func NewNoopSummaryCache() SummaryCache {
	return &noopSummaryCache{}
}

func (c *redisSummaryCache) GetSummary(ctx context.Context, date domain.BusinessDate) (*summary.DailySummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(date)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var s summary.DailySummary
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, false, fmt.Errorf("decode summary cache: %w", err)
	}
	return &s, true, nil
}

func (c *redisSummaryCache) SetSummary(ctx context.Context, s summary.DailySummary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(s.Date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSummaryCache) InvalidateSummary(ctx context.Context, date domain.BusinessDate) error {
	return c.client.Del(ctx, summaryKey(date)).Err()
}

func (c *redisSummaryCache) InvalidateAll(ctx context.Context) (int, error) {
	return unlinkMatching(ctx, c.client, summaryKeyPrefix+":")
}

func (n *noopSummaryCache) GetSummary(ctx context.Context, date domain.BusinessDate) (*summary.DailySummary, bool, error) {
	return nil, false, nil
}

func (n *noopSummaryCache) SetSummary(ctx context.Context, s summary.DailySummary) error {
	return nil
}

func (n *noopSummaryCache) InvalidateSummary(ctx context.Context, date domain.BusinessDate) error {
	return nil
}

func (n *noopSummaryCache) InvalidateAll(ctx context.Context) (int, error) {
	return 0, nil
}

func summaryKey(date domain.BusinessDate) string {
	return fmt.Sprintf("%s:%s", summaryKeyPrefix, date.String())
}
