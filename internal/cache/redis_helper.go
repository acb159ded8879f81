package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/shoppos/backend-go/internal/config"
)

const (
	defaultSummaryTTL = time.Hour
	dialTimeout       = 5 * time.Second
	unlinkBatch       = 100
)

// dial connects and pings so a misconfigured cache is noticed at startup
// rather than on the first settled-day summary.
func dial(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func summaryTTL(cfg config.CacheConfig) time.Duration {
	if cfg.SummaryTTLSeconds <= 0 {
		return defaultSummaryTTL
	}
	return time.Duration(cfg.SummaryTTLSeconds) * time.Second
}

// unlinkMatching removes every key under prefix in pipelined batches and
// returns how many were removed.
func unlinkMatching(ctx context.Context, client *redis.Client, prefix string) (int, error) {
	iter := client.Scan(ctx, 0, prefix+"*", unlinkBatch).Iterator()

	removed := 0
	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := client.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Unlink(ctx, batch...)
			return nil
		}); err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
		removed += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan %s*: %w", prefix, err)
	}
	return removed, flush()
}
