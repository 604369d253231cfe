// Package cache memoizes invindex candidate lookups in Redis, so a
// catalog with many workers issuing the same fingerprint repeatedly
// (e.g. a re-scan of an unchanged directory) doesn't re-walk posting
// lists it already computed recently. Grounded on the teacher's
// internal/cache.RedisClient: pooled connection options, a
// package-level singleton, and per-operation duration/hit-miss
// metrics.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/audiodup/audiodup/internal/logger"
	"github.com/audiodup/audiodup/internal/metrics"
)

// Client wraps a pooled redis.Client scoped to candidate-list caching.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

var global *Client

// New connects to Redis with the same pool tuning as the teacher's
// NewRedisClient (MaxRetries, PoolSize, MinIdleConns, timeouts), and
// pings it once to fail fast on a bad address.
func New(host, port, password string, ttl time.Duration) (*Client, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	c := &Client{rdb: rdb, ttl: ttl}
	global = c
	logger.Log.Info("redis cache connected", logger.WithDuration(ttl))
	return c, nil
}

// Global returns the package-level singleton set by the most recent
// successful New call, or nil if none has succeeded yet.
func Global() *Client { return global }

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// candidateKey derives a cache key from a fingerprint's low-16-bit
// hash set, so two fingerprints with identical candidate-relevant
// hashes share a cache entry regardless of file identity. lowHashes
// comes from a Go map, so iteration order is randomized; the hashes
// must be sorted before formatting or identical sets would almost
// never produce the same key.
func candidateKey(hashThreshold int, lowHashes map[uint16]struct{}) string {
	hashes := make([]uint16, 0, len(lowHashes))
	for h := range lowHashes {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return fmt.Sprintf("candidates:%d:%v", hashThreshold, hashes)
}

// GetCandidates returns a cached candidate list, reporting a hit/miss
// to internal/metrics either way.
func (c *Client) GetCandidates(ctx context.Context, hashThreshold int, lowHashes map[uint16]struct{}) ([]string, bool) {
	key := candidateKey(hashThreshold, lowHashes)

	start := time.Now()
	raw, err := c.rdb.Get(ctx, key).Result()
	metrics.Get().CacheOperationDuration.WithLabelValues("get", "candidates").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Get().CacheMissesTotal.WithLabelValues("candidates").Inc()
		return nil, false
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		metrics.Get().CacheMissesTotal.WithLabelValues("candidates").Inc()
		return nil, false
	}

	metrics.Get().CacheHitsTotal.WithLabelValues("candidates").Inc()
	return ids, true
}

// SetCandidates stores a candidate list under the same key scheme
// GetCandidates reads, at the client's configured TTL.
func (c *Client) SetCandidates(ctx context.Context, hashThreshold int, lowHashes map[uint16]struct{}, ids []string) error {
	key := candidateKey(hashThreshold, lowHashes)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal candidate list: %w", err)
	}

	start := time.Now()
	err = c.rdb.Set(ctx, key, raw, c.ttl).Err()
	metrics.Get().CacheOperationDuration.WithLabelValues("set", "candidates").Observe(time.Since(start).Seconds())
	return err
}

// Invalidate drops every cached candidate list, used after a catalog
// Clear or a bulk re-index where stale entries would otherwise answer
// queries against a fingerprint set that no longer exists.
func (c *Client) Invalidate(ctx context.Context) error {
	keys, err := c.rdb.Keys(ctx, "candidates:*").Result()
	if err != nil {
		return fmt.Errorf("list candidate keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
