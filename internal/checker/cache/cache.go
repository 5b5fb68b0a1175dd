// Package cache stores computed check responses in Redis. Concurrent misses
// for the same key are collapsed through singleflight so the engine computes
// each distinct query once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/1shammah/symptom-checker/internal/checker"
	"github.com/1shammah/symptom-checker/internal/recommender/term"
	"github.com/1shammah/symptom-checker/pkg/config"
	pkgredis "github.com/1shammah/symptom-checker/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "check:"

// CheckCache caches check responses keyed by the normalized symptom set and
// result count.
type CheckCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a CheckCache using the configured TTL.
func New(client *pkgredis.Client, cfg config.RedisConfig) *CheckCache {
	return &CheckCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "check-cache"),
	}
}

// Get returns the cached response for the symptom set, if present.
func (c *CheckCache) Get(ctx context.Context, symptoms []string, topK int) (*checker.CheckResponse, bool) {
	key := c.buildKey(symptoms, topK)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if pkgredis.IsNilError(err) {
			c.misses.Add(1)
			return nil, false
		}
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	var resp checker.CheckResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &resp, true
}

// Set stores a response under the symptom set's key.
func (c *CheckCache) Set(ctx context.Context, symptoms []string, topK int, resp *checker.CheckResponse) {
	key := c.buildKey(symptoms, topK)
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached response or runs computeFn, caching its
// result. The boolean reports whether the response came from the cache.
func (c *CheckCache) GetOrCompute(
	ctx context.Context,
	symptoms []string,
	topK int,
	computeFn func() (*checker.CheckResponse, error),
) (*checker.CheckResponse, bool, error) {
	if resp, ok := c.Get(ctx, symptoms, topK); ok {
		return resp, true, nil
	}
	key := c.buildKey(symptoms, topK)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if resp, ok := c.Get(ctx, symptoms, topK); ok {
			return resp, nil
		}
		resp, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, symptoms, topK, resp)
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*checker.CheckResponse), false, nil
}

// Invalidate removes every cached check response. Called after a corpus
// reload so stale rankings are not served.
func (c *CheckCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counters for this process.
func (c *CheckCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// buildKey hashes the sorted normalized symptom terms plus the result count.
// Order and casing of the input never affect the key.
func (c *CheckCache) buildKey(symptoms []string, topK int) string {
	terms := term.NormalizeAll(symptoms)
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, string(t))
	}
	sort.Strings(parts)
	raw := fmt.Sprintf("%s:k=%d", strings.Join(parts, ","), topK)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
