package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"spotii/internal/match"
)

const DefaultCacheTTL = 10 * time.Minute

// Cache stores search results by key. A miss is reported with ok == false.
type Cache interface {
	Get(ctx context.Context, key string) (candidates []match.Candidate, ok bool, err error)
	Set(ctx context.Context, key string, candidates []match.Candidate) error
}

type cacheEntry struct {
	candidates []match.Candidate
	expiresAt  time.Time
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{entries: map[string]cacheEntry{}, ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]match.Candidate, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	return append([]match.Candidate(nil), entry.candidates...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, candidates []match.Candidate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		candidates: append([]match.Candidate(nil), candidates...),
		expiresAt:  c.now().Add(c.ttl),
	}
	return nil
}

// RedisCache keeps search results as JSON under Prefix+key so several
// processes can share them.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	Prefix string
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl, Prefix: "spotii:search:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]match.Candidate, bool, error) {
	raw, err := c.client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var candidates []match.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cached search: %w", err)
	}
	return candidates, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, candidates []match.Candidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.Prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Cached answers repeated searches from a Cache. Failed searches are not
// cached, and cache failures fall through to the wrapped searcher.
type Cached struct {
	next  match.Searcher
	cache Cache
}

func NewCached(next match.Searcher, cache Cache) *Cached {
	return &Cached{next: next, cache: cache}
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("%d:%s", limit, strings.ToLower(strings.TrimSpace(query)))
}

func (c *Cached) Search(ctx context.Context, query string, limit int) ([]match.Candidate, error) {
	key := cacheKey(query, limit)
	candidates, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Debug("search cache read failed", "query", query, "err", err)
	}
	if ok {
		return candidates, nil
	}

	candidates, err = c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, candidates); err != nil {
		slog.Debug("search cache write failed", "query", query, "err", err)
	}
	return candidates, nil
}
