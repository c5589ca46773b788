package checkout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PricingCache stores upgrade pricing per caller.
type PricingCache interface {
	Get(ctx context.Context, key string) ([]UpgradePricing, bool, error)
	Set(ctx context.Context, key string, pricing []UpgradePricing, ttl time.Duration) error
}

// cacheKey derives a key from the bearer token so tokens never reach the cache.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "kitportal:pricing:" + hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	pricing   []UpgradePricing
	expiresAt time.Time
}

// MemoryCache is an in-process PricingCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]UpgradePricing, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.pricing, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, pricing []UpgradePricing, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{pricing: pricing, expiresAt: c.now().Add(ttl)}
	return nil
}

// RedisCache is a PricingCache shared between instances.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redisURL (redis:// or rediss://).
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opt)}, nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]UpgradePricing, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cached cachedPricing
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("decode cached pricing: %w", err)
	}
	return cached.Pricing, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, pricing []UpgradePricing, ttl time.Duration) error {
	raw, err := json.Marshal(cachedPricing{Pricing: pricing, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode pricing: %w", err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}
