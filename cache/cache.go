// Package cache provides the shared response cache, backed by an
// in-process store or redis depending on configuration.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/vaaskel/vaaskel/config"
)

// New creates the shared byte cache according to the configuration.
// A nil config falls back to the in-memory backend.
func New(cfg *config.CacheConfig) *cache.Cache[[]byte] {
	if cfg != nil && cfg.Type == config.CacheTypeRedis {
		return newRedisCache[[]byte](cfg)
	}
	return newMemoryCache[[]byte]()
}

func newMemoryCache[T any]() *cache.Cache[T] {
	// Expiration is handled per entry via store.WithExpiration.
	gocacheClient := gocache.New(gocache.NoExpiration, gocache.NoExpiration)
	gocacheStore := go_store.NewGoCache(gocacheClient)
	return cache.New[T](gocacheStore)
}

func newRedisCache[T any](cfg *config.CacheConfig) *cache.Cache[T] {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	redisStore := redis_store.NewRedis(redisClient)
	return cache.New[T](redisStore)
}

// PrefixedCache wraps the shared cache and adds a prefix to all keys,
// marshaling values as JSON.
type PrefixedCache[T any] struct {
	cache  *cache.Cache[[]byte]
	prefix string
}

// NewPrefixedCache creates a new prefixed cache wrapper.
func NewPrefixedCache[T any](cache *cache.Cache[[]byte], prefix string) *PrefixedCache[T] {
	return &PrefixedCache[T]{
		cache:  cache,
		prefix: prefix,
	}
}

// Get retrieves a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Get(ctx context.Context, key any) (T, error) {
	prefixedKey := p.prefix + fmt.Sprintf("%v", key)
	data, err := p.cache.Get(ctx, prefixedKey)
	if err != nil {
		return *new(T), err
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return *new(T), err
	}
	return result, nil
}

// Set stores a value in the cache with the prefixed key.
func (p *PrefixedCache[T]) Set(ctx context.Context, key any, object T, options ...store.Option) error {
	prefixedKey := p.prefix + fmt.Sprintf("%v", key)
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, prefixedKey, data, options...)
}

// Delete removes a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Delete(ctx context.Context, key any) error {
	prefixedKey := p.prefix + fmt.Sprintf("%v", key)
	return p.cache.Delete(ctx, prefixedKey)
}

// Clear removes all values from the cache.
func (p *PrefixedCache[T]) Clear(ctx context.Context) error {
	return p.cache.Clear(ctx)
}
