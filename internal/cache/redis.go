package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"lab-reception/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys
const (
	CatalogPrefix = "catalog:"
	catalogGlob   = CatalogPrefix + "*"
)

var (
	client     *redis.Client
	defaultTTL = 10 * time.Minute
)

// Init connects to Redis. On failure the client stays nil and every cache
// call degrades to the in-process tier (or a miss when that is not set up).
func Init(addr, password string) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// SetDefaultTTL sets the TTL used by pre-warm and the JSON helpers.
func SetDefaultTTL(ttl time.Duration) {
	if ttl > 0 {
		defaultTTL = ttl
	}
}

// DefaultTTL returns the configured catalog TTL.
func DefaultTTL() time.Duration {
	return defaultTTL
}

// CatalogKey returns the cache key of one reference catalog.
func CatalogKey(kind string) string {
	return CatalogPrefix + kind
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client != nil {
		data, err := client.Get(ctx, key).Bytes()
		if err == nil {
			metrics.CacheLookupsTotal.WithLabelValues("redis_hit").Inc()
			return data, true
		}
	}
	if data, ok := localGet(key); ok {
		metrics.CacheLookupsTotal.WithLabelValues("local_hit").Inc()
		return data, true
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	return nil, false
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	localSet(key, data)
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// GetJSON decodes a cached value into out.
func GetJSON(ctx context.Context, key string, out any) bool {
	data, ok := GetCached(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON encodes v and caches it with the default TTL.
func SetJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	SetCached(ctx, key, data, defaultTTL)
}

// ============================================
// Cache Invalidation Functions
// ============================================

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	localInvalidatePattern(pattern)
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	localRemove(keys...)
	if client == nil {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateCatalogCaches clears one catalog, or all of them when kind is empty.
// Called when: sample type, service type or analysis parameter mutations
func InvalidateCatalogCaches(ctx context.Context, kind string) {
	if strings.TrimSpace(kind) == "" {
		InvalidatePattern(ctx, catalogGlob)
		return
	}
	InvalidateKeys(ctx, CatalogKey(kind))
}

// ============================================
// Pre-warm Cache Functions
// ============================================

// PreWarmCallback is a function that populates a cache key
type PreWarmCallback func(ctx context.Context) ([]byte, error)

var preWarmCallbacks = make(map[string]PreWarmCallback)

// RegisterPreWarm registers a callback to pre-warm a cache key.
// Called while wiring services, before PreWarmCache.
func RegisterPreWarm(key string, callback PreWarmCallback) {
	preWarmCallbacks[key] = callback
}

// PreWarmCache fills every registered key that is not cached yet.
// It returns the keys whose callback failed.
func PreWarmCache(ctx context.Context) []string {
	var failed []string
	for key, callback := range preWarmCallbacks {
		if _, ok := GetCached(ctx, key); ok {
			continue
		}
		data, err := callback(ctx)
		if err != nil {
			failed = append(failed, key)
			continue
		}
		SetCached(ctx, key, data, defaultTTL)
	}
	return failed
}

// IsHealthy returns true if Redis connection is working
func IsHealthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// Close releases the Redis connection and empties the local tier.
func Close() error {
	localPurge()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
