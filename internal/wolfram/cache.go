package wolfram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get when no answer is stored.
var ErrCacheMiss = errors.New("wolfram: cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache stores answers in Redis.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedVerifier memoizes successful answers of an underlying Verifier.
// Error answers ("Error: ...") are not cached.
type CachedVerifier struct {
	next  Verifier
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedVerifier(next Verifier, cache Cache, ttl time.Duration, log *zap.Logger) *CachedVerifier {
	return &CachedVerifier{next: next, cache: cache, ttl: ttl, log: log}
}

// CacheKey normalizes case and whitespace so trivially different phrasings
// of the same query share an entry.
func CacheKey(query string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(norm))
	return "wolfram:" + hex.EncodeToString(sum[:])
}

func (v *CachedVerifier) Verify(ctx context.Context, query string) (string, error) {
	key := CacheKey(query)

	answer, err := v.cache.Get(ctx, key)
	switch {
	case err == nil:
		v.log.Debug("wolfram cache hit", zap.String("query", query))
		return answer, nil
	case !errors.Is(err, ErrCacheMiss):
		v.log.Warn("wolfram cache read failed", zap.Error(err))
	}

	answer, err = v.next.Verify(ctx, query)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(answer, "Error:") {
		if err := v.cache.Set(ctx, key, answer, v.ttl); err != nil {
			v.log.Warn("wolfram cache write failed", zap.Error(err))
		}
	}
	return answer, nil
}
