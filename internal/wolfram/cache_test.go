package wolfram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
}

func newMemCache() *memCache { return &memCache{entries: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

type countingVerifier struct {
	calls  int
	answer string
}

func (c *countingVerifier) Verify(context.Context, string) (string, error) {
	c.calls++
	return c.answer, nil
}

func TestCachedVerifier(t *testing.T) {
	next := &countingVerifier{answer: "8849 meters"}
	cache := newMemCache()
	v := NewCachedVerifier(next, cache, time.Hour, zap.NewNop())

	for _, q := range []string{"height of Mount Everest", "  Height of   mount everest "} {
		answer, err := v.Verify(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, "8849 meters", answer)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedVerifier_SkipsErrorAnswers(t *testing.T) {
	next := &countingVerifier{answer: "Error: Unable to verify. Status code: 501"}
	cache := newMemCache()
	v := NewCachedVerifier(next, cache, time.Hour, zap.NewNop())

	_, _ = v.Verify(context.Background(), "q")
	_, _ = v.Verify(context.Background(), "q")
	assert.Equal(t, 2, next.calls)
	assert.Empty(t, cache.entries)
}

func TestCachedVerifier_CacheFailureFallsThrough(t *testing.T) {
	next := &countingVerifier{answer: "42"}
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	v := NewCachedVerifier(next, cache, time.Hour, zap.NewNop())

	answer, err := v.Verify(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
	assert.Equal(t, 1, next.calls)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("Speed of Light"), CacheKey(" speed  of light"))
	assert.NotEqual(t, CacheKey("speed of light"), CacheKey("speed of sound"))
	assert.Contains(t, CacheKey("x"), "wolfram:")
}
