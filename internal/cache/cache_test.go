package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutRedisOrLocalEverythingMisses(t *testing.T) {
	require.NoError(t, Close())
	localMu.Lock()
	local = nil
	localMu.Unlock()

	ctx := context.Background()
	SetCached(ctx, "k", []byte("v"), time.Minute)
	_, ok := GetCached(ctx, "k")
	assert.False(t, ok)
	assert.False(t, IsHealthy(ctx))

	InvalidatePattern(ctx, "*")
	InvalidateKeys(ctx, "k")
	InvalidateKeys(ctx)
}

func TestLocalTierServesWhenRedisIsDown(t *testing.T) {
	InitLocal(8, time.Minute)
	t.Cleanup(func() { _ = Close() })
	ctx := context.Background()

	SetJSON(ctx, CatalogKey("sample-types"), []string{"Agua", "Suelo"})
	SetJSON(ctx, CatalogKey("service-types"), []int{1, 2})

	var got []string
	require.True(t, GetJSON(ctx, CatalogKey("sample-types"), &got))
	assert.Equal(t, []string{"Agua", "Suelo"}, got)

	InvalidateCatalogCaches(ctx, "sample-types")
	assert.False(t, GetJSON(ctx, CatalogKey("sample-types"), &got))
	_, ok := GetCached(ctx, CatalogKey("service-types"))
	assert.True(t, ok)

	InvalidateCatalogCaches(ctx, "")
	_, ok = GetCached(ctx, CatalogKey("service-types"))
	assert.False(t, ok)
}

func TestPreWarmReportsFailedKeys(t *testing.T) {
	InitLocal(8, time.Minute)
	t.Cleanup(func() {
		_ = Close()
		preWarmCallbacks = make(map[string]PreWarmCallback)
	})

	RegisterPreWarm("catalog:ok", func(ctx context.Context) ([]byte, error) {
		return []byte(`[1]`), nil
	})
	RegisterPreWarm("catalog:bad", func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("down")
	})

	failed := PreWarmCache(context.Background())
	assert.Equal(t, []string{"catalog:bad"}, failed)

	data, ok := GetCached(context.Background(), "catalog:ok")
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(data))
}

func TestSetDefaultTTLIgnoresNonPositive(t *testing.T) {
	prev := DefaultTTL()
	t.Cleanup(func() { SetDefaultTTL(prev) })

	SetDefaultTTL(0)
	assert.Equal(t, prev, DefaultTTL())
	SetDefaultTTL(3 * time.Minute)
	assert.Equal(t, 3*time.Minute, DefaultTTL())
}
