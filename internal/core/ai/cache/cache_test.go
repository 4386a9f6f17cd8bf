package cache

import (
	"context"
	"testing"
	"time"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(maxSize int) config.CacheConfig {
	return config.CacheConfig{
		Enabled: true,
		Backend: config.CacheBackendMemory,
		MaxSize: maxSize,
		TTL:     time.Minute,
	}
}

func TestKey(t *testing.T) {
	a := Key("food_check", "prompt", "image/jpeg", []byte{1, 2, 3})
	assert.Equal(t, a, Key("food_check", "prompt", "image/jpeg", []byte{1, 2, 3}))
	assert.NotEqual(t, a, Key("food_analysis", "prompt", "image/jpeg", []byte{1, 2, 3}))
	assert.NotEqual(t, a, Key("food_check", "prompt", "image/jpeg", []byte{1, 2, 4}))
	assert.NotEqual(t, a, Key("food_check", "prompt", "image/png", []byte{1, 2, 3}))
	assert.NotEqual(t, Key("ab", "c", "", nil), Key("a", "bc", "", nil))
	assert.NotEqual(t, Key("a", "b", "c", nil), Key("a", "bc", "", nil))
}

func TestNew(t *testing.T) {
	store, err := New(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(memoryConfig(1))
	require.NoError(t, err)
	assert.IsType(t, &CacheManager{}, store)
	require.NoError(t, store.Close())
}

func TestCacheManager_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(10))
	defer m.Close()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	value, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(10))
	defer m.Close()

	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "k", "v"))
	current = current.Add(2 * time.Minute)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.Stats()["evictions"])
}

func TestCacheManager_EvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m := NewManager(memoryConfig(2))
	defer m.Close()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, _, _ = m.Get(ctx, "a")

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, ok, _ := m.Get(ctx, "b")
	assert.False(t, ok, "least used entry should be evicted")
	_, ok, _ = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestCacheManager_FullWithZeroCapacity(t *testing.T) {
	m := NewManager(memoryConfig(0))
	defer m.Close()
	err := m.Set(context.Background(), "a", "1")
	assert.Equal(t, common.ErrCacheFull, err)
	assert.Equal(t, "Penyimpanan sementara penuh. Silakan coba lagi.", common.UserMessage(err))
}

func TestRedisService(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	svc, err := NewService(config.CacheConfig{
		Enabled:   true,
		Backend:   config.CacheBackendRedis,
		RedisAddr: server.Addr(),
		TTL:       time.Minute,
	})
	require.NoError(t, err)
	defer svc.Close()

	_, ok, err := svc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Set(ctx, "k", `{"isFood":true}`))
	assert.True(t, server.Exists(keyPrefix+"k"))
	assert.Equal(t, time.Minute, server.TTL(keyPrefix+"k"))

	value, ok, err := svc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"isFood":true}`, value)

	server.FastForward(2 * time.Minute)
	_, ok, err = svc.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	stats := svc.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestRedisService_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewService(config.CacheConfig{RedisAddr: addr})
	assert.Error(t, err)
}
