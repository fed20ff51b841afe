package janitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-weather/internal/domain/entity"
	"go-weather/internal/domain/gateway/cache"
	pkgredis "go-weather/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweptCounter struct{ total int }

func (c *sweptCounter) ObserveSweptKeys(n int) { c.total += n }

func setupStore(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := pkgredis.NewClientFromAddr(mr.Addr())
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewRedisStore(client)
}

func TestSweep_DeletesOnlyWeatherNamespaces(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("current_weather_1_1", "x"))
	require.NoError(t, mr.Set("forecast_1_1", "y"))
	require.NoError(t, mr.Set("other_key", "z"))
	require.NoError(t, store.Track(ctx, entity.Coordinates{Lat: 1, Lon: 1}, time.Now()))

	counter := &sweptCounter{}
	deleted, err := NewJanitorUseCase(store, counter).Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, deleted)
	assert.Equal(t, 2, counter.total)
	assert.False(t, mr.Exists("current_weather_1_1"))
	assert.False(t, mr.Exists("forecast_1_1"))
	assert.True(t, mr.Exists("other_key"))
	assert.True(t, mr.Exists(cache.TrackedLocationsKey))
}

func TestSweep_ManyKeys(t *testing.T) {
	mr, store := setupStore(t)
	for i := 0; i < 1200; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("forecast_%d_0", i), "v"))
	}

	deleted, err := NewJanitorUseCase(store, nil).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, deleted)
	assert.Empty(t, mr.Keys())
}

func TestSweep_EmptyStore(t *testing.T) {
	_, store := setupStore(t)

	counter := &sweptCounter{}
	deleted, err := NewJanitorUseCase(store, counter).Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Zero(t, counter.total)
}

func TestSweep_StoreDown(t *testing.T) {
	mr, store := setupStore(t)
	mr.Close()

	_, err := NewJanitorUseCase(store, nil).Sweep(context.Background())
	assert.Error(t, err)
}
