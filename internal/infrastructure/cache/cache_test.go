package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func caches(t *testing.T) map[string]*CollectionCache {
	return map[string]*CollectionCache{
		"redis":   NewCollectionCache(newRedis(t), time.Minute, nil),
		"memoria": NewCollectionCache(nil, time.Minute, nil),
	}
}

func TestCollectionCache_CargaUnaVezPorVersion(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			load := func(context.Context) ([]byte, error) {
				calls++
				return []byte(`["a"]`), nil
			}

			data, v1, err := c.Fetch(ctx, "t1", "work_orders", "", load)
			require.NoError(t, err)
			assert.JSONEq(t, `["a"]`, string(data))
			_, again, err := c.Fetch(ctx, "t1", "work_orders", "", load)
			require.NoError(t, err)
			assert.Equal(t, v1, again)
			assert.Equal(t, 1, calls)

			require.NoError(t, c.Invalidate(ctx, "t1", "work_orders"))
			_, v2, err := c.Fetch(ctx, "t1", "work_orders", "", load)
			require.NoError(t, err)
			assert.NotEqual(t, v1, v2)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestCollectionCache_TenantsSeparados(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, _, err := c.Fetch(ctx, "t1", "buildings", "", func(context.Context) ([]byte, error) { return []byte(`[1]`), nil })
			require.NoError(t, err)

			data, _, err := c.Fetch(ctx, "t2", "buildings", "", func(context.Context) ([]byte, error) { return []byte(`[2]`), nil })
			require.NoError(t, err)
			assert.JSONEq(t, `[2]`, string(data))
		})
	}
}

func TestCollectionCache_LectoresConcurrentesDeduplicados(t *testing.T) {
	c := NewCollectionCache(nil, time.Minute, nil)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte(`[]`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.Fetch(context.Background(), "t1", "work_orders", "", load)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCollectionCache_CancelarPrimerLectorNoCortaLaCarga(t *testing.T) {
	c := NewCollectionCache(nil, time.Minute, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`["ok"]`), nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.Fetch(first, "t1", "work_orders", "", load)
		firstErr <- err
	}()
	<-started

	second := make(chan []byte, 1)
	go func() {
		data, _, err := c.Fetch(context.Background(), "t1", "work_orders", "", load)
		assert.NoError(t, err)
		second <- data
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	assert.JSONEq(t, `["ok"]`, string(<-second))
	data, ok, err := c.Peek(context.Background(), "t1", "work_orders")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["ok"]`, string(data))
}

func TestCollectionCache_ErrorDeCargaNoSeGuarda(t *testing.T) {
	c := NewCollectionCache(nil, time.Minute, nil)
	boom := errors.New("db caída")

	_, _, err := c.Fetch(context.Background(), "t1", "work_orders", "", func(context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok, err := c.Peek(context.Background(), "t1", "work_orders")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollectionCache_PeekReplace(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, c.Replace(ctx, "t1", "work_orders", []byte(`["x"]`)))
			data, ok, err := c.Peek(ctx, "t1", "work_orders")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `["x"]`, string(data))
		})
	}
}

func TestRedisPreferences(t *testing.T) {
	p := NewRedisPreferences(newRedis(t))
	ctx := context.Background()

	v, err := p.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, p.Set(ctx, "client-1", "c1"))
	v, err = p.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", v)

	require.NoError(t, p.Clear(ctx, "client-1"))
	v, err = p.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRedisRevocations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedisRevocations(client)
	ctx := context.Background()

	revoked, err := r.Revoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "tok-1", time.Now().Add(time.Minute)))
	revoked, err = r.Revoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// la clave vence con el token
	mr.FastForward(2 * time.Minute)
	revoked, err = r.Revoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
