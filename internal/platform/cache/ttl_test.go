package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func countingFetch(calls *int32, value []string) FetchFunc[[]string] {
	return func(context.Context) ([]string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestTTLCacheHitWithinTTLAndRefetchAfter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	c := NewTTL[[]string](NewMemoryBackend(), "users_cache", 5*time.Minute, WithClock[[]string](clock.Now))
	var calls int32
	fetch := countingFetch(&calls, []string{"ana", "luis"})
	ctx := context.Background()

	got, err := c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "luis"}, got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	clock.Advance(4 * time.Minute)
	_, err = c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "served from cache at T+4min")

	clock.Advance(2 * time.Minute)
	_, err = c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "refetched at T+6min")
}

func TestTTLCacheDropsCorruptedEntry(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), "users_cache", []byte("{not json")))

	c := NewTTL[[]string](backend, "users_cache", 5*time.Minute)
	var calls int32
	got, err := c.Get(context.Background(), countingFetch(&calls, []string{"ana"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, got)
	assert.EqualValues(t, 1, calls)

	raw, ok, err := backend.Get(context.Background(), "users_cache")
	require.NoError(t, err)
	require.True(t, ok)
	var entry Entry[[]string]
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, []string{"ana"}, entry.Data)
}

func TestTTLCacheInvalidateForcesFetch(t *testing.T) {
	c := NewTTL[[]string](NewMemoryBackend(), "users_cache", 5*time.Minute)
	var calls int32
	fetch := countingFetch(&calls, []string{"ana"})
	ctx := context.Background()

	_, err := c.Get(ctx, fetch)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)
}

func TestTTLCacheInvalidateDuringFetchDiscardsOldResult(t *testing.T) {
	c := NewTTL[[]string](NewMemoryBackend(), "users_cache", 5*time.Minute)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(context.Context) ([]string, error) {
		close(started)
		<-release
		return []string{"v1"}, nil
	}

	done := make(chan []string, 1)
	go func() {
		got, _ := c.Get(ctx, slow)
		done <- got
	}()
	<-started

	require.NoError(t, c.Invalidate(ctx))
	var calls int32
	got, err := c.Get(ctx, countingFetch(&calls, []string{"v2"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, got)
	assert.EqualValues(t, 1, calls)

	close(release)
	assert.Equal(t, []string{"v1"}, <-done)

	got, err = c.Get(ctx, countingFetch(&calls, []string{"v3"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, got)
	assert.EqualValues(t, 1, calls)
}

func TestTTLCacheFetchErrorIsNotCached(t *testing.T) {
	c := NewTTL[[]string](NewMemoryBackend(), "users_cache", 5*time.Minute)
	boom := errors.New("rpc failed")
	_, err := c.Get(context.Background(), func(context.Context) ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	var calls int32
	_, err = c.Get(context.Background(), countingFetch(&calls, []string{"ana"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)
}

func TestTTLCacheCoalescesConcurrentMisses(t *testing.T) {
	c := NewTTL[[]string](NewMemoryBackend(), "users_cache", 5*time.Minute)
	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"ana"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Get(context.Background(), fetch)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRedisBackendHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(Entry[[]string]{Data: []string{"ana"}, Timestamp: now.UnixMilli()})
	require.NoError(t, err)
	mock.ExpectGet("users_cache").SetVal(string(payload))

	c := NewTTL[[]string](NewRedisBackend(client), "users_cache", 5*time.Minute,
		WithClock[[]string](func() time.Time { return now.Add(time.Minute) }))
	got, err := c.Get(context.Background(), func(context.Context) ([]string, error) {
		t.Fatal("fetch must not run on a fresh hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackendMissStoresPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(Entry[[]string]{Data: []string{"ana"}, Timestamp: now.UnixMilli()})
	require.NoError(t, err)
	mock.ExpectGet("users_cache").RedisNil()
	mock.ExpectSet("users_cache", string(payload), 0).SetVal("OK")

	c := NewTTL[[]string](NewRedisBackend(client), "users_cache", 5*time.Minute,
		WithClock[[]string](func() time.Time { return now }))
	got, err := c.Get(context.Background(), func(context.Context) ([]string, error) { return []string{"ana"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackendInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectDel("users_cache").SetVal(1)

	c := NewTTL[[]string](NewRedisBackend(client), "users_cache", 5*time.Minute)
	require.NoError(t, c.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
