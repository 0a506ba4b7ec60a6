package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/platform/metrics"
)

// Entry is the stored payload: the data plus the unix-millisecond time it was fetched.
type Entry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// TTLCache is a read-through cache for a single key.
type TTLCache[T any] struct {
	backend Backend
	key     string
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Collector
	group   singleflight.Group
	// gen is bumped by Invalidate; fetches started under an older generation are not stored.
	gen atomic.Uint64
}

type Option[T any] func(*TTLCache[T])

func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *TTLCache[T]) {
		if now != nil {
			c.now = now
		}
	}
}

func WithMetrics[T any](m *metrics.Collector) Option[T] {
	return func(c *TTLCache[T]) {
		c.metrics = m
	}
}

func NewTTL[T any](backend Backend, key string, ttl time.Duration, opts ...Option[T]) *TTLCache[T] {
	c := &TTLCache[T]{
		backend: backend,
		key:     key,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TTLCache[T]) Key() string {
	return c.key
}

// Get returns the cached value while it is younger than the TTL, otherwise calls fetch
// and stores the result. Concurrent misses share one fetch. Backend failures degrade to a
// direct fetch.
func (c *TTLCache[T]) Get(ctx context.Context, fetch FetchFunc[T]) (T, error) {
	logger := logging.FromContext(ctx)

	if entry, ok := c.lookup(ctx, logger); ok {
		return entry.Data, nil
	}

	v, err, _ := c.group.Do(c.key, func() (any, error) {
		gen := c.gen.Load()
		data, err := fetch(ctx)
		if err != nil {
			return data, err
		}
		if c.gen.Load() == gen {
			c.store(ctx, logger, data)
		}
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the stored entry. Reads after it never join or store a fetch that
// was already running.
func (c *TTLCache[T]) Invalidate(ctx context.Context) error {
	c.gen.Add(1)
	c.group.Forget(c.key)
	return c.backend.Delete(ctx, c.key)
}

func (c *TTLCache[T]) lookup(ctx context.Context, logger *zap.Logger) (Entry[T], bool) {
	raw, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", c.key), zap.Error(err))
		c.metrics.CacheLookup(c.key, "error")
		return Entry[T]{}, false
	}
	if !ok {
		c.metrics.CacheLookup(c.key, "miss")
		return Entry[T]{}, false
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Timestamp <= 0 {
		logger.Warn("dropping corrupted cache entry", zap.String("key", c.key), zap.Error(err))
		c.metrics.CacheLookup(c.key, "corrupt")
		if delErr := c.backend.Delete(ctx, c.key); delErr != nil {
			logger.Warn("cache delete failed", zap.String("key", c.key), zap.Error(delErr))
		}
		return Entry[T]{}, false
	}

	age := c.now().Sub(time.UnixMilli(entry.Timestamp))
	if age >= c.ttl {
		c.metrics.CacheLookup(c.key, "stale")
		return Entry[T]{}, false
	}
	c.metrics.CacheLookup(c.key, "hit")
	return entry, true
}

func (c *TTLCache[T]) store(ctx context.Context, logger *zap.Logger, data T) {
	payload, err := json.Marshal(Entry[T]{Data: data, Timestamp: c.now().UnixMilli()})
	if err != nil {
		logger.Warn("cache encode failed", zap.String("key", c.key), zap.Error(err))
		return
	}
	if err := c.backend.Set(ctx, c.key, payload); err != nil {
		logger.Warn("cache write failed", zap.String("key", c.key), zap.Error(err))
	}
}
