package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Backend stores raw payloads by key. Implementations report a miss with ok=false.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type RedisBackend struct {
	client redis.Cmdable
}

func NewRedisBackend(client redis.Cmdable) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

// Set stores without a redis expiry; freshness is judged from the payload timestamp.
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, key, string(value), 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: map[string][]byte{}}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	val, ok := b.items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	b.items[key] = stored
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.items, key)
	return nil
}
