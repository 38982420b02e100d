package utils

import (
	"context"
	"strings"
	"sync"
	"time"
)

// The page cache stores rendered pages as opaque byte blobs under prefixed
// keys. Production uses Redis; tests and Redis-less deployments fall back to
// a process-local TTL map. Staleness within the TTL window is accepted, so
// neither backend coordinates readers and writers beyond its own locking.

// CacheBackend is the minimal surface the page cache needs.
type CacheBackend interface {
	GetBytes(key string) ([]byte, bool)
	SetBytes(key string, b []byte, ttl time.Duration)
	DeletePrefix(prefix string)
}

var (
	backendMu sync.RWMutex
	backend   CacheBackend = redisBackend{}
)

// UseMemoryCache switches the page cache to the in-process backend.
// Used by tests and when no Redis is configured.
func UseMemoryCache() {
	backendMu.Lock()
	backend = newMemoryBackend()
	backendMu.Unlock()
}

func activeBackend() CacheBackend {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return backend
}

// CacheGetBytes returns cached bytes for a key.
func CacheGetBytes(key string) ([]byte, bool) {
	return activeBackend().GetBytes(key)
}

// CacheSetBytes stores bytes with the given TTL.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	activeBackend().SetBytes(key, b, ttl)
}

// InvalidateByPrefix deletes every key under the given prefix. Cache
// invalidation is an administrative operation (yatubectl cache clear);
// request handling never calls it.
func InvalidateByPrefix(prefix string) {
	activeBackend().DeletePrefix(prefix)
}

// redisBackend talks to the shared Redis client.
type redisBackend struct{}

func (redisBackend) GetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (redisBackend) SetBytes(key string, b []byte, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

func (redisBackend) DeletePrefix(prefix string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}

// memoryBackend is a process-local TTL map.
type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	blob    []byte
	expires time.Time
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{entries: map[string]memoryEntry{}}
}

func (m *memoryBackend) GetBytes(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.blob, true
}

func (m *memoryBackend) SetBytes(key string, b []byte, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{blob: b, expires: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *memoryBackend) DeletePrefix(prefix string) {
	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
}
