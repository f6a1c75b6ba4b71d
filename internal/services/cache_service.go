package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"easyride/pkg/cache"
)

// CacheService is the key-value and set store shared by the profile cache
// and the city overrides. Misses are reported as cache.ErrCacheMiss.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	SAdd(ctx context.Context, key string, members ...interface{}) error
	SRem(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)

	Ping(ctx context.Context) error
}

// NewCacheService returns the redis-backed cache.
func NewCacheService(redisCache *cache.RedisCache) CacheService {
	return redisCache
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryCacheService keeps everything in process. It is used when redis is
// disabled, which limits the server to a single instance.
type memoryCacheService struct {
	mutex   sync.RWMutex
	entries map[string]memoryEntry
	sets    map[string]map[string]struct{}
	now     func() time.Time
}

func NewMemoryCacheService() CacheService {
	return &memoryCacheService{
		entries: make(map[string]memoryEntry),
		sets:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *memoryCacheService) Get(_ context.Context, key string, dest interface{}) error {
	m.mutex.RLock()
	entry, ok := m.entries[key]
	m.mutex.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)) {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(entry.value, dest)
}

func (m *memoryCacheService) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	entry := memoryEntry{value: data}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}

	m.mutex.Lock()
	m.entries[key] = entry
	m.mutex.Unlock()
	return nil
}

func (m *memoryCacheService) Delete(_ context.Context, keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
		delete(m.sets, key)
	}
	return nil
}

func (m *memoryCacheService) SAdd(_ context.Context, key string, members ...interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[fmt.Sprint(member)] = struct{}{}
	}
	return nil
}

func (m *memoryCacheService) SRem(_ context.Context, key string, members ...interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set := m.sets[key]
	for _, member := range members {
		delete(set, fmt.Sprint(member))
	}
	return nil
}

func (m *memoryCacheService) SMembers(_ context.Context, key string) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *memoryCacheService) Ping(context.Context) error {
	return nil
}
