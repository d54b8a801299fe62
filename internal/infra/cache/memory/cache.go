package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache LRU кэш в памяти процесса с истечением записей по TTL
type Cache struct {
	cache *lru.Cache
	now   func() time.Time
}

// New создает кэш на size записей
func New(size int) (*Cache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("memory cache: create lru: %w", err)
	}
	return &Cache{cache: cache, now: time.Now}, nil
}

// SetClock подменяет источник времени
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Get возвращает значение, если оно есть и не истекло
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	e := value.(entry)
	if !c.now().Before(e.expiresAt) {
		c.cache.Remove(key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set сохраняет значение на ttl
func (c *Cache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.cache.Add(key, entry{
		data:      append([]byte(nil), data...),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Len число записей (включая еще не вытесненные истекшие)
func (c *Cache) Len() int {
	return c.cache.Len()
}
