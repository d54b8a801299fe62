package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCache оборачивает ошибки redis
var ErrCache = errors.New("redis cache: operation failed")

// Options параметры подключения к redis
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Cache кэш байтовых значений в redis
type Cache struct {
	client *redis.Client
}

// New создает клиент redis. Соединение устанавливается лениво, проверить его можно через Ping
func New(opts Options) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			PoolSize:     20,
			MinIdleConns: 2,
		}),
	}
}

// NewWithClient оборачивает готовый клиент
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping проверяет доступность redis
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: Ping: %v", ErrCache, err)
	}
	return nil
}

// Get возвращает значение ключа. Отсутствие ключа не ошибка: found = false
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get key=%s: %v", ErrCache, key, err)
	}
	return data, true, nil
}

// Set сохраняет значение с TTL
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set key=%s: %v", ErrCache, key, err)
	}
	return nil
}

// Close закрывает соединение
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
