package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions locates the redis server
type RedisOptions struct {
	URL      string // redis://[:password@]host:port/db, or a bare host:port
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores payloads as redis strings with an expiry
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects and pings the server
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	clientOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		clientOpts = &redis.Options{
			Addr:     opts.URL,
			Password: opts.Password,
			DB:       opts.DB,
		}
	}
	client := redis.NewClient(clientOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
