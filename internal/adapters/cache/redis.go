package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient connects and pings, so a bad address fails at startup rather than on first save.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", opts.Host, opts.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

const minLocalCacheBytes = 512 * 1024

// NewLocalCache returns an in-process cache of roughly sizeMB megabytes.
func NewLocalCache(sizeMB int) *freecache.Cache {
	size := sizeMB * 1024 * 1024
	if size < minLocalCacheBytes {
		size = minLocalCacheBytes
	}
	return freecache.NewCache(size)
}
