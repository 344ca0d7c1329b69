package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.DocumentStorage = (*RedisStorage)(nil)

// RedisStorage keeps each document as a plain string value with no expiry.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStorage) redisKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("repository: redis get failed: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, r.redisKey(key), data, 0).Err(); err != nil {
		return classifyRedisError("set", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return classifyRedisError("del", err)
	}
	return nil
}

// Redis answers writes past maxmemory with an "OOM ..." error reply.
func classifyRedisError(op string, err error) error {
	if strings.HasPrefix(err.Error(), "OOM") {
		return fmt.Errorf("repository: redis %s failed: %w: %v", op, domain.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("repository: redis %s failed: %w: %v", op, domain.ErrStorageUnavailable, err)
}
