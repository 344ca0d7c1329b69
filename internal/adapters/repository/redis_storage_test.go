package repository

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRedisStorage_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	ctx := context.Background()
	rdb, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       1,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	s := NewRedisStorage(rdb, "test")
	require.NoError(t, s.Delete(ctx, domain.StorageKey))

	t.Run("Full Lifecycle", func(t *testing.T) {
		_, err := s.Load(ctx, domain.StorageKey)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

		require.NoError(t, s.Save(ctx, domain.StorageKey, []byte(`{"entries":[]}`)))

		raw, err := rdb.Get(ctx, "test:healthTrackerData").Result()
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries":[]}`, raw)

		data, err := s.Load(ctx, domain.StorageKey)
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries":[]}`, string(data))

		require.NoError(t, s.Delete(ctx, domain.StorageKey))
		_, err = s.Load(ctx, domain.StorageKey)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}

func TestClassifyRedisError(t *testing.T) {
	err := classifyRedisError("set", assert.AnError)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	err = classifyRedisError("set", errOOM{})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

type errOOM struct{}

func (errOOM) Error() string { return "OOM command not allowed when used memory > 'maxmemory'." }
