package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-health/internal/config"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// Backends is the storage selected by configuration plus the connections it owns.
type Backends struct {
	Storage domain.DocumentStorage
	Redis   *redis.Client
	DB      *sqlx.DB
}

// Open builds the configured storage backend. The redis client is also opened when
// rate limiting is enabled, even if documents live elsewhere.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Backends, error) {
	b := &Backends{}

	if cfg.Storage.Backend == config.BackendRedis || cfg.Redis.RateLimit > 0 {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		b.Redis = rdb
	}

	var storage domain.DocumentStorage
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		storage = NewInMemoryStorage().WithQuota(cfg.Storage.MaxBytes)
	case config.BackendFile:
		fs, err := NewFileStorage(cfg.Storage.Dir, cfg.Storage.MaxBytes)
		if err != nil {
			b.Close()
			return nil, err
		}
		storage = fs
	case config.BackendRedis:
		storage = NewRedisStorage(b.Redis, "health")
	case config.BackendPostgres:
		driver := cfg.Database.Driver
		if driver == "" {
			driver = config.DriverPgx
		}
		db, err := sqlx.Connect(driver, cfg.Database.DSN)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("%w: failed to connect to database: %v", domain.ErrStorageUnavailable, err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
		b.DB = db

		pg := NewPostgresStorage(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		storage = pg
	default:
		b.Close()
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.CacheMB > 0 {
		storage = NewCachedStorage(storage, cache.NewLocalCache(cfg.Storage.CacheMB), log)
	}
	b.Storage = storage

	return b, nil
}

// Ping checks the connections the backend depends on.
func (b *Backends) Ping(ctx context.Context) error {
	if b.DB != nil {
		if err := b.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
	}
	if b.Redis != nil {
		if err := b.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unreachable: %w", err)
		}
	}
	return nil
}

func (b *Backends) Close() error {
	var errs []error
	if b.DB != nil {
		errs = append(errs, b.DB.Close())
	}
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	return errors.Join(errs...)
}
