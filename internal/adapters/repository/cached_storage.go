package repository

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.DocumentStorage = (*CachedStorage)(nil)

const cacheTTLSeconds = 30 * 60

// CachedStorage is a read-through decorator that keeps raw documents in an in-process cache.
type CachedStorage struct {
	next  domain.DocumentStorage
	cache *freecache.Cache
	log   logrus.FieldLogger
}

func NewCachedStorage(next domain.DocumentStorage, cache *freecache.Cache, log logrus.FieldLogger) *CachedStorage {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedStorage{
		next:  next,
		cache: cache,
		log:   log.WithField("component", "document_cache"),
	}
}

func (r *CachedStorage) invalidate(key string) {
	r.cache.Del([]byte(key))
}

func (r *CachedStorage) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := r.cache.Get([]byte(key))
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, freecache.ErrNotFound) {
		r.log.WithError(err).Warn("cache read error")
	}

	data, err := r.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set([]byte(key), data, cacheTTLSeconds); setErr != nil {
		r.log.WithError(setErr).WithField("bytes", len(data)).Debug("document too large to cache")
	}
	return data, nil
}

// Save writes through and then caches the new bytes. A failed write drops the cached copy
// because the backend state is unknown.
func (r *CachedStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := r.next.Save(ctx, key, data); err != nil {
		r.invalidate(key)
		return err
	}

	if err := r.cache.Set([]byte(key), data, cacheTTLSeconds); err != nil {
		r.log.WithError(err).WithField("bytes", len(data)).Debug("document too large to cache")
		r.invalidate(key)
	}
	return nil
}

func (r *CachedStorage) Delete(ctx context.Context, key string) error {
	defer r.invalidate(key)
	return r.next.Delete(ctx, key)
}
