package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.DocumentStorage = (*InMemoryStorage)(nil)

// InMemoryStorage keeps documents in process memory. A quota and an availability switch
// let tests reproduce the failure modes of real backends.
type InMemoryStorage struct {
	store       map[string][]byte
	maxBytes    int
	unavailable bool

	mu sync.RWMutex
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		store: make(map[string][]byte),
	}
}

// WithQuota makes Save fail with ErrQuotaExceeded for payloads larger than maxBytes.
func (r *InMemoryStorage) WithQuota(maxBytes int) *InMemoryStorage {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.maxBytes = maxBytes
	return r
}

func (r *InMemoryStorage) SetAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unavailable = !available
}

func (r *InMemoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.unavailable {
		return nil, domain.ErrStorageUnavailable
	}

	data, ok := r.store[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return append([]byte(nil), data...), nil
}

func (r *InMemoryStorage) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unavailable {
		return domain.ErrStorageUnavailable
	}
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return domain.ErrQuotaExceeded
	}

	r.store[key] = append([]byte(nil), data...)
	return nil
}

func (r *InMemoryStorage) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unavailable {
		return domain.ErrStorageUnavailable
	}

	delete(r.store, key)
	return nil
}
