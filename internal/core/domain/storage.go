package domain

import (
	"context"
	"errors"
)

// StorageKey is the key the health document lives under in every backend.
const StorageKey = "healthTrackerData"

var (
	ErrDocumentNotFound   = errors.New("health document not found")
	ErrDocumentCorrupt    = errors.New("health document is corrupt")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
)

type DocumentStorage interface {
	// Load returns the raw bytes stored under key.
	// It returns ErrDocumentNotFound when nothing is stored there yet.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces whatever is stored under key.
	// Backends report a full store as ErrQuotaExceeded and a dead one as ErrStorageUnavailable.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// DefaultSource provides the bundled dataset used to seed a fresh store.
type DefaultSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}
