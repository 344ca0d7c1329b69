package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.DocumentStorage = (*FileStorage)(nil)

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStorage keeps one JSON file per key inside a directory.
type FileStorage struct {
	dir      string
	maxBytes int
}

func NewFileStorage(dir string, maxBytes int) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return &FileStorage{dir: dir, maxBytes: maxBytes}, nil
}

func (r *FileStorage) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", fmt.Errorf("file storage: invalid key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *FileStorage) Load(ctx context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the old one, so a crash mid-write
// never leaves a half-written document behind.
func (r *FileStorage) Save(ctx context.Context, key string, data []byte) error {
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return domain.ErrQuotaExceeded
	}

	p, err := r.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return classifyWriteError(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return classifyWriteError(err)
	}
	if err := tmp.Close(); err != nil {
		return classifyWriteError(err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *FileStorage) Delete(ctx context.Context, key string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func classifyWriteError(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("file storage: %w: %v", domain.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("file storage: %w: %v", domain.ErrStorageUnavailable, err)
}
