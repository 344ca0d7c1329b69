package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var _ domain.DocumentStorage = (*PostgresStorage)(nil)

const (
	pgCodeDiskFull      = "53100"
	pgCodeProgramLimit  = "54000"
	pgCodeOutOfMemory   = "53200"
	createDocumentTable = `
		CREATE TABLE IF NOT EXISTS health_documents (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
)

// PostgresStorage keeps documents as JSONB rows, one per key.
type PostgresStorage struct {
	db *sqlx.DB
}

func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{
		db: db,
	}
}

func (r *PostgresStorage) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, createDocumentTable); err != nil {
		return fmt.Errorf("repository: create health_documents failed: %w", err)
	}
	return nil
}

func (r *PostgresStorage) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `SELECT data FROM health_documents WHERE key = $1`

	var data []byte
	if err := r.db.GetContext(ctx, &data, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, classifyPostgresError("load document", err)
	}
	return data, nil
}

func (r *PostgresStorage) Save(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO health_documents (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return classifyPostgresError("save document", err)
	}
	return nil
}

func (r *PostgresStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `DELETE FROM health_documents WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return classifyPostgresError("delete document", err)
	}
	return nil
}

// Both lib/pq and pgx may be behind the *sqlx.DB depending on the driver name used to open it.
func classifyPostgresError(op string, err error) error {
	code := ""
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.As(err, &pgErr):
		code = pgErr.Code
	}

	switch code {
	case pgCodeDiskFull, pgCodeProgramLimit, pgCodeOutOfMemory:
		return fmt.Errorf("repository: %s failed: %w: %v", op, domain.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("repository: %s failed: %w: %v", op, domain.ErrStorageUnavailable, err)
}
