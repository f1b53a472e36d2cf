package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS medicquiz_documents (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend keeps every document as one row of medicquiz_documents.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, `SELECT body FROM medicquiz_documents WHERE name = $1`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	return []byte(body), nil
}

func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO medicquiz_documents (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", name, err)
	}
	return nil
}
