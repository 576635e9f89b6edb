package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the kv table created by the
// database migrations.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	query := "SELECT value FROM kv WHERE key = ?"
	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	query := "INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	query := "DELETE FROM kv WHERE key = ?"
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}
