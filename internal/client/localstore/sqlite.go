package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/dbx"
)

type SQLiteKVStore struct {
	db dbx.DBTX
}

func NewSQLiteKVStore(db dbx.DBTX) *SQLiteKVStore {
	return &SQLiteKVStore{db: db}
}

func (r *SQLiteKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteKVStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKVStore) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM metadata WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}

type SQLiteBlobStore struct {
	db dbx.DBTX
}

func NewSQLiteBlobStore(db dbx.DBTX) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db}
}

func (r *SQLiteBlobStore) Put(ctx context.Context, id string, encryptedData string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blobs (id, encrypted_data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET encrypted_data = excluded.encrypted_data
	`, id, encryptedData)
	if err != nil {
		return fmt.Errorf("failed to put blob[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteBlobStore) Get(ctx context.Context, id string) (string, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT encrypted_data FROM blobs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get blob[%s]: %w", id, err)
	}
	return data, nil
}

func (r *SQLiteBlobStore) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blob[%s]: %w", id, err)
	}
	return nil
}
