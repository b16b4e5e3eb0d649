package localstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// Stores bundles the two local stores backed by one sqlite database.
type Stores struct {
	KV    KVStore
	Blobs BlobStore
	DB    *sql.DB
}

// RunMigrations applies the embedded goose migrations to the cache database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the cache database at dsn, applies
// migrations, and returns the stores. The caller owns closing Stores.DB.
func InitDatabase(ctx context.Context, dsn string) (*Stores, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Stores{
		KV:    NewSQLiteKVStore(db),
		Blobs: NewSQLiteBlobStore(db),
		DB:    db,
	}, nil
}
