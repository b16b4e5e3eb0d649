package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

const timeFormat = time.RFC3339Nano

// SQLiteRepository implements user storage over a dbx.DBTX using sqlite
// placeholder syntax.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var _ Repository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (wallet_address, username, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (wallet_address) DO UPDATE SET
			username = CASE WHEN excluded.username <> '' THEN excluded.username ELSE users.username END,
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END
	`
	_, err := r.db.ExecContext(ctx, query,
		user.WalletAddress, user.Username, user.Email, user.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `SELECT wallet_address, username, email, created_at FROM users WHERE wallet_address = ?`

	user := &models.User{}
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, walletAddress).Scan(&user.WalletAddress, &user.Username, &user.Email, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, walletAddress)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if t, perr := time.Parse(timeFormat, createdAt); perr == nil {
		user.CreatedAt = t
	}
	return user, nil
}
