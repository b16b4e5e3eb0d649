// Package users tracks wallets seen by the file service.
package users

import (
	"context"

	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// Repository stores one row per wallet address.
type Repository interface {
	// Upsert records a wallet, keeping the earliest created_at. Username and
	// email overwrite previous values when non-empty.
	Upsert(ctx context.Context, user *models.User) error

	// Get returns the row for walletAddress, or common.ErrNotFound.
	Get(ctx context.Context, walletAddress string) (*models.User, error)
}
