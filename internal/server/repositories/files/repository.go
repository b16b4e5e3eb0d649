// Package files stores encrypted file records keyed by id and owned by a
// wallet address.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// Repository is the file record store. Implementations exist for sqlite and
// postgres; both run the same portable schema.
//
// Ownership is always part of the query: operations that take a wallet
// address never touch rows belonging to another wallet.
type Repository interface {
	// Create inserts a new file row. Returns common.ErrConflict when a row
	// with the same id already exists.
	Create(ctx context.Context, file *models.File) error

	// ListByWallet returns all rows owned by walletAddress ordered by
	// uploaded_at descending. EncryptedData is not selected.
	ListByWallet(ctx context.Context, walletAddress string) ([]models.File, error)

	// Owner returns the owning wallet address of a file id, or
	// common.ErrNotFound.
	Owner(ctx context.Context, id string) (string, error)

	// Encrypted returns the stored ciphertext of an owned file, or
	// common.ErrNotFound when the row does not exist for this owner.
	Encrypted(ctx context.Context, id, walletAddress string) (string, error)

	// Update replaces content columns of an owned row. Returns
	// common.ErrNotFound when no row was affected.
	Update(ctx context.Context, file *models.File) error

	// Delete removes an owned row. Returns common.ErrNotFound when no row
	// was affected.
	Delete(ctx context.Context, id, walletAddress string) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// requireOneRow maps a zero-rows-affected result to common.ErrNotFound.
func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: file %s", common.ErrNotFound, id)
	}
	return nil
}
