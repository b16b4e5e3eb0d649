package files

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// Timestamps are stored as RFC 3339 text so the same schema works on both
// sqlite and postgres.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SQLiteRepository implements file storage over a dbx.DBTX (*sql.DB or
// *sql.Tx) using sqlite placeholder syntax.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var _ Repository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, wallet_address, encrypted_data, name, type, size, uploaded_at, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.WalletAddress, file.EncryptedData, file.Name, file.Type, file.Size,
		formatTime(file.UploadedAt), file.Metadata, formatTime(file.CreatedAt), formatTime(file.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: file %s already exists", common.ErrConflict, file.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByWallet(ctx context.Context, walletAddress string) ([]models.File, error) {
	query := `
		SELECT id, name, type, size, uploaded_at, metadata, created_at, updated_at
		FROM files
		WHERE wallet_address = ?
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []models.File
	for rows.Next() {
		var item models.File
		var uploadedAt, createdAt, updatedAt string
		if err := rows.Scan(&item.ID, &item.Name, &item.Type, &item.Size, &uploadedAt, &item.Metadata, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		item.WalletAddress = walletAddress
		item.UploadedAt = parseTime(uploadedAt)
		item.CreatedAt = parseTime(createdAt)
		item.UpdatedAt = parseTime(updatedAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Owner(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT wallet_address FROM files WHERE id = ?`, id).Scan(&owner)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

func (r *SQLiteRepository) Encrypted(ctx context.Context, id, walletAddress string) (string, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT encrypted_data FROM files WHERE id = ? AND wallet_address = ?`, id, walletAddress).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return data, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, file *models.File) error {
	query := `
		UPDATE files
		SET encrypted_data = ?, name = ?, type = ?, size = ?, metadata = ?, uploaded_at = ?, updated_at = ?
		WHERE id = ? AND wallet_address = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		file.EncryptedData, file.Name, file.Type, file.Size, file.Metadata,
		formatTime(file.UploadedAt), formatTime(file.UpdatedAt),
		file.ID, file.WalletAddress)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res, file.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id, walletAddress string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ? AND wallet_address = ?`, id, walletAddress)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res, id)
}
