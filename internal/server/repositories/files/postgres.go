package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// unique_violation
const pgUniqueViolation = "23505"

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or
// *sql.Tx) using postgres placeholder syntax.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

func isPgConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, wallet_address, encrypted_data, name, type, size, uploaded_at, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.WalletAddress, file.EncryptedData, file.Name, file.Type, file.Size,
		formatTime(file.UploadedAt), file.Metadata, formatTime(file.CreatedAt), formatTime(file.UpdatedAt))
	if err != nil {
		if isPgConflict(err) {
			return fmt.Errorf("%w: file %s already exists", common.ErrConflict, file.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByWallet(ctx context.Context, walletAddress string) ([]models.File, error) {
	query := `
		SELECT id, name, type, size, uploaded_at, metadata, created_at, updated_at
		FROM files
		WHERE wallet_address = $1
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

func (r *PostgresRepository) Owner(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT wallet_address FROM files WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

func (r *PostgresRepository) Encrypted(ctx context.Context, id, walletAddress string) (string, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT encrypted_data FROM files WHERE id = $1 AND wallet_address = $2`, id, walletAddress).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return data, nil
}

func (r *PostgresRepository) Update(ctx context.Context, file *models.File) error {
	query := `
		UPDATE files
		SET encrypted_data = $1, name = $2, type = $3, size = $4, metadata = $5, uploaded_at = $6, updated_at = $7
		WHERE id = $8 AND wallet_address = $9
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

func (r *PostgresRepository) Delete(ctx context.Context, id, walletAddress string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND wallet_address = $2`, id, walletAddress)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res, id)
}
