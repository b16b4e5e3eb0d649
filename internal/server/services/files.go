// Package services contains the business logic of the file service.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/server/blobstore"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/files"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/users"
)

// RepoFactory builds repositories bound to a database handle or an open
// transaction, letting the service run multi-table writes atomically.
type RepoFactory struct {
	Files func(dbx.DBTX) files.Repository
	Users func(dbx.DBTX) users.Repository
}

// SQLiteRepos is the factory for the sqlite backend.
func SQLiteRepos() RepoFactory {
	return RepoFactory{
		Files: func(db dbx.DBTX) files.Repository { return files.NewSQLiteRepository(db) },
		Users: func(db dbx.DBTX) users.Repository { return users.NewSQLiteRepository(db) },
	}
}

// PostgresRepos is the factory for the postgres backend.
func PostgresRepos() RepoFactory {
	return RepoFactory{
		Files: func(db dbx.DBTX) files.Repository { return files.NewPostgresRepository(db) },
		Users: func(db dbx.DBTX) users.Repository { return users.NewPostgresRepository(db) },
	}
}

// FileService implements the encrypted file operations on top of the
// repositories. When a blob store is configured the ciphertext is offloaded
// to it and the encrypted_data column stays empty; otherwise ciphertext is
// kept inline.
type FileService struct {
	db    *sql.DB
	repos RepoFactory
	blobs blobstore.Store
	log   logging.Logger
}

func NewFileService(db *sql.DB, repos RepoFactory, blobs blobstore.Store, log logging.Logger) *FileService {
	return &FileService{db: db, repos: repos, blobs: blobs, log: log}
}

func (s *FileService) files() files.Repository {
	return s.repos.Files(s.db)
}

// Save stores a new encrypted file. The wallet is recorded in the users table
// in the same transaction. Returns common.ErrConflict when the id is taken.
func (s *FileService) Save(ctx context.Context, file *models.File) error {
	ciphertext := file.EncryptedData
	if s.blobs != nil {
		file.EncryptedData = ""
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).Upsert(ctx, &models.User{
			WalletAddress: file.WalletAddress,
			CreatedAt:     time.Now(),
		}); err != nil {
			return err
		}
		return s.repos.Files(tx).Create(ctx, file)
	})
	if err != nil {
		return err
	}

	if s.blobs != nil {
		if err := s.blobs.Put(ctx, file.ID, ciphertext); err != nil {
			// roll the row back so the id stays free for a retry
			if derr := s.files().Delete(ctx, file.ID, file.WalletAddress); derr != nil {
				s.log.Error(ctx, "failed to roll back file row", "fileId", file.ID, "error", derr)
			}
			return err
		}
	}

	s.log.Info(ctx, "file stored", "fileId", file.ID, "wallet", file.WalletAddress, "size", file.Size)
	return nil
}

// List returns metadata rows for walletAddress, newest first, never including
// ciphertext.
func (s *FileService) List(ctx context.Context, walletAddress string) ([]models.File, error) {
	return s.files().ListByWallet(ctx, walletAddress)
}

// Owner returns the owning wallet of a file id, or common.ErrNotFound.
func (s *FileService) Owner(ctx context.Context, id string) (string, error) {
	return s.files().Owner(ctx, id)
}

// GetEncrypted returns the ciphertext of an owned file.
func (s *FileService) GetEncrypted(ctx context.Context, id, walletAddress string) (string, error) {
	data, err := s.files().Encrypted(ctx, id, walletAddress)
	if err != nil {
		return "", err
	}
	// rows written while a blob store is configured keep the column empty
	if data == "" && s.blobs != nil {
		return s.blobs.Get(ctx, id)
	}
	return data, nil
}

// Update replaces ciphertext and metadata of an owned file. Returns
// common.ErrNotFound when the row does not exist for this owner.
func (s *FileService) Update(ctx context.Context, file *models.File) error {
	ciphertext := file.EncryptedData
	if s.blobs != nil {
		file.EncryptedData = ""
	}

	if err := s.files().Update(ctx, file); err != nil {
		return err
	}

	if s.blobs != nil {
		if err := s.blobs.Put(ctx, file.ID, ciphertext); err != nil {
			return err
		}
	}

	s.log.Info(ctx, "file updated", "fileId", file.ID, "wallet", file.WalletAddress)
	return nil
}

// Delete removes an owned file and its blob.
func (s *FileService) Delete(ctx context.Context, id, walletAddress string) error {
	if err := s.files().Delete(ctx, id, walletAddress); err != nil {
		return err
	}

	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, id); err != nil {
			s.log.Warn(ctx, "failed to delete blob", "fileId", id, "error", err)
		}
	}

	s.log.Info(ctx, "file deleted", "fileId", id, "wallet", walletAddress)
	return nil
}
