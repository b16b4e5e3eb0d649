// Package api contains the file transfer client used to talk to the remote
// file service.
package api

import (
	"context"

	"github.com/dmitrijs2005/walletvault/internal/client/models"
)

// UploadRequest is the payload for a file upload. EncryptedData is the opaque
// ciphertext; the service never sees plaintext or keys.
type UploadRequest struct {
	FileID        string              `json:"fileId"`
	EncryptedData string              `json:"encryptedData"`
	Metadata      models.FileMetadata `json:"metadata"`
	WalletAddress string              `json:"walletAddress"`
}

// UpdateRequest replaces the ciphertext and metadata of an existing file.
type UpdateRequest struct {
	EncryptedData string              `json:"encryptedData"`
	Metadata      models.FileMetadata `json:"metadata"`
	WalletAddress string              `json:"walletAddress"`
}

// Client describes the remote file service operations.
//
// Errors are mapped to the common sentinels: common.ErrValidation (400),
// common.ErrForbidden (403), common.ErrNotFound (404), common.ErrConflict
// (409), and common.ErrNetwork for transport failures. No call retries
// automatically; retry policy is the caller's responsibility.
type Client interface {
	// Upload stores a new encrypted file.
	Upload(ctx context.Context, req UploadRequest) error

	// List returns metadata for all files owned by walletAddress,
	// most-recently-uploaded first. Ciphertext is never included.
	List(ctx context.Context, walletAddress string) ([]models.StoredFile, error)

	// FetchEncrypted returns the ciphertext of an owned file.
	FetchEncrypted(ctx context.Context, fileID, walletAddress string) (string, error)

	// Update replaces ciphertext and metadata of an existing owned file.
	Update(ctx context.Context, fileID string, req UpdateRequest) error

	// Delete removes an owned file.
	Delete(ctx context.Context, fileID, walletAddress string) error

	// Ping checks service liveness.
	Ping(ctx context.Context) error
}
