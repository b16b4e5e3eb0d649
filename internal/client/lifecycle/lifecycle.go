// Package lifecycle orchestrates the encrypted file lifecycle: upload,
// listing, download, modification, and deletion against the remote file
// service.
//
// Every operation requires a connected, registered session and validates the
// caller-supplied key against the session's stored key before doing any work.
// That check is a courtesy to the user, not access control: the remote
// service enforces ownership by wallet address, and confidentiality rests on
// AES secrecy of the key alone.
//
// Nothing here retries. Upload, Modify, and Delete are not safely retryable
// without an idempotency token beyond the file id; failures propagate to the
// caller for manual action.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/walletvault/internal/client/api"
	"github.com/dmitrijs2005/walletvault/internal/client/localstore"
	"github.com/dmitrijs2005/walletvault/internal/client/models"
	"github.com/dmitrijs2005/walletvault/internal/client/session"
	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/cryptox"
	"github.com/dmitrijs2005/walletvault/internal/logging"
)

// Service is the file lifecycle controller.
type Service struct {
	session *session.Manager
	client  api.Client
	blobs   localstore.BlobStore
	log     logging.Logger
}

func NewService(sess *session.Manager, client api.Client, blobs localstore.BlobStore, log logging.Logger) *Service {
	return &Service{session: sess, client: client, blobs: blobs, log: log}
}

// requireKey checks session state and the supplied key.
func (s *Service) requireKey(key string) error {
	if s.session.State() != session.StateConnectedRegistered {
		return common.ErrNotRegistered
	}
	if !s.session.ValidateKey(key) {
		return fmt.Errorf("%w: key does not match the one issued at registration", common.ErrInvalidKey)
	}
	return nil
}

// Upload encrypts data locally and stores the ciphertext remotely under a
// fresh UUID. The returned descriptor carries metadata only; ciphertext is
// never held in it after a successful upload.
func (s *Service) Upload(ctx context.Context, name, mimeType string, data []byte, key string) (*models.StoredFile, error) {
	if err := s.requireKey(key); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}

	ciphertext, err := cryptox.Encrypt(data, key)
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", name, err)
	}

	now := time.Now()
	metadata := models.FileMetadata{
		Name:         name,
		OriginalName: name,
		Type:         mimeType,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		LastModified: now.UnixMilli(),
	}

	fileID := uuid.NewString()
	err = s.client.Upload(ctx, api.UploadRequest{
		FileID:        fileID,
		EncryptedData: ciphertext,
		Metadata:      metadata,
		WalletAddress: s.session.Account(),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}

	// cache is best-effort; the server copy is authoritative
	if err := s.blobs.Put(ctx, fileID, ciphertext); err != nil {
		s.log.Warn(ctx, "failed to cache ciphertext", "fileId", fileID, "error", err)
	}

	if err := s.session.RecordActivity(ctx, models.ActivityUpload, name); err != nil {
		s.log.Warn(ctx, "failed to record upload activity", "error", err)
	}

	return &models.StoredFile{
		ID:         fileID,
		Name:       name,
		Type:       mimeType,
		Size:       int64(len(data)),
		UploadedAt: now,
		Metadata:   metadata,
	}, nil
}

// List returns metadata for all of the identity's files, newest first.
func (s *Service) List(ctx context.Context) ([]models.StoredFile, error) {
	if s.session.State() != session.StateConnectedRegistered {
		return nil, common.ErrNotRegistered
	}
	files, err := s.client.List(ctx, s.session.Account())
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Download fetches the ciphertext of an owned file and decrypts it locally.
// The plaintext never leaves this process.
func (s *Service) Download(ctx context.Context, fileID, key string) (*models.StoredFile, []byte, error) {
	if err := s.requireKey(key); err != nil {
		return nil, nil, err
	}

	file, err := s.find(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := s.client.FetchEncrypted(ctx, fileID, s.session.Account())
	if err != nil {
		return nil, nil, fmt.Errorf("fetching ciphertext: %w", err)
	}

	if err := s.blobs.Put(ctx, fileID, ciphertext); err != nil {
		s.log.Warn(ctx, "failed to cache ciphertext", "fileId", fileID, "error", err)
	}

	plaintext, err := cryptox.Decrypt(ciphertext, key)
	if err != nil {
		return nil, nil, err
	}

	if err := s.session.RecordActivity(ctx, models.ActivityDownload, file.Name); err != nil {
		s.log.Warn(ctx, "failed to record download activity", "error", err)
	}
	return file, plaintext, nil
}

// Modify replaces the content of an existing file. Modification is a content
// replacement, not a rename: the replacement must carry the same name and
// mime type as the stored record.
func (s *Service) Modify(ctx context.Context, fileID, name, mimeType string, data []byte, key string) (*models.StoredFile, error) {
	if err := s.requireKey(key); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if existing.Name != name || existing.Type != mimeType {
		return nil, fmt.Errorf("%w: replacement must match name %q and type %q",
			common.ErrValidation, existing.Name, existing.Type)
	}

	ciphertext, err := cryptox.Encrypt(data, key)
	if err != nil {
		return nil, fmt.Errorf("encrypting %s: %w", name, err)
	}

	now := time.Now()
	metadata := models.FileMetadata{
		Name:         name,
		OriginalName: name,
		Type:         mimeType,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		LastModified: now.UnixMilli(),
	}

	err = s.client.Update(ctx, fileID, api.UpdateRequest{
		EncryptedData: ciphertext,
		Metadata:      metadata,
		WalletAddress: s.session.Account(),
	})
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", name, err)
	}

	if err := s.blobs.Put(ctx, fileID, ciphertext); err != nil {
		s.log.Warn(ctx, "failed to cache ciphertext", "fileId", fileID, "error", err)
	}

	if err := s.session.RecordActivity(ctx, models.ActivityUpload, "modified "+name); err != nil {
		s.log.Warn(ctx, "failed to record modify activity", "error", err)
	}

	return &models.StoredFile{
		ID:         fileID,
		Name:       name,
		Type:       mimeType,
		Size:       int64(len(data)),
		UploadedAt: now,
		Metadata:   metadata,
	}, nil
}

// Delete removes an owned file from the remote service. The CLI prompts for
// the key a second time before calling this; the controller re-validates it
// regardless.
func (s *Service) Delete(ctx context.Context, fileID, key string) error {
	if err := s.requireKey(key); err != nil {
		return err
	}

	// name only matters for the activity log
	name := fileID
	if file, err := s.find(ctx, fileID); err == nil {
		name = file.Name
	}

	if err := s.client.Delete(ctx, fileID, s.session.Account()); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}

	if err := s.blobs.Delete(ctx, fileID); err != nil {
		s.log.Warn(ctx, "failed to drop cached ciphertext", "fileId", fileID, "error", err)
	}

	if err := s.session.RecordActivity(ctx, models.ActivityDelete, name); err != nil {
		s.log.Warn(ctx, "failed to record delete activity", "error", err)
	}
	return nil
}

// find resolves a file's metadata from the remote listing.
func (s *Service) find(ctx context.Context, fileID string) (*models.StoredFile, error) {
	files, err := s.client.List(ctx, s.session.Account())
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	for i := range files {
		if files[i].ID == fileID {
			return &files[i], nil
		}
	}
	return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, fileID)
}
