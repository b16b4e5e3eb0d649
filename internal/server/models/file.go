// Package models defines database records for the file service.
package models

import "time"

// File is a stored encrypted file row. EncryptedData is the opaque ciphertext
// as produced by the client; the service never inspects it. When an external
// blob store is configured the column is empty and the ciphertext lives under
// the file's id in the store.
type File struct {
	ID            string
	WalletAddress string
	EncryptedData string
	Name          string
	Type          string
	Size          int64
	UploadedAt    time.Time
	Metadata      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
