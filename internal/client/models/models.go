// Package models defines client-side data models used by the WalletVault CLI.
package models

import "time"

// Identity is the registered profile bound to a wallet address.
// Never deleted; deactivation is the soft IsActive flag.
type Identity struct {
	WalletAddress    string   `json:"walletAddress"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	RegistrationTime int64    `json:"registrationTime"`
	IsActive         bool     `json:"isActive"`
	ReputationScore  int64    `json:"reputationScore"`
	AccessRoles      []string `json:"accessRoles"`
}

// ActivityType classifies an activity log entry.
type ActivityType string

const (
	ActivityLogin    ActivityType = "login"
	ActivityUpload   ActivityType = "upload"
	ActivityDownload ActivityType = "download"
	ActivityDelete   ActivityType = "delete"
)

// Activity is one entry in the per-identity, append-only activity log.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Details   string       `json:"details,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// FileMetadata is the plaintext descriptor that accompanies a ciphertext.
// The remote service stores it verbatim; it never includes key material.
type FileMetadata struct {
	Name         string `json:"name"`
	OriginalName string `json:"originalName,omitempty"`
	Type         string `json:"type"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"lastModified"`
}

// StoredFile describes a file persisted by the remote service. EncryptedData
// is populated only on a dedicated ciphertext fetch; list responses carry it
// empty.
type StoredFile struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Size          int64        `json:"size"`
	UploadedAt    time.Time    `json:"uploadedAt"`
	EncryptedData string       `json:"encryptedData"`
	Metadata      FileMetadata `json:"metadata"`
}

// EncryptedFile pairs a freshly produced ciphertext with its metadata before
// upload.
type EncryptedFile struct {
	EncryptedData string
	Metadata      FileMetadata
}
