// Package common defines shared constants and sentinel errors used across
// client and server layers of WalletVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote file service errors, mapped from HTTP status codes.
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("already exists")
	ErrForbidden  = errors.New("forbidden")
	ErrNetwork    = errors.New("network error")

	// Crypto errors. Wrong key and corrupt ciphertext both surface as
	// ErrDecryptionFailed; AES-GCM authentication makes them
	// indistinguishable on purpose.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidKey       = errors.New("invalid encryption key")

	// Session-level errors.
	ErrNotConnected  = errors.New("no wallet connected")
	ErrNotRegistered = errors.New("wallet not registered")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
