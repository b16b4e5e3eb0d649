// Package blobstore holds ciphertext blobs outside the relational database.
// The default deployment keeps ciphertext inline in the files table; an
// S3-compatible backend can be configured for large deployments.
package blobstore

import "context"

// Store is the external ciphertext store, keyed by file id.
type Store interface {
	Put(ctx context.Context, key string, data string) error

	// Get returns the blob for key, or common.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	Delete(ctx context.Context, key string) error
}
