// Package localstore is the client's local persistence adapter. It keeps two
// stores in one sqlite database:
//
//   - a key-value store for small JSON-serializable records (identity,
//     encryption key, activity log), scoped per wallet via key prefixes such
//     as "user_<addr>";
//   - a blob store for ciphertext payloads keyed by file id.
//
// There are no transactional guarantees across the two stores. A crash
// between writing metadata and writing a blob is possible; callers treat a
// missing blob as "not cached" and fall back to the remote copy.
package localstore

import "context"

// KVStore holds small JSON-serializable records.
type KVStore interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all pairs whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// BlobStore caches ciphertext payloads by file id.
type BlobStore interface {
	// Put inserts or replaces the ciphertext for a file id.
	Put(ctx context.Context, id string, encryptedData string) error

	// Get returns the cached ciphertext, or "" if the id is not cached.
	Get(ctx context.Context, id string) (string, error)

	// Delete drops the cached ciphertext for a file id.
	Delete(ctx context.Context, id string) error
}
