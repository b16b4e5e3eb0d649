package localstore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(context.Background(), db))

	return &Stores{KV: NewSQLiteKVStore(db), Blobs: NewSQLiteBlobStore(db), DB: db}
}

func TestKVStore_GetMissingReturnsNil(t *testing.T) {
	s := newTestStores(t)

	v, err := s.KV.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestKVStore_SetGetOverwrite(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.KV.Set(ctx, "user_0xabc", []byte(`{"username":"alice"}`)))

	v, err := s.KV.Get(ctx, "user_0xabc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"username":"alice"}`), v)

	require.NoError(t, s.KV.Set(ctx, "user_0xabc", []byte(`{"username":"bob"}`)))
	v, err = s.KV.Get(ctx, "user_0xabc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"username":"bob"}`), v)
}

func TestKVStore_Delete(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.KV.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.KV.Delete(ctx, "k"))

	v, err := s.KV.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	// deleting again is not an error
	require.NoError(t, s.KV.Delete(ctx, "k"))
}

func TestKVStore_ListByPrefix(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.KV.Set(ctx, "user_0xaaa", []byte("a")))
	require.NoError(t, s.KV.Set(ctx, "user_0xbbb", []byte("b")))
	require.NoError(t, s.KV.Set(ctx, "activities_0xaaa", []byte("x")))

	got, err := s.KV.List(ctx, "user_")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "user_0xaaa")
	assert.Contains(t, got, "user_0xbbb")
}

func TestBlobStore_MissingIsEmpty(t *testing.T) {
	s := newTestStores(t)

	data, err := s.Blobs.Get(context.Background(), "unknown-id")
	require.NoError(t, err)
	assert.Equal(t, "", data)
}

func TestBlobStore_PutGetDelete(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.Blobs.Put(ctx, "id-1", "ciphertext-1"))

	data, err := s.Blobs.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext-1", data)

	// replace in place
	require.NoError(t, s.Blobs.Put(ctx, "id-1", "ciphertext-2"))
	data, err = s.Blobs.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext-2", data)

	require.NoError(t, s.Blobs.Delete(ctx, "id-1"))
	data, err = s.Blobs.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "", data)
}
