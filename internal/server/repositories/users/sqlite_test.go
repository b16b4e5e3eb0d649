package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/server/migrations"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

const testWallet = "0x742d35cc6634c0532925a3b844bc9e7595f0beb1"

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	return NewSQLiteRepository(db)
}

func TestUpsertAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{
		WalletAddress: testWallet,
		Username:      "alice",
		Email:         "alice@example.com",
		CreatedAt:     time.Now(),
	}))

	user, err := repo.Get(ctx, testWallet)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUpsert_EmptyFieldsKeepExisting(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{
		WalletAddress: testWallet,
		Username:      "alice",
		CreatedAt:     time.Now(),
	}))
	require.NoError(t, repo.Upsert(ctx, &models.User{
		WalletAddress: testWallet,
		CreatedAt:     time.Now(),
	}))

	user, err := repo.Get(ctx, testWallet)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestGet_Missing(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.Get(context.Background(), "0x0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
