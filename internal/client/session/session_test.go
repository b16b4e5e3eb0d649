package session

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/client/localstore"
	"github.com/dmitrijs2005/walletvault/internal/client/models"
	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/cryptox"
	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

const testAccount = "0x742d35cc6634c0532925a3b844bc9e7595f0beb1"

type fakeProvider struct {
	accounts []string
	err      error
}

func (p *fakeProvider) Accounts(ctx context.Context) ([]string, error) {
	return p.accounts, p.err
}

func testKV(t *testing.T) localstore.KVStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, localstore.RunMigrations(context.Background(), db))
	return localstore.NewSQLiteKVStore(db)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestManager(t *testing.T, kd KeyDerivation) (*Manager, localstore.KVStore) {
	t.Helper()
	kv := testKV(t)
	// provider hands out a checksummed address; the manager must normalize
	p := &fakeProvider{accounts: []string{"0x742D35Cc6634C0532925a3b844Bc9e7595f0bEb1"}}
	return NewManager(p, kv, testLogger(), kd), kv
}

func TestManager_InitialState(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	assert.Equal(t, StateDisconnected, m.State())
	assert.Empty(t, m.Account())
	assert.Nil(t, m.Profile())
}

func TestManager_ConnectUnregistered(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, StateConnectedUnregistered, m.State())
	assert.Equal(t, testAccount, m.Account())
	assert.Empty(t, m.Key())
}

func TestManager_ConnectProviderFailure(t *testing.T) {
	kv := testKV(t)
	m := NewManager(&fakeProvider{err: errors.New("locked")}, kv, testLogger(), KeyRandom)

	assert.Error(t, m.Connect(context.Background()))
	assert.Equal(t, StateDisconnected, m.State())
}

func TestManager_RegisterRequiresConnection(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)

	_, err := m.Register(context.Background(), "alice", "alice@example.com", nil)
	assert.ErrorIs(t, err, common.ErrNotConnected)
}

func TestManager_RegisterIssuesKeyAndProfile(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	key, err := m.Register(ctx, "alice", "alice@example.com", nil)
	require.NoError(t, err)

	assert.Len(t, key, cryptox.KeyHexLength)
	assert.Equal(t, StateConnectedRegistered, m.State())
	assert.Equal(t, key, m.Key())

	profile := m.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, testAccount, profile.WalletAddress)
	assert.True(t, profile.IsActive)
	// registration emits a login activity, which bumps reputation
	assert.EqualValues(t, 10, profile.ReputationScore)

	activities, err := m.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityLogin, activities[0].Type)
}

func TestManager_RegisterTwiceConflicts(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	_, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	_, err = m.Register(ctx, "alice2", "", nil)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestManager_DeterministicKey(t *testing.T) {
	m, _ := newTestManager(t, KeyDeterministic)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	key, err := m.Register(ctx, "alice", "", []byte("passphrase"))
	require.NoError(t, err)

	expected := cryptox.DeriveDeterministicKey(testAccount, []byte("passphrase"))
	assert.Equal(t, expected, key)
}

func TestManager_DeterministicKeyRequiresPassphrase(t *testing.T) {
	m, _ := newTestManager(t, KeyDeterministic)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	_, err := m.Register(ctx, "alice", "", nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestManager_DisconnectIsLogoutNotDeletion(t *testing.T) {
	m, kv := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	key, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	m.Disconnect()
	assert.Equal(t, StateDisconnected, m.State())
	assert.Empty(t, m.Key())
	assert.Nil(t, m.Profile())

	// a new manager over the same store reconnects straight to registered
	p := &fakeProvider{accounts: []string{testAccount}}
	m2 := NewManager(p, kv, testLogger(), KeyRandom)
	require.NoError(t, m2.Connect(ctx))
	assert.Equal(t, StateConnectedRegistered, m2.State())
	assert.Equal(t, key, m2.Key())
	assert.Equal(t, "alice", m2.Profile().Username)
}

func TestManager_ActivityCapAndReputation(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	_, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	startScore := m.Profile().ReputationScore

	const extra = 120
	for i := 0; i < extra; i++ {
		require.NoError(t, m.RecordActivity(ctx, models.ActivityUpload, "file"))
	}

	activities, err := m.RecentActivities(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, activities, 100, "activity log must be capped at 100")

	// newest first
	assert.Equal(t, models.ActivityUpload, activities[0].Type)

	// every activity is also a reputation event, even the truncated ones
	assert.EqualValues(t, startScore+extra*10, m.Profile().ReputationScore)
}

func TestManager_RecentActivitiesLimit(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	_, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.RecordActivity(ctx, models.ActivityDownload, "f"))
	}

	activities, err := m.RecentActivities(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, activities, 3)
}

func TestManager_DuplicateUsernamesAllowedLocally(t *testing.T) {
	// Two wallets may register the same username: uniqueness is enforced
	// only by the optional on-chain registry. Pinned so a future change is
	// deliberate.
	kv := testKV(t)
	ctx := context.Background()

	other := "0x0000000000000000000000000000000000000123"

	m1 := NewManager(&fakeProvider{accounts: []string{testAccount}}, kv, testLogger(), KeyRandom)
	require.NoError(t, m1.Connect(ctx))
	_, err := m1.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	m2 := NewManager(&fakeProvider{accounts: []string{other}}, kv, testLogger(), KeyRandom)
	require.NoError(t, m2.Connect(ctx))
	_, err = m2.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	identities, err := LocalIdentities(ctx, kv)
	require.NoError(t, err)
	assert.Len(t, identities, 2)
}

func TestManager_UpdateUsername(t *testing.T) {
	m, kv := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	_, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	require.NoError(t, m.UpdateUsername(ctx, "alice-renamed"))
	assert.Equal(t, "alice-renamed", m.Profile().Username)

	// persisted too
	identities, err := LocalIdentities(ctx, kv)
	require.NoError(t, err)
	require.Len(t, identities, 1)
	assert.Equal(t, "alice-renamed", identities[0].Username)
}

func TestManager_ValidateKey(t *testing.T) {
	m, _ := newTestManager(t, KeyRandom)
	ctx := context.Background()

	require.NoError(t, m.Connect(ctx))
	key, err := m.Register(ctx, "alice", "", nil)
	require.NoError(t, err)

	assert.True(t, m.ValidateKey(key))
	assert.False(t, m.ValidateKey("wrong"))
	assert.False(t, m.ValidateKey(""))
}

func TestNormalizeAgreesWithProvider(t *testing.T) {
	// sanity: provider addresses and session accounts share one normal form
	assert.Equal(t, testAccount, wallet.Normalize(" 0x742D35Cc6634C0532925a3b844Bc9e7595f0bEb1 "))
}
