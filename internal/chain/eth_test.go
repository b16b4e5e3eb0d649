package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

const (
	testContract = "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	testUser     = "0x742d35cc6634c0532925a3b844bc9e7595f0beb1"
)

type fakeBackend struct {
	callResult []byte
	callErr    error
	lastCall   ethereum.CallMsg

	logs      []types.Log
	filterErr error
	lastQuery ethereum.FilterQuery
}

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.lastCall = call
	return b.callResult, b.callErr
}

func (b *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	b.lastQuery = q
	return b.logs, b.filterErr
}

func packProfile(t *testing.T, r *EthRegistry, p rawProfile) []byte {
	t.Helper()
	out, err := r.abi.Methods["getUserProfile"].Outputs.Pack(p)
	require.NoError(t, err)
	return out
}

func TestNewEthRegistry_InvalidContract(t *testing.T) {
	_, err := NewEthRegistry(&fakeBackend{}, "not-an-address")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetUserProfile(t *testing.T) {
	backend := &fakeBackend{}
	reg, err := NewEthRegistry(backend, testContract)
	require.NoError(t, err)

	backend.callResult = packProfile(t, reg, rawProfile{
		WalletAddress:    ethcommon.HexToAddress(testUser),
		Username:         "alice",
		Email:            "alice@example.com",
		RegistrationTime: big.NewInt(1700000000),
		IsActive:         true,
		ReputationScore:  big.NewInt(140),
		AccessRoles:      []string{"user"},
	})

	profile, err := reg.GetUserProfile(context.Background(), "0x742D35Cc6634C0532925a3b844Bc9e7595f0bEb1")
	require.NoError(t, err)

	assert.Equal(t, testUser, profile.WalletAddress)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, int64(1700000000), profile.RegistrationTime)
	assert.True(t, profile.IsActive)
	assert.Equal(t, int64(140), profile.ReputationScore)
	assert.Equal(t, []string{"user"}, profile.AccessRoles)

	assert.Equal(t, ethcommon.HexToAddress(testContract), *backend.lastCall.To)
}

func TestGetUserProfile_Unregistered(t *testing.T) {
	backend := &fakeBackend{}
	reg, err := NewEthRegistry(backend, testContract)
	require.NoError(t, err)

	backend.callResult = packProfile(t, reg, rawProfile{
		RegistrationTime: big.NewInt(0),
		ReputationScore:  big.NewInt(0),
		AccessRoles:      []string{},
	})

	_, err = reg.GetUserProfile(context.Background(), testUser)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetUserProfile_InvalidAddress(t *testing.T) {
	reg, err := NewEthRegistry(&fakeBackend{}, testContract)
	require.NoError(t, err)

	_, err = reg.GetUserProfile(context.Background(), "bogus")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetUserProfile_CallError(t *testing.T) {
	backend := &fakeBackend{callErr: errors.New("connection refused")}
	reg, err := NewEthRegistry(backend, testContract)
	require.NoError(t, err)

	_, err = reg.GetUserProfile(context.Background(), testUser)
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestRegistrationEvents(t *testing.T) {
	backend := &fakeBackend{}
	reg, err := NewEthRegistry(backend, testContract)
	require.NoError(t, err)

	event := reg.abi.Events["UserRegistered"]
	data, err := event.Inputs.NonIndexed().Pack("alice", "alice@example.com")
	require.NoError(t, err)

	backend.logs = []types.Log{{
		Topics: []ethcommon.Hash{
			event.ID,
			ethcommon.BytesToHash(ethcommon.HexToAddress(testUser).Bytes()),
		},
		Data:        data,
		BlockNumber: 42,
	}}

	events, err := reg.RegistrationEvents(context.Background(), big.NewInt(0))
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, testUser, events[0].WalletAddress)
	assert.Equal(t, "alice", events[0].Username)
	assert.Equal(t, "alice@example.com", events[0].Email)
	assert.Equal(t, uint64(42), events[0].BlockNumber)

	// the query must be scoped to the contract and the event signature
	assert.Equal(t, []ethcommon.Address{ethcommon.HexToAddress(testContract)}, backend.lastQuery.Addresses)
	require.Len(t, backend.lastQuery.Topics, 1)
	assert.Equal(t, []ethcommon.Hash{event.ID}, backend.lastQuery.Topics[0])
}

func TestRegistrationEvents_FilterError(t *testing.T) {
	backend := &fakeBackend{filterErr: errors.New("rpc timeout")}
	reg, err := NewEthRegistry(backend, testContract)
	require.NoError(t, err)

	_, err = reg.RegistrationEvents(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrNetwork)
}
