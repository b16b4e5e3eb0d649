// Package chain reads the optional on-chain auth registry. The contract is
// consumed through a typed interface with the small fixed set of methods the
// application actually uses, not a general contract-binding layer.
package chain

import (
	"context"
	"math/big"
)

// UserProfile is the on-chain identity record.
type UserProfile struct {
	WalletAddress    string
	Username         string
	Email            string
	RegistrationTime int64
	IsActive         bool
	ReputationScore  int64
	AccessRoles      []string
}

// Registration is one UserRegistered event occurrence.
type Registration struct {
	WalletAddress string
	Username      string
	Email         string
	BlockNumber   uint64
}

// Registry is the read interface over the auth contract.
type Registry interface {
	// GetUserProfile returns the profile registered for addr, or
	// common.ErrNotFound if the address never registered on-chain.
	GetUserProfile(ctx context.Context, addr string) (*UserProfile, error)

	// RegistrationEvents returns UserRegistered events from fromBlock
	// (inclusive) to the latest block.
	RegistrationEvents(ctx context.Context, fromBlock *big.Int) ([]Registration, error)
}
