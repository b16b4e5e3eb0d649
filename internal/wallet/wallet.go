// Package wallet handles Ethereum-style wallet addresses: normalization,
// format validation, and providers that resolve the current account.
//
// The normalized (trimmed, lowercased) address is the sole tenant and
// ownership key in the whole system, so every component normalizes before
// comparing or storing.
package wallet

import (
	"context"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

// AddressLength is the length of a 0x-prefixed hex address string.
const AddressLength = 42

// Normalize trims and lowercases an address. Idempotent.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsValid reports whether addr is a 0x-prefixed 20-byte hex address.
func IsValid(addr string) bool {
	addr = strings.TrimSpace(addr)
	if len(addr) != AddressLength || !strings.HasPrefix(addr, "0x") {
		return false
	}
	return ethcommon.IsHexAddress(addr)
}

// Provider exposes the accounts of an opaque wallet. It is the stand-in for
// a browser wallet extension: the application only ever asks for the current
// account and never sees key material beyond what the provider chooses to
// hold.
type Provider interface {
	// Accounts returns the provider's accounts, current account first.
	Accounts(ctx context.Context) ([]string, error)
}

// StaticProvider serves a fixed, preconfigured address.
type StaticProvider struct {
	address string
}

func NewStaticProvider(address string) (*StaticProvider, error) {
	if !IsValid(address) {
		return nil, fmt.Errorf("%w: invalid wallet address %q", common.ErrValidation, address)
	}
	return &StaticProvider{address: Normalize(address)}, nil
}

func (p *StaticProvider) Accounts(ctx context.Context) ([]string, error) {
	return []string{p.address}, nil
}

// KeyProvider derives its single account from a secp256k1 private key,
// the same way an in-process signer would.
type KeyProvider struct {
	address string
}

func NewKeyProvider(privateKeyHex string) (*KeyProvider, error) {
	priv, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad private key: %v", common.ErrValidation, err)
	}
	addr := ethcrypto.PubkeyToAddress(priv.PublicKey)
	return &KeyProvider{address: Normalize(addr.Hex())}, nil
}

func (p *KeyProvider) Accounts(ctx context.Context) ([]string, error) {
	return []string{p.address}, nil
}
