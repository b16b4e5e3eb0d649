package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/walletvault/internal/client/session"
	"github.com/dmitrijs2005/walletvault/internal/common"
)

// getSimpleText and getKey are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getKey = GetKey

// Connect resolves the configured wallet's account and loads any previously
// registered identity for it.
func (a *App) Connect(ctx context.Context) error {
	if err := a.session.Connect(ctx); err != nil {
		fmt.Println("Connect failed:", err.Error())
		return err
	}

	fmt.Println("Connected wallet", a.session.Account())
	if a.session.State() == session.StateConnectedUnregistered {
		fmt.Println("No identity for this wallet yet; run 'register' to create one.")
	} else if p := a.session.Profile(); p != nil {
		fmt.Printf("Welcome back, %s (reputation %d)\n", p.Username, p.ReputationScore)
	}
	return nil
}

// Register prompts for a username and email and creates the identity for the
// connected wallet. The issued encryption key is printed exactly once; it is
// never shown again, so the user must save it.
//
// In deterministic key-derivation mode the user supplies a passphrase instead
// and the key is derived from it and the wallet address.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	var passphrase []byte
	if session.KeyDerivation(a.config.KeyDerivation) == session.KeyDeterministic {
		passphrase, err = getKey("Enter passphrase", os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(passphrase)
	}

	key, err := a.session.Register(ctx, username, email, passphrase)
	if err != nil {
		fmt.Println("Registration failed:", err.Error())
		return err
	}

	fmt.Println("Identity created. Your encryption key (save it now, it will not be shown again):")
	fmt.Println(key)
	return nil
}

// Disconnect clears the in-memory session. Persisted identity, key, and
// activity log stay on disk for the next connect.
func (a *App) Disconnect(ctx context.Context) error {
	a.session.Disconnect()
	fmt.Println("Disconnected.")
	return nil
}

// WhoAmI prints the identity profile of the connected wallet.
func (a *App) WhoAmI(ctx context.Context) error {
	p := a.session.Profile()
	if p == nil {
		fmt.Println("Not registered.")
		return common.ErrNotRegistered
	}

	fmt.Println("Wallet:     ", p.WalletAddress)
	fmt.Println("Username:   ", p.Username)
	if p.Email != "" {
		fmt.Println("Email:      ", p.Email)
	}
	fmt.Println("Reputation: ", p.ReputationScore)
	fmt.Println("Roles:      ", strings.Join(p.AccessRoles, ", "))
	return nil
}
