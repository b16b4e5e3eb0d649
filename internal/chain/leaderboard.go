package chain

import (
	"context"
	"errors"
	"math/big"
	"sort"

	"github.com/dmitrijs2005/walletvault/internal/client/localstore"
	"github.com/dmitrijs2005/walletvault/internal/client/session"
	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

// Entry is one leaderboard row.
type Entry struct {
	WalletAddress   string
	Username        string
	ReputationScore int64
	OnChain         bool
}

// Leaderboard ranks known identities by reputation. Identities come from two
// places: the local key/value store and, when a registry is configured, the
// on-chain auth contract. Local records take precedence for addresses present
// in both, since local reputation reflects activity the chain never sees.
type Leaderboard struct {
	kv       localstore.KVStore
	registry Registry
	log      logging.Logger
}

// NewLeaderboard builds a leaderboard. registry may be nil, in which case only
// local identities are ranked.
func NewLeaderboard(kv localstore.KVStore, registry Registry, log logging.Logger) *Leaderboard {
	return &Leaderboard{kv: kv, registry: registry, log: log}
}

// Top returns up to limit entries ordered by reputation, highest first.
// Entries with equal reputation are ordered by wallet address for stable
// output. limit <= 0 means no limit.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	byAddr := map[string]Entry{}

	if l.registry != nil {
		events, err := l.registry.RegistrationEvents(ctx, big.NewInt(0))
		if err != nil {
			// the chain is optional; a dead RPC endpoint must not hide
			// the local leaderboard
			l.log.Warn(ctx, "on-chain registrations unavailable", "error", err)
		} else {
			for _, ev := range events {
				profile, err := l.registry.GetUserProfile(ctx, ev.WalletAddress)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						continue
					}
					l.log.Warn(ctx, "on-chain profile unavailable", "address", ev.WalletAddress, "error", err)
					continue
				}
				byAddr[profile.WalletAddress] = Entry{
					WalletAddress:   profile.WalletAddress,
					Username:        profile.Username,
					ReputationScore: profile.ReputationScore,
					OnChain:         true,
				}
			}
		}
	}

	local, err := session.LocalIdentities(ctx, l.kv)
	if err != nil {
		return nil, err
	}
	for _, identity := range local {
		addr := wallet.Normalize(identity.WalletAddress)
		byAddr[addr] = Entry{
			WalletAddress:   addr,
			Username:        identity.Username,
			ReputationScore: identity.ReputationScore,
			OnChain:         byAddr[addr].OnChain,
		}
	}

	entries := make([]Entry, 0, len(byAddr))
	for _, e := range byAddr {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ReputationScore != entries[j].ReputationScore {
			return entries[i].ReputationScore > entries[j].ReputationScore
		}
		return entries[i].WalletAddress < entries[j].WalletAddress
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
