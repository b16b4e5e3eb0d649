// Package session manages the wallet session: connection state, identity
// registration, encryption key issuance, and the per-identity activity log.
//
// The manager is an explicit object with a create-on-connect /
// destroy-on-disconnect lifecycle; nothing here is global. It is not safe for
// concurrent use: the CLI drives it from a single goroutine, mirroring the
// single-threaded event flow of the original dashboard.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/walletvault/internal/client/localstore"
	"github.com/dmitrijs2005/walletvault/internal/client/models"
	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/cryptox"
	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

// State is the wallet connection state.
type State string

const (
	StateDisconnected          State = "disconnected"
	StateConnecting            State = "connecting"
	StateConnectedUnregistered State = "connected-unregistered"
	StateConnectedRegistered   State = "connected-registered"
)

// KeyDerivation selects how Register obtains the identity's encryption key.
type KeyDerivation string

const (
	// KeyRandom issues a fresh random 256-bit key (default).
	KeyRandom KeyDerivation = "random"
	// KeyDeterministic derives the key from the wallet address and a
	// passphrase, so the same inputs always recreate it.
	KeyDeterministic KeyDerivation = "deterministic"
)

const (
	// maxActivities caps the per-identity activity log.
	maxActivities = 100

	// reputationPerActivity is added on every recorded activity. The
	// coupling of activity and reputation is deliberate: every activity
	// record is also a reputation-earning event.
	reputationPerActivity = 10
)

// local store key prefixes, one namespace per wallet address
const (
	userKeyPrefix       = "user_"
	encryptionKeyPrefix = "encryption_key_"
	activitiesKeyPrefix = "activities_"
)

// Manager owns the wallet session and all identity-scoped local records.
type Manager struct {
	provider      wallet.Provider
	kv            localstore.KVStore
	log           logging.Logger
	keyDerivation KeyDerivation

	state   State
	account string
	profile *models.Identity
	key     string
}

func NewManager(provider wallet.Provider, kv localstore.KVStore, log logging.Logger, kd KeyDerivation) *Manager {
	if kd == "" {
		kd = KeyRandom
	}
	return &Manager{
		provider:      provider,
		kv:            kv,
		log:           log,
		keyDerivation: kd,
		state:         StateDisconnected,
	}
}

func (m *Manager) State() State { return m.state }

// Account returns the normalized address of the connected wallet, or "".
func (m *Manager) Account() string { return m.account }

// Profile returns the loaded identity, or nil when unregistered.
func (m *Manager) Profile() *models.Identity { return m.profile }

// Key returns the in-memory encryption key, or "" when unregistered.
func (m *Manager) Key() string { return m.key }

// ValidateKey reports whether candidate matches the session's stored key.
func (m *Manager) ValidateKey(candidate string) bool {
	return cryptox.ValidateKey(candidate, m.key)
}

// Connect resolves the current account from the wallet provider and loads the
// persisted identity and key if this wallet registered before. A successful
// reconnect of a registered wallet records a login activity.
func (m *Manager) Connect(ctx context.Context) error {
	m.state = StateConnecting

	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		m.state = StateDisconnected
		return fmt.Errorf("wallet provider: %w", err)
	}
	if len(accounts) == 0 {
		m.state = StateDisconnected
		return fmt.Errorf("%w: provider returned no accounts", common.ErrNotConnected)
	}

	account := wallet.Normalize(accounts[0])
	if !wallet.IsValid(account) {
		m.state = StateDisconnected
		return fmt.Errorf("%w: malformed account %q", common.ErrValidation, account)
	}
	m.account = account

	raw, err := m.kv.Get(ctx, userKeyPrefix+account)
	if err != nil {
		m.state = StateDisconnected
		return fmt.Errorf("loading identity: %w", err)
	}
	if raw == nil {
		m.state = StateConnectedUnregistered
		m.log.Info(ctx, "wallet connected, not registered", "account", account)
		return nil
	}

	var profile models.Identity
	if err := json.Unmarshal(raw, &profile); err != nil {
		m.state = StateDisconnected
		return fmt.Errorf("corrupt identity record: %w", err)
	}

	key, err := m.kv.Get(ctx, encryptionKeyPrefix+account)
	if err != nil {
		m.state = StateDisconnected
		return fmt.Errorf("loading encryption key: %w", err)
	}

	m.profile = &profile
	m.key = string(key)
	m.state = StateConnectedRegistered
	m.log.Info(ctx, "wallet connected", "account", account, "username", profile.Username)

	if err := m.RecordActivity(ctx, models.ActivityLogin, ""); err != nil {
		m.log.Warn(ctx, "failed to record login activity", "error", err)
	}
	return nil
}

// Register creates the identity for the connected wallet and issues its
// encryption key. The returned key is shown to the user exactly once; it is
// also persisted locally and loaded into the session.
//
// passphrase is only consulted in deterministic key-derivation mode.
//
// Duplicate usernames are NOT checked locally; only the optional on-chain
// registry enforces uniqueness. Two local identities may share a username.
func (m *Manager) Register(ctx context.Context, username, email string, passphrase []byte) (string, error) {
	switch m.state {
	case StateDisconnected, StateConnecting:
		return "", common.ErrNotConnected
	case StateConnectedRegistered:
		return "", fmt.Errorf("%w: wallet %s already registered", common.ErrConflict, m.account)
	}

	if username == "" {
		return "", fmt.Errorf("%w: username is required", common.ErrValidation)
	}

	var key string
	switch m.keyDerivation {
	case KeyDeterministic:
		if len(passphrase) == 0 {
			return "", fmt.Errorf("%w: passphrase required for deterministic key", common.ErrValidation)
		}
		key = cryptox.DeriveDeterministicKey(m.account, passphrase)
	default:
		var err error
		key, err = cryptox.GenerateKey()
		if err != nil {
			return "", fmt.Errorf("generating key: %w", err)
		}
	}

	profile := &models.Identity{
		WalletAddress:    m.account,
		Username:         username,
		Email:            email,
		RegistrationTime: time.Now().Unix(),
		IsActive:         true,
		ReputationScore:  0,
		AccessRoles:      []string{"user"},
	}

	if err := m.saveProfile(ctx, profile); err != nil {
		return "", err
	}
	if err := m.kv.Set(ctx, encryptionKeyPrefix+m.account, []byte(key)); err != nil {
		return "", fmt.Errorf("persisting key: %w", err)
	}

	m.profile = profile
	m.key = key
	m.state = StateConnectedRegistered
	m.log.Info(ctx, "wallet registered", "account", m.account, "username", username)

	if err := m.RecordActivity(ctx, models.ActivityLogin, "registered"); err != nil {
		m.log.Warn(ctx, "failed to record registration activity", "error", err)
	}
	return key, nil
}

// Disconnect clears the in-memory session only. Persisted identity, key, and
// activity log survive for future reconnects: this is a logout, not an
// account deletion.
func (m *Manager) Disconnect() {
	m.state = StateDisconnected
	m.account = ""
	m.profile = nil
	m.key = ""
}

// RecordActivity prepends an entry to the activity log, truncates the log to
// the most recent 100 entries, and bumps the identity's reputation score.
func (m *Manager) RecordActivity(ctx context.Context, typ models.ActivityType, details string) error {
	if m.state != StateConnectedRegistered {
		return common.ErrNotRegistered
	}

	activities, err := m.loadActivities(ctx)
	if err != nil {
		return err
	}

	entry := models.Activity{
		ID:        uuid.NewString(),
		Type:      typ,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	activities = append([]models.Activity{entry}, activities...)
	if len(activities) > maxActivities {
		activities = activities[:maxActivities]
	}

	if err := m.saveActivities(ctx, activities); err != nil {
		return err
	}

	m.profile.ReputationScore += reputationPerActivity
	return m.saveProfile(ctx, m.profile)
}

// RecentActivities returns up to limit most-recent activities; limit <= 0
// means all.
func (m *Manager) RecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if m.state != StateConnectedRegistered {
		return nil, common.ErrNotRegistered
	}
	activities, err := m.loadActivities(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// UpdateUsername renames the identity. Uniqueness is not checked locally.
func (m *Manager) UpdateUsername(ctx context.Context, newUsername string) error {
	if m.state != StateConnectedRegistered {
		return common.ErrNotRegistered
	}
	if newUsername == "" {
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	m.profile.Username = newUsername
	return m.saveProfile(ctx, m.profile)
}

func (m *Manager) saveProfile(ctx context.Context, profile *models.Identity) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := m.kv.Set(ctx, userKeyPrefix+m.account, raw); err != nil {
		return fmt.Errorf("persisting identity: %w", err)
	}
	return nil
}

func (m *Manager) loadActivities(ctx context.Context) ([]models.Activity, error) {
	raw, err := m.kv.Get(ctx, activitiesKeyPrefix+m.account)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var activities []models.Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("corrupt activity log: %w", err)
	}
	return activities, nil
}

func (m *Manager) saveActivities(ctx context.Context, activities []models.Activity) error {
	raw, err := json.Marshal(activities)
	if err != nil {
		return err
	}
	if err := m.kv.Set(ctx, activitiesKeyPrefix+m.account, raw); err != nil {
		return fmt.Errorf("persisting activities: %w", err)
	}
	return nil
}

// LocalIdentities scans the KV store for every locally registered identity.
// Used by the leaderboard to merge local and on-chain profiles.
func LocalIdentities(ctx context.Context, kv localstore.KVStore) ([]models.Identity, error) {
	raw, err := kv.List(ctx, userKeyPrefix)
	if err != nil {
		return nil, err
	}
	result := make([]models.Identity, 0, len(raw))
	for key, value := range raw {
		var identity models.Identity
		if err := json.Unmarshal(value, &identity); err != nil {
			return nil, fmt.Errorf("corrupt identity record %s: %w", key, err)
		}
		result = append(result, identity)
	}
	return result, nil
}
