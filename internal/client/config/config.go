// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the WalletVault CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the remote file service.
//   - DatabaseDSN: path of the local sqlite cache database.
//   - WalletAddress: fixed wallet address (static provider).
//   - WalletPrivateKey: secp256k1 private key hex; when set it takes
//     precedence over WalletAddress and the account is derived from it.
//   - KeyDerivation: "random" (default) or "deterministic".
//   - ChainRPCEndpoint / AuthContractAddr: optional on-chain registry used by
//     the leaderboard; empty disables the feature.
//   - OnlineCheckInterval: how often the CLI pings the file service.
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	WalletAddress       string
	WalletPrivateKey    string
	KeyDerivation       string
	ChainRPCEndpoint    string
	AuthContractAddr    string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:3001"
	c.DatabaseDSN = "vault.db"
	c.KeyDerivation = "random"
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
