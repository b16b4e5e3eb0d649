// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the WalletVault file service.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP endpoint.
//   - DatabaseDriver: "sqlite" (default) or "postgres".
//   - DatabaseDSN: sqlite file path, or PostgreSQL DSN (pgx).
//   - StorageBackend: "inline" keeps ciphertext in the files table; "s3"
//     offloads it to an S3-compatible store.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	EndpointAddr   string
	DatabaseDriver string
	DatabaseDSN    string
	StorageBackend string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3001"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "walletvault.db"
	c.StorageBackend = "inline"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
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
