package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/walletvault/internal/flagx"
	"github.com/dmitrijs2005/walletvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	WalletAddress       string         `json:"wallet_address"`
	WalletPrivateKey    string         `json:"wallet_private_key"`
	KeyDerivation       string         `json:"key_derivation"`
	ChainRPCEndpoint    string         `json:"chain_rpc_endpoint"`
	AuthContractAddr    string         `json:"auth_contract_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.WalletAddress != "" {
		config.WalletAddress = c.WalletAddress
	}
	if c.WalletPrivateKey != "" {
		config.WalletPrivateKey = c.WalletPrivateKey
	}
	if c.KeyDerivation != "" {
		config.KeyDerivation = c.KeyDerivation
	}
	if c.ChainRPCEndpoint != "" {
		config.ChainRPCEndpoint = c.ChainRPCEndpoint
	}
	if c.AuthContractAddr != "" {
		config.AuthContractAddr = c.AuthContractAddr
	}
	if c.OnlineCheckInterval.Duration != 0 {
		config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
	}
}
