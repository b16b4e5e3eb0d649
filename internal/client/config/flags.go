package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/walletvault/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   file service base URL (e.g., "http://localhost:3001")
//	-d string   local cache database path
//	-w string   wallet address (static provider)
//	-k string   wallet private key hex (derives the account)
//	-m string   key derivation mode: "random" or "deterministic"
//	-r string   chain RPC endpoint (leaderboard)
//	-t string   auth registry contract address (leaderboard)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-w", "-k", "-m", "-r", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "s", config.ServerEndpointAddr, "file service base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "local cache database path")
	fs.StringVar(&config.WalletAddress, "w", config.WalletAddress, "wallet address")
	fs.StringVar(&config.WalletPrivateKey, "k", config.WalletPrivateKey, "wallet private key hex")
	fs.StringVar(&config.KeyDerivation, "m", config.KeyDerivation, "key derivation mode")
	fs.StringVar(&config.ChainRPCEndpoint, "r", config.ChainRPCEndpoint, "chain RPC endpoint")
	fs.StringVar(&config.AuthContractAddr, "t", config.AuthContractAddr, "auth registry contract address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
