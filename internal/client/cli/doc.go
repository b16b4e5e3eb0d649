// Package cli provides the interactive WalletVault command-line client.
//
// It wires configuration, the local sqlite cache, the file service API client,
// and an interactive REPL driven by the wallet session. Typical flow: connect
// the wallet, register an identity (the encryption key is shown exactly once),
// start a background connectivity watcher, and execute file commands.
//
// Key features:
//   - connect / register / disconnect
//   - upload, list, download, modify, rm (rm re-prompts for the key)
//   - activities and reputation, local and on-chain leaderboard
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
