package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if p := a.session.Profile(); p != nil {
		s = p.Username + " "
	} else if a.isConnected() {
		s = shortAddr(a.session.Account()) + " "
	}
	if a.Mode != ModeUnknown {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// shortAddr abbreviates a wallet address for prompts: 0x1234…cdef.
func shortAddr(addr string) string {
	if len(addr) < 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// Root connects the wallet, starts the connectivity watcher, and runs the
// REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to WalletVault CLI (type 'help' for commands)")

	_ = a.Connect(ctx)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
