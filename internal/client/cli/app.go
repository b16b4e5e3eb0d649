package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/chain"
	"github.com/dmitrijs2005/walletvault/internal/client/api"
	"github.com/dmitrijs2005/walletvault/internal/client/config"
	"github.com/dmitrijs2005/walletvault/internal/client/lifecycle"
	"github.com/dmitrijs2005/walletvault/internal/client/localstore"
	"github.com/dmitrijs2005/walletvault/internal/client/session"
	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/wallet"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	ModeUnknown Mode = ""
)

// App holds everything the interactive client needs.
type App struct {
	config      *config.Config
	session     *session.Manager
	files       *lifecycle.Service
	apiClient   api.Client
	leaderboard *chain.Leaderboard
	stores      *localstore.Stores
	log         logging.Logger
	Mode        Mode
	reader      *bufio.Reader
}

// NewApp builds the application from config: local cache database, wallet
// provider, API client, session and lifecycle services, and the optional
// on-chain registry.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	stores, err := localstore.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing cache database: %w", err)
	}

	provider, err := newProvider(c)
	if err != nil {
		stores.DB.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr)

	sess := session.NewManager(provider, stores.KV, log, session.KeyDerivation(c.KeyDerivation))
	files := lifecycle.NewService(sess, apiClient, stores.Blobs, log)

	var registry chain.Registry
	if c.ChainRPCEndpoint != "" && c.AuthContractAddr != "" {
		reg, err := chain.Dial(ctx, c.ChainRPCEndpoint, c.AuthContractAddr)
		if err != nil {
			log.Warn(ctx, "on-chain registry unavailable", "endpoint", c.ChainRPCEndpoint, "error", err)
		} else {
			registry = reg
		}
	}
	lb := chain.NewLeaderboard(stores.KV, registry, log)

	return &App{
		config:      c,
		session:     sess,
		files:       files,
		apiClient:   apiClient,
		leaderboard: lb,
		stores:      stores,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func newProvider(c *config.Config) (wallet.Provider, error) {
	if c.WalletPrivateKey != "" {
		return wallet.NewKeyProvider(c.WalletPrivateKey)
	}
	if c.WalletAddress != "" {
		return wallet.NewStaticProvider(c.WalletAddress)
	}
	return nil, fmt.Errorf("either a wallet address (-w) or a private key (-k) is required")
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.stores.DB.Close()
	a.Root(ctx)
}

func (a *App) isConnected() bool {
	s := a.session.State()
	return s == session.StateConnectedUnregistered || s == session.StateConnectedRegistered
}

func (a *App) isRegistered() bool {
	return a.session.State() == session.StateConnectedRegistered
}

// StartOnlineStatusWatcher pings the file service on the configured interval
// and flips Mode between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.apiClient.Ping(pingCtx)
			cancel()

			a.log.Debug(ctx, "connectivity probe", "ok", err == nil)

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ctx, ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ctx, ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
