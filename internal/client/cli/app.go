package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/client/client"
	"github.com/dmitrijs2005/telepharmacy/internal/client/config"
	"github.com/dmitrijs2005/telepharmacy/internal/client/services"
	"github.com/dmitrijs2005/telepharmacy/internal/client/session"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	ModeLocal   Mode = "local"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   *client.Repositories
	session *session.Context
	auth    *services.AuthService
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.RWMutex
	mode Mode
}

// openRepositories picks Redis when configured, the SQLite file otherwise.
func openRepositories(ctx context.Context, c *config.Config) (*client.Repositories, error) {
	if c.UsesRedis() {
		return client.InitRedis(ctx, c.RedisAddr)
	}
	return client.InitDatabase(ctx, c.SessionFile)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat)
	if err != nil {
		return nil, err
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error initializing session storage: %w", err)
	}

	backend, remote := client.Dial(ctx, c.ServerEndpointAddr, logger)
	if gc, ok := backend.(*client.GRPCClient); ok {
		if err := gc.KeepTokenIn(ctx, repos.Metadata); err != nil {
			logger.Warn(ctx, "cannot load saved access token", "error", err)
		}
	}
	mode := ModeLocal
	if remote {
		mode = ModeOnline
	}

	return newApp(c, logger, repos, backend, mode, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, repos *client.Repositories, backend client.Backend, mode Mode, r *bufio.Reader, w io.Writer) *App {
	s := session.New(repos.Metadata, backend, logger)
	return &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		session: s,
		auth:    services.NewAuthService(backend, s, logger),
		reader:  r,
		out:     w,
		mode:    mode,
	}
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.auth.CurrentUser(); u != nil {
		s = u.Email + " "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}

// Run restores the session, then serves the REPL until the user quits or
// input ends. Nothing is printed before the session is ready.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	go a.session.Init(ctx)
	if err := a.session.Wait(ctx); err != nil {
		a.logger.Error(ctx, "session not ready", "error", err)
		return
	}

	if a.Mode() != ModeLocal {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	fmt.Fprintln(a.out, "Telepharmacy identity CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) close(ctx context.Context) {
	if err := a.auth.Close(); err != nil {
		a.logger.Warn(ctx, "close backend", "error", err)
	}
	if err := a.repos.Close(); err != nil {
		a.logger.Warn(ctx, "close session storage", "error", err)
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
