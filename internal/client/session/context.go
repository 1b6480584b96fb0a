// Package session keeps the CLI's current user. The value is mirrored to a
// local key/value region on every change and read back once at startup.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/telepharmacy/internal/client/client"
	"github.com/dmitrijs2005/telepharmacy/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Context is the process-wide session. Nothing should read the user before
// Wait returns.
type Context struct {
	store    metadata.Repository
	profiles client.ProfileGetter
	log      logging.Logger

	once  sync.Once
	ready chan struct{}

	mu    sync.RWMutex
	state State
	user  *models.SessionUser
}

// New builds an uninitialized session. profiles may be nil, in which case
// the persisted value is always adopted as is.
func New(store metadata.Repository, profiles client.ProfileGetter, log logging.Logger) *Context {
	return &Context{
		store:    store,
		profiles: profiles,
		log:      log.With("module", "session"),
		ready:    make(chan struct{}),
	}
}

// Init moves the session through Loading to Ready. It runs at most once;
// rehydration failures are logged and never returned.
func (c *Context) Init(ctx context.Context) {
	c.once.Do(func() {
		c.setState(Loading)
		c.rehydrate(ctx)
		c.setState(Ready)
		close(c.ready)
	})
}

// Wait blocks until Init has finished or ctx is done.
func (c *Context) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Context) rehydrate(ctx context.Context) {
	raw, err := c.store.Get(ctx, common.SessionUserKey)
	if err != nil {
		c.log.Warn(ctx, "cannot read persisted session", "error", err)
		return
	}
	if raw == nil {
		return
	}

	var persisted models.SessionUser
	if err := json.Unmarshal(raw, &persisted); err != nil {
		c.log.Warn(ctx, "persisted session is corrupt", "error", err)
		return
	}

	u := persisted
	if c.profiles != nil && persisted.UID != "" {
		p, err := c.profiles.GetProfile(ctx, persisted.UID)
		switch {
		case err != nil:
			c.log.Warn(ctx, "profile refresh failed, using persisted session", "uid", persisted.UID, "error", err)
		case p == nil:
			c.log.Info(ctx, "no profile on record, using persisted session", "uid", persisted.UID)
		default:
			// the profile replaces the snapshot; fields it no longer has are dropped
			u = models.SessionUserFromProfile(p)
		}
	}

	c.mu.Lock()
	// a login that completed while loading wins
	if c.user != nil {
		c.mu.Unlock()
		return
	}
	c.user = &u
	c.mu.Unlock()

	if err := c.persist(ctx, &u); err != nil {
		c.log.Warn(ctx, "cannot persist refreshed session", "error", err)
	}
}

func (c *Context) persist(ctx context.Context, u *models.SessionUser) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return c.store.Set(ctx, common.SessionUserKey, b)
}

// Login makes u the current user and persists it. The in-memory value is
// set even when persisting fails.
func (c *Context) Login(ctx context.Context, u models.SessionUser) error {
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()

	if err := c.persist(ctx, &u); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout forgets the current user and removes the persisted copy.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, common.SessionUserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// User returns a copy of the current user, or nil.
func (c *Context) User() *models.SessionUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	if c.user.Extra != nil {
		u.Extra = make(map[string]any, len(c.user.Extra))
		for k, v := range c.user.Extra {
			u.Extra[k] = v
		}
	}
	return &u
}

func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *Context) HasRole(r models.Role) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.HasRole(r)
}
