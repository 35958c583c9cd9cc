package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"storevisit/internal/config"
	"storevisit/internal/logging"
	"storevisit/internal/services"
	"storevisit/internal/session"
	"storevisit/internal/sessiondb"
	"storevisit/internal/taxonomy"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

type commandContext struct {
	configFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	db   *sessiondb.DB
	lock *flock.Flock
}

func newCommandContext(configFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		sessionFlag: sessionFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) sessionID() string {
	if c.sessionFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.sessionFlag)
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  cmd.ErrOrStderr(),
		FilePath: cfg.LogPath(),
	})
}

func (c *commandContext) openDB(ctx context.Context) (*sessiondb.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	db, err := sessiondb.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, sessiondb.ErrSchemaMismatch) {
			return nil, services.Wrap(services.ErrConfiguration, "sessiondb", "open", "", err)
		}
		return nil, services.Wrap(services.ErrStoreWrite, "sessiondb", "open", cfg.DatabasePath(), err)
	}
	c.db = db
	return db, nil
}

// acquireLock serializes mutating commands across processes.
func (c *commandContext) acquireLock(ctx context.Context) error {
	if c.lock != nil {
		return nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !ok {
		return fmt.Errorf("another storevisit command holds %s; retry when it finishes: %w", cfg.LockPath(), errors.Join(err, services.ErrTransient))
	}
	c.lock = lock
	return nil
}

// close releases the database and the lock.
func (c *commandContext) close() {
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.lock != nil {
		_ = c.lock.Unlock()
		c.lock = nil
	}
}

type sessionMode int

const (
	// readSession requires an existing session.
	readSession sessionMode = iota
	// writeSession takes the lock and creates a session when none exists.
	writeSession
	// newSession takes the lock and always creates a session.
	newSession
)

type sessionDeps struct {
	cfg     *config.Config
	tax     *taxonomy.Taxonomy
	logger  *slog.Logger
	session *session.Session
}

// withSession resolves the session named by --session, or the latest one,
// and runs fn with it. needsModel builds the configured responder.
func (c *commandContext) withSession(cmd *cobra.Command, mode sessionMode, needsModel bool, fn func(sessionDeps) error) error {
	ctx := cmd.Context()
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
	}
	tax, err := session.LoadTaxonomy(cfg)
	if err != nil {
		return err
	}
	defer c.close()
	if mode != readSession {
		if err := c.acquireLock(ctx); err != nil {
			return err
		}
	}
	db, err := c.openDB(ctx)
	if err != nil {
		return err
	}

	responder := services.Responder(services.Passthrough{})
	if needsModel {
		responder, err = session.NewResponder(ctx, cfg, tax)
		if err != nil {
			return err
		}
	}
	pipe := session.NewPipeline(cfg, tax, logger)
	opts := session.Options(cfg, responder, logger)

	var sess *session.Session
	switch {
	case mode == newSession:
		sess, err = session.Create(ctx, db, pipe, opts...)
	case c.sessionID() != "":
		sess, err = session.Restore(ctx, db, c.sessionID(), pipe, opts...)
	case mode == writeSession:
		sess, err = session.Open(ctx, db, "", pipe, opts...)
	default:
		latest, latestErr := db.LatestSession(ctx)
		if latestErr != nil {
			return latestErr
		}
		if latest == nil {
			return services.Wrap(services.ErrNotFound, "session", "open", "no sessions yet; run `storevisit submit` first", nil)
		}
		sess, err = session.Restore(ctx, db, latest.ID, pipe, opts...)
	}
	if err != nil {
		return err
	}
	return fn(sessionDeps{cfg: cfg, tax: tax, logger: logger, session: sess})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
