// Package app wires configuration, storage, use cases and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bnema/pdv/internal/adapters/out/filesystem"
	"github.com/bnema/pdv/internal/adapters/out/ratelimit"
	"github.com/bnema/pdv/internal/adapters/out/sqlite"
	"github.com/bnema/pdv/internal/boundaries/out"
	"github.com/bnema/pdv/internal/config"
	"github.com/bnema/pdv/internal/usecase/auth"
	"github.com/bnema/pdv/internal/usecase/backup"
	"github.com/bnema/pdv/internal/usecase/inventory"
	"github.com/bnema/pdv/pkg/logger"
)

// App holds the wired application components.
type App struct {
	Config    *config.Config
	DB        *sqlite.DB
	Auth      *auth.Service
	Inventory *inventory.Service
	Backup    *backup.Service
	Storage   *filesystem.SnapshotStorage
	// LoginLimiter is nil when login throttling is disabled.
	LoginLimiter out.RateLimiter

	log *log.Logger
}

// New opens the database and backup directory and builds the use cases.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	appLog := logger.Named("app")

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path, logger.Named("sqlite"))
	if err != nil {
		return nil, err
	}

	storage, err := filesystem.NewSnapshotStorage(cfg.Backup.Dir, logger.Named("backups"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	users := sqlite.NewUserStore(db)
	a := &App{
		Config:    cfg,
		DB:        db,
		Auth:      auth.NewService(users, logger.Named("auth")),
		Inventory: inventory.NewService(sqlite.NewInventoryStore(db), logger.Named("inventory")),
		Backup:    backup.NewService(sqlite.NewTableStore(db), storage, cfg.BackupSettings(), logger.Named("backup")),
		Storage:   storage,
		log:       appLog,
	}

	if cfg.Server.LoginPerMinute > 0 {
		a.LoginLimiter = ratelimit.NewMemoryStore(cfg.Server.LoginPerMinute, cfg.Server.LoginBurst, logger.Named("http"))
	}

	appLog.Debug("Application initialized", "database", cfg.Database.Path, "backup_dir", storage.Dir())
	return a, nil
}

// Close releases the database.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	if err := a.DB.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
