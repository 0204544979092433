package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhle/notekeeper/internal/model"
	"github.com/nhle/notekeeper/internal/notes"
	"github.com/nhle/notekeeper/internal/prefs"
	"github.com/nhle/notekeeper/internal/schedule"
	"github.com/nhle/notekeeper/internal/store"
)

// environment is everything a command needs, wired from the config file.
type environment struct {
	cfg       *model.AppConfig
	logger    *slog.Logger
	prefs     *prefs.Manager
	scheduler *schedule.TimerScheduler
	service   *notes.Service

	closeMedium func() error
	closed      bool
}

// openEnvironment wires config -> medium -> store -> scheduler -> service.
func openEnvironment(cfgPath string, cfg *model.AppConfig, logger *slog.Logger) (*environment, error) {
	medium, closeMedium, err := openMedium(context.Background(), cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	p := prefs.NewManager(cfgPath, cfg)
	scheduler := schedule.NewTimerScheduler(logger)
	bridge := schedule.NewBridge(scheduler, logger)

	svc := notes.New(
		store.NewCollectionStore(medium, logger),
		bridge,
		notes.WithLogger(logger),
		notes.WithPreferences(p),
		notes.WithCompleteOnFire(cfg.Reminders.CompleteOnFire),
	)

	logger.Debug("environment ready", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	return &environment{
		cfg:         cfg,
		logger:      logger,
		prefs:       p,
		scheduler:   scheduler,
		service:     svc,
		closeMedium: closeMedium,
	}, nil
}

// openMedium opens the configured storage backend.
func openMedium(ctx context.Context, cfg model.StorageConfig, logger *slog.Logger) (store.Medium, func() error, error) {
	switch cfg.Backend {
	case model.BackendKeyring:
		dir := filepath.Join(filepath.Dir(cfg.Path), "keyring")
		m, err := store.OpenKeyringMedium(cfg.KeyringService, dir)
		if err != nil {
			return nil, nil, err
		}
		return m, func() error { return nil }, nil

	case model.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		m, err := store.NewSQLiteMedium(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		keys, err := m.Keys(ctx)
		if err != nil {
			m.Close()
			return nil, nil, fmt.Errorf("checking storage: %w", err)
		}
		logger.Debug("sqlite storage opened", "path", cfg.Path, "collections", keys)
		return m, m.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close stops pending timers and releases the medium. It is safe to call twice.
func (e *environment) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.scheduler.Stop()
	if err := e.closeMedium(); err != nil {
		return errors.Join(errors.New("closing storage"), err)
	}
	return nil
}
