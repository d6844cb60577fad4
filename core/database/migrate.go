package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
)

const readyTimeout = 30 * time.Second

// ErrDirty is returned when a previous migration stopped half way.
var ErrDirty = errors.New("database schema is dirty")

// RunMigrations waits for the server and applies every pending up migration
// found under dir. A schema already at the latest version is not an error.
func RunMigrations(ctx context.Context, cfg Config, migrations fs.FS, dir string) error {
	if err := WaitForPostgres(ctx, cfg.KeywordDSN(), readyTimeout); err != nil {
		logger.MIG.LogAttrs(ctx, slog.LevelError, "db not ready",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("database not ready: %w", err)
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		logger.MIG.LogAttrs(ctx, slog.LevelError, "init failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	return apply(ctx, m)
}

// schema is the subset of *migrate.Migrate that apply drives.
type schema interface {
	Version() (uint, bool, error)
	Up() error
}

func apply(ctx context.Context, m schema) error {
	from, dirty, err := m.Version()
	switch {
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirty, from)
	case err != nil && !errors.Is(err, migrate.ErrNilVersion):
		return fmt.Errorf("read schema version: %w", err)
	}

	start := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.MIG.LogAttrs(ctx, slog.LevelError, "migration failed",
			slog.String("event", "apply"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return fmt.Errorf("migration execution failed: %w", err)
	}

	to, _, _ := m.Version()
	logger.MIG.LogAttrs(ctx, slog.LevelInfo, "migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
