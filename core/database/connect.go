package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
)

const (
	driverName     = "postgres"
	connectTimeout = 5 * time.Second
	readyInterval  = 2 * time.Second
)

func (c Config) logAttrs(extra ...slog.Attr) []slog.Attr {
	return append([]slog.Attr{
		slog.String("event", "db.connect"),
		slog.String("host", c.Host),
		slog.String("port", c.Port),
		slog.String("db", c.Name),
	}, extra...)
}

// Connect opens a pooled connection and pings it within a short timeout.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, driverName, cfg.KeywordDSN())
	took := slog.Duration("duration", logger.RoundMS(time.Since(start)))
	if err != nil {
		logger.DB.LogAttrs(ctx, slog.LevelError, "db connect failed",
			cfg.logAttrs(took, slog.String("err", err.Error()))...)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	logger.DB.LogAttrs(ctx, slog.LevelInfo, "db connected",
		cfg.logAttrs(took, slog.Int("pool_open", cfg.MaxConnections))...)
	return db, nil
}

// WaitForPostgres pings dsn until the server answers or timeout elapses.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	return waitReady(ctx, db.PingContext, timeout, readyInterval)
}

// waitReady retries ping every interval until it succeeds, ctx ends or timeout passes.
func waitReady(ctx context.Context, ping func(context.Context) error, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		err := ping(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout reached waiting for database: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
