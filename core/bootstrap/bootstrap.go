package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
	coredatabase "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/database"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
)

const pruneInterval = time.Hour

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(ctx context.Context, cfg coredatabase.Config, migrations fs.FS, dir string) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil when the journal is disabled.
type Result struct {
	DB      *sqlx.DB
	Journal journal.Journal
}

// Close releases the journal and the database handle.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.Journal != nil {
		err = r.Journal.Close()
	}
	if r.DB != nil {
		if cerr := r.DB.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run initializes the logger and, when the journal is enabled, connects to
// the database and applies the journal migrations.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if !opts.Config.Journal.Enabled {
		logger.Info(ctx, "journal", "journal.mode", slog.String("mode", "disabled"))
		return &Result{Journal: journal.Nop{}}, nil
	}

	dbCfg := opts.Database
	if err := dbCfg.Normalize(); err != nil {
		return nil, fmt.Errorf("bootstrap: database config: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(ctx, dbCfg, journal.Migrations, journal.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	store := journal.NewStore(db, opts.Config.Journal.RetentionDays)
	store.StartPruning(pruneInterval)
	logger.Info(ctx, "journal", "journal.mode",
		slog.String("mode", "postgres"),
		slog.Int("retention_days", opts.Config.Journal.RetentionDays),
	)
	return &Result{DB: db, Journal: store}, nil
}
