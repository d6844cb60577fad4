package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/health"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	coretelegram "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"
)

// ConfigCarrier exposes access to the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is the minimal interface required to run a Telegram bot.
// Apps that also implement io.Closer are closed after the bot stops.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Service is a background task that runs until ctx ends.
type Service func(ctx context.Context) error

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	// ConfigPath wins over ConfigEnvVar and DefaultConfigPath when set.
	ConfigPath        string
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(ctx context.Context, cfg ConfigCarrier) (TelegramApp, error)

	// Health builds the liveness service; nil uses health.NewServer from the core config.
	Health        func(cfg *coreconfig.Config) Service
	DisableHealth bool

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
	// Signals overrides the process signal context, mainly for tests.
	Signals func(parent context.Context) (context.Context, context.CancelFunc)
}

// Run loads configuration, bootstraps the Telegram app, and runs the bot next
// to the liveness server until a termination signal arrives or either fails.
func Run(opts Options) error {
	if opts.LoadConfig == nil || opts.Bootstrap == nil {
		return errors.New("cmd: LoadConfig and Bootstrap are required")
	}

	cfgPath := resolveConfigPath(opts)
	log.Printf("loading config: %s", cfgPath)
	cfg, err := opts.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}
	core := cfg.CoreConfig()
	if core == nil {
		return errors.New("cmd: loaded config is missing core configuration")
	}

	signals := opts.Signals
	if signals == nil {
		signals = notifyContext
	}
	ctx, cancel := signals(context.Background())
	defer cancel()

	startedAt := time.Now()
	application, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	if closer, ok := application.(io.Closer); ok {
		defer closeApp(closer)
	}

	runOpts, err := application.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options build failed: %w", err)
	}
	announceLifecycle(&runOpts, startedAt)
	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The liveness server follows the bot: a clean bot exit stops it too.
		defer cancel()
		return run(gctx, runOpts)
	})
	if svc := healthService(opts, core); svc != nil {
		g.Go(func() error { return svc(gctx) })
	}
	return g.Wait()
}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func closeApp(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Component("app").Warn("close failed",
			slog.String("event", "shutdown"),
			slog.String("err", err.Error()),
		)
	}
}

// announceLifecycle wraps the start and stop hooks with app-level log lines.
func announceLifecycle(runOpts *coretelegram.RunOptions, startedAt time.Time) {
	onStart, onStop := runOpts.OnStart, runOpts.OnStop
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if onStart != nil {
			if err := onStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Component("app").Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Component("app").Info("shutting down...", slog.String("event", "shutdown"))
		if onStop == nil {
			return nil
		}
		return onStop(ctx, rt)
	}
}

func healthService(opts Options, core *coreconfig.Config) Service {
	if opts.DisableHealth {
		return nil
	}
	if opts.Health != nil {
		return opts.Health(core)
	}
	return defaultHealth(core)
}

func resolveConfigPath(opts Options) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	return opts.DefaultConfigPath
}

func defaultHealth(cfg *coreconfig.Config) Service {
	srv := health.NewServer(health.Options{
		Listen:  cfg.Health.Listen,
		Port:    cfg.Health.Port,
		Metrics: coreconfig.Enabled(cfg.Health.Metrics),
	})
	return srv.Run
}
