package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/buildinfo"
	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
)

const writerBuffer = 64 * 1024

var (
	initOnce sync.Once
	stopOnce sync.Once

	sink    *asyncWriter
	closers []io.Closer

	levelVar slog.LevelVar

	sampler = newDebugSampler("")

	// L is the base logger. Until InitLogger runs it writes plain text to stderr.
	L = slog.New(slog.NewTextHandler(os.Stderr, nil))

	// TG logs Telegram transport events.
	TG = Component("tg")
	// TWire logs Telegram wiring steps.
	TWire = Component("tg.wire")
	// DB logs database connectivity events.
	DB = Component("db")
	// MIG logs database migration events.
	MIG = Component("db.migrate")
	// Health logs the liveness endpoint lifecycle.
	Health = Component("health")
)

// InitLogger installs the structured handler as the process default.
// Calls after the first are no-ops.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		opts := resolveOptions(cfg)
		levelVar.Set(opts.level)
		sampler.Configure(opts.debugSample, opts.trace)

		var writers []io.Writer
		writers, closers = opts.openSinks()
		sink = newAsyncWriter(writers, writerBuffer)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   sink,
			format:   opts.format,
			keyOrder: opts.keyOrder,
		}))
		slog.SetDefault(L)
		TG, TWire, DB, MIG, Health = Component("tg"), Component("tg.wire"), Component("db"), Component("db.migrate"), Component("health")

		L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", "app"),
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
			slog.String("cfg_profile", opts.profile),
		)
	})
	return nil
}

// Shutdown flushes buffered output and closes the log file. Only the first call does work.
func Shutdown() error {
	var err error
	stopOnce.Do(func() {
		if sink != nil {
			err = errors.Join(sink.Flush(), sink.Close())
		}
		for _, c := range closers {
			err = errors.Join(err, c.Close())
		}
	})
	return err
}

// Component returns L scoped to a component attribute.
func Component(name string) *slog.Logger {
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// LogEvent writes one event line; a nil logg falls back to the logger carried by ctx.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug line should be written.
func ShouldSampleDebug() bool {
	return sampler.Allow()
}
