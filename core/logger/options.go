package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
)

// options is the logging configuration after defaults are applied.
type options struct {
	level       slog.Level
	format      logFormat
	keyOrder    []string
	profile     string
	debugSample string
	trace       bool
	filePath    string
}

func resolveOptions(cfg *coreconfig.Config) options {
	o := options{
		level:    slog.LevelInfo,
		format:   formatJSON,
		keyOrder: splitKeyOrder(""),
		profile:  "prod",
		trace:    truthy(os.Getenv("LOG_TRACE")),
	}
	if cfg == nil {
		return o
	}
	lc := cfg.Logging

	o.level = parseLevel(lc.Level)
	o.keyOrder = splitKeyOrder(lc.KeysOrder)
	o.debugSample = lc.DebugSample
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		o.profile = p
	}
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		o.format = formatKV
	case "json":
	default:
		if o.profile == "debug" || o.profile == "dev" {
			o.format = formatKV
		}
	}
	if dir, file := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile); dir != "" && file != "" {
		o.filePath = filepath.Join(dir, file)
	}
	return o
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// splitKeyOrder parses a comma separated key list; empty or "default" yields the built-in order.
func splitKeyOrder(raw string) []string {
	raw = strings.TrimSpace(raw)
	var order []string
	if raw != "default" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				order = append(order, k)
			}
		}
	}
	if len(order) == 0 {
		return append([]string(nil), defaultKeyOrder...)
	}
	return order
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// openSinks returns stdout plus the optional log file. A file that cannot be
// opened is reported on stderr and skipped.
func (o options) openSinks() ([]io.Writer, []io.Closer) {
	writers := []io.Writer{os.Stdout}
	if o.filePath == "" {
		return writers, nil
	}
	f, err := openAppend(o.filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return writers, nil
	}
	return append(writers, f), []io.Closer{f}
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
