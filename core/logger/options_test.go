package logger

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
)

func TestResolveOptionsDefaults(t *testing.T) {
	t.Setenv("LOG_TRACE", "")
	o := resolveOptions(nil)
	assert.Equal(t, slog.LevelInfo, o.level)
	assert.Equal(t, formatJSON, o.format)
	assert.Equal(t, defaultKeyOrder, o.keyOrder)
	assert.Equal(t, "prod", o.profile)
	assert.False(t, o.trace)
	assert.Empty(t, o.filePath)
}

func TestResolveOptionsFromConfig(t *testing.T) {
	t.Setenv("LOG_TRACE", "yes")
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Level:     "WARNING",
		Profile:   "Dev",
		KeysOrder: "event, ,rid",
		Dir:       "logs",
		BotFile:   "bot.log",
	}}
	o := resolveOptions(cfg)
	assert.Equal(t, slog.LevelWarn, o.level)
	assert.Equal(t, formatKV, o.format)
	assert.Equal(t, []string{"event", "rid"}, o.keyOrder)
	assert.Equal(t, "dev", o.profile)
	assert.True(t, o.trace)
	assert.Equal(t, filepath.Join("logs", "bot.log"), o.filePath)

	cfg.Logging.Format = "json"
	assert.Equal(t, formatJSON, resolveOptions(cfg).format)
}

func TestOpenSinksCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.log")
	writers, closers := options{filePath: path}.openSinks()
	require.Len(t, writers, 2)
	require.Len(t, closers, 1)
	assert.FileExists(t, path)
	require.NoError(t, closers[0].Close())

	writers, closers = options{}.openSinks()
	assert.Len(t, writers, 1)
	assert.Empty(t, closers)
}
