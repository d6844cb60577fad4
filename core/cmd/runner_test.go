package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
	coretelegram "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct {
	closed bool
	optErr error
}

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, a.optErr
}

func (a *fakeApp) Close() error {
	a.closed = true
	return nil
}

func baseOptions(app *fakeApp) Options {
	return Options{
		ConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error { return nil },
		Signals: func(parent context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(parent)
		},
	}
}

func TestRunRequiresHooks(t *testing.T) {
	assert.Error(t, Run(Options{}))
	assert.Error(t, Run(Options{LoadConfig: func(string) (ConfigCarrier, error) { return nil, nil }}))
}

func TestRunConfigErrors(t *testing.T) {
	opts := baseOptions(&fakeApp{})
	opts.LoadConfig = func(string) (ConfigCarrier, error) { return nil, errors.New("bad yaml") }
	assert.ErrorContains(t, Run(opts), "failed to load config")

	opts = baseOptions(&fakeApp{})
	opts.LoadConfig = func(string) (ConfigCarrier, error) { return carrier{}, nil }
	assert.ErrorContains(t, Run(opts), "missing core configuration")
}

func TestRunStopsHealthWhenBotReturns(t *testing.T) {
	app := &fakeApp{}
	opts := baseOptions(app)

	var healthStopped bool
	opts.Health = func(*coreconfig.Config) Service {
		return func(ctx context.Context) error {
			<-ctx.Done()
			healthStopped = true
			return nil
		}
	}
	var started bool
	opts.RunTelegram = func(ctx context.Context, ro coretelegram.RunOptions) error {
		require.NoError(t, ro.OnStart(ctx, coretelegram.Runtime{}))
		started = true
		return ro.OnStop(ctx, coretelegram.Runtime{})
	}

	require.NoError(t, Run(opts))
	assert.True(t, started)
	assert.True(t, healthStopped)
	assert.True(t, app.closed)
}

func TestRunHealthFailureCancelsBot(t *testing.T) {
	opts := baseOptions(&fakeApp{})
	opts.Health = func(*coreconfig.Config) Service {
		return func(context.Context) error { return errors.New("address in use") }
	}
	opts.RunTelegram = func(ctx context.Context, _ coretelegram.RunOptions) error {
		<-ctx.Done()
		return nil
	}
	assert.ErrorContains(t, Run(opts), "address in use")
}

func TestRunOptionsError(t *testing.T) {
	app := &fakeApp{optErr: errors.New("no token")}
	opts := baseOptions(app)
	opts.DisableHealth = true
	assert.ErrorContains(t, Run(opts), "telegram options build failed")
	assert.True(t, app.closed)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("QRBOT_CONFIG", "/etc/qrbot.yaml")
	assert.Equal(t, "cli.yaml", resolveConfigPath(Options{ConfigPath: "cli.yaml", ConfigEnvVar: "QRBOT_CONFIG"}))
	assert.Equal(t, "/etc/qrbot.yaml", resolveConfigPath(Options{ConfigEnvVar: "QRBOT_CONFIG"}))
	assert.Equal(t, "default.yaml", resolveConfigPath(Options{ConfigEnvVar: "QRBOT_UNSET", DefaultConfigPath: "default.yaml"}))
}
