// Package bot wires the QR generate and scan flows onto the Telegram core.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/bootstrap"
	corecmd "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/cmd"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	coretelegram "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/commands"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/router"
	tgsender "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/sender"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/qr"

	tele "gopkg.in/telebot.v4"
)

// Renderer produces PNG QR codes.
type Renderer interface {
	Render(text string, fill qr.Color) ([]byte, error)
}

// Scanner decodes QR codes from images.
type Scanner interface {
	Decode(ctx context.Context, image []byte) (qr.Result, error)
}

// FileFetcher downloads a Telegram file referenced by an update.
type FileFetcher func(c tele.Context, f *tele.File) (io.ReadCloser, error)

// Deps overrides collaborators of App; zero fields get production defaults.
type Deps struct {
	Renderer Renderer
	Scanner  Scanner
	Journal  journal.Journal
	Fetch    FileFetcher
	FSM      state.Manager
	Pending  *state.Pending[string]
}

// App is the QR bot: command registry, conversation state and QR adapters.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	registry *coretelegram.Registry

	fsm     state.Manager
	pending *state.Pending[string]

	renderer Renderer
	scanner  Scanner
	journal  journal.Journal
	fetch    FileFetcher
}

// New builds the app and registers its commands, callbacks and state handlers.
func New(cfg *Config, deps Deps) *App {
	a := &App{
		cfg:      cfg,
		registry: coretelegram.NewRegistry(),
		fsm:      deps.FSM,
		pending:  deps.Pending,
		renderer: deps.Renderer,
		scanner:  deps.Scanner,
		journal:  deps.Journal,
		fetch:    deps.Fetch,
	}
	if a.fsm == nil {
		a.fsm = state.NewMemoryManager()
	}
	if a.pending == nil {
		a.pending = state.NewPending[string](state.DefaultPendingTTL)
	}
	if a.renderer == nil {
		a.renderer = qr.NewEncoder()
	}
	if a.scanner == nil {
		a.scanner = newDecoder(cfg)
	}
	if a.journal == nil {
		a.journal = journal.Nop{}
	}
	if a.fetch == nil {
		a.fetch = fetchFile
	}

	a.registerCommands()
	a.fsm.Handle(state.StateAwaitingText, state.EndpointText, a.handleText)
	a.fsm.Handle(state.StateAwaitingImage, state.EndpointPhoto, a.handlePhoto)
	return a
}

func newDecoder(cfg *Config) *qr.Decoder {
	timeout := time.Duration(cfg.Decoder.TimeoutSeconds) * time.Second
	client := coretelegram.BuildHTTPClient(coretelegram.ClientOptions{
		Timeout:               timeout,
		ResponseHeaderTimeout: timeout,
	})
	return qr.NewDecoder(cfg.Decoder.Endpoint, client)
}

func fetchFile(c tele.Context, f *tele.File) (io.ReadCloser, error) {
	return c.Bot().File(f)
}

func (a *App) registerCommands() {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: a.handleStart, Description: "Start the bot"}},
		{"/help", commands.Command{Handler: a.handleHelp, Description: "Show how to use the bot"}},
		{"/generate", commands.Command{Handler: a.handleGenerate, Description: "Create a QR code"}},
		{"/scan", commands.Command{Handler: a.handleScan, Description: "Read a QR code from an image"}},
		{"/batchqr", commands.Command{Handler: a.handleBatch, Description: "Generate up to 5 QR codes from a list"}},
	}
	for _, c := range cmds {
		if err := a.registry.RegisterCommand(c.name, c.cmd); err != nil {
			logger.TWire.Error("register command failed",
				slog.String("event", "register.command"),
				slog.String("err", err.Error()),
			)
		}
	}
	if err := a.registry.RegisterCallback(callbackColor, a.handleColor); err != nil {
		logger.TWire.Error("register callback failed",
			slog.String("event", "register.callback"),
			slog.String("err", err.Error()),
		)
	}
}

// Registry exposes the command registry, mainly for tests and tooling.
func (a *App) Registry() *coretelegram.Registry { return a.registry }

// TelegramRunOptions assembles middlewares, routes and lifecycle hooks for the runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a.cfg == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("bot: nil config")
	}
	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.MessageRoutes(a.fsm)...)
	routes = append(routes, router.CallbackRoute(a.registry))

	return coretelegram.RunOptions{
		Config:   core,
		Registry: a.registry,
		DispatcherOptions: tgsender.Options{
			Workers:    1,
			MaxRetries: 2,
		},
		Middlewares: coretelegram.DefaultMiddlewares(core, coretelegram.MiddlewareOptions{
			PanicReply: TextGenericError,
			OnLimited: func(c tele.Context) error {
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: TextRateLimited})
				}
				return nil
			},
		}),
		Routes:  routes,
		OnError: a.onError,
	}, nil
}

// onError logs a handler error and tells the user something went wrong.
func (a *App) onError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.Error(ctx, "app", "handler.error",
		slog.String("status", "fail"),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	if c == nil || c.Chat() == nil {
		return
	}
	if sendErr := c.Send(TextGenericError); sendErr != nil {
		logger.Warn(ctx, "app", "handler.error.reply",
			slog.String("status", "fail"),
			slog.String("err", sendErr.Error()),
		)
	}
}

// Close releases the journal and database opened at bootstrap.
func (a *App) Close() error {
	if a.infra != nil {
		return a.infra.Close()
	}
	return a.journal.Close()
}

// Bootstrap initializes logging and the optional journal, then builds the app.
func Bootstrap(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}
	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}
	a := New(cfg, Deps{Journal: infra.Journal})
	a.infra = infra
	return a, nil
}
