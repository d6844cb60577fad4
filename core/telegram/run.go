package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	tgsender "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	Routes      []Route

	DisableWebhookCleanup   bool
	DisableHelperDispatcher bool

	// OnError receives errors returned by handlers; c may be nil.
	OnError func(err error, c tele.Context)
	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot, serves updates until ctx is done and then
// drains outbound sends. Cancellation is a clean exit.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.OnError == nil {
		opts.OnError = logHandlerError
	}

	rt, pollerOpts, err := newRuntime(opts)
	if err != nil {
		return err
	}
	release := func() {
		rt.Dispatcher.Close()
		if !opts.DisableHelperDispatcher {
			tghelpers.SetDispatcher(nil)
		}
	}

	if pollerOpts.RunMode == coreconfig.RunModeLongpoll && !opts.DisableWebhookCleanup {
		clearWebhook(ctx, rt.Bot, pollerOpts.DropPendingUpdates)
	}
	wire(rt, opts)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			release()
			return err
		}
	}

	serveErr := serve(ctx, rt.Bot)

	var stopErr error
	if opts.OnStop != nil {
		stopErr = opts.OnStop(context.WithoutCancel(ctx), rt)
	}
	release()
	return errors.Join(stopErr, serveErr)
}

// newRuntime creates the bot and its dispatcher from config.
func newRuntime(opts RunOptions) (Runtime, PollerOptions, error) {
	cfg := opts.Config
	pollerOpts := PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		DropPendingUpdates:     coreconfig.Enabled(cfg.Telegram.DropPendingUpdates),
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	}
	poller := BuildPoller(pollerOpts)

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		URL:     cfg.Telegram.APIURL,
		Token:   cfg.Telegram.Token,
		Poller:  poller,
		Client:  BuildHTTPClient(TelegramClientOptions(pollerOpts.LongPollTimeout())),
		OnError: opts.OnError,
	})
	if err != nil {
		return Runtime{}, pollerOpts, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	logMode(poller, pollerOpts, time.Since(start))

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	if !opts.DisableHelperDispatcher {
		tghelpers.SetDispatcher(dispatcher)
	}
	return Runtime{Bot: bot, Dispatcher: dispatcher, Registry: opts.Registry}, pollerOpts, nil
}

func logMode(poller tele.Poller, opts PollerOptions, took time.Duration) {
	if hook, ok := poller.(*tele.Webhook); ok {
		logger.TG.Info("webhook mode",
			slog.String("event", "mode"),
			slog.String("mode", "webhook"),
			slog.String("listen", hook.Listen),
			slog.String("public_url", hook.Endpoint.PublicURL),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return
	}
	logger.TG.Info("polling mode",
		slog.String("event", "mode"),
		slog.String("mode", "polling"),
		slog.Duration("timeout", opts.LongPollTimeout()),
		slog.Bool("drop_pending", opts.DropPendingUpdates),
		slog.Duration("duration", logger.RoundMS(took)),
	)
}

// wire installs middlewares, routes and the command menu.
func wire(rt Runtime, opts RunOptions) {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			rt.Bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint != nil && route.Handler != nil {
			rt.Bot.Handle(route.Endpoint, route.Handler)
		}
	}
	InitBotCommands(rt.Bot, rt.Registry)
}

// serve runs the poller until ctx is cancelled or the bot stops on its own.
func serve(ctx context.Context, bot *tele.Bot) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		bot.Start()
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-stopped
		if err := ctx.Err(); !errors.Is(err, context.Canceled) {
			return err
		}
	case <-stopped:
	}
	return nil
}

// WebhookRemover is the part of tele.Bot used to leave webhook mode.
type WebhookRemover interface {
	RemoveWebhook(dropPending ...bool) error
}

// clearWebhook removes a stale webhook so long polling receives updates.
func clearWebhook(ctx context.Context, bot WebhookRemover, dropPending bool) {
	if err := bot.RemoveWebhook(dropPending); err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "failed to delete webhook",
			slog.String("event", "delete_webhook"),
			slog.String("mode", "polling"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TG.LogAttrs(ctx, slog.LevelInfo, "webhook deleted",
		slog.String("event", "delete_webhook"),
		slog.String("mode", "polling"),
		slog.Bool("drop_pending", dropPending),
	)
}

// logHandlerError is the fallback OnError hook: it only logs.
func logHandlerError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.Error(ctx, "tg", "handler.error",
		slog.String("status", "fail"),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}
