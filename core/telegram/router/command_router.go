package router

import (
	"log/slog"
	"time"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	tg "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command, and its aliases, to a summarised handler.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	endpoints := reg.Endpoints()
	routes := make([]tg.Route, 0, len(endpoints))
	for _, ep := range endpoints {
		name := normalizeHandlerName(ep.Canonical)
		h := ep.Command.Handler
		wrapped := func(c tele.Context) error {
			return handleWithSummary(c, name, time.Now(), func() error { return h(c) })
		}
		routes = append(routes, tg.Route{Endpoint: ep.Name, Handler: wrapped})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(endpoints)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
