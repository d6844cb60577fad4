package router

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Outcome lets a handler report a result other than plain success or failure.
type Outcome struct {
	Status  string
	Outcome string
}

const outcomeKey = "handler_outcome"

// SetOutcome records the handler outcome logged in the handler.handled line.
func SetOutcome(c tele.Context, status, outcome string) {
	c.Set(outcomeKey, Outcome{Status: status, Outcome: outcome})
}

// handleWithSummary runs fn and writes one handler.handled line describing it.
func handleWithSummary(c tele.Context, name string, start time.Time, fn func() error, extras ...slog.Attr) error {
	ctx := tghelpers.WithHandler(c, name)
	err := fn()

	reported, _ := c.Get(outcomeKey).(Outcome)
	fallback := logger.Status(err)
	msgs, kb := middleware.GetCounters(c)

	attrs := make([]slog.Attr, 0, 8+len(extras))
	attrs = append(attrs,
		slog.String("status", cmp.Or(reported.Status, fallback)),
		slog.String("handler", name),
		slog.String("outcome", cmp.Or(reported.Outcome, fallback)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
	return err
}

// normalizeHandlerName turns "/BatchQR" into "batchqr" for log labels.
func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode prefers an explicit Code() and otherwise uses the error's type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	typ := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	if typ == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(typ)
}
