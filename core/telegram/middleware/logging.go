package middleware

import (
	"log/slog"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/callbacks"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Update kinds reported to logs and metrics.
const (
	KindMessage  = "message"
	KindCallback = "callback"
	KindOther    = "other"
)

// UpdateKind classifies an update for rate limiting and metrics.
func UpdateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return KindCallback
	case upd.Message != nil:
		return KindMessage
	}
	return KindOther
}

// LoggerMiddleware logs a single receipt line per update and sets rid.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		ctx := tghelpers.Attach(c)

		kind := UpdateKind(upd)
		metrics.IncUpdate(kind)

		if logger.ShouldSampleDebug() {
			attrs := []slog.Attr{
				slog.String("status", "ok"),
				slog.String("kind", kind),
			}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user := c.Sender(); user != nil && user.LanguageCode != "" {
				attrs = append(attrs, slog.String("lang", user.LanguageCode))
			}

			switch {
			case upd.Callback != nil:
				key, _ := callbacks.ParseCallbackData(upd.Callback)
				if key != "" {
					attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
				}
			case upd.Message != nil:
				// Only sizes are logged; message bodies stay out of logs.
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.Int("content_chars", len([]rune(t))))
				}
				if upd.Message.Photo != nil {
					attrs = append(attrs, slog.Bool("photo", true))
				}
			}
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
