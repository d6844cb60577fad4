package bot

import (
	"context"
	"log/slog"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// record stores e in the journal. Failures are logged and never reach the user.
func (a *App) record(ctx context.Context, c tele.Context, e journal.Event) {
	if u := c.Sender(); u != nil {
		e.UserID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		e.ChatID = ch.ID
	}
	if err := a.journal.Record(ctx, e); err != nil {
		logger.Warn(ctx, "journal", "journal.record",
			slog.String("status", "fail"),
			slog.String("kind", string(e.Kind)),
			slog.String("err", err.Error()),
		)
	}
}
