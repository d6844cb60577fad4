package helpers

import (
	"context"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Keys under which per-update values live in tele.Context storage.
const (
	keyContext = "logger_ctx"
	keyRID     = "rid"
)

// IDs returns the update, chat and sender identifiers, zero when absent.
func IDs(c tele.Context) (updateID int, chatID, userID int64) {
	updateID = c.Update().ID
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return updateID, chatID, userID
}

// Attach builds a fresh logging context for the update and stores it on c.
func Attach(c tele.Context) context.Context {
	updateID, chatID, userID := IDs(c)
	rid := logger.BuildRID(updateID, chatID, userID)
	c.Set(keyRID, rid)

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	c.Set(keyContext, ctx)
	return ctx
}

// ContextFrom returns the context stored by Attach.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(keyContext).(context.Context)
	return ctx, ok && ctx != nil
}

// BuildContext returns the update's logging context, attaching one on first use.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	return Attach(c)
}

// RID returns the request id assigned to the update, or "".
func RID(c tele.Context) string {
	rid, _ := c.Get(keyRID).(string)
	return rid
}

// WithHandler tags the stored context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler != "" {
		ctx = logger.WithHandler(ctx, handler)
		c.Set(keyContext, ctx)
	}
	return ctx
}
