package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	keyLogger ctxKey = iota
	keyRID
	keyUpdate
	keyHandler
)

// updateMeta identifies the Telegram update a log line belongs to.
type updateMeta struct {
	updateID int
	userID   int64
	chatID   int64
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func value[T any](ctx context.Context, key ctxKey) T {
	var zero T
	if ctx == nil {
		return zero
	}
	v, _ := ctx.Value(key).(T)
	return v
}

// WithLogger carries log in ctx; FromContext picks it up.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	ctx = orBackground(ctx)
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if l := value[*slog.Logger](ctx, keyLogger); l != nil {
		return l
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(orBackground(ctx), keyRID, rid)
}

func RIDFrom(ctx context.Context) string { return value[string](ctx, keyRID) }

// WithUpdateMeta attaches the update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	meta := updateMeta{updateID: updateID, userID: userID, chatID: chatID}
	return context.WithValue(orBackground(ctx), keyUpdate, meta)
}

// WithHandler names the handler serving the update; empty names are ignored.
func WithHandler(ctx context.Context, handler string) context.Context {
	ctx = orBackground(ctx)
	if handler == "" {
		return ctx
	}
	return context.WithValue(ctx, keyHandler, handler)
}

func HandlerFrom(ctx context.Context) string { return value[string](ctx, keyHandler) }
func UserIDFrom(ctx context.Context) int64   { return value[updateMeta](ctx, keyUpdate).userID }
func ChatIDFrom(ctx context.Context) int64   { return value[updateMeta](ctx, keyUpdate).chatID }
func UpdateIDFrom(ctx context.Context) int   { return value[updateMeta](ctx, keyUpdate).updateID }
