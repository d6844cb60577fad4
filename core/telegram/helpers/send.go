package helpers

import (
	"bytes"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher routes helper sends through d; nil makes them synchronous.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// deliver queues call on the dispatcher. When none is set, or the queue
// cannot take it, call runs inline so the reply is not lost.
func deliver(c tele.Context, action, endpoint string, call func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return call()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, endpoint, call)
	if !errors.Is(err, sender.ErrQueueFull) && !errors.Is(err, sender.ErrQueueClosed) {
		return err
	}
	logger.Warn(ctx, "tg.sender", "queue.fallback",
		slog.String("action", action),
		slog.String("endpoint", endpoint),
		slog.String("err", err.Error()),
	)
	return call()
}

// SendText sends plain text, with no parse mode, to the current chat.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var extra []any
	if len(opts) > 0 && opts[0] != nil {
		extra = append(extra, opts[0])
	}
	return deliver(c, "send.text", "sendMessage", func() error {
		return c.Send(text, extra...)
	})
}

// SendPhoto uploads PNG bytes with a caption. Each attempt gets a fresh reader.
func SendPhoto(c tele.Context, data []byte, caption string) error {
	return deliver(c, "send.photo", "sendPhoto", func() error {
		return c.Send(&tele.Photo{File: tele.FromReader(bytes.NewReader(data)), Caption: caption})
	})
}

// EditText replaces the text of the message the callback came from.
func EditText(c tele.Context, text string, opts ...any) error {
	return deliver(c, "edit.text", "editMessageText", func() error {
		return c.Edit(text, opts...)
	})
}
