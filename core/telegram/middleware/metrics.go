package middleware

import (
	"sync/atomic"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"

	tele "gopkg.in/telebot.v4"
)

const keyReplies = "replies"

// replyStats counts what a handler sent back; async sends may update it from the dispatcher.
type replyStats struct {
	messages atomic.Int64
	keyboard atomic.Bool
}

func (s *replyStats) observe(opts []any) {
	kb := carriesKeyboard(opts)
	s.messages.Add(1)
	if kb {
		s.keyboard.Store(true)
	}
	metrics.IncReply(kb)
}

func carriesKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// countingContext counts successful Send, Reply and Edit calls.
type countingContext struct {
	tele.Context
	stats *replyStats
}

func (c countingContext) Send(what any, opts ...any) error {
	return c.track(c.Context.Send(what, opts...), opts)
}

func (c countingContext) Reply(what any, opts ...any) error {
	return c.track(c.Context.Reply(what, opts...), opts)
}

func (c countingContext) Edit(what any, opts ...any) error {
	return c.track(c.Context.Edit(what, opts...), opts)
}

func (c countingContext) track(err error, opts []any) error {
	if err == nil {
		c.stats.observe(opts)
	}
	return err
}

// MessageMetricsMiddleware counts replies per update and exports them as metrics.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		stats := &replyStats{}
		c.Set(keyReplies, stats)
		return next(countingContext{Context: c, stats: stats})
	}
}

// GetCounters returns how many replies the update produced and whether any carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	stats, ok := c.Get(keyReplies).(*replyStats)
	if !ok {
		return 0, false
	}
	return int(stats.messages.Load()), stats.keyboard.Load()
}
