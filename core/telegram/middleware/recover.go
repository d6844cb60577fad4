package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
// When reply is not empty it is sent to the chat the update came from.
func RecoverMiddleware(reply string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				metrics.IncPanic()
				ctx := tghelpers.BuildContext(c)
				logger.Error(ctx, "tg", "tg.panic",
					slog.String("status", "fail"),
					slog.String("err", fmt.Sprint(r)),
					slog.String("stack", string(debug.Stack())),
				)
				err = nil
				if reply != "" && c.Chat() != nil {
					if sendErr := c.Send(reply); sendErr != nil {
						logger.Warn(ctx, "tg", "tg.panic.reply",
							slog.String("status", "fail"),
							slog.String("err", sendErr.Error()),
						)
					}
				}
			}()
			return next(c)
		}
	}
}
