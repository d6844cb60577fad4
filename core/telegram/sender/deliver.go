package sender

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/netutil"
)

const component = "tg.sender"

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// deliver runs c until it succeeds, fails permanently or exhausts its budget.
func (d *Dispatcher) deliver(c call) {
	ctx, cancel := context.WithTimeout(c.ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	logger.Debug(c.ctx, component, "send.start", c.attrs()...)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.run(); err == nil {
			d.logDelivered(c, attempt, time.Since(start))
			return
		}
		if attempt == attempts || !netutil.ShouldRetry(err) {
			break
		}
		delay := netutil.Backoff(err, d.opts.RetryBackoff, attempt)
		logger.Debug(c.ctx, component, "send.retry.backoff",
			append(c.attrs(), slog.Int("attempt", attempt), slog.Duration("delay", delay))...)
		if waitErr := sleep(ctx, delay); waitErr != nil {
			err = waitErr
			break
		}
	}

	d.failed.Add(1)
	kind := netutil.Classify(err)
	metrics.IncSendFailure(kind)
	logger.Error(c.ctx, component, "send.fail",
		append(c.attrs(),
			slog.String("error", redact(err)),
			slog.String("error_kind", kind),
			slog.Int("attempts", attempts),
			slog.Int("elapsed_ms", elapsedMS(time.Since(start))),
		)...)
}

func (d *Dispatcher) logDelivered(c call, attempt int, elapsed time.Duration) {
	attrs := append(c.attrs(), slog.Int("elapsed_ms", elapsedMS(elapsed)))
	if attempt == 1 {
		logger.Debug(c.ctx, component, "send.success", attrs...)
		return
	}
	logger.Info(c.ctx, component, "send.retry.success", append(attrs, slog.Int("attempt", attempt))...)
}

// attrs describes the call and the update that triggered it.
func (c call) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs, slog.String("action", c.action))
	if c.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", c.endpoint))
	}
	if rid := logger.RIDFrom(c.ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if id := logger.UpdateIDFrom(c.ctx); id != 0 {
		attrs = append(attrs, slog.Int("update_id", id))
	}
	if id := logger.ChatIDFrom(c.ctx); id != 0 {
		attrs = append(attrs, slog.Int64("chat_id", id))
	}
	if id := logger.UserIDFrom(c.ctx); id != 0 {
		attrs = append(attrs, slog.Int64("user_id", id))
	}
	return attrs
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func elapsedMS(d time.Duration) int {
	return int(logger.RoundMS(max(d, 0)) / time.Millisecond)
}

// redact strips bot tokens that net/http embeds in request URLs.
func redact(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
