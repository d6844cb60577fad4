package bot

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/format"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/router"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/qr"

	tele "gopkg.in/telebot.v4"
)

const maxBatch = 5

// parseBatch splits the command payload on commas and drops blank entries.
func parseBatch(payload string) []string {
	var out []string
	for _, part := range strings.Split(payload, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// handleBatch renders every entry of "/batchqr a, b, c" in black without a color prompt.
// One failing entry is reported on its own and the rest still go out.
func (a *App) handleBatch(c tele.Context) error {
	var payload string
	if msg := c.Message(); msg != nil {
		payload = msg.Payload
	}
	entries := parseBatch(payload)
	switch {
	case len(entries) == 0:
		router.SetOutcome(c, "ok", "usage")
		return c.Reply(TextBatchUsage)
	case len(entries) > maxBatch:
		router.SetOutcome(c, "skip", "limit_exceeded")
		return c.Reply(TextBatchLimit)
	}

	if err := c.Reply(textBatchStart(len(entries))); err != nil {
		return err
	}

	ctx := tghelpers.BuildContext(c)
	failed := 0
	for i, text := range entries {
		n := i + 1
		event := journal.Event{
			Kind:         journal.KindBatch,
			Color:        qr.DefaultColor.Name,
			ContentKind:  qr.Classify(text).String(),
			ContentChars: utf8.RuneCountInString(text),
		}

		png, err := a.renderer.Render(text, qr.DefaultColor)
		metrics.RecordRender("batch", qr.DefaultColor.Name, err)
		if err != nil {
			failed++
			logger.Error(ctx, "qr.render", "render.fail",
				slog.Int("entry", n),
				slog.Int("content_chars", event.ContentChars),
				slog.String("err", err.Error()),
			)
			event.Outcome = "render_failed"
			a.record(ctx, c, event)
			if err := tghelpers.SendText(c, textBatchEntryError(n)); err != nil {
				return err
			}
			continue
		}

		event.Outcome = "ok"
		a.record(ctx, c, event)
		if err := tghelpers.SendPhoto(c, png, textBatchCaption(n, format.Truncate(text, previewChars))); err != nil {
			return err
		}
	}

	if failed > 0 {
		router.SetOutcome(c, "fail", "partial")
	}
	return nil
}
