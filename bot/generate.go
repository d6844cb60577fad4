package bot

import (
	"log/slog"
	"unicode/utf8"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/callbacks"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/format"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/keyboard"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/router"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/qr"

	tele "gopkg.in/telebot.v4"
)

const (
	callbackColor = "qrcolor"

	previewChars = 50
	captionChars = 100
)

var colorLabels = map[string]string{
	"black":  "⚫ Black (Default)",
	"blue":   "🔵 Blue",
	"red":    "🔴 Red",
	"green":  "🟢 Green",
	"purple": "🟣 Purple",
}

// colorKeyboard offers every palette color for the pending request behind token.
func colorKeyboard(token string) *tele.ReplyMarkup {
	palette := qr.Palette()
	buttons := make([]keyboard.InlineBtn, 0, len(palette))
	for _, col := range palette {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   colorLabels[col.Name],
			Unique: callbackColor,
			Data:   keyboard.Payload(col.Name, token),
		})
	}
	return keyboard.InlineGrid(buttons, 2)
}

// handleText receives the text to encode and asks for a color.
func (a *App) handleText(c tele.Context) error {
	user := c.Sender()
	if user == nil || !a.fsm.Transition(user.ID, state.StateAwaitingText, state.StateIdle) {
		router.SetOutcome(c, "skip", "stale_state")
		return nil
	}

	text := c.Text()
	token := a.pending.Put(user.ID, text)

	logger.Debug(tghelpers.BuildContext(c), "app", "generate.pending",
		slog.Int("content_chars", utf8.RuneCountInString(text)),
		slog.Int("pending", a.pending.Len()),
	)
	return c.Reply(textColorPrompt(format.Truncate(text, previewChars)), colorKeyboard(token))
}

// handleColor renders the pending text in the chosen color.
func (a *App) handleColor(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()

	parts, ok := callbacks.PayloadParts(c, 2)
	var (
		text  string
		found bool
	)
	if ok && user != nil {
		text, found = a.pending.Take(user.ID, parts[1])
	}
	if !found {
		router.SetOutcome(c, "skip", "expired")
		return c.Respond(&tele.CallbackResponse{Text: TextRequestExpired})
	}
	if err := c.Respond(); err != nil {
		logger.Warn(ctx, "app", "callback.answer",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}

	col := qr.LookupColor(parts[0])
	if err := tghelpers.EditText(c, textGenerating(col.Name)); err != nil {
		logger.Warn(ctx, "app", "generate.progress",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}

	event := journal.Event{
		Kind:         journal.KindGenerate,
		Color:        col.Name,
		ContentKind:  qr.Classify(text).String(),
		ContentChars: utf8.RuneCountInString(text),
	}

	png, err := a.renderer.Render(text, col)
	metrics.RecordRender("generate", col.Name, err)
	if err != nil {
		logger.Error(ctx, "qr.render", "render.fail",
			slog.String("color", col.Name),
			slog.Int("content_chars", event.ContentChars),
			slog.String("err", err.Error()),
		)
		event.Outcome = "render_failed"
		a.record(ctx, c, event)
		router.SetOutcome(c, "fail", "render_failed")
		return tghelpers.EditText(c, TextGenerateError)
	}

	event.Outcome = "ok"
	a.record(ctx, c, event)
	return tghelpers.SendPhoto(c, png, textGenerated(format.Truncate(text, captionChars), col.Title()))
}
