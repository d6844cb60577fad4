package bot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/journal"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/format"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/router"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/state"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/qr"

	tele "gopkg.in/telebot.v4"
)

const (
	// maxPhotoBytes matches the Bot API download limit.
	maxPhotoBytes   = 20 << 20
	maxMessageChars = 4096
)

var errNoPhoto = errors.New("message has no photo")

// Scan outcomes, shared by logs, metrics and the journal.
const (
	scanFound          = "found"
	scanNotFound       = "not_found"
	scanServiceError   = "service_error"
	scanDownloadFailed = "download_failed"
)

// handlePhoto decodes the photo sent after /scan. The state is released before
// any network call so a second photo sent meanwhile is ignored.
func (a *App) handlePhoto(c tele.Context) error {
	user := c.Sender()
	if user == nil || !a.fsm.Transition(user.ID, state.StateAwaitingImage, state.StateIdle) {
		router.SetOutcome(c, "skip", "stale_state")
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	event := journal.Event{Kind: journal.KindScan}

	image, err := a.download(c)
	if err != nil {
		logger.Error(ctx, "qr.decode", "download.fail",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		metrics.RecordScan(scanDownloadFailed, 0)
		event.Outcome = scanDownloadFailed
		a.record(ctx, c, event)
		router.SetOutcome(c, "fail", scanDownloadFailed)
		return c.Reply(TextProcessError)
	}

	start := time.Now()
	res, err := a.scanner.Decode(ctx, image)
	took := time.Since(start)
	if err != nil {
		logger.Error(ctx, "qr.decode", "decode.fail",
			slog.Int("image_bytes", len(image)),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		metrics.RecordScan(scanServiceError, took)
		event.Outcome = scanServiceError
		a.record(ctx, c, event)
		router.SetOutcome(c, "fail", scanServiceError)
		return c.Reply(TextScanError)
	}

	if !res.Found {
		metrics.RecordScan(scanNotFound, took)
		event.Outcome = scanNotFound
		a.record(ctx, c, event)
		router.SetOutcome(c, "ok", scanNotFound)
		return c.Reply(TextNotFound)
	}

	kind := qr.Classify(res.Text)
	logger.Info(ctx, "qr.decode", "decode.ok",
		slog.String("content_kind", kind.String()),
		slog.Int("content_chars", utf8.RuneCountInString(res.Text)),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	metrics.RecordScan(scanFound, took)
	event.Outcome = scanFound
	event.ContentKind = kind.String()
	event.ContentChars = utf8.RuneCountInString(res.Text)
	a.record(ctx, c, event)
	router.SetOutcome(c, "ok", scanFound)
	return c.Reply(format.Truncate(textDetected(qr.FormatResult(res.Text)), maxMessageChars))
}

// download fetches the photo attached to the message; Telegram already
// exposes the largest available size.
func (a *App) download(c tele.Context) ([]byte, error) {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil, errNoPhoto
	}
	rc, err := a.fetch(c, &msg.Photo.File)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
	}
	return data, nil
}
