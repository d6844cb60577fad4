// Package keyboard builds inline keyboards whose buttons route through the callback registry.
package keyboard

import (
	"strings"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// MaxCallbackData is Telegram's limit for callback data in bytes.
const MaxCallbackData = 64

// InlineBtn describes a button by label, callback key and payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// Payload joins payload parts with the callback separator.
func Payload(parts ...string) string {
	return strings.Join(parts, callbacks.Sep)
}

// Fits reports whether the encoded callback data of b stays within Telegram's limit.
func (b InlineBtn) Fits() bool {
	n := len("\f") + len(b.Unique)
	if b.Data != "" {
		n += len(callbacks.Sep) + len(b.Data)
	}
	return n <= MaxCallbackData
}

// InlineGrid lays buttons out left to right with up to perRow buttons per row.
func InlineGrid(buttons []InlineBtn, perRow int) *tele.ReplyMarkup {
	if perRow < 1 {
		perRow = 1
	}
	markup := &tele.ReplyMarkup{}
	var rows [][]tele.InlineButton
	for i := 0; i < len(buttons); i += perRow {
		end := min(i+perRow, len(buttons))
		row := make([]tele.InlineButton, 0, end-i)
		for _, b := range buttons[i:end] {
			row = append(row, *markup.Data(b.Text, b.Unique, b.Data).Inline())
		}
		rows = append(rows, row)
	}
	markup.InlineKeyboard = rows
	return markup
}
