package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Sep joins the unique key and the payload parts of callback data.
const Sep = "|"

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns unique and payload (may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ := strings.Cut(raw, Sep)
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the unique key of the pressed button.
func CallbackKey(c tele.Context) string {
	k, _ := ParseCallbackData(c.Callback())
	return k
}

// CallbackPayload returns the payload after the unique key.
func CallbackPayload(c tele.Context) string {
	_, p := ParseCallbackData(c.Callback())
	return p
}

// PayloadParts splits the callback payload into exactly n parts.
func PayloadParts(c tele.Context, n int) ([]string, bool) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, false
	}
	parts := strings.SplitN(p, Sep, n)
	if len(parts) != n {
		return nil, false
	}
	return parts, true
}
