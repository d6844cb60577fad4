package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/teletest"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		cb      *tele.Callback
		unique  string
		payload string
	}{
		{nil, "", ""},
		{&tele.Callback{Data: "\fqrcolor|red|tok"}, "qrcolor", "red|tok"},
		{&tele.Callback{Data: "\fnoop"}, "noop", ""},
		{&tele.Callback{Unique: "qrcolor", Data: "blue|tok"}, "qrcolor", "blue|tok"},
		{&tele.Callback{Data: "plain"}, "plain", ""},
	}
	for _, tc := range cases {
		u, p := ParseCallbackData(tc.cb)
		assert.Equal(t, tc.unique, u)
		assert.Equal(t, tc.payload, p)
	}
}

func TestPayloadParts(t *testing.T) {
	c := teletest.NewCallback(1, "\fqrcolor|green|abc|def")
	parts, ok := PayloadParts(c, 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"green", "abc|def"}, parts)

	_, ok = PayloadParts(teletest.NewCallback(1, "\fqrcolor|green"), 2)
	assert.False(t, ok)

	_, ok = PayloadParts(teletest.NewCallback(1, "\fqrcolor"), 2)
	assert.False(t, ok)
	assert.Equal(t, "qrcolor", CallbackKey(teletest.NewCallback(1, "\fqrcolor")))
}
