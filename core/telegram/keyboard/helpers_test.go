package keyboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineGrid(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "A", Unique: "k", Data: "a"},
		{Text: "B", Unique: "k", Data: "b"},
		{Text: "C", Unique: "k", Data: "c"},
		{Text: "D", Unique: "k", Data: "d"},
		{Text: "E", Unique: "k", Data: "e"},
	}
	markup := InlineGrid(buttons, 2)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 2)
	assert.Len(t, markup.InlineKeyboard[2], 1)

	last := markup.InlineKeyboard[2][0]
	assert.Equal(t, "E", last.Text)
	assert.Equal(t, "k", last.Unique)
	assert.Equal(t, "e", last.Data)

	assert.Len(t, InlineGrid(buttons[:2], 0).InlineKeyboard, 2)
}

func TestPayloadAndFits(t *testing.T) {
	assert.Equal(t, "red|tok", Payload("red", "tok"))
	assert.True(t, InlineBtn{Unique: "qrcolor", Data: Payload("purple", strings.Repeat("x", 36))}.Fits())
	assert.False(t, InlineBtn{Unique: "qrcolor", Data: strings.Repeat("x", 60)}.Fits())
}
