package helpers

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/sender"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/teletest"
)

func TestSendSynchronousWithoutDispatcher(t *testing.T) {
	SetDispatcher(nil)
	c := teletest.NewMessage(1, "hi")

	require.NoError(t, SendText(c, "hello"))
	require.NoError(t, SendPhoto(c, []byte("png"), "caption"))
	require.NoError(t, EditText(c, "edited"))

	replies := c.Replies()
	require.Len(t, replies, 3)
	assert.Equal(t, "hello", replies[0].Text())
	assert.Equal(t, "caption", replies[1].Text())
	assert.Equal(t, "edit", replies[2].Kind)

	photo, ok := replies[1].Photo()
	require.True(t, ok)
	data, err := io.ReadAll(photo.FileReader)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestSendThroughDispatcherKeepsOrder(t *testing.T) {
	d := sender.NewDispatcher(sender.Options{})
	SetDispatcher(d)
	t.Cleanup(func() { SetDispatcher(nil) })

	c := teletest.NewMessage(1, "hi")
	require.NoError(t, SendText(c, "first"))
	require.NoError(t, SendPhoto(c, bytes.Repeat([]byte{1}, 8), "second"))
	require.NoError(t, SendText(c, "third"))
	d.Close()

	var texts []string
	for _, r := range c.Replies() {
		texts = append(texts, r.Text())
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts)
}

func TestBuildContextIsCached(t *testing.T) {
	c := teletest.NewMessage(3, "x")
	ctx := BuildContext(c)
	again := BuildContext(c)
	assert.Equal(t, ctx, again)

	named := WithHandler(c, "scan")
	assert.Equal(t, "scan", logger.HandlerFrom(named))
	assert.Equal(t, int64(3), logger.UserIDFrom(named))
}
