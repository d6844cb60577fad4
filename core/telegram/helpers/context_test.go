package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/teletest"
)

func TestBuildContextAttachesOnce(t *testing.T) {
	c := teletest.NewMessage(42, "hi")
	c.UpdateID = 7

	_, ok := ContextFrom(c)
	require.False(t, ok)

	ctx := BuildContext(c)
	assert.Equal(t, int64(42), logger.ChatIDFrom(ctx))
	assert.Equal(t, 7, logger.UpdateIDFrom(ctx))
	assert.NotEmpty(t, RID(c))

	assert.Equal(t, ctx, BuildContext(c))
}

func TestWithHandlerUpdatesStoredContext(t *testing.T) {
	c := teletest.NewMessage(1, "hi")
	WithHandler(c, "scan")

	ctx, ok := ContextFrom(c)
	require.True(t, ok)
	assert.Equal(t, "scan", logger.HandlerFrom(ctx))
}
