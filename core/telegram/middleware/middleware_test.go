package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/teletest"
)

func TestRecoverMiddlewareRepliesAndSwallows(t *testing.T) {
	c := teletest.NewMessage(1, "/generate")
	h := RecoverMiddleware("❌ An error occurred. Please try again later.")(func(tele.Context) error {
		panic("boom")
	})

	require.NotPanics(t, func() {
		assert.NoError(t, h(c))
	})
	replies := c.Replies()
	require.Len(t, replies, 1)
	assert.Equal(t, "❌ An error occurred. Please try again later.", replies[0].Text())
}

func TestRecoverMiddlewarePassesErrors(t *testing.T) {
	c := teletest.NewMessage(1, "hi")
	want := assert.AnError
	h := RecoverMiddleware("oops")(func(tele.Context) error { return want })
	assert.ErrorIs(t, h(c), want)
	assert.Empty(t, c.Replies())
}

func TestRateLimitMiddleware(t *testing.T) {
	var limited, handled int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		Exclude:   map[string]struct{}{KindCallback: {}},
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	h := mw(func(tele.Context) error { handled++; return nil })

	require.NoError(t, h(teletest.NewMessage(1, "a")))
	require.NoError(t, h(teletest.NewMessage(1, "b")))
	require.NoError(t, h(teletest.NewMessage(2, "c")))
	require.NoError(t, h(teletest.NewCallback(1, "\fqrcolor|red|x")))

	assert.Equal(t, 3, handled)
	assert.Equal(t, 1, limited)
}

func TestLoggerMiddlewareStoresContext(t *testing.T) {
	c := teletest.NewMessage(9, "hello")
	c.UpdateID = 77

	var rid string
	h := LoggerMiddleware(func(c tele.Context) error {
		rid, _ = c.Get("rid").(string)
		_, ok := tghelpers.ContextFrom(c)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, h(c))
	assert.Contains(t, rid, "77")
}

func TestMessageMetricsCountsReplies(t *testing.T) {
	c := teletest.NewMessage(1, "hi")
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		if err := c.Send("one"); err != nil {
			return err
		}
		return c.Send("two", &tele.ReplyMarkup{})
	})
	require.NoError(t, h(c))

	msgs, kb := GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
}

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, KindMessage, UpdateKind(tele.Update{Message: &tele.Message{}}))
	assert.Equal(t, KindCallback, UpdateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, KindOther, UpdateKind(tele.Update{}))
}

func TestUserLimitersSweepIdleUsers(t *testing.T) {
	u := newUserLimiters(time.Second)
	now := time.Now()
	for id := range int64(maxTrackedUsers) {
		assert.True(t, u.allow(id, now))
	}
	assert.False(t, u.allow(0, now.Add(100*time.Millisecond)))

	later := now.Add(2 * time.Second)
	assert.True(t, u.allow(maxTrackedUsers+1, later))
	assert.Len(t, u.users, 1)
}
