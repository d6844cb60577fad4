package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{context.Canceled, KindCanceled},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), KindTimeout},
		{timeoutErr{}, KindTimeout},
		{&net.DNSError{Err: "no such host", Name: "api.telegram.org"}, KindDNS},
		{&net.OpError{Op: "dial", Err: errors.New("refused")}, KindDial},
		{tele.FloodError{RetryAfter: 3}, KindFlood},
		{errors.New("telegram: bad request (400)"), KindHTTP4xx},
		{errors.New("telegram: internal error (502)"), KindHTTP5xx},
		{errors.New("weird"), KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "%v", tc.err)
	}
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(timeoutErr{}))
	assert.True(t, ShouldRetry(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.True(t, ShouldRetry(&net.OpError{Op: "read", Err: errors.New("reset")}))
	assert.True(t, ShouldRetry(&net.OpError{Op: "dial", Err: &net.DNSError{Err: "server misbehaving"}}))
	assert.True(t, ShouldRetry(errors.New("telegram: bad gateway (502)")))
	assert.False(t, ShouldRetry(errors.New("telegram: bad request (400)")))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.False(t, ShouldRetry(nil))
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 3*time.Second, Backoff(tele.FloodError{RetryAfter: 3}, time.Second, 1))
	assert.Equal(t, maxRetryAfter, Backoff(tele.FloodError{RetryAfter: 600}, time.Second, 1))
	assert.Equal(t, 4*time.Second, Backoff(errors.New("x"), 2*time.Second, 2))

	_, ok := RetryAfter(errors.New("x"))
	assert.False(t, ok)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 403, StatusCode(errors.New("telegram: Forbidden: bot was blocked by the user (403)")))
	assert.Equal(t, 429, StatusCode(tele.FloodError{RetryAfter: 1}))
	assert.Zero(t, StatusCode(errors.New("no code here")))
}
