// Package netutil classifies Bot API and transport errors for retries and metrics.
package netutil

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"
)

// Error kinds reported by Classify.
const (
	KindTimeout   = "timeout"
	KindDNS       = "dns"
	KindDial      = "dial"
	KindTLS       = "tls"
	KindFlood     = "flood"
	KindHTTP4xx   = "http_4xx"
	KindHTTP5xx   = "http_5xx"
	KindCanceled  = "canceled"
	KindUnknown   = "unknown"
	maxRetryAfter = 30 * time.Second
)

// statusRe matches the "(429)" style suffix telebot puts on API errors.
var statusRe = regexp.MustCompile(`\((\d{3})\)\s*$`)

// Classify maps err to one of the Kind constants; nil yields "".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return KindFlood
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return KindDial
	}
	var alert tls.AlertError
	if errors.As(err, &alert) {
		return KindTLS
	}

	switch code := StatusCode(err); {
	case code == http.StatusTooManyRequests:
		return KindFlood
	case code >= 500:
		return KindHTTP5xx
	case code >= 400:
		return KindHTTP4xx
	}
	return KindUnknown
}

// ShouldRetry reports whether repeating the request may succeed.
func ShouldRetry(err error) bool {
	switch Classify(err) {
	case KindTimeout, KindDNS, KindDial, KindFlood, KindHTTP5xx:
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && (opErr.Op == "read" || opErr.Op == "write")
}

// RetryAfter returns the wait requested by Telegram flood control, capped at 30s.
func RetryAfter(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if !errors.As(err, &flood) || flood.RetryAfter <= 0 {
		return 0, false
	}
	return min(time.Duration(flood.RetryAfter)*time.Second, maxRetryAfter), true
}

// Backoff is the delay before attempt+1: flood control wins, otherwise base grows linearly.
func Backoff(err error, base time.Duration, attempt int) time.Duration {
	if d, ok := RetryAfter(err); ok {
		return d
	}
	return base * time.Duration(attempt)
}

// StatusCode extracts the HTTP status carried by a telebot error, or 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return http.StatusTooManyRequests
	}
	var group tele.GroupError
	if errors.As(err, &group) {
		return http.StatusBadRequest
	}
	if m := statusRe.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}
