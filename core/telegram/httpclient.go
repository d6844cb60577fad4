package telegram

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 2 * time.Second
)

var errNoReplay = errors.New("telegram http: request body cannot be replayed")

// ClientOptions tunes BuildHTTPClient. Zero durations fall back to defaults;
// MaxRetries of zero disables the retrying transport.
type ClientOptions struct {
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration
	MaxRetries            int
	RetryBackoff          time.Duration
}

// TelegramClientOptions returns the settings used for Bot API calls.
// longPoll is the getUpdates timeout the client must outlast.
func TelegramClientOptions(longPoll time.Duration) ClientOptions {
	return ClientOptions{
		Timeout:               defaultClientTimeout + longPoll,
		ResponseHeaderTimeout: defaultResponseTimeout + longPoll,
		MaxRetries:            defaultRetryAttempts,
		RetryBackoff:          defaultRetryBackoff,
	}
}

// BuildHTTPClient returns an HTTP client with bounded dial, handshake and response times.
func BuildHTTPClient(opts ClientOptions) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultClientTimeout
	}
	if opts.ResponseHeaderTimeout <= 0 {
		opts.ResponseHeaderTimeout = defaultResponseTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	var rt http.RoundTripper = transport
	if opts.MaxRetries > 0 {
		rt = &retryTransport{
			base:       transport,
			maxRetries: opts.MaxRetries,
			backoff:    opts.RetryBackoff,
		}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
	}
}

// retryTransport repeats requests that failed before a response arrived.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		resp, err := base.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		if attempt >= t.maxRetries || !netutil.ShouldRetry(err) {
			return nil, err
		}
		next, rerr := rewind(req)
		if rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		if delay := netutil.Backoff(err, t.backoff, attempt+1); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		req = next
	}
}

// rewind clones req with a fresh body; bodies without GetBody cannot be replayed.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, errNoReplay
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}
