package health

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestRouterAnswersAnyPath(t *testing.T) {
	srv := httptest.NewServer(NewRouter(false))
	defer srv.Close()

	for _, path := range []string{"/", "/healthz", "/deep/nested/path", "/metrics"} {
		code, body := get(t, srv.Client(), srv.URL+path)
		assert.Equal(t, http.StatusOK, code, path)
		assert.Equal(t, AliveText, body, path)
	}

	resp, err := srv.Client().Head(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterServesMetrics(t *testing.T) {
	srv := httptest.NewServer(NewRouter(true))
	defer srv.Close()

	code, body := get(t, srv.Client(), srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(Options{Listen: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	code, body := get(t, client, "http://"+ln.Addr().String()+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, AliveText, body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServerAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:10000", NewServer(Options{Listen: "0.0.0.0", Port: 10000}).Addr())
}
