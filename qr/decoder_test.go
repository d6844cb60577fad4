package qr

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)

		file, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer file.Close()
			assert.Equal(t, "qr.png", hdr.Filename)
			assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
			data, _ := io.ReadAll(file)
			assert.Equal(t, []byte("png-bytes"), data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestDecodeFound(t *testing.T) {
	srv, calls := decodeServer(t, http.StatusOK,
		`[{"type":"qrcode","symbol":[{"seq":0,"data":"https://x.test","error":null}]}]`)

	res, err := NewDecoder(srv.URL, srv.Client()).Decode(t.Context(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, Result{Found: true, Text: "https://x.test"}, res)
	assert.Equal(t, 1, *calls)
}

func TestDecodeNotFound(t *testing.T) {
	bodies := map[string]string{
		"null data":     `[{"type":"qrcode","symbol":[{"seq":0,"data":null,"error":"could not find/read QR Code"}]}]`,
		"empty data":    `[{"type":"qrcode","symbol":[{"seq":0,"data":""}]}]`,
		"missing data":  `[{"type":"qrcode","symbol":[{"seq":0}]}]`,
		"empty symbols": `[{"type":"qrcode","symbol":[]}]`,
		"no symbols":    `[{"type":"qrcode"}]`,
		"empty outer":   `[]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv, _ := decodeServer(t, http.StatusOK, body)
			res, err := NewDecoder(srv.URL, srv.Client()).Decode(t.Context(), []byte("png-bytes"))
			require.NoError(t, err)
			assert.Equal(t, NotFound, res)
		})
	}
}

func TestDecodeServiceFailures(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		srv, _ := decodeServer(t, http.StatusBadGateway, `oops`)
		_, err := NewDecoder(srv.URL, srv.Client()).Decode(t.Context(), []byte("png-bytes"))
		assert.ErrorIs(t, err, ErrDecodeService)
	})

	t.Run("200 with garbage", func(t *testing.T) {
		srv, _ := decodeServer(t, http.StatusOK, `<html>`)
		_, err := NewDecoder(srv.URL, srv.Client()).Decode(t.Context(), []byte("png-bytes"))
		assert.ErrorIs(t, err, ErrDecodeService)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewDecoder(url, nil).Decode(t.Context(), []byte("png-bytes"))
		assert.ErrorIs(t, err, ErrDecodeService)
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)

		client := &http.Client{Timeout: 50 * time.Millisecond}
		_, err := NewDecoder(srv.URL, client).Decode(t.Context(), []byte("png-bytes"))
		assert.ErrorIs(t, err, ErrDecodeService)
	})
}
