package qr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

const maxResponseBytes = 1 << 20

// ErrDecodeService marks failures of the remote decoding service itself.
// A successful call that found no symbol is reported as a Result instead.
var ErrDecodeService = errors.New("qr: decode service failed")

// Result is the outcome of a decode call: Found is false when no symbol was detected.
type Result struct {
	Found bool
	Text  string
}

// NotFound is the Result of a successful call that detected no QR symbol.
var NotFound = Result{}

// Decoder uploads images to a remote read-qr-code endpoint.
type Decoder struct {
	endpoint string
	client   *http.Client
}

// NewDecoder builds a decoder posting to endpoint with client (http.DefaultClient when nil).
func NewDecoder(endpoint string, client *http.Client) *Decoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Decoder{endpoint: endpoint, client: client}
}

type readSymbol struct {
	Seq   int     `json:"seq"`
	Data  *string `json:"data"`
	Error *string `json:"error"`
}

type readResult struct {
	Type   string       `json:"type"`
	Symbol []readSymbol `json:"symbol"`
}

// Decode sends image as a multipart upload and interprets the JSON answer.
func (d *Decoder) Decode(ctx context.Context, image []byte) (Result, error) {
	body, contentType, err := multipartImage(image)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrDecodeService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %v", ErrDecodeService, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDecodeService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Result{}, fmt.Errorf("%w: status %d", ErrDecodeService, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %v", ErrDecodeService, err)
	}
	return parseReadResponse(raw)
}

// parseReadResponse reads the first symbol of the first result.
// Missing arrays, null data and empty data all mean nothing was found.
func parseReadResponse(raw []byte) (Result, error) {
	var results []readResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return Result{}, fmt.Errorf("%w: decode body: %v", ErrDecodeService, err)
	}
	if len(results) == 0 || len(results[0].Symbol) == 0 {
		return NotFound, nil
	}
	sym := results[0].Symbol[0]
	if sym.Data == nil || *sym.Data == "" {
		return NotFound, nil
	}
	return Result{Found: true, Text: *sym.Data}, nil
}

func multipartImage(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="qr.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
