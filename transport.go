package apirequest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NewHTTPTransport returns a Transport that performs the attempt against
// baseURL+path with the given *http.Client (http.DefaultClient when nil) and
// decodes the JSON result envelope {"code", "message", "payload"}.
//
// Per the Transport contract the returned function resolves every attempt to
// a discriminated result: a decodable 2xx response yields an Envelope, and
// network errors, non-2xx statuses and undecodable bodies yield an error.
// It never panics.
func NewHTTPTransport(client *http.Client, baseURL string) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return func(ctx context.Context, req Request) (*Envelope, error) {
		httpReq, err := buildHTTPRequest(ctx, baseURL, req)
		if err != nil {
			return nil, &RequestError{
				Type:      ErrorTypeTransport,
				Message:   "building request failed",
				Cause:     err,
				Method:    req.Method,
				Path:      req.Path,
				Timestamp: time.Now(),
			}
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return nil, &RequestError{
				Type:      ErrorTypeTransport,
				Message:   "request failed",
				Cause:     err,
				Method:    req.Method,
				Path:      req.Path,
				Timestamp: time.Now(),
			}
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &RequestError{
				Type:      ErrorTypeTransport,
				Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
				Method:    req.Method,
				Path:      req.Path,
				Timestamp: time.Now(),
			}
		}

		var body struct {
			Code    int         `json:"code"`
			Message string      `json:"message"`
			Payload interface{} `json:"payload"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, &RequestError{
				Type:      ErrorTypeTransport,
				Message:   "decoding result envelope failed",
				Cause:     err,
				Method:    req.Method,
				Path:      req.Path,
				Timestamp: time.Now(),
			}
		}

		return &Envelope{Code: body.Code, Message: body.Message, Payload: body.Payload}, nil
	}
}

func buildHTTPRequest(ctx context.Context, baseURL string, req Request) (*http.Request, error) {
	target := baseURL + "/" + strings.TrimLeft(req.Path, "/")

	var body io.Reader
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	case string:
		body = strings.NewReader(b)
	case io.Reader:
		body = b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Query != nil {
		httpReq.URL.RawQuery = req.Query.Encode()
	}
	return httpReq, nil
}
