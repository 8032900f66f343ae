// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

const (
	// maxBodySize caps how much of an upstream body is read.
	maxBodySize = 8 << 20

	// maxErrorBodySize caps the body kept on a StatusError for logging.
	maxErrorBodySize = 2 << 10
)

// Request builds an upstream GET URL.
//
//	reqURL, err := upstream.NewRequest(cfg.URL).
//	    Set("action", "query").
//	    Set("srsearch", query).
//	    SetInt("srlimit", 10).
//	    URL()
type Request struct {
	baseURL string
	params  url.Values
}

// NewRequest starts a request against baseURL. Query parameters already on
// baseURL are kept.
func NewRequest(baseURL string) *Request {
	return &Request{baseURL: baseURL, params: url.Values{}}
}

// Set sets key to value, including the empty string. Search queries are
// forwarded verbatim, so an empty query still produces a parameter.
func (r *Request) Set(key, value string) *Request {
	r.params.Set(key, value)
	return r
}

// SetInt sets an integer parameter.
func (r *Request) SetInt(key string, value int) *Request {
	r.params.Set(key, strconv.Itoa(value))
	return r
}

// Add appends a value, for repeated keys such as fl[].
func (r *Request) Add(key, value string) *Request {
	r.params.Add(key, value)
	return r
}

// URL returns the encoded URL.
func (r *Request) URL() (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	merged := u.Query()
	for key, values := range r.params {
		merged.Del(key)
		for _, v := range values {
			merged.Add(key, v)
		}
	}
	u.RawQuery = merged.Encode()
	return u.String(), nil
}

// JoinPath returns baseURL with elems appended as escaped path segments.
func JoinPath(baseURL string, elems ...string) (string, error) {
	joined, err := url.JoinPath(baseURL, elems...)
	if err != nil {
		return "", fmt.Errorf("join path: %w", err)
	}
	return joined, nil
}

// Get performs a GET and returns the body of a 200 response.
func Get(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	return body, nil
}

// classifyTransportError folds deadline failures into ErrTimeout.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("request failed: %w", err)
}

// readBodyForError reads a bounded prefix of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}

// DecodeJSON unmarshals body into v, wrapping failures in *DecodeError.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
