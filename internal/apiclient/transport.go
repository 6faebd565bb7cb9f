package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Request is built per call and discarded after dispatch.
type Request struct {
	Method string
	// Path is relative to the base URL and may carry its own query string.
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// Envelope is the raw response before normalization. It never leaves the
// package through Do.
type Envelope struct {
	Status int
	Header http.Header
	Body   []byte
	URL    string
}

func (e *Envelope) OK() bool { return e != nil && e.Status >= 200 && e.Status <= 299 }

// URL resolves path against the base URL by concatenation, so a base of
// https://host/api keeps its /api prefix.
func (c *Client) URL(path string, query url.Values) (string, error) {
	base := strings.TrimRight(c.base.String(), "/")
	u, err := url.Parse(base + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Send performs a single attempt. A non-nil error means no response was
// received; any HTTP status, including 4xx and 5xx, comes back as an Envelope.
func (c *Client) Send(ctx context.Context, r Request) (*Envelope, error) {
	target, err := c.URL(r.Path, r.Query)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	var body io.Reader
	if r.Body != nil {
		switch b := r.Body.(type) {
		case []byte:
			body = bytes.NewReader(b)
		case json.RawMessage:
			body = bytes.NewReader(b)
		default:
			enc, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encode body: %w", err)
			}
			body = bytes.NewReader(enc)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method(), target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	c.log.Debug("request done",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	return &Envelope{Status: resp.StatusCode, Header: resp.Header, Body: raw, URL: target}, nil
}
