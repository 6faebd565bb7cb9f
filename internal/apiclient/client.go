// Package apiclient is the single boundary between feature code and the
// freight API. Every call goes through the same three stages:
//
//   - the transport attaches credentials and Accept: application/json and
//     makes exactly one attempt;
//   - on a 2xx response the normalizer decodes the body straight into the
//     caller's type, no envelope;
//   - on anything else the classifier decides between redirect-to-OTP (401),
//     validation-as-data (400) and a notified failure (everything else).
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/notify"
)

// Config is passed in at construction; nothing is read from the environment.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string
	// VerifyOTPRoute is where a 401 sends the user. Defaults to nav.VerifyOTP.
	VerifyOTPRoute string
	// HTTPClient defaults to a client with no timeout.
	HTTPClient *http.Client
	// Jar holds session cookies. When nil the HTTPClient's jar is used, and
	// when that is nil too a fresh in-memory jar is created.
	Jar       http.CookieJar
	UserAgent string
}

type Client struct {
	base      *url.URL
	verifyOTP string
	hc        *http.Client
	userAgent string
	notifier  notify.Notifier
	nav       nav.Navigator
	log       *zap.Logger
}

// New builds a Client. notifier and navigator may be nil, in which case the
// corresponding side effect is skipped.
func New(cfg Config, notifier notify.Notifier, navigator nav.Navigator, logger *zap.Logger) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("apiclient: base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported scheme %q", base.Scheme)
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	}
	switch {
	case cfg.Jar != nil:
		hc.Jar = cfg.Jar
	case hc.Jar == nil:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}

	route := cfg.VerifyOTPRoute
	if route == "" {
		route = nav.VerifyOTP
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:      base,
		verifyOTP: route,
		hc:        hc,
		userAgent: cfg.UserAgent,
		notifier:  notifier,
		nav:       navigator,
		log:       logger.Named("api"),
	}, nil
}

// BaseURL returns a copy of the configured base URL.
func (c *Client) BaseURL() *url.URL {
	cp := *c.base
	return &cp
}

// Jar exposes the session cookie jar so callers can persist it.
func (c *Client) Jar() http.CookieJar { return c.hc.Jar }

// Result is a resolved call. Validation is set when the value came from a
// 400 body rather than a 2xx one.
type Result[T any] struct {
	Value      T
	Status     int
	Validation bool
}

// Do sends req and resolves it to exactly one outcome: a decoded T or an error.
func Do[T any](ctx context.Context, c *Client, req Request) (T, error) {
	res, err := Exec[T](ctx, c, req)
	return res.Value, err
}

// Exec is Do for callers that need to know which path produced the value.
func Exec[T any](ctx context.Context, c *Client, req Request) (Result[T], error) {
	env, sendErr := c.Send(ctx, req)
	if sendErr == nil && env.OK() {
		out, err := Normalize[T](env)
		if err != nil {
			return Result[T]{}, fmt.Errorf("%s %s: %w", req.method(), req.Path, err)
		}
		return Result[T]{Value: out, Status: env.Status}, nil
	}

	oc := c.Classify(req, env, sendErr)
	if oc.Kind == KindValidation {
		return Result[T]{Value: decodeValidation[T](oc.Payload), Status: env.Status, Validation: true}, nil
	}
	return Result[T]{}, oc.Err
}

func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	return Do[T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: query})
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return Do[T](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return Do[T](ctx, c, Request{Method: http.MethodPut, Path: path, Body: body})
}

func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	return Do[T](ctx, c, Request{Method: http.MethodDelete, Path: path})
}
