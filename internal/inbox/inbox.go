// Package inbox reads the mailbox linked to the company account. It talks to
// the mail endpoints through the raw transport: their failures belong to the
// inbox session and never redirect to OTP verification or raise
// notifications.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/pkg/api"
)

const (
	DefaultPageSize = 5
	unknownSender   = "Unknown Sender"
	noSubject       = "No Subject"
)

var ErrNotSignedIn = errors.New("inbox: not signed in")

type Email struct {
	ID      string     `json:"id" yaml:"id"`
	From    string     `json:"from" yaml:"from"`
	Subject string     `json:"subject" yaml:"subject"`
	Snippet string     `json:"snippet" yaml:"snippet"`
	Date    *time.Time `json:"date" yaml:"date"`
	Read    bool       `json:"read" yaml:"read"`
}

// wireEmail is what the server sends; fields may be missing or empty.
type wireEmail struct {
	ID      api.ID `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

func (w wireEmail) email() Email {
	e := Email{ID: w.ID.String(), From: w.From, Subject: w.Subject, Snippet: w.Snippet}
	if e.From == "" {
		e.From = unknownSender
	}
	if e.Subject == "" {
		e.Subject = noSubject
	}
	if w.Date != "" {
		if t, err := parseDate(w.Date); err == nil {
			t = t.UTC()
			e.Date = &t
		}
	}
	return e
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC1123Z, time.RFC1123, time.RFC822Z, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

type ListOptions struct {
	Page      int
	PageSize  int
	SortOrder string // asc or desc
}

func (o ListOptions) normalized() ListOptions {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

type Page struct {
	Emails  []Email `json:"emails" yaml:"emails"`
	Page    int     `json:"page" yaml:"page"`
	HasMore bool    `json:"hasMore" yaml:"hasMore"`
}

type Service struct {
	api       *apiclient.Client
	fromEmail string
}

// New binds the service to the account whose mail is listed.
func New(c *apiclient.Client, fromEmail string) *Service {
	return &Service{api: c, fromEmail: fromEmail}
}

func (s *Service) List(ctx context.Context, opts ListOptions) (Page, error) {
	opts = opts.normalized()
	q := url.Values{
		"fromEmail": {s.fromEmail},
		"page":      {strconv.Itoa(opts.Page)},
		"pageSize":  {strconv.Itoa(opts.PageSize)},
		"sortOrder": {opts.SortOrder},
	}
	env, err := s.api.Send(ctx, apiclient.Request{Method: http.MethodGet, Path: "/api/emails", Query: q})
	if err != nil {
		return Page{}, fmt.Errorf("fetch emails: %w", err)
	}
	if env.Status == http.StatusUnauthorized || env.Status == http.StatusForbidden {
		return Page{}, ErrNotSignedIn
	}
	if !env.OK() {
		return Page{}, failure(http.MethodGet, env, "message", "Failed to fetch emails")
	}
	var raw []wireEmail
	if err := json.Unmarshal(env.Body, &raw); err != nil {
		return Page{}, fmt.Errorf("decode emails: %w", err)
	}
	out := Page{Page: opts.Page, Emails: make([]Email, 0, len(raw))}
	for _, w := range raw {
		out.Emails = append(out.Emails, w.email())
	}
	out.HasMore = len(out.Emails) == opts.PageSize
	return out, nil
}

// SignedIn probes the session with a cheap list call.
func (s *Service) SignedIn(ctx context.Context) (bool, error) {
	_, err := s.List(ctx, ListOptions{PageSize: 1})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotSignedIn):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) Login(ctx context.Context, email, appPassword string) error {
	var v api.Validator
	v.Email("email", email, "Invalid email")
	v.Required("password", appPassword, "Required")
	if err := v.Err(); err != nil {
		return err
	}
	env, err := s.api.Send(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/login",
		Body:   map[string]string{"email": email, "password": appPassword},
	})
	if err != nil {
		return fmt.Errorf("inbox login: %w", err)
	}
	if !env.OK() {
		return failure(http.MethodPost, env, "error", "Login failed. Please check your credentials.")
	}
	return nil
}

// Logout ends the mail session. A 403 means the session was already gone and
// counts as success.
func (s *Service) Logout(ctx context.Context) error {
	env, err := s.api.Send(ctx, apiclient.Request{Method: http.MethodPost, Path: "/api/logout"})
	if err != nil {
		return fmt.Errorf("inbox logout: %w", err)
	}
	if env.OK() || env.Status == http.StatusForbidden {
		return nil
	}
	return failure(http.MethodPost, env, "message", "Failed to logout properly")
}

// failure reads the named field out of an error body.
func failure(method string, env *apiclient.Envelope, field, fallback string) error {
	var body map[string]any
	msg := fallback
	if json.Unmarshal(env.Body, &body) == nil {
		if s, ok := body[field].(string); ok && s != "" {
			msg = s
		}
	}
	return &apiclient.Error{Kind: apiclient.KindFailure, Method: method, URL: env.URL, Status: env.Status, Message: msg, Body: env.Body}
}

// MarkRead returns a copy of emails with id flagged as read.
func MarkRead(emails []Email, id string) []Email {
	out := make([]Email, len(emails))
	copy(out, emails)
	for i := range out {
		if out[i].ID == id {
			out[i].Read = true
		}
	}
	return out
}

type haystack []Email

func (h haystack) String(i int) string { return h[i].From + " " + h[i].Subject }
func (h haystack) Len() int            { return len(h) }

// Filter fuzzy-matches pattern against sender and subject, best match first.
func Filter(emails []Email, pattern string) []Email {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return emails
	}
	matches := fuzzy.FindFrom(pattern, haystack(emails))
	out := make([]Email, 0, len(matches))
	for _, m := range matches {
		out = append(out, emails[m.Index])
	}
	return out
}
