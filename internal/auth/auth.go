// Package auth covers the session endpoints: who am I, login, register,
// logout and OTP verification.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mithrel/freightdesk/internal/apiclient"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/notify"
	"github.com/mithrel/freightdesk/internal/query"
	"github.com/mithrel/freightdesk/pkg/api"
)

type OTPVerification struct {
	Verified bool   `json:"verified" yaml:"verified"`
	Secret   string `json:"secret,omitempty" yaml:"-"`
}

type User struct {
	ID              api.ID           `json:"id" yaml:"id"`
	Email           string           `json:"email" yaml:"email"`
	FirstName       string           `json:"firstName" yaml:"firstName"`
	LastName        string           `json:"lastName" yaml:"lastName"`
	Enabled         bool             `json:"enabled" yaml:"enabled"`
	Role            string           `json:"role,omitempty" yaml:"role,omitempty"`
	OTPVerification *OTPVerification `json:"otpVerification,omitempty" yaml:"otpVerification,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// OTPVerified is false when the server has not said otherwise.
func (u User) OTPVerified() bool {
	return u.OTPVerification != nil && u.OTPVerification.Verified
}

// Response is returned by /auth/me, /auth/login and /auth/register.
type Response struct {
	User        *User `json:"user"`
	RequiresOTP *bool `json:"requiresOtp,omitempty"`
	OTPVerified *bool `json:"otpVerified,omitempty"`
	apiclient.Problem
}

// resolveUser folds the top-level otpVerified flag into the user; it wins
// over the nested one.
func (r Response) resolveUser() *User {
	if r.User == nil {
		return nil
	}
	u := *r.User
	v := OTPVerification{}
	if u.OTPVerification != nil {
		v = *u.OTPVerification
	}
	if r.OTPVerified != nil {
		v.Verified = *r.OTPVerified
	}
	u.OTPVerification = &v
	return &u
}

var (
	ErrNoUser       = errors.New("no user data returned")
	ErrNotActivated = errors.New("account not activated, verify your OTP")
	ErrOTPRejected  = errors.New("otp rejected")
)

// otpReply is either a bare JSON string or an object carrying a message.
type otpReply struct {
	Message string
}

func (r *otpReply) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		r.Message = s
		return nil
	}
	var p apiclient.Problem
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	r.Message = p.Text()
	return nil
}

func (r *otpReply) UnmarshalText(b []byte) error {
	r.Message = strings.TrimSpace(string(b))
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	var v api.Validator
	if strings.TrimSpace(in.Email) == "" {
		v.Add("email", "Required")
	} else {
		v.Email("email", in.Email, "Invalid email")
	}
	v.MinLen("password", in.Password, 5, "Required")
	return v.Err()
}

type RegisterInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (in RegisterInput) Validate() error {
	var v api.Validator
	v.Required("firstName", in.FirstName, "First Name is required")
	v.Required("lastName", in.LastName, "Last Name is required")
	v.Email("email", in.Email, "Invalid email address")
	v.MinLen("password", in.Password, 6, "Password must be at least 6 characters")
	return v.Err()
}

var userKey = query.NewKey("user")

type Service struct {
	api      *apiclient.Client
	nav      nav.Navigator
	notifier notify.Notifier
	cache    *query.Cache
}

// New wires the service. navigator, notifier and cache may be nil.
func New(c *apiclient.Client, navigator nav.Navigator, notifier notify.Notifier, cache *query.Cache) *Service {
	return &Service{api: c, nav: navigator, notifier: notifier, cache: cache}
}

// Me returns the signed-in user, or nil when there is none. Public routes
// never ask the server. A rejected session is reported as nil; the API layer
// has already redirected to OTP verification.
func (s *Service) Me(ctx context.Context) (*User, error) {
	if s.nav != nil && nav.IsPublic(s.nav.Location().Path) {
		return nil, nil
	}
	u, err := query.Fetch(ctx, s.cache, userKey, func(ctx context.Context) (*User, error) {
		resp, err := apiclient.Get[Response](ctx, s.api, "/auth/me", nil)
		if err != nil {
			return nil, err
		}
		return resp.resolveUser(), nil
	})
	if errors.Is(err, apiclient.ErrAuthRequired) {
		return nil, nil
	}
	return u, err
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := apiclient.Post[Response](ctx, s.api, "/auth/login", in)
	if err != nil {
		return nil, err
	}
	u := resp.resolveUser()
	if u == nil {
		return nil, problemOr(resp.Problem, "login failed", ErrNoUser)
	}
	if !u.Enabled {
		return nil, ErrNotActivated
	}
	s.remember(u)
	return u, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := apiclient.Post[Response](ctx, s.api, "/auth/register", in)
	if err != nil {
		return nil, err
	}
	u := resp.resolveUser()
	if u == nil {
		return nil, problemOr(resp.Problem, "registration failed", ErrNoUser)
	}
	if s.cache != nil {
		s.cache.Invalidate(userKey)
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if s.cache != nil {
		s.cache.Invalidate(userKey)
	}
	_, err := apiclient.Post[apiclient.Problem](ctx, s.api, "/auth/logout", nil)
	return err
}

// VerifyOTP submits the code. On success it pushes a success notification
// and navigates to the pending redirectTo, or to the login page.
func (s *Service) VerifyOTP(ctx context.Context, otp string) (string, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		var v api.Validator
		v.Add("otp", "Required")
		return "", v.Err()
	}
	res, err := apiclient.Exec[otpReply](ctx, s.api, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/verify-otp",
		Body:   map[string]string{"otp": otp},
	})
	if err != nil {
		return "", err
	}
	msg := res.Value.Message
	if res.Validation {
		if msg == "" {
			msg = "Verification failed"
		}
		return "", fmt.Errorf("%w: %s", ErrOTPRejected, msg)
	}
	if s.cache != nil {
		s.cache.Invalidate(userKey)
	}
	if s.notifier != nil {
		s.notifier.Push(notify.Notification{Type: notify.TypeSuccess, Title: "Success", Message: msg})
	}
	if s.nav != nil {
		target := s.nav.Location().Query().Get("redirectTo")
		if target == "" {
			target = nav.Login
		}
		s.nav.Redirect(target)
	}
	return msg, nil
}

// VerifyHref is where an unverified user is sent from a protected route.
func VerifyHref(u *User, from string) string {
	if u == nil {
		return nav.Href(nav.Login, from)
	}
	return nav.VerifyOTP + "?email=" + nav.EncodeURIComponent(u.Email) + "&redirectTo=" + nav.EncodeURIComponent(from)
}

func (s *Service) remember(u *User) {
	if s.cache != nil {
		s.cache.Set(userKey, u)
	}
}

func problemOr(p apiclient.Problem, action string, fallback error) error {
	if p.Invalid() {
		return fmt.Errorf("%s: %s", action, p.Text())
	}
	return fmt.Errorf("%s: %w", action, fallback)
}
