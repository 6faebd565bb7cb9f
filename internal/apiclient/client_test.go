package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/notify"
)

type fixture struct {
	srv    *httptest.Server
	client *Client
	log    *notify.Log
	nav    *nav.Memory
}

func newFixture(t *testing.T, at string, h http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	hc := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	log := notify.NewLog()
	m := nav.NewMemory(at)
	c, err := New(Config{BaseURL: srv.URL + "/api", HTTPClient: hc}, log, m, nil)
	require.NoError(t, err)
	return &fixture{srv: srv, client: c, log: log, nav: m}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Config{}, nil, nil, nil)
	require.Error(t, err)
	_, err = New(Config{BaseURL: "ftp://example.com"}, nil, nil, nil)
	require.Error(t, err)
	c, err := New(Config{BaseURL: "https://example.com/api/"}, nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Jar())
	assert.Equal(t, "/api/", c.BaseURL().Path)
}

func TestSuccessReturnsBodyUnchanged(t *testing.T) {
	const body = `{"data":[{"id":1,"origin":"New York, NY"}],"meta":{"page":1,"total":1,"totalPages":1},"extra":null}`
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/estimates", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, body)
	})

	got, err := Get[map[string]any](context.Background(), f.client, "/estimates", url.Values{"page": {"2"}})
	require.NoError(t, err)

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, f.log.Len())
	assert.Empty(t, f.nav.Redirects())
}

func TestPostSendsJSONAndCredentials(t *testing.T) {
	f := newFixture(t, nav.Login, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var in map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "ops@example.com", in["email"])
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			writeJSON(w, http.StatusOK, `{"ok":true}`)
		case "/api/auth/me":
			ck, err := r.Cookie("session")
			if assert.NoError(t, err) {
				assert.Equal(t, "abc", ck.Value)
			}
			writeJSON(w, http.StatusOK, `{"user":{"id":1}}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	_, err := Post[map[string]bool](ctx, f.client, "/auth/login", map[string]string{"email": "ops@example.com"})
	require.NoError(t, err)
	_, err = Get[map[string]any](ctx, f.client, "/auth/me", nil)
	require.NoError(t, err)
}

func TestUnauthorizedNotifiesAndRedirects(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Session expired"}`)
	})

	_, err := Get[map[string]any](context.Background(), f.client, "/auth/me", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.False(t, errors.Is(err, ErrFailure))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	notes := f.log.List()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.TypeError, notes[0].Type)
	assert.Equal(t, "Error", notes[0].Title)
	assert.Equal(t, "Session expired", notes[0].Message)

	assert.Equal(t, []string{"/auth/otp-verify?redirectTo=%2Fapp%2Fdashboard"}, f.nav.Redirects())
}

func TestUnauthorizedKeepsExistingRedirectTo(t *testing.T) {
	f := newFixture(t, "/auth/login?redirectTo=%2Fapp%2Finbox", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := Get[map[string]any](context.Background(), f.client, "/auth/me", nil)
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, "/auth/otp-verify?redirectTo=%2Fapp%2Finbox", f.nav.LastRedirect())
	require.Equal(t, 1, f.log.Len())
	assert.Equal(t, "Request failed with status code 401", f.log.List()[0].Message)
}

func TestBadRequestResolvesWithBody(t *testing.T) {
	f := newFixture(t, nav.QuickEstimate, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"Invalid input"}`)
	})

	got, err := Post[map[string]any](context.Background(), f.client, "/estimates", map[string]any{"weight": 0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "Invalid input"}, got)
	assert.Zero(t, f.log.Len())
	assert.Empty(t, f.nav.Redirects())

	type estimate struct {
		ID int `json:"id"`
		Problem
	}
	est, err := Post[estimate](context.Background(), f.client, "/estimates", nil)
	require.NoError(t, err)
	assert.True(t, est.Invalid())
	assert.Equal(t, "Invalid input", est.Text())
}

func TestBadRequestWithTextBodyStillResolves(t *testing.T) {
	f := newFixture(t, nav.QuickEstimate, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid input\n"))
	})

	type estimate struct {
		ID int `json:"id"`
		Problem
	}
	res, err := Exec[estimate](context.Background(), f.client, Request{Method: http.MethodPost, Path: "/estimates"})
	require.NoError(t, err)
	assert.True(t, res.Validation)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Zero(t, res.Value.ID)
	assert.Equal(t, "Invalid input", res.Value.Text())

	p, err := Post[Problem](context.Background(), f.client, "/estimates", nil)
	require.NoError(t, err)
	assert.Equal(t, "Invalid input", p.Message)

	list, err := Post[[]int](context.Background(), f.client, "/estimates", nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Zero(t, f.log.Len())
	assert.Empty(t, f.nav.Redirects())
}

func TestOtherStatusesNotifyAndReject(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, `{"message":"nope"}`)
		})
		_, err := Get[map[string]any](context.Background(), f.client, "/estimates", nil)
		require.Error(t, err, status)
		assert.ErrorIs(t, err, ErrFailure)
		assert.Equal(t, status, StatusOf(err))
		assert.Equal(t, "nope", MessageOf(err))
		assert.Equal(t, 1, f.log.Len(), status)
		assert.Empty(t, f.nav.Redirects())
	}
}

func TestFailureWithoutMessageUsesGenericText(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	_, err := Get[map[string]any](context.Background(), f.client, "/estimates", nil)
	require.Error(t, err)
	assert.Equal(t, "Request failed with status code 500", MessageOf(err))
	assert.Equal(t, "Request failed with status code 500", f.log.List()[0].Message)
}

func TestNoResponseNotifiesAndRejects(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {})
	f.srv.Close()

	_, err := Get[map[string]any](context.Background(), f.client, "/estimates", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailure)
	assert.Zero(t, StatusOf(err))

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.NotNil(t, ae.Err)
	assert.Equal(t, 1, f.log.Len())
}

func TestCanceledCallIsNotNotified(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[map[string]any](ctx, f.client, "/estimates", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.log.Len())
}

func TestClassifyTwiceNotifiesTwice(t *testing.T) {
	f := newFixture(t, nav.Dashboard, nil)
	env := &Envelope{Status: http.StatusInternalServerError, Body: []byte(`{"message":"down"}`), URL: "/x"}
	req := Request{Path: "/x"}

	a := f.client.Classify(req, env, nil)
	b := f.client.Classify(req, env, nil)
	assert.Equal(t, KindFailure, a.Kind)
	assert.Equal(t, KindFailure, b.Kind)
	notes := f.log.List()
	require.Len(t, notes, 2)
	assert.NotEqual(t, notes[0].ID, notes[1].ID)
}

func TestClassifyPriority(t *testing.T) {
	f := newFixture(t, nav.Dashboard, nil)
	req := Request{Path: "/x"}

	oc := f.client.Classify(req, &Envelope{Status: 401}, nil)
	assert.Equal(t, KindAuthRequired, oc.Kind)
	oc = f.client.Classify(req, &Envelope{Status: 400, Body: []byte(`{"message":"bad"}`)}, nil)
	assert.Equal(t, KindValidation, oc.Kind)
	assert.Nil(t, oc.Err)
	assert.JSONEq(t, `{"message":"bad"}`, string(oc.Payload))
	oc = f.client.Classify(req, &Envelope{Status: 409}, nil)
	assert.Equal(t, KindFailure, oc.Kind)
	oc = f.client.Classify(req, nil, errors.New(""))
	assert.Equal(t, KindFailure, oc.Kind)
	assert.Equal(t, networkErrorMessage, oc.Err.Message)
}

func TestStringAndEmptyBodies(t *testing.T) {
	f := newFixture(t, nav.VerifyOTP, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/verify-otp":
			_, _ = w.Write([]byte("OTP verified"))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	s, err := Post[string](ctx, f.client, "/auth/verify-otp", map[string]string{"otp": "123456"})
	require.NoError(t, err)
	assert.Equal(t, "OTP verified", s)

	m, err := Post[map[string]any](ctx, f.client, "/auth/logout", nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMalformedSuccessBody(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	_, err := Get[map[string]any](context.Background(), f.client, "/x", nil)
	require.Error(t, err)
	assert.Zero(t, f.log.Len())
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	f := newFixture(t, nav.Dashboard, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") == "1" {
			writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"ok":true}`)
	})

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := url.Values{}
			if i%2 == 0 {
				q.Set("fail", "1")
			}
			_, errs[i] = Get[map[string]bool](context.Background(), f.client, "/x", q)
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	assert.Equal(t, 10, failed)
	assert.Equal(t, 10, f.log.Len())
}

func TestURLJoin(t *testing.T) {
	c, err := New(Config{BaseURL: "https://api.example.com/v1/"}, nil, nil, nil)
	require.NoError(t, err)
	got, err := c.URL("/estimates?sort=desc", url.Values{"page": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/estimates?page=3&sort=desc", got)
}
