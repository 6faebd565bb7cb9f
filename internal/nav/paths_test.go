package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeURIComponent(t *testing.T) {
	cases := map[string]string{
		"/app/dashboard":        "%2Fapp%2Fdashboard",
		"a b":                   "a%20b",
		"?email=x@y.z&r=1":      "%3Femail%3Dx%40y.z%26r%3D1",
		"it's (fine)!*~-_.":     "it's%20(fine)!*~-_.",
		"/app/detailed-quote/7": "%2Fapp%2Fdetailed-quote%2F7",
	}
	for in, want := range cases {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}

func TestHref(t *testing.T) {
	assert.Equal(t, "/auth/otp-verify", Href(VerifyOTP, ""))
	assert.Equal(t, "/auth/otp-verify?redirectTo=%2Fapp%2Fdashboard", Href(VerifyOTP, Dashboard))
	assert.Equal(t, "/auth/login?redirectTo=%2Fapp%2Finbox", HomeHref(Inbox))
	assert.Equal(t, "/app/detailed-quote/q%201", DetailedQuoteHref("q 1"))
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic(VerifyOTP))
	assert.True(t, IsPublic(Login))
	assert.False(t, IsPublic(Dashboard))
}

func TestMemoryNavigator(t *testing.T) {
	m := NewMemory("/app/dashboard?tab=2")
	assert.Equal(t, "/app/dashboard", m.Location().Path)
	assert.Equal(t, "2", m.Location().Query().Get("tab"))
	assert.Empty(t, m.LastRedirect())

	m.Redirect("/auth/otp-verify?redirectTo=%2Fapp%2Fdashboard")
	assert.Equal(t, "/auth/otp-verify", m.Location().Path)
	assert.Equal(t, "/app/dashboard", m.Location().Query().Get("redirectTo"))
	assert.Equal(t, []string{"/auth/otp-verify?redirectTo=%2Fapp%2Fdashboard"}, m.Redirects())

	m.Visit(Inbox)
	assert.Equal(t, Inbox, m.Location().Path)
	assert.Len(t, m.Redirects(), 1)
}

func TestNewMemoryFallsBackToHome(t *testing.T) {
	assert.Equal(t, Home, NewMemory("").Location().Path)
}
