// Package nav holds the application route table and the navigator the API
// layer redirects through.
package nav

import (
	"net/url"
	"strings"
)

// Route paths. App routes are absolute here; the web router nests them.
const (
	Home            = "/"
	Login           = "/auth/login"
	Register        = "/auth/register"
	VerifyOTP       = "/auth/otp-verify"
	AppRoot         = "/app"
	Dashboard       = "/app/dashboard"
	QuickEstimate   = "/app/quick-estimate"
	DetailedQuote   = "/app/detailed-quote"
	ShipmentTracker = "/app/tracking-shippments"
	Inbox           = "/app/inbox"
)

// AppPaths are the routes behind the session check.
var AppPaths = []string{Dashboard, QuickEstimate, DetailedQuote, ShipmentTracker, Inbox}

// PublicPaths never require a session.
var PublicPaths = []string{Login, Register, VerifyOTP}

func IsPublic(path string) bool {
	for _, p := range PublicPaths {
		if p == path {
			return true
		}
	}
	return false
}

// Href returns route with an optional redirectTo query parameter.
func Href(route, redirectTo string) string {
	if redirectTo == "" {
		return route
	}
	return route + "?redirectTo=" + EncodeURIComponent(redirectTo)
}

// HomeHref sends visitors to the login page, matching the web app.
func HomeHref(redirectTo string) string { return Href(Login, redirectTo) }

func DetailedQuoteHref(id string) string {
	return DetailedQuote + "/" + url.PathEscape(id)
}

var uriComponentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way JavaScript's encodeURIComponent does,
// so hrefs match what the browser client produced.
func EncodeURIComponent(s string) string {
	return uriComponentFixups.Replace(url.QueryEscape(s))
}
