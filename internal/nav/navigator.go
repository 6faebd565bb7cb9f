package nav

import (
	"net/url"
	"sync"
)

// Navigator exposes the current location and performs full redirects.
type Navigator interface {
	Location() *url.URL
	Redirect(href string)
}

// Memory is an in-process navigator. The CLI uses it to track which route a
// command represents and whether the API layer asked to go elsewhere.
type Memory struct {
	mu      sync.Mutex
	current *url.URL
	history []string
}

// NewMemory starts at href; an unparsable href starts at "/".
func NewMemory(href string) *Memory {
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		u = &url.URL{Path: Home}
	}
	return &Memory{current: u}
}

func (m *Memory) Location() *url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.current
	return &cp
}

func (m *Memory) Redirect(href string) {
	u, err := url.Parse(href)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, href)
	m.current = u
}

// Visit moves to href without recording it as a redirect.
func (m *Memory) Visit(href string) {
	u, err := url.Parse(href)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
}

// Redirects returns every href passed to Redirect, oldest first.
func (m *Memory) Redirects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}

// LastRedirect returns the most recent redirect target, or "".
func (m *Memory) LastRedirect() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return ""
	}
	return m.history[len(m.history)-1]
}
