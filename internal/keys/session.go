// Package keys stores the API session so cookies survive between CLI runs.
package keys

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"sync"
	"time"
)

type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
}

func (c savedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain,
		Secure: c.Secure, HttpOnly: c.HttpOnly, Expires: c.Expires,
	}
}

// Jar is a cookie jar that also remembers the attributes of every cookie
// it was given, which *cookiejar.Jar does not hand back.
type Jar struct {
	*cookiejar.Jar

	mu   sync.Mutex
	seen map[string]savedCookie
	now  func() time.Time
}

func NewJar() (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: inner, seen: map[string]savedCookie{}, now: time.Now}, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.Jar.SetCookies(u, cookies)
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	for _, c := range cookies {
		s := savedCookie{
			Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain,
			Secure: c.Secure, HttpOnly: c.HttpOnly, Expires: c.Expires,
		}
		if s.Path == "" || s.Path[0] != '/' {
			s.Path = defaultPath(u.Path)
		}
		if s.Domain == "" {
			s.Domain = u.Hostname()
		}
		if c.MaxAge > 0 {
			s.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		key := s.Domain + ";" + s.Path + ";" + s.Name
		if c.MaxAge < 0 || (!s.Expires.IsZero() && !s.Expires.After(now)) {
			delete(j.seen, key)
			continue
		}
		j.seen[key] = s
	}
}

// saved returns the live cookies with their attributes.
func (j *Jar) saved() []savedCookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	out := make([]savedCookie, 0, len(j.seen))
	for key, s := range j.seen {
		if !s.Expires.IsZero() && !s.Expires.After(now) {
			delete(j.seen, key)
			continue
		}
		out = append(out, s)
	}
	return out
}

// defaultPath follows RFC 6265 section 5.1.4.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	dir := path.Dir(p)
	if dir == "." {
		return "/"
	}
	return dir
}

// SessionID is the key under which cookies for base are stored.
func SessionID(base *url.URL) string {
	return "session/" + base.Host
}

// LoadJar returns a cookie jar seeded with the cookies saved for base.
// A missing entry yields an empty jar.
func LoadJar(store KeyStore, base *url.URL) (*Jar, error) {
	jar, err := NewJar()
	if err != nil {
		return nil, err
	}
	raw, err := store.Get(SessionID(base))
	if errors.Is(err, ErrKeyNotFound) {
		return jar, nil
	}
	if err != nil {
		return nil, err
	}
	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		// a corrupt entry is as good as no session
		return jar, nil
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, s := range saved {
		c := s.cookie()
		if c.Path == "" {
			c.Path = "/"
		}
		// host-only cookies carry no Domain attribute
		if c.Domain == base.Hostname() {
			c.Domain = ""
		}
		cookies = append(cookies, c)
	}
	jar.SetCookies(origin, cookies)
	return jar, nil
}

// SaveJar writes the cookies jar holds for base. An empty jar removes the
// entry. A plain http.CookieJar only reveals names and values, so its
// cookies are saved scoped to the base path.
func SaveJar(store KeyStore, jar http.CookieJar, base *url.URL) error {
	var saved []savedCookie
	if j, ok := jar.(*Jar); ok {
		saved = j.saved()
	} else {
		scope := basePath(base)
		for _, c := range jar.Cookies(withSlash(base)) {
			saved = append(saved, savedCookie{Name: c.Name, Value: c.Value, Path: scope, Secure: base.Scheme == "https"})
		}
	}
	if len(saved) == 0 {
		return store.Delete(SessionID(base))
	}
	b, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return store.Put(SessionID(base), b)
}

// ForgetSession drops the saved cookies for base.
func ForgetSession(store KeyStore, base *url.URL) error {
	return store.Delete(SessionID(base))
}

func basePath(base *url.URL) string {
	return path.Clean("/" + base.Path)
}

func withSlash(base *url.URL) *url.URL {
	p := basePath(base)
	if p != "/" {
		p += "/"
	}
	return &url.URL{Scheme: base.Scheme, Host: base.Host, Path: p}
}
