package keys

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRoundTrip(t *testing.T) {
	store := &MemStore{}
	id := "session/api.example.com"

	_, err := store.Get(id)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Put(id, []byte("secret")))
	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)

	require.NoError(t, store.Delete(id))
	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSessionJarSurvivesReload(t *testing.T) {
	store := &MemStore{}
	base, _ := url.Parse("https://api.example.com/api")

	jar, err := LoadJar(store, base)
	require.NoError(t, err)
	assert.Empty(t, jar.Cookies(base))

	jar.SetCookies(base, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}})
	require.NoError(t, SaveJar(store, jar, base))

	again, err := LoadJar(store, base)
	require.NoError(t, err)
	got := again.Cookies(&url.URL{Scheme: "https", Host: "api.example.com", Path: "/api/estimates"})
	require.Len(t, got, 1)
	assert.Equal(t, "sid", got[0].Name)
	assert.Equal(t, "abc", got[0].Value)

	require.NoError(t, ForgetSession(store, base))
	empty, err := LoadJar(store, base)
	require.NoError(t, err)
	assert.Empty(t, empty.Cookies(base))
}

func TestCorruptSessionIsIgnored(t *testing.T) {
	store := &MemStore{}
	base, _ := url.Parse("http://localhost:8080")
	require.NoError(t, store.Put(SessionID(base), []byte("{oops")))
	jar, err := LoadJar(store, base)
	require.NoError(t, err)
	assert.Empty(t, jar.Cookies(base))
}

func TestSessionJarKeepsPathScopedCookies(t *testing.T) {
	store := &MemStore{}
	base, _ := url.Parse("https://api.example.com/api")
	login, _ := url.Parse("https://api.example.com/api/auth/login")
	me, _ := url.Parse("https://api.example.com/api/auth/me")
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	jar, err := LoadJar(store, base)
	require.NoError(t, err)
	jar.SetCookies(login, []*http.Cookie{
		{Name: "session", Value: "abc", Path: "/api", Secure: true, Expires: expires},
		{Name: "gone", Value: "x", Path: "/api", MaxAge: -1},
	})
	require.NoError(t, SaveJar(store, jar, base))

	again, err := LoadJar(store, base)
	require.NoError(t, err)
	got := again.Cookies(me)
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].Value)
	assert.Empty(t, again.Cookies(&url.URL{Scheme: "https", Host: "api.example.com", Path: "/other"}))
	assert.Empty(t, again.Cookies(&url.URL{Scheme: "http", Host: "api.example.com", Path: "/api/auth/me"}))

	saved := again.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "/api", saved[0].Path)
	assert.True(t, saved[0].Secure)
	assert.True(t, expires.Equal(saved[0].Expires))
}

func TestSaveJarFromPlainJarUsesBasePath(t *testing.T) {
	store := &MemStore{}
	base, _ := url.Parse("https://api.example.com/api")
	plain, err := cookiejar.New(nil)
	require.NoError(t, err)
	plain.SetCookies(base, []*http.Cookie{{Name: "sid", Value: "1", Path: "/api"}})
	require.NoError(t, SaveJar(store, plain, base))

	again, err := LoadJar(store, base)
	require.NoError(t, err)
	require.Len(t, again.Cookies(&url.URL{Scheme: "https", Host: "api.example.com", Path: "/api/estimates"}), 1)
}

func TestExpiredCookiesAreNotSaved(t *testing.T) {
	store := &MemStore{}
	base, _ := url.Parse("https://api.example.com")
	jar, err := NewJar()
	require.NoError(t, err)
	now := time.Now()
	jar.now = func() time.Time { return now }
	jar.SetCookies(base, []*http.Cookie{{Name: "short", Value: "1", MaxAge: 60}})
	jar.now = func() time.Time { return now.Add(2 * time.Minute) }
	require.NoError(t, SaveJar(store, jar, base))
	_, err = store.Get(SessionID(base))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
