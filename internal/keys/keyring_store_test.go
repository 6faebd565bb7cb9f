package keys

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringAvailable(t *testing.T) {
	keyring.MockInit()
	assert.True(t, KeyringAvailable())

	keyring.MockInitWithError(errors.New("dbus: no session bus"))
	assert.False(t, KeyringAvailable())

	keyring.MockInit()
}

func TestKeyringStoreHoldsSession(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "freightdesk-test"}
	base, _ := url.Parse("https://api.example.com/api")

	_, err := store.Get(SessionID(base))
	require.ErrorIs(t, err, ErrKeyNotFound)

	jar, err := LoadJar(store, base)
	require.NoError(t, err)
	jar.SetCookies(base, []*http.Cookie{{Name: "session", Value: "abc", Path: "/api"}})
	require.NoError(t, SaveJar(store, jar, base))

	again, err := LoadJar(store, base)
	require.NoError(t, err)
	require.Len(t, again.Cookies(&url.URL{Scheme: "https", Host: "api.example.com", Path: "/api/auth/me"}), 1)

	require.NoError(t, ForgetSession(store, base))
	require.NoError(t, ForgetSession(store, base))
}
