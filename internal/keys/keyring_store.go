package keys

import (
	"encoding/base64"
	"errors"

	"github.com/zalando/go-keyring"
)

const DefaultKeyringService = "freightdesk"

// KeyringStore keeps secrets in the system keyring.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(id string) ([]byte, error) {
	val, err := keyring.Get(s.service(), id)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return base64.StdEncoding.DecodeString(val)
}

func (s *KeyringStore) Put(id string, secret []byte) error {
	return keyring.Set(s.service(), id, base64.StdEncoding.EncodeToString(secret))
}

func (s *KeyringStore) Delete(id string) error {
	err := keyring.Delete(s.service(), id)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend answers. Any
// error other than a missing entry means it cannot be used.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
