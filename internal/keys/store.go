package keys

import (
	"errors"
	"sync"
)

// KeyStore holds small secrets such as the session cookies.
type KeyStore interface {
	Get(id string) ([]byte, error)
	Put(id string, secret []byte) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// MemStore keeps secrets in process memory. Used when no keyring is
// available and in tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *MemStore) Get(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok || len(v) == 0 {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemStore) Put(id string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = map[string][]byte{}
	}
	s.data[id] = append([]byte(nil), secret...)
	return nil
}

func (s *MemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
