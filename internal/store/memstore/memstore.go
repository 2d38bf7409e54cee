// Package memstore is an in-memory store.KeyValue, used by tests and as a
// scratch backend.
package memstore

import (
	"sync"

	"github.com/idilsaglam/shop/internal/store"
)

type Store struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool

	// FailSet, when non-nil, is returned by every Set. Lets tests simulate a
	// full disk.
	FailSet error
}

func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, store.ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	if s.FailSet != nil {
		return s.FailSet
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
