package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/idilsaglam/shop/internal/fsutil"
	"github.com/idilsaglam/shop/internal/store"
)

// JSON-backed keyed store. Single file, human-readable, portable.
// Every Set rewrites the whole file; the file holds a handful of keys at most.

const dataFileName = "defaults.json"

// entry keeps JSON values readable in the file; anything else goes in Raw
// (base64 via encoding/json).
type entry struct {
	JSON json.RawMessage `json:"json,omitempty"`
	Raw  []byte          `json:"raw,omitempty"`
}

type Store struct {
	mu     sync.Mutex
	path   string
	closed bool
	log    *log.Logger
}

type Option func(*Store)

// WithLogger sets where recovery from a corrupt file is reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a store backed by dir/defaults.json. The file is created on
// the first Set.
func New(dir string, opts ...Option) *Store {
	s := &Store{path: filepath.Join(dir, dataFileName), log: log.New(io.Discard, "", 0)}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) load() (map[string]entry, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]entry{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	m := map[string]entry{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrCorrupt, s.path, err)
	}
	return m, nil
}

// loadForWrite is load, except that a corrupt file is moved aside to
// defaults.json.corrupt and writing starts over from an empty map.
func (s *Store) loadForWrite() (map[string]entry, error) {
	m, err := s.load()
	if !errors.Is(err, store.ErrCorrupt) {
		return m, err
	}
	bad := s.path + ".corrupt"
	if rerr := os.Rename(s.path, bad); rerr != nil {
		s.log.Printf("STORE_CORRUPT | path=%s err=%v rename_err=%v", s.path, err, rerr)
	} else {
		s.log.Printf("STORE_CORRUPT | path=%s moved_to=%s err=%v", s.path, bad, err)
	}
	return map[string]entry{}, nil
}

func (s *Store) save(m map[string]entry) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, store.ErrClosed
	}
	m, err := s.load()
	if err != nil {
		return nil, false, err
	}
	e, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	if e.JSON != nil {
		return []byte(e.JSON), true, nil
	}
	return e.Raw, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	m, err := s.loadForWrite()
	if err != nil {
		return err
	}
	var e entry
	if json.Valid(value) {
		e.JSON = append(json.RawMessage(nil), value...)
	} else {
		e.Raw = append([]byte{}, value...)
	}
	m[key] = e
	return s.save(m)
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	m, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
