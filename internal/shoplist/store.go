// Package shoplist holds the two ordered item lists and every operation that
// may change them. A Store is not safe for concurrent use: callers run
// mutations on one goroutine, either through a Queue or a UI event loop.
package shoplist

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/idilsaglam/shop/internal/model"
)

// ErrIndexOutOfRange is returned for positions outside a list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Autosaver persists a snapshot after every mutation.
type Autosaver interface {
	Autosave(model.State) error
}

// TransferMode decides what happens to the source list when an item is
// dropped onto the other list.
type TransferMode int

const (
	// TransferDuplicate leaves the item in both lists.
	TransferDuplicate TransferMode = iota
	// TransferMove takes the item out of the source list.
	TransferMove
)

func (m TransferMode) String() string {
	if m == TransferMove {
		return "move"
	}
	return "duplicate"
}

// ParseTransferMode accepts "duplicate" and "move".
func ParseTransferMode(s string) (TransferMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "duplicate", "copy":
		return TransferDuplicate, nil
	case "move":
		return TransferMove, nil
	}
	return 0, fmt.Errorf("unknown transfer mode %q (want duplicate or move)", s)
}

type subscriber struct {
	id int
	fn func(model.State)
}

type Store struct {
	items     []string
	suggested []string

	saver   Autosaver
	mode    TransferMode
	log     *log.Logger
	saveErr error

	subs   []subscriber
	nextID int
}

type Option func(*Store)

// WithLogger sets where autosave failures and other events are logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTransferMode sets the drop policy. Default is TransferDuplicate.
func WithTransferMode(m TransferMode) Option {
	return func(s *Store) { s.mode = m }
}

// New returns an empty store. saver may be nil, in which case nothing is persisted.
func New(saver Autosaver, opts ...Option) *Store {
	s := &Store{
		items:     []string{},
		suggested: []string{},
		saver:     saver,
		log:       log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Items returns a copy of the shopping list.
func (s *Store) Items() []string { return append([]string{}, s.items...) }

// Suggested returns a copy of the suggestion list.
func (s *Store) Suggested() []string { return append([]string{}, s.suggested...) }

// Len is the length of the named list.
func (s *Store) Len(k model.ListKind) int {
	if k == model.Suggested {
		return len(s.suggested)
	}
	return len(s.items)
}

func (s *Store) Snapshot() model.State {
	return model.State{Items: s.Items(), SuggestedItems: s.Suggested()}
}

func (s *Store) TransferMode() TransferMode { return s.mode }

// LastSaveError is the error from the most recent autosave, nil if it worked.
func (s *Store) LastSaveError() error { return s.saveErr }

// Subscribe registers fn to receive a snapshot after every mutation.
// Call the returned func to unsubscribe.
func (s *Store) Subscribe(fn func(model.State)) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// AddItem appends the trimmed name to the shopping list, and to the
// suggestions if it is not there yet. Blank or already-listed names are
// ignored. Reports whether anything changed.
func (s *Store) AddItem(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || contains(s.items, name) {
		return false
	}
	s.items = append(s.items, name)
	if !contains(s.suggested, name) {
		s.suggested = append(s.suggested, name)
	}
	s.commit("add", name)
	return true
}

// RemoveItem drops value from the shopping list. Suggestions are untouched.
func (s *Store) RemoveItem(value string) bool {
	i := indexOf(s.items, value)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.commit("remove", value)
	return true
}

// DeleteSuggested removes the suggestion at index.
func (s *Store) DeleteSuggested(index int) error {
	if index < 0 || index >= len(s.suggested) {
		return fmt.Errorf("delete suggested %d of %d: %w", index, len(s.suggested), ErrIndexOutOfRange)
	}
	v := s.suggested[index]
	s.suggested = append(s.suggested[:index], s.suggested[index+1:]...)
	s.commit("delete-suggested", v)
	return nil
}

// Move relocates the shopping-list items at from so they start just before
// the item that was at offset to (to == len appends). The moved items keep
// their relative order. Nothing changes if any index is out of range.
func (s *Store) Move(from []int, to int) error {
	out, err := moveBlock(s.items, from, to)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if out == nil {
		return nil
	}
	s.items = out
	s.commit("move", fmt.Sprint(from, "->", to))
	return nil
}

// Transfer handles value being dropped onto the list to. The destination
// gains value if it lacks it; the other list then either gains it too
// (TransferDuplicate) or loses it (TransferMove).
func (s *Store) Transfer(value string, to model.ListKind) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	dst, src := s.listPtr(to), s.listPtr(to.Other())
	changed := false
	if !contains(*dst, value) {
		*dst = append(*dst, value)
		changed = true
	}
	switch s.mode {
	case TransferMove:
		if i := indexOf(*src, value); i >= 0 {
			*src = append((*src)[:i], (*src)[i+1:]...)
			changed = true
		}
	default:
		if !contains(*src, value) {
			*src = append(*src, value)
			changed = true
		}
	}
	if changed {
		s.commit("transfer-"+to.String(), value)
	}
	return changed
}

// TransferToShoppingList is Transfer(value, model.Shopping).
func (s *Store) TransferToShoppingList(value string) bool {
	return s.Transfer(value, model.Shopping)
}

// TransferToSuggested is Transfer(value, model.Suggested).
func (s *Store) TransferToSuggested(value string) bool {
	return s.Transfer(value, model.Suggested)
}

// Replace swaps in both lists wholesale, as on launch or import. Blank and
// repeated entries are dropped, first occurrence wins.
func (s *Store) Replace(st model.State) {
	s.items = clean(st.Items)
	s.suggested = clean(st.SuggestedItems)
	s.commit("replace", fmt.Sprintf("items=%d suggested=%d", len(s.items), len(s.suggested)))
}

// Hydrate is Replace without the autosave, for loading what was just read
// from the autosave key.
func (s *Store) Hydrate(st model.State) {
	s.items = clean(st.Items)
	s.suggested = clean(st.SuggestedItems)
	s.notify()
}

func (s *Store) listPtr(k model.ListKind) *[]string {
	if k == model.Suggested {
		return &s.suggested
	}
	return &s.items
}

func (s *Store) commit(op, detail string) {
	if s.saver != nil {
		s.saveErr = s.saver.Autosave(s.Snapshot())
		if s.saveErr != nil {
			s.log.Printf("AUTOSAVE_FAILED | op=%s detail=%q err=%v", op, detail, s.saveErr)
		}
	}
	s.notify()
}

func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.Snapshot()
	// copy: a subscriber may unsubscribe from inside its callback
	subs := append([]subscriber(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(snap.Clone())
	}
}

func contains(list []string, v string) bool { return indexOf(list, v) >= 0 }

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
