package model

import (
	"fmt"
	"strings"
)

// State is the durable shape of both lists. It is the entire persisted schema:
// the autosave blob and exported files both carry exactly these two arrays.
type State struct {
	Items          []string `json:"items"`
	SuggestedItems []string `json:"suggestedItems"`
}

// Empty returns a state with two non-nil empty lists, so it encodes as [] not null.
func Empty() State {
	return State{Items: []string{}, SuggestedItems: []string{}}
}

// Clone copies both lists.
func (s State) Clone() State {
	return State{
		Items:          append([]string{}, s.Items...),
		SuggestedItems: append([]string{}, s.SuggestedItems...),
	}
}

// Equal reports whether both lists match element by element.
func (s State) Equal(o State) bool {
	return equalStrings(s.Items, o.Items) && equalStrings(s.SuggestedItems, o.SuggestedItems)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ListKind names one of the two lists.
type ListKind int

const (
	Shopping ListKind = iota
	Suggested
)

func (k ListKind) String() string {
	switch k {
	case Shopping:
		return "shopping"
	case Suggested:
		return "suggested"
	}
	return fmt.Sprintf("ListKind(%d)", int(k))
}

// Other returns the opposite list.
func (k ListKind) Other() ListKind {
	if k == Shopping {
		return Suggested
	}
	return Shopping
}

// ParseListKind accepts "shopping"/"items" and "suggested"/"suggestions".
func ParseListKind(s string) (ListKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shopping", "items", "list":
		return Shopping, nil
	case "suggested", "suggestions", "suggesteditems":
		return Suggested, nil
	}
	return 0, fmt.Errorf("unknown list %q (want shopping or suggested)", s)
}
