package shoplist

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Closest ranks suggestions against input for "did you mean" hints.
// Prefix matches come first, then anything within a small edit distance.
// Suggestions already on the shopping list, and exact matches, are skipped.
func (s *Store) Closest(input string, limit int) []string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" || limit <= 0 {
		return nil
	}
	maxDist := utf8.RuneCountInString(in) / 3
	if maxDist < 1 {
		maxDist = 1
	}

	type hit struct {
		value  string
		prefix bool
		dist   int
		order  int
	}
	var hits []hit
	for i, v := range s.suggested {
		if contains(s.items, v) {
			continue
		}
		lv := strings.ToLower(v)
		if lv == in {
			continue
		}
		d := levenshtein.ComputeDistance(in, lv)
		p := strings.HasPrefix(lv, in)
		if !p && d > maxDist {
			continue
		}
		hits = append(hits, hit{value: v, prefix: p, dist: d, order: i})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].prefix != hits[b].prefix {
			return hits[a].prefix
		}
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].order < hits[b].order
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.value
	}
	return out
}
