package shoplist

import "fmt"

// moveBlock returns list with the elements at from relocated before offset to.
// It returns nil, nil when from is empty.
func moveBlock(list []string, from []int, to int) ([]string, error) {
	n := len(list)
	if to < 0 || to > n {
		return nil, fmt.Errorf("destination %d of %d: %w", to, n, ErrIndexOutOfRange)
	}
	sel := make([]bool, n)
	count := 0
	for _, i := range from {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("source %d of %d: %w", i, n, ErrIndexOutOfRange)
		}
		if !sel[i] {
			sel[i] = true
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}

	moved := make([]string, 0, count)
	rest := make([]string, 0, n-count)
	at := 0 // insertion point within rest
	for i, v := range list {
		if sel[i] {
			moved = append(moved, v)
			continue
		}
		rest = append(rest, v)
		if i < to {
			at++
		}
	}

	out := make([]string, 0, n)
	out = append(out, rest[:at]...)
	out = append(out, moved...)
	out = append(out, rest[at:]...)
	return out, nil
}
