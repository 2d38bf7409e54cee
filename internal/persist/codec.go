package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idilsaglam/shop/internal/model"
)

// ErrDecode marks bytes that are not a valid persisted state.
var ErrDecode = errors.New("decode state")

// Encode serializes both lists. Nil lists are written as [] so the output
// always carries both keys as arrays.
func Encode(st model.State) ([]byte, error) {
	out := model.Empty()
	out.Items = append(out.Items, st.Items...)
	out.SuggestedItems = append(out.SuggestedItems, st.SuggestedItems...)
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a persisted state. A missing or null array becomes an empty
// list; anything that is not an object of string arrays is ErrDecode.
func Decode(b []byte) (model.State, error) {
	var raw map[string][]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return model.Empty(), fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return model.Empty(), fmt.Errorf("%w: not an object", ErrDecode)
	}
	st := model.Empty()
	st.Items = append(st.Items, raw["items"]...)
	st.SuggestedItems = append(st.SuggestedItems, raw["suggestedItems"]...)
	return st, nil
}
