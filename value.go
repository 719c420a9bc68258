package binlayout

import (
	"fmt"

	"github.com/scigolib/binlayout/internal/checks"
)

// asMap type-asserts data to the map shape every proper layout's value
// takes. A nil data with a proper layout is only acceptable when every
// item in that layout is fixed (constant/fixed/omitted); callers treat a
// missing map the same as an empty one and let per-field lookups fail with
// ErrUnknownField.
func asMap(data any) (map[string]any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map[string]any, got %T", checks.ErrMalformedLayout, data)
	}
	return m, nil
}

// field looks up name in a proper layout's decoded/encoded map, returning
// ErrUnknownField if absent.
func field(m map[string]any, name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", checks.ErrUnknownField, name)
	}
	return v, nil
}
