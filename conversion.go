package binlayout

import (
	"math/big"
	"sync"
)

// NumConvKind tags which of the three conversion shapes a NumConversion
// carries, mirroring the Kind tag on Item itself.
type NumConvKind uint8

const (
	NumConstKind NumConvKind = iota
	NumFixedKind
	NumCustomKind
)

// NumConversion is the custom attribute on an int/uint item (spec.md §3
// "Conversions"). Exactly one of its three shapes applies, selected by
// Kind.
type NumConversion struct {
	Kind NumConvKind

	// NumConstKind: wire value is always Const; Omit drops the field from
	// decoded/encoded objects entirely (only legal with NumConstKind; see
	// Validate).
	Const *big.Int
	Omit  bool

	// NumFixedKind: wire value is always FixedFrom; decoded value is the
	// friendlier FixedTo label.
	FixedFrom *big.Int
	FixedTo   any

	// NumCustomKind: arbitrary bidirectional transform. The codec treats
	// both functions as black boxes.
	CustomTo   func(wire *big.Int) (any, error)
	CustomFrom func(value any) (*big.Int, error)
}

// BytesConvKind tags which of the four conversion shapes a BytesConversion
// carries.
type BytesConvKind uint8

const (
	BytesConstKind BytesConvKind = iota
	BytesFixedKind
	BytesFixedObjectKind // From is a structured object, serialized through NestedLayout
	BytesCustomKind
)

// BytesConversion is the custom attribute on a bytes item.
type BytesConversion struct {
	Kind BytesConvKind

	// BytesConstKind
	Const []byte
	Omit  bool

	// BytesFixedKind
	FixedFrom []byte
	FixedTo   any

	// BytesFixedObjectKind: the literal "from" value is a structured
	// object matching NestedLayout's shape. Its wire serialization is
	// computed once and cached (component lifecycle, spec.md §3/§5): a
	// cached serialization of a fixed object conversion may be memoized on
	// the item for reuse across decodes.
	ObjectFrom map[string]any
	cacheOnce  sync.Once
	cachedWire []byte
	cacheErr   error

	// BytesCustomKind. When the item has no NestedLayout, CustomTo receives
	// the raw payload boxed as any ([]byte) and CustomFrom must return a
	// []byte boxed as any. When the item has a NestedLayout, CustomTo
	// receives the nested layout's decoded value and CustomFrom must
	// return the structured value consumed as that nested layout's data —
	// the "conversion whose from is a structured object" of spec.md §3.
	CustomTo   func(wire any) (any, error)
	CustomFrom func(value any) (any, error)
}

// cachedObjectWire returns the memoized wire encoding of ObjectFrom,
// computing it at most once via encodeFn. Concurrent first calls race
// harmlessly: sync.Once guarantees exactly one encodeFn invocation and
// every caller observes the same result, satisfying the "idempotent lazy
// cache" requirement of spec.md §5.
func (c *BytesConversion) cachedObjectWire(encodeFn func(map[string]any) ([]byte, error)) ([]byte, error) {
	c.cacheOnce.Do(func() {
		c.cachedWire, c.cacheErr = encodeFn(c.ObjectFrom)
	})
	return c.cachedWire, c.cacheErr
}
