package binlayout

import (
	"fmt"

	"github.com/scigolib/binlayout/internal/checks"
)

// CalcStaticSize returns the byte count of l when it is fully determined
// without a value — e.g. every item has a declared size or a constant
// payload — and false when it depends on data. A boundless item always
// makes its enclosing layout's static size unknown, even though decode
// would happily consume "to end of buffer" at runtime: static size is a
// lower-bound predicate, not a dynamic estimator (spec.md §9).
func CalcStaticSize(l Layout) (int, bool) {
	if err := Validate(l); err != nil {
		return 0, false
	}
	return staticLayoutSize(l)
}

// CalcSize returns the concrete byte count of l for a specific value. It
// fails with ErrIncompleteData when it needs more of data than was
// supplied.
func CalcSize(l Layout, data any) (int, error) {
	if err := Validate(l); err != nil {
		return 0, err
	}
	return dataLayoutSize(l, data, nil)
}

func staticLayoutSize(l Layout) (int, bool) {
	if l.IsItem() {
		return staticItemSize(l.item())
	}
	total := 0
	for _, it := range l.Items {
		n, ok := staticItemSize(it)
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

func staticItemSize(it Item) (int, bool) {
	switch it.Kind {
	case KindInt, KindUint:
		return it.Size, true
	case KindBytes:
		return staticBytesSize(it)
	case KindArray:
		return staticArraySize(it)
	case KindSwitch:
		return staticSwitchSize(it)
	default:
		return 0, false
	}
}

func staticBytesSize(it Item) (int, bool) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind:
			return it.LengthSize + len(it.BytesConv.Const), true
		case BytesFixedKind:
			return it.LengthSize + len(it.BytesConv.FixedFrom), true
		case BytesFixedObjectKind:
			n, ok := staticLayoutSize(*it.NestedLayout)
			if !ok {
				return 0, false
			}
			return it.LengthSize + n, true
		case BytesCustomKind:
			return 0, false // data-dependent
		}
	}
	if it.NestedLayout != nil {
		n, ok := staticLayoutSize(*it.NestedLayout)
		if !ok {
			return 0, false
		}
		return it.LengthSize + n, true
	}
	if it.HasBytesSize {
		return it.BytesSize, true
	}
	return 0, false // prefixed-without-constant or boundless: data-dependent
}

func staticArraySize(it Item) (int, bool) {
	if !it.HasLength {
		return 0, false // length-prefixed or boundless: element count unknown
	}
	sub, ok := staticLayoutSize(*it.Element)
	if !ok {
		return 0, false
	}
	return it.Length * sub, true
}

func staticSwitchSize(it Item) (int, bool) {
	var common int
	for i, br := range it.Branches {
		n, ok := staticLayoutSize(br.Layout)
		if !ok {
			return 0, false
		}
		if i == 0 {
			common = n
		} else if n != common {
			return 0, false
		}
	}
	return it.IDSize + common, true
}

func dataLayoutSize(l Layout, data any, q *convQueue) (int, error) {
	if l.IsItem() {
		return dataItemSize(l.item(), data, q)
	}
	m, err := asMap(data)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, it := range l.Items {
		v, err := field(m, it.Name)
		if err != nil {
			switch {
			case isFixedItem(it):
				v = nil // fixed items don't need caller-supplied data
			case it.Kind == KindBytes && it.BytesConv == nil:
				// dataBytesSize reports its own, more specific
				// ErrIncompleteData for nil data on boundless, declared-size,
				// and length-prefixed bytes items; a nested-layout bytes
				// item recurses with nil data, where only the nested
				// layout's missing dynamic fields report an error. Let it,
				// rather than reporting the field as merely unknown.
				v = nil
			default:
				return 0, checks.WrapItem(it.Name, err)
			}
		}
		n, err := dataItemSize(it, v, q)
		if err != nil {
			return 0, checks.WrapItem(it.Name, err)
		}
		total += n
	}
	return total, nil
}

func dataItemSize(it Item, data any, q *convQueue) (int, error) {
	switch it.Kind {
	case KindInt, KindUint:
		return it.Size, nil
	case KindBytes:
		return dataBytesSize(it, data, q)
	case KindArray:
		return dataArraySize(it, data, q)
	case KindSwitch:
		return dataSwitchSize(it, data, q)
	default:
		return 0, fmt.Errorf("%w: unknown item kind %d", checks.ErrMalformedLayout, it.Kind)
	}
}

func dataBytesSize(it Item, data any, q *convQueue) (int, error) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind:
			return it.LengthSize + len(it.BytesConv.Const), nil
		case BytesFixedKind:
			return it.LengthSize + len(it.BytesConv.FixedFrom), nil
		case BytesFixedObjectKind:
			// Mirrors serializeBytesConv exactly: the object's wire bytes
			// come from the same memoized cache, computed via an isolated
			// Serialize call with its own conversion queue. Threading the
			// caller's q through a fresh dataLayoutSize call here would
			// register any nested custom-bytes conversions onto q even
			// though the serialize pass never drains them from it (it
			// reuses the cached wire bytes instead), desynchronizing q's
			// position for every sibling field serialized after this one.
			wire, err := it.BytesConv.cachedObjectWire(func(m map[string]any) ([]byte, error) {
				return Serialize(*it.NestedLayout, m)
			})
			if err != nil {
				return 0, err
			}
			return it.LengthSize + len(wire), nil
		case BytesCustomKind:
			if it.NestedLayout != nil {
				nested, err := it.BytesConv.CustomFrom(data)
				if err != nil {
					return 0, err
				}
				q.push(nested)
				n, err := dataLayoutSize(*it.NestedLayout, nested, q)
				if err != nil {
					return 0, err
				}
				return it.LengthSize + n, nil
			}
			wire, err := it.BytesConv.CustomFrom(data)
			if err != nil {
				return 0, err
			}
			payload, ok := wire.([]byte)
			if !ok {
				return 0, fmt.Errorf("%w: custom bytes conversion returned %T, want []byte", checks.ErrMalformedLayout, wire)
			}
			q.push(payload)
			return it.LengthSize + len(payload), nil
		}
	}
	if it.NestedLayout != nil {
		n, err := dataLayoutSize(*it.NestedLayout, data, q)
		if err != nil {
			return 0, err
		}
		return it.LengthSize + n, nil
	}
	payload, ok := data.([]byte)
	if !ok {
		if it.HasBytesSize || it.LengthSize > 0 {
			return 0, fmt.Errorf("%w: expected []byte, got %T", checks.ErrIncompleteData, data)
		}
		return 0, fmt.Errorf("%w: boundless bytes item needs data to size", checks.ErrIncompleteData)
	}
	if it.HasBytesSize {
		if err := checks.CheckItemSize(true, it.BytesSize, len(payload)); err != nil {
			return 0, err
		}
		return it.BytesSize, nil
	}
	return it.LengthSize + len(payload), nil
}

func dataArraySize(it Item, data any, q *convQueue) (int, error) {
	elems, ok := data.([]any)
	if !ok {
		return 0, fmt.Errorf("%w: expected []any, got %T", checks.ErrIncompleteData, data)
	}
	if it.HasLength && len(elems) != it.Length {
		return 0, fmt.Errorf("%w: expected %d elements, got %d", checks.ErrSizeMismatch, it.Length, len(elems))
	}
	total := 0
	for i, e := range elems {
		n, err := dataLayoutSize(*it.Element, e, q)
		if err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
		total += n
	}
	if it.ArrayLengthSize > 0 {
		return it.ArrayLengthSize + total, nil
	}
	return total, nil
}

func dataSwitchSize(it Item, data any, q *convQueue) (int, error) {
	br, err := findBranch(it, data)
	if err != nil {
		return 0, err
	}
	n, err := dataLayoutSize(br.Layout, data, q)
	if err != nil {
		return 0, err
	}
	return it.IDSize + n, nil
}

// isFixedItem reports whether it's value is entirely determined by the
// layout (no caller data required to size/serialize it). Used while
// walking a proper layout so a fixed field's absence from the caller's map
// is not treated as ErrUnknownField.
func isFixedItem(it Item) bool {
	switch it.Kind {
	case KindInt, KindUint:
		return it.NumConv != nil && it.NumConv.Kind != NumCustomKind
	case KindBytes:
		return it.BytesConv != nil && it.BytesConv.Kind != BytesCustomKind
	default:
		return false
	}
}
