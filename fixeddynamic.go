package binlayout

import (
	"errors"
	"fmt"

	"github.com/scigolib/binlayout/internal/checks"
)

// FixedItemsOf returns the sub-layout of l containing only the items (or
// item fragments) whose value is determined by l itself: constant and
// fixed conversions, fixed-object bytes conversions, and the fixed portion
// of arrays/nested bytes layouts. A switch item never appears — which
// branch applies is always chosen by data (spec.md §4.G).
func FixedItemsOf(l Layout) Layout {
	fl, ok := layoutFixedPart(l)
	if !ok {
		return Layout{bare: l.bare}
	}
	return fl
}

// DynamicItemsOf returns the complement of FixedItemsOf: the items (or item
// fragments) a caller must supply.
func DynamicItemsOf(l Layout) Layout {
	dl, ok := layoutDynamicPart(l)
	if !ok {
		return Layout{bare: l.bare}
	}
	return dl
}

func layoutFixedPart(l Layout) (Layout, bool) {
	if l.IsItem() {
		fi, ok := fixedPartOfItem(l.item())
		if !ok {
			return Layout{}, false
		}
		return Layout{bare: true, Items: []Item{fi}}, true
	}
	var items []Item
	for _, it := range l.Items {
		if fi, ok := fixedPartOfItem(it); ok {
			items = append(items, fi)
		}
	}
	if len(items) == 0 {
		return Layout{}, false
	}
	return Layout{bare: false, Items: items}, true
}

func layoutDynamicPart(l Layout) (Layout, bool) {
	if l.IsItem() {
		di, ok := dynamicPartOfItem(l.item())
		if !ok {
			return Layout{}, false
		}
		return Layout{bare: true, Items: []Item{di}}, true
	}
	var items []Item
	for _, it := range l.Items {
		if di, ok := dynamicPartOfItem(it); ok {
			items = append(items, di)
		}
	}
	if len(items) == 0 {
		return Layout{}, false
	}
	return Layout{bare: false, Items: items}, true
}

// fixedPartOfItem reports the fixed fragment of it, if any.
func fixedPartOfItem(it Item) (Item, bool) {
	switch it.Kind {
	case KindInt, KindUint:
		if isFixedItem(it) {
			return it, true
		}
		return Item{}, false
	case KindBytes:
		return fixedBytesPart(it)
	case KindArray:
		return fixedArrayPart(it)
	default: // KindSwitch: the branch is always chosen by data
		return Item{}, false
	}
}

// dynamicPartOfItem reports the dynamic fragment of it, if any.
func dynamicPartOfItem(it Item) (Item, bool) {
	switch it.Kind {
	case KindInt, KindUint:
		if !isFixedItem(it) {
			return it, true
		}
		return Item{}, false
	case KindBytes:
		return dynamicBytesPart(it)
	case KindArray:
		return dynamicArrayPart(it)
	default: // KindSwitch is always entirely dynamic
		return it, true
	}
}

func fixedBytesPart(it Item) (Item, bool) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind, BytesFixedKind, BytesFixedObjectKind:
			return it, true
		default: // BytesCustomKind: black box, never fixed
			return Item{}, false
		}
	}
	if it.NestedLayout != nil {
		nested, ok := layoutFixedPart(*it.NestedLayout)
		if !ok {
			return Item{}, false
		}
		out := it
		out.NestedLayout = &nested
		return out, true
	}
	return Item{}, false // raw bytes with no conversion: always supplied by the caller
}

func dynamicBytesPart(it Item) (Item, bool) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind, BytesFixedKind, BytesFixedObjectKind:
			return Item{}, false
		default: // BytesCustomKind
			return it, true
		}
	}
	if it.NestedLayout != nil {
		nested, ok := layoutDynamicPart(*it.NestedLayout)
		if !ok {
			return Item{}, false
		}
		out := it
		out.NestedLayout = &nested
		return out, true
	}
	return it, true
}

// fixedArrayPart and dynamicArrayPart only split the element layout when
// the repetition count itself is layout-determined (HasLength). A
// length-prefixed or boundless array's element count can only come from
// data, so such an array is treated as wholly dynamic even if every
// element field happens to be fixed — there is nothing for the layout
// alone to rehydrate without knowing how many repetitions to produce.
func fixedArrayPart(it Item) (Item, bool) {
	if !it.HasLength {
		return Item{}, false
	}
	elemFixed, ok := layoutFixedPart(*it.Element)
	if !ok {
		return Item{}, false
	}
	out := it
	out.Element = &elemFixed
	return out, true
}

func dynamicArrayPart(it Item) (Item, bool) {
	if !it.HasLength {
		return it, true
	}
	elemDynamic, ok := layoutDynamicPart(*it.Element)
	if !ok {
		return Item{}, false
	}
	out := it
	out.Element = &elemDynamic
	return out, true
}

// AddFixedValues rehydrates a full value for l from its dynamic half,
// filling every fixed item with the value the layout itself determines and
// every dynamic item from dynamic (keyed by name). Omitted fixed items
// contribute nothing to the result (spec.md §4.G).
func AddFixedValues(l Layout, dynamic map[string]any) (map[string]any, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	if l.IsItem() {
		return nil, fmt.Errorf("%w: AddFixedValues requires a proper layout", checks.ErrMalformedLayout)
	}
	v, err := rehydrateLayout(l, dynamic)
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]any)
	return m, nil
}

func rehydrateLayout(l Layout, dynamicData any) (any, error) {
	if l.IsItem() {
		it := l.item()
		get := func() (any, error) { return dynamicData, nil }
		v, omitted, err := rehydrateItem(it, get)
		if err != nil {
			return nil, err
		}
		if omitted {
			return nil, nil
		}
		return v, nil
	}
	dm, _ := dynamicData.(map[string]any)
	out := make(map[string]any, len(l.Items))
	for _, it := range l.Items {
		it := it
		get := func() (any, error) { return field(dm, it.Name) }
		v, omitted, err := rehydrateItem(it, get)
		if err != nil {
			return nil, checks.WrapItem(it.Name, err)
		}
		if !omitted {
			out[it.Name] = v
		}
	}
	return out, nil
}

// rehydrateItem computes it's value during rehydration. get fetches the
// raw caller-supplied value and is only invoked when it is actually needed
// — a fully fixed item never touches the dynamic map at all.
func rehydrateItem(it Item, get func() (any, error)) (value any, omitted bool, err error) {
	switch it.Kind {
	case KindInt, KindUint:
		return rehydrateNumeric(it, get)
	case KindBytes:
		return rehydrateBytes(it, get)
	case KindArray:
		return rehydrateArray(it, get)
	case KindSwitch:
		v, err := get()
		return v, false, err
	default:
		return nil, false, fmt.Errorf("%w: unknown item kind %d", checks.ErrMalformedLayout, it.Kind)
	}
}

func rehydrateNumeric(it Item, get func() (any, error)) (any, bool, error) {
	if it.NumConv != nil && it.NumConv.Kind != NumCustomKind {
		if it.NumConv.Kind == NumConstKind {
			if it.NumConv.Omit {
				return nil, true, nil
			}
			return fromBigInt(it.NumConv.Const, it.Size), false, nil
		}
		return it.NumConv.FixedTo, false, nil
	}
	v, err := get()
	return v, false, err
}

func rehydrateBytes(it Item, get func() (any, error)) (any, bool, error) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind:
			if it.BytesConv.Omit {
				return nil, true, nil
			}
			return it.BytesConv.Const, false, nil
		case BytesFixedKind:
			return it.BytesConv.FixedTo, false, nil
		case BytesFixedObjectKind:
			return it.BytesConv.ObjectFrom, false, nil
		default: // BytesCustomKind
			v, err := get()
			return v, false, err
		}
	}
	if it.NestedLayout != nil {
		raw, err := get()
		if err != nil {
			if errors.Is(err, checks.ErrUnknownField) {
				raw = nil
			} else {
				return nil, false, err
			}
		}
		v, err := rehydrateLayout(*it.NestedLayout, raw)
		return v, false, err
	}
	v, err := get()
	return v, false, err
}

func rehydrateArray(it Item, get func() (any, error)) (any, bool, error) {
	if !it.HasLength {
		v, err := get()
		return v, false, err
	}
	raw, err := get()
	if err != nil {
		if errors.Is(err, checks.ErrUnknownField) {
			raw = nil
		} else {
			return nil, false, err
		}
	}
	rawElems, _ := raw.([]any)
	elems := make([]any, it.Length)
	for i := 0; i < it.Length; i++ {
		var sub any
		if i < len(rawElems) {
			sub = rawElems[i]
		}
		v, err := rehydrateLayout(*it.Element, sub)
		if err != nil {
			return nil, false, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = v
	}
	return elems, false, nil
}
