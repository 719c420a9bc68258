package binlayout

import (
	"fmt"

	"github.com/scigolib/binlayout/internal/checks"
)

// Validate walks l and returns ErrMalformedLayout (wrapped with detail) on
// the first invariant violation found. The layout model itself performs no
// validation at construction time (spec.md §4.A); every public engine entry
// point calls Validate once before doing any work.
func Validate(l Layout) error {
	return validateLayout(l, true)
}

// validateLayout checks a layout. last indicates whether l occupies the
// last position of its enclosing context — a boundless item is only legal
// when last is true all the way up the recursive nesting path (spec.md §3
// "Invariants": "only as the last participant along any recursive nesting
// path").
func validateLayout(l Layout, last bool) error {
	if l.IsItem() {
		return validateItem(l.item(), last)
	}
	seen := make(map[string]bool, len(l.Items))
	for i, it := range l.Items {
		if it.Name == "" {
			return fmt.Errorf("%w: item %d has no name in a proper layout", checks.ErrMalformedLayout, i)
		}
		if seen[it.Name] {
			return fmt.Errorf("%w: duplicate item name %q", checks.ErrMalformedLayout, it.Name)
		}
		seen[it.Name] = true
		isLast := last && i == len(l.Items)-1
		if err := validateItem(it, isLast); err != nil {
			return checks.WrapItem(it.Name, err)
		}
	}
	return nil
}

func validateItem(it Item, last bool) error {
	switch it.Kind {
	case KindInt, KindUint:
		if err := validateIntSize(it.Size); err != nil {
			return err
		}
		return validateNumConv(it)
	case KindBytes:
		return validateBytesItem(it, last)
	case KindArray:
		return validateArrayItem(it, last)
	case KindSwitch:
		return validateSwitchItem(it, last)
	default:
		return fmt.Errorf("%w: unknown item kind %d", checks.ErrMalformedLayout, it.Kind)
	}
}

func validateIntSize(size int) error {
	if size < 1 || size > 32 {
		return fmt.Errorf("%w: numeric size %d out of range 1..32", checks.ErrMalformedLayout, size)
	}
	return nil
}

func validateNumConv(it Item) error {
	if it.NumConv != nil && it.NumConv.Omit && it.NumConv.Kind != NumConstKind {
		return fmt.Errorf("%w: omit is only valid with a constant conversion", checks.ErrMalformedLayout)
	}
	return nil
}

func validateBytesItem(it Item, last bool) error {
	if it.HasBytesSize && it.BytesSize < 0 {
		return fmt.Errorf("%w: bytes size %d is negative", checks.ErrMalformedLayout, it.BytesSize)
	}
	if it.HasBytesSize && it.LengthSize > 0 {
		return fmt.Errorf("%w: bytes item has both size and lengthSize", checks.ErrMalformedLayout)
	}
	if it.LengthSize < 0 || it.LengthSize > 6 {
		return fmt.Errorf("%w: lengthSize %d out of range 0..6", checks.ErrMalformedLayout, it.LengthSize)
	}
	// A constant, fixed, or fixed-object conversion fixes the payload, and
	// with it the item's size, so such an item is never boundless.
	fixedPayload := it.BytesConv != nil && it.BytesConv.Kind != BytesCustomKind
	boundless := !it.HasBytesSize && it.LengthSize == 0 && !fixedPayload
	if boundless && !last {
		return fmt.Errorf("%w: boundless bytes item is not last in its layout", checks.ErrMalformedLayout)
	}
	if it.BytesConv != nil {
		if it.BytesConv.Omit && it.BytesConv.Kind != BytesConstKind {
			return fmt.Errorf("%w: omit is only valid with a constant conversion", checks.ErrMalformedLayout)
		}
		if it.BytesConv.Kind == BytesFixedObjectKind && it.NestedLayout == nil {
			return fmt.Errorf("%w: fixed-object conversion requires a nested layout", checks.ErrMalformedLayout)
		}
	}
	if it.NestedLayout != nil {
		// A nested layout fills the byte region; it is always the last
		// item of that region regardless of the enclosing boundlessness.
		if err := validateLayout(*it.NestedLayout, true); err != nil {
			return err
		}
	}
	return nil
}

func validateArrayItem(it Item, last bool) error {
	if it.Element == nil {
		return fmt.Errorf("%w: array item has no element layout", checks.ErrMalformedLayout)
	}
	if it.HasLength && it.Length < 0 {
		return fmt.Errorf("%w: array length %d is negative", checks.ErrMalformedLayout, it.Length)
	}
	if it.HasLength && it.ArrayLengthSize > 0 {
		return fmt.Errorf("%w: array item has both length and lengthSize", checks.ErrMalformedLayout)
	}
	if it.ArrayLengthSize < 0 || it.ArrayLengthSize > 6 {
		return fmt.Errorf("%w: array lengthSize %d out of range 0..6", checks.ErrMalformedLayout, it.ArrayLengthSize)
	}
	boundless := !it.HasLength && it.ArrayLengthSize == 0
	if boundless && !last {
		return fmt.Errorf("%w: boundless array item is not last in its layout", checks.ErrMalformedLayout)
	}
	// The element layout is repeated; each repetition is "last" only if
	// the array itself is boundless and last (an element's own trailing
	// boundless item would otherwise be ambiguous across repetitions).
	return validateLayout(*it.Element, boundless && last)
}

func validateSwitchItem(it Item, last bool) error {
	if it.IDSize < 1 || it.IDSize > 6 {
		return fmt.Errorf("%w: switch idSize %d out of range 1..6", checks.ErrMalformedLayout, it.IDSize)
	}
	if len(it.Branches) == 0 {
		return fmt.Errorf("%w: switch has no branches", checks.ErrMalformedLayout)
	}
	seenWire := make(map[string]bool, len(it.Branches))
	for _, br := range it.Branches {
		key := br.WireID.String()
		if seenWire[key] {
			return fmt.Errorf("%w: duplicate switch wire id %s", checks.ErrMalformedLayout, key)
		}
		seenWire[key] = true
		// Switch ids are decoded unsigned (deserialize.go's deserializeSwitch
		// calls decodeInt with signed=false), so a branch whose WireID does
		// not fit unsigned in IDSize bytes can never round-trip and would
		// otherwise panic deep in encodeIntInto at serialize time.
		if !checks.FitsInField(br.WireID, it.IDSize, false) {
			return fmt.Errorf("%w: switch wire id %s does not fit in %d-byte id", checks.ErrMalformedLayout, key, it.IDSize)
		}
		// Branches are always proper layouts (spec.md §3: "(id,
		// proper-layout) pairs"). A selected branch occupies the switch's
		// own position, so it is last only when the switch itself is.
		if br.Layout.IsItem() {
			return fmt.Errorf("%w: switch branch %s is not a proper layout", checks.ErrMalformedLayout, key)
		}
		// deserializeSwitch writes the discriminant into m[idTag] after
		// decoding the branch's own fields; a branch field reusing idTag's
		// name would have its decoded value silently overwritten (and, on
		// encode, serializeSwitch would feed the discriminant value into
		// that same field instead of whatever the caller supplied for it).
		for _, sub := range br.Layout.Items {
			if sub.Name == it.idTag() {
				return fmt.Errorf("%w: switch branch %s field %q collides with idTag", checks.ErrMalformedLayout, key, sub.Name)
			}
		}
		if err := validateLayout(br.Layout, last); err != nil {
			return checks.WrapItem(fmt.Sprintf("switch[%s]", key), err)
		}
	}
	return nil
}
