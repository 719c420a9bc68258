package binlayout

import "math/big"

// ItemOption configures an Item at construction time. Options are applied
// in order after Kind and the constructor's required arguments are set, so
// an option may branch on it.Kind (see Endian).
type ItemOption func(*Item)

// Int builds a signed integer item of the given byte size (1..6 is
// 64-bit-safe, up to 32 targets arbitrary precision).
func Int(name string, size int, opts ...ItemOption) Item {
	return build(Item{Kind: KindInt, Name: name, Size: size}, opts)
}

// UInt builds an unsigned integer item.
func UInt(name string, size int, opts ...ItemOption) Item {
	return build(Item{Kind: KindUint, Name: name, Size: size}, opts)
}

// Bytes builds a raw-bytes item. Without WithFixedSize, WithLengthPrefix,
// or a constant/fixed/fixed-object conversion (whose wire bytes give its
// size) it is boundless: legal only as the last item of its enclosing
// layout.
func Bytes(name string, opts ...ItemOption) Item {
	return build(Item{Kind: KindBytes}, append([]ItemOption{setName(name)}, opts...))
}

// Array builds a repetition of element. Without WithElements or
// WithLengthPrefix it is boundless.
func Array(name string, element Layout, opts ...ItemOption) Item {
	el := element
	return build(Item{Kind: KindArray, Element: &el}, append([]ItemOption{setName(name)}, opts...))
}

// Switch builds a tagged union over idSize wire-id bytes. branches must be
// non-empty; that invariant, like all others, is enforced by Validate, not
// here.
func Switch(name string, idSize int, branches []SwitchBranch, opts ...ItemOption) Item {
	return build(Item{Kind: KindSwitch, IDSize: idSize, Branches: branches}, append([]ItemOption{setName(name)}, opts...))
}

func build(it Item, opts []ItemOption) Item {
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

func setName(name string) ItemOption {
	return func(it *Item) { it.Name = name }
}

// Endian sets the byte order field relevant to it.Kind: Endianness for
// int/uint, LengthEndianness for bytes, ArrayLenEndian for array, and
// IDEndianness for switch.
func Endian(e Endianness) ItemOption {
	return func(it *Item) {
		switch it.Kind {
		case KindInt, KindUint:
			it.Endianness = e
		case KindBytes:
			it.LengthEndianness = e
		case KindArray:
			it.ArrayLenEndian = e
		case KindSwitch:
			it.IDEndianness = e
		}
	}
}

// WithFixedSize declares a bytes item's pure-fixed size in bytes.
func WithFixedSize(n int) ItemOption {
	return func(it *Item) {
		it.HasBytesSize = true
		it.BytesSize = n
	}
}

// WithLengthPrefix declares a length prefix of n bytes: the bytes-item's
// byte count, or the array-item's element count, depending on it.Kind.
func WithLengthPrefix(n int) ItemOption {
	return func(it *Item) {
		switch it.Kind {
		case KindBytes:
			it.LengthSize = n
		case KindArray:
			it.ArrayLengthSize = n
		}
	}
}

// WithElements declares an array item's fixed element count.
func WithElements(n int) ItemOption {
	return func(it *Item) {
		it.HasLength = true
		it.Length = n
	}
}

// WithNestedLayout declares that a bytes item's payload is filled by the
// serialization of l.
func WithNestedLayout(l Layout) ItemOption {
	return func(it *Item) { it.NestedLayout = &l }
}

// WithIDTag overrides a switch item's discriminant key (default "id").
func WithIDTag(tag string) ItemOption {
	return func(it *Item) { it.IDTag = tag }
}

// WithNumConv attaches a numeric conversion to an int/uint item.
func WithNumConv(c *NumConversion) ItemOption {
	return func(it *Item) { it.NumConv = c }
}

// WithBytesConv attaches a conversion to a bytes item.
func WithBytesConv(c *BytesConversion) ItemOption {
	return func(it *Item) { it.BytesConv = c }
}

// ConstNum builds a constant numeric conversion: the wire value is always
// v, regardless of what the caller supplies for encoding.
func ConstNum(v int64) *NumConversion {
	return &NumConversion{Kind: NumConstKind, Const: big.NewInt(v)}
}

// ConstBigNum is ConstNum for values outside the int64 range.
func ConstBigNum(v *big.Int) *NumConversion {
	return &NumConversion{Kind: NumConstKind, Const: v}
}

// ConstNumOmit is ConstNum with the field additionally omitted from
// decoded/encoded objects. Omit is only legal alongside a constant
// conversion (spec.md §3 "omit may only appear with a constant custom").
func ConstNumOmit(v int64) *NumConversion {
	c := ConstNum(v)
	c.Omit = true
	return c
}

// FixedNum builds a fixed conversion: wire value is always from; decoded
// value is the friendlier label to.
func FixedNum(from int64, to any) *NumConversion {
	return &NumConversion{Kind: NumFixedKind, FixedFrom: big.NewInt(from), FixedTo: to}
}

// CustomNum builds an arbitrary bidirectional numeric conversion.
func CustomNum(to func(*big.Int) (any, error), from func(any) (*big.Int, error)) *NumConversion {
	return &NumConversion{Kind: NumCustomKind, CustomTo: to, CustomFrom: from}
}

// ConstBytes builds a constant bytes conversion.
func ConstBytes(v []byte) *BytesConversion {
	return &BytesConversion{Kind: BytesConstKind, Const: v}
}

// ConstBytesOmit is ConstBytes with the field omitted from decoded/encoded
// objects.
func ConstBytesOmit(v []byte) *BytesConversion {
	c := ConstBytes(v)
	c.Omit = true
	return c
}

// FixedBytes builds a fixed bytes conversion.
func FixedBytes(from []byte, to any) *BytesConversion {
	return &BytesConversion{Kind: BytesFixedKind, FixedFrom: from, FixedTo: to}
}

// FixedObjectBytes builds a fixed conversion whose literal "from" value is
// a structured object serialized through the item's NestedLayout.
func FixedObjectBytes(from map[string]any, to any) *BytesConversion {
	return &BytesConversion{Kind: BytesFixedObjectKind, ObjectFrom: from, FixedTo: to}
}

// CustomBytes builds an arbitrary bidirectional bytes conversion. For a
// plain bytes item (no nested layout) wire values arrive/leave boxed as
// []byte; for a bytes item with a nested layout they arrive/leave as that
// layout's decoded value shape.
func CustomBytes(to func(any) (any, error), from func(any) (any, error)) *BytesConversion {
	return &BytesConversion{Kind: BytesCustomKind, CustomTo: to, CustomFrom: from}
}
