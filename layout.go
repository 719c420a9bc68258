// Package binlayout is a declarative binary codec: describe the byte-level
// shape of a message as a Layout value, then obtain a serializer
// (Serialize), a deserializer (Deserialize), and — for a fixed set of
// layouts — a discriminator (BuildDiscriminator) mechanically derived from
// that description. There is no code generation step and no reflection:
// every decode needs the original Layout value.
package binlayout

import "math/big"

// Kind identifies which of the five item variants a layout node is. It
// plays the role the teacher's DatatypeClass enum plays for HDF5 datatype
// messages: a closed tag dispatching every engine's per-variant logic.
type Kind uint8

// The closed set of item variants. A Layout is either one Item (IsItem) or
// an ordered sequence of named Items (IsProperLayout); there is no sixth
// variant.
const (
	KindInt Kind = iota
	KindUint
	KindBytes
	KindArray
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// Endianness selects the byte order numeric, length-prefix, and switch-id
// fields are encoded in. The zero value is Big, matching spec.md §6
// ("Endianness defaults to big where unspecified").
type Endianness uint8

const (
	Big Endianness = iota
	Little
)

// Item is one typed field: int, uint, bytes, array, or switch. A single
// struct carries every variant's attributes, tagged by Kind — the same
// shape the teacher's DatatypeMessage uses for HDF5 datatype classes
// (internal/core/datatype.go), generalized from one closed domain (HDF5
// datatypes) to another (this codec's item variants).
//
// Only the fields relevant to Kind are meaningful; the rest are zero.
// Item values are immutable once returned from a constructor — engines
// never mutate an Item, matching spec.md §3's "A layout value is immutable
// once constructed."
type Item struct {
	Kind Kind
	Name string // unique within the enclosing proper layout; empty for a bare item

	// int / uint
	Size       int // bytes; 1..6 is 64-bit-safe, up to 32 is arbitrary precision
	Endianness Endianness
	NumConv    *NumConversion

	// bytes
	HasBytesSize     bool
	BytesSize        int
	LengthSize       int // 0 means no length prefix
	LengthEndianness Endianness
	NestedLayout     *Layout // bytes-with-layout: payload is the serialization of this layout
	BytesConv        *BytesConversion

	// array
	Element         *Layout // required: the repeated element layout
	HasLength        bool
	Length           int
	ArrayLengthSize  int // 0 means no length prefix
	ArrayLenEndian   Endianness

	// switch
	IDSize       int
	IDEndianness Endianness
	IDTag        string // defaults to "id" if empty
	Branches     []SwitchBranch
}

// SwitchBranch pairs a wire id with the proper layout selected by that id.
// Label is the decoded-side discriminant value: equal to WireID unless the
// id was declared as a [number, userLabel] pair, in which case Label is the
// user-supplied label and WireID remains the number actually on the wire.
type SwitchBranch struct {
	WireID *big.Int
	Label  any
	Layout Layout
}

// Layout is either a single unnamed Item or a proper layout: an ordered
// sequence of named Items. There is no other shape.
type Layout struct {
	bare  bool
	Items []Item
}

// Single wraps one unnamed item as a bare layout.
func Single(item Item) Layout {
	return Layout{bare: true, Items: []Item{item}}
}

// Seq builds a proper layout from an ordered list of named items. Each
// item's Name must be non-empty and unique; that invariant is checked by
// Validate, not by Seq itself (spec.md §4.A: "the model itself performs no
// validation").
func Seq(items ...Item) Layout {
	return Layout{bare: false, Items: items}
}

// IsItem reports whether l is a bare single-item layout.
func (l Layout) IsItem() bool { return l.bare }

// IsProperLayout reports whether l is a named sequence of items.
func (l Layout) IsProperLayout() bool { return !l.bare }

// item returns the sole item of a bare layout. Callers must check IsItem
// first; item panics on a proper layout since that is always a caller bug,
// not a data-dependent failure.
func (l Layout) item() Item {
	if !l.bare {
		panic("binlayout: item() called on a proper layout")
	}
	return l.Items[0]
}

// idTag returns the switch item's discriminant key, defaulting to "id".
func (it *Item) idTag() string {
	if it.IDTag == "" {
		return "id"
	}
	return it.IDTag
}
