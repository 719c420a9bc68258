package binlayout

import (
	"fmt"
	"math/big"

	"github.com/scigolib/binlayout/internal/checks"
)

// cursor is the mutable write position the serialize engine owns for the
// duration of one Serialize/SerializeInto call. The buffer is the caller's;
// the cursor itself is never shared across calls.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) write(b []byte) {
	copy(c.buf[c.off:], b)
	c.off += len(b)
}

func (c *cursor) reserve(n int) int {
	start := c.off
	c.off += n
	return start
}

// Serialize writes data through l into a freshly allocated buffer sized
// exactly by CalcSize, and returns it.
func Serialize(l Layout, data any) ([]byte, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	q := &convQueue{}
	size, err := dataLayoutSize(l, data, q)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	q.pos = 0
	c := &cursor{buf: buf}
	if err := serializeLayout(l, data, c, q); err != nil {
		return nil, err
	}
	if c.off != len(buf) {
		return nil, fmt.Errorf("%w: wrote %d of %d bytes", checks.ErrUnderWrite, c.off, len(buf))
	}
	return buf, nil
}

// SerializeInto writes data through l into buf starting at offset 0 and
// returns the number of bytes written. buf may be larger than required; it
// must not be smaller.
func SerializeInto(l Layout, data any, buf []byte) (int, error) {
	if err := Validate(l); err != nil {
		return 0, err
	}
	q := &convQueue{}
	size, err := dataLayoutSize(l, data, q)
	if err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, fmt.Errorf("%w: buffer has %d bytes, need %d", checks.ErrUnderWrite, len(buf), size)
	}
	q.pos = 0
	c := &cursor{buf: buf}
	if err := serializeLayout(l, data, c, q); err != nil {
		return 0, err
	}
	return c.off, nil
}

func serializeLayout(l Layout, data any, c *cursor, q *convQueue) error {
	if l.IsItem() {
		return serializeItem(l.item(), data, c, q)
	}
	m, err := asMap(data)
	if err != nil {
		return err
	}
	for _, it := range l.Items {
		v, err := field(m, it.Name)
		if err != nil {
			if isFixedItem(it) {
				v = nil
			} else {
				return checks.WrapItem(it.Name, err)
			}
		}
		if err := serializeItem(it, v, c, q); err != nil {
			return checks.WrapItem(it.Name, err)
		}
	}
	return nil
}

func serializeItem(it Item, data any, c *cursor, q *convQueue) error {
	switch it.Kind {
	case KindInt, KindUint:
		return serializeNumeric(it, data, c)
	case KindBytes:
		return serializeBytes(it, data, c, q)
	case KindArray:
		return serializeArray(it, data, c, q)
	case KindSwitch:
		return serializeSwitch(it, data, c, q)
	default:
		return fmt.Errorf("%w: unknown item kind %d", checks.ErrMalformedLayout, it.Kind)
	}
}

func serializeNumeric(it Item, data any, c *cursor) error {
	v, err := resolveNumericValue(it, data)
	if err != nil {
		return err
	}
	signed := it.Kind == KindInt
	if !checks.FitsInField(v, it.Size, signed) {
		return checks.OutOfRangeError(v, it.Size, signed)
	}
	scratch := checks.GetScratch(it.Size)
	encodeIntInto(scratch, v, it.Endianness)
	c.write(scratch)
	checks.ReleaseScratch(scratch)
	return nil
}

// resolveNumericValue picks the wire value per spec.md §4.D: constant,
// fixed from, custom from(data), or data itself — checking constant
// equality against any value the caller did supply, unless omit is set.
func resolveNumericValue(it Item, data any) (*big.Int, error) {
	if it.NumConv == nil {
		return toBigInt(data)
	}
	switch it.NumConv.Kind {
	case NumConstKind:
		if !it.NumConv.Omit && data != nil {
			observed, err := toBigInt(data)
			if err != nil {
				return nil, err
			}
			if err := checks.CheckNumEquals(it.NumConv.Const, observed); err != nil {
				return nil, err
			}
		}
		return it.NumConv.Const, nil
	case NumFixedKind:
		return it.NumConv.FixedFrom, nil
	case NumCustomKind:
		return it.NumConv.CustomFrom(data)
	default:
		return nil, fmt.Errorf("%w: unknown numeric conversion kind", checks.ErrMalformedLayout)
	}
}

func serializeBytes(it Item, data any, c *cursor, q *convQueue) error {
	var lenStart int
	hasLenPrefix := it.LengthSize > 0
	if hasLenPrefix {
		lenStart = c.reserve(it.LengthSize)
	}
	payloadStart := c.off

	var err error
	switch {
	case it.BytesConv != nil:
		err = serializeBytesConv(it, data, c, q)
	case it.NestedLayout != nil:
		err = serializeLayout(*it.NestedLayout, data, c, q)
	default:
		payload, ok := data.([]byte)
		if !ok {
			return fmt.Errorf("%w: expected []byte, got %T", checks.ErrIncompleteData, data)
		}
		c.write(payload)
	}
	if err != nil {
		return err
	}

	payloadLen := c.off - payloadStart
	if err := checks.CheckItemSize(it.HasBytesSize, it.BytesSize, payloadLen); err != nil {
		return err
	}
	if hasLenPrefix {
		order := it.LengthEndianness
		copy(c.buf[lenStart:lenStart+it.LengthSize], encodeUint(payloadLen, it.LengthSize, order))
	}
	return nil
}

func serializeBytesConv(it Item, data any, c *cursor, q *convQueue) error {
	conv := it.BytesConv
	switch conv.Kind {
	case BytesConstKind:
		c.write(conv.Const)
		return nil
	case BytesFixedKind:
		c.write(conv.FixedFrom)
		return nil
	case BytesFixedObjectKind:
		wire, err := conv.cachedObjectWire(func(m map[string]any) ([]byte, error) {
			return Serialize(*it.NestedLayout, m)
		})
		if err != nil {
			return err
		}
		c.write(wire)
		return nil
	case BytesCustomKind:
		if it.NestedLayout != nil {
			nested := q.next()
			return serializeLayout(*it.NestedLayout, nested, c, q)
		}
		payload := q.next().([]byte)
		c.write(payload)
		return nil
	default:
		return fmt.Errorf("%w: unknown bytes conversion kind", checks.ErrMalformedLayout)
	}
}

func serializeArray(it Item, data any, c *cursor, q *convQueue) error {
	elems, ok := data.([]any)
	if !ok {
		return fmt.Errorf("%w: expected []any, got %T", checks.ErrIncompleteData, data)
	}
	if it.HasLength {
		if err := checks.CheckSize(it.Length, len(elems)); err != nil {
			return err
		}
	}
	var lenStart int
	hasLenPrefix := it.ArrayLengthSize > 0
	if hasLenPrefix {
		lenStart = c.reserve(it.ArrayLengthSize)
	}
	for i, e := range elems {
		if err := serializeLayout(*it.Element, e, c, q); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	if hasLenPrefix {
		copy(c.buf[lenStart:lenStart+it.ArrayLengthSize], encodeUint(len(elems), it.ArrayLengthSize, it.ArrayLenEndian))
	}
	return nil
}

func serializeSwitch(it Item, data any, c *cursor, q *convQueue) error {
	br, err := findBranch(it, data)
	if err != nil {
		return err
	}
	c.write(encodeInt(br.WireID, it.IDSize, it.IDEndianness))
	return serializeLayout(br.Layout, data, c, q)
}
