package binlayout

import (
	"fmt"

	"github.com/scigolib/binlayout/internal/checks"
)

// chunk bounds a read window into data. read fails with
// ErrTruncated the moment a request would cross end, matching spec.md
// §4.E's "updateOffset(n) fails with Truncated if offset + n > end."
type chunk struct {
	buf []byte
	off int
	end int
}

func (ch *chunk) read(n int) ([]byte, error) {
	if ch.off+n > ch.end {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", checks.ErrTruncated, n, ch.off, ch.end-ch.off)
	}
	b := ch.buf[ch.off : ch.off+n]
	ch.off += n
	return b, nil
}

// Deserialize decodes data fully through l, failing with ErrExcessBytes if
// any bytes remain afterward.
func Deserialize(l Layout, data []byte) (any, error) {
	v, _, err := DeserializeChunk(l, data, true)
	return v, err
}

// DeserializeChunk decodes data through l and reports how many bytes were
// consumed. When consumeAll is false, trailing bytes are left unread
// instead of raising ErrExcessBytes.
func DeserializeChunk(l Layout, data []byte, consumeAll bool) (any, int, error) {
	if err := Validate(l); err != nil {
		return nil, 0, err
	}
	ch := &chunk{buf: data, off: 0, end: len(data)}
	v, err := deserializeLayout(l, ch)
	if err != nil {
		return nil, ch.off, err
	}
	if consumeAll && ch.off < ch.end {
		return nil, ch.off, fmt.Errorf("%w: %d bytes unread", checks.ErrExcessBytes, ch.end-ch.off)
	}
	return v, ch.off, nil
}

func deserializeLayout(l Layout, ch *chunk) (any, error) {
	if l.IsItem() {
		return deserializeItem(l.item(), ch)
	}
	m := make(map[string]any, len(l.Items))
	for _, it := range l.Items {
		v, err := deserializeItem(it, ch)
		if err != nil {
			return nil, checks.WrapItem(it.Name, err)
		}
		if !isOmitted(it) {
			m[it.Name] = v
		}
	}
	return m, nil
}

func deserializeItem(it Item, ch *chunk) (any, error) {
	switch it.Kind {
	case KindInt, KindUint:
		return deserializeNumeric(it, ch)
	case KindBytes:
		return deserializeBytes(it, ch)
	case KindArray:
		return deserializeArray(it, ch)
	case KindSwitch:
		return deserializeSwitch(it, ch)
	default:
		return nil, fmt.Errorf("%w: unknown item kind %d", checks.ErrMalformedLayout, it.Kind)
	}
}

func deserializeNumeric(it Item, ch *chunk) (any, error) {
	raw, err := ch.read(it.Size)
	if err != nil {
		return nil, err
	}
	signed := it.Kind == KindInt
	v := decodeInt(raw, it.Endianness, signed)

	if it.NumConv == nil {
		return fromBigInt(v, it.Size), nil
	}
	switch it.NumConv.Kind {
	case NumConstKind:
		if err := checks.CheckNumEquals(it.NumConv.Const, v); err != nil {
			return nil, err
		}
		return fromBigInt(it.NumConv.Const, it.Size), nil
	case NumFixedKind:
		if err := checks.CheckNumEquals(it.NumConv.FixedFrom, v); err != nil {
			return nil, err
		}
		return it.NumConv.FixedTo, nil
	case NumCustomKind:
		return it.NumConv.CustomTo(v)
	default:
		return nil, fmt.Errorf("%w: unknown numeric conversion kind", checks.ErrMalformedLayout)
	}
}

func deserializeBytes(it Item, ch *chunk) (any, error) {
	payload, known, err := readBytesPayload(it, ch)
	if err != nil {
		return nil, err
	}

	if it.NestedLayout != nil {
		return deserializeNestedBytes(it, payload, known, ch)
	}

	if it.BytesConv == nil {
		return payload, nil
	}
	conv := it.BytesConv
	switch conv.Kind {
	case BytesConstKind:
		if err := checks.CheckBytesEqual(conv.Const, payload, nil, nil); err != nil {
			return nil, err
		}
		return payload, nil
	case BytesFixedKind:
		if err := checks.CheckBytesEqual(conv.FixedFrom, payload, nil, nil); err != nil {
			return nil, err
		}
		return conv.FixedTo, nil
	case BytesCustomKind:
		return conv.CustomTo(payload)
	default:
		return nil, fmt.Errorf("%w: fixed-object conversion requires a nested layout", checks.ErrMalformedLayout)
	}
}

// readBytesPayload carves out the byte region a bytes item occupies
// (fixed size, length-prefixed, sized by a constant/fixed/fixed-object
// conversion's wire bytes, or boundless) and advances ch past it. known
// reports whether the region's extent is known (false only for the
// boundless case, where the whole remainder of ch is consumed).
func readBytesPayload(it Item, ch *chunk) (payload []byte, known bool, err error) {
	switch {
	case it.HasBytesSize:
		payload, err = ch.read(it.BytesSize)
		return payload, true, err
	case it.LengthSize > 0:
		lenBuf, err := ch.read(it.LengthSize)
		if err != nil {
			return nil, true, err
		}
		n := decodeUint(lenBuf, it.LengthEndianness)
		payload, err = ch.read(n)
		return payload, true, err
	case it.BytesConv != nil && it.BytesConv.Kind != BytesCustomKind:
		wire := it.BytesConv.Const
		switch it.BytesConv.Kind {
		case BytesFixedKind:
			wire = it.BytesConv.FixedFrom
		case BytesFixedObjectKind:
			wire, err = it.BytesConv.cachedObjectWire(func(m map[string]any) ([]byte, error) {
				return Serialize(*it.NestedLayout, m)
			})
			if err != nil {
				return nil, true, err
			}
		}
		payload, err = ch.read(len(wire))
		return payload, true, err
	default:
		payload = ch.buf[ch.off:ch.end]
		ch.off = ch.end
		return payload, false, nil
	}
}

// deserializeNestedBytes decodes the nested layout filling a bytes item's
// payload. When the region's size is known, a sub-chunk is carved and must
// be consumed exactly; when boundless, the outer chunk's remaining window
// is handed to the nested layout directly (spec.md §4.E).
func deserializeNestedBytes(it Item, payload []byte, known bool, ch *chunk) (any, error) {
	sub := &chunk{buf: payload, off: 0, end: len(payload)}
	nestedVal, err := deserializeLayout(*it.NestedLayout, sub)
	if err != nil {
		return nil, err
	}
	if known && sub.off != sub.end {
		return nil, fmt.Errorf("%w: %d trailing bytes in nested layout", checks.ErrExcessBytes, sub.end-sub.off)
	}

	if it.BytesConv == nil {
		return nestedVal, nil
	}
	switch it.BytesConv.Kind {
	case BytesFixedObjectKind:
		wire, err := it.BytesConv.cachedObjectWire(func(m map[string]any) ([]byte, error) {
			return Serialize(*it.NestedLayout, m)
		})
		if err != nil {
			return nil, err
		}
		if err := checks.CheckBytesEqual(wire, payload, nil, nil); err != nil {
			return nil, err
		}
		return it.BytesConv.FixedTo, nil
	case BytesCustomKind:
		return it.BytesConv.CustomTo(nestedVal)
	default:
		return nil, fmt.Errorf("%w: constant/fixed conversion on bytes-with-layout item must be a fixed object", checks.ErrMalformedLayout)
	}
}

func deserializeArray(it Item, ch *chunk) (any, error) {
	var elems []any
	switch {
	case it.HasLength:
		elems = make([]any, 0, it.Length)
		for i := 0; i < it.Length; i++ {
			v, err := deserializeLayout(*it.Element, ch)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, v)
		}
	case it.ArrayLengthSize > 0:
		lenBuf, err := ch.read(it.ArrayLengthSize)
		if err != nil {
			return nil, err
		}
		n := decodeUint(lenBuf, it.ArrayLenEndian)
		// n comes straight off the wire: don't size the allocation by it
		// directly, or a corrupt/hostile length prefix (e.g. 0xffffffff)
		// OOMs or panics the process before a single element is read.
		for i := 0; i < n; i++ {
			v, err := deserializeLayout(*it.Element, ch)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, v)
		}
	default:
		for ch.off < ch.end {
			v, err := deserializeLayout(*it.Element, ch)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", len(elems), err)
			}
			elems = append(elems, v)
		}
	}
	return elems, nil
}

func deserializeSwitch(it Item, ch *chunk) (any, error) {
	raw, err := ch.read(it.IDSize)
	if err != nil {
		return nil, err
	}
	wire := decodeInt(raw, it.IDEndianness, false)
	br, err := findBranchByWireID(it, wire)
	if err != nil {
		return nil, err
	}
	v, err := deserializeLayout(br.Layout, ch)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: switch branch must be a proper layout", checks.ErrMalformedLayout)
	}
	m[it.idTag()] = discriminantLabel(br)
	return m, nil
}

func isOmitted(it Item) bool {
	if it.NumConv != nil && it.NumConv.Kind == NumConstKind && it.NumConv.Omit {
		return true
	}
	if it.BytesConv != nil && it.BytesConv.Kind == BytesConstKind && it.BytesConv.Omit {
		return true
	}
	return false
}
