package binlayout

import (
	"github.com/scigolib/binlayout/internal/discriminate"
)

// BuildDiscriminator compiles layouts into a classifier: given a buffer, it
// returns the index of the single layout compatible with those bytes, or
// (0, false) if none (or more than one, indistinguishably) matches. It
// never attempts a full deserialization — a positive result only asserts
// structural compatibility with one candidate (spec.md §4.H).
func BuildDiscriminator(layouts []Layout) (func([]byte) (int, bool), error) {
	summaries := make([]discriminate.Summary, len(layouts))
	for i, l := range layouts {
		if err := Validate(l); err != nil {
			return nil, err
		}
		summaries[i] = Summarize(l)
	}
	tree := discriminate.Build(summaries)
	return tree.Classify, nil
}

// summarizeState is the accumulator threaded through one Summarize walk.
// reachable tracks whether the current offset is still unambiguous — it
// turns off for good the first time the walk passes a boundless item or a
// switch (branches diverge beyond their shared id bytes), matching
// spec.md §4.H's "byte position that is unambiguously reachable before any
// boundless item".
type summarizeState struct {
	offset    int
	reachable bool
	oracle    map[int]map[byte]bool
}

// Summarize reduces l to the structural fingerprint the discriminator
// builder works from: its size bounds and its byte oracle.
func Summarize(l Layout) discriminate.Summary {
	st := &summarizeState{reachable: true, oracle: map[int]map[byte]bool{}}
	min, max := summarizeItems(itemsOf(l), st)
	return discriminate.Summary{MinSize: min, MaxSize: max, Oracle: st.oracle}
}

// boundsOnly computes l's size bounds without recording any oracle entries
// — used to size a switch branch without asserting its internals hold at
// any fixed, globally-meaningful offset.
func boundsOnly(l Layout) (int, int) {
	st := &summarizeState{reachable: false}
	return summarizeItems(itemsOf(l), st)
}

func itemsOf(l Layout) []Item {
	if l.IsItem() {
		return []Item{l.item()}
	}
	return l.Items
}

func summarizeItems(items []Item, st *summarizeState) (minSize, maxSize int) {
	unbounded := false
	for _, it := range items {
		mn, mx := summarizeItem(it, st)
		minSize += mn
		if unbounded {
			continue
		}
		if mx == discriminate.Unbounded {
			unbounded = true
			continue
		}
		maxSize += mx
	}
	if unbounded {
		return minSize, discriminate.Unbounded
	}
	return minSize, maxSize
}

func summarizeItem(it Item, st *summarizeState) (int, int) {
	switch it.Kind {
	case KindInt, KindUint:
		return summarizeNumeric(it, st)
	case KindBytes:
		return summarizeBytes(it, st)
	case KindArray:
		return summarizeArray(it, st)
	case KindSwitch:
		return summarizeSwitch(it, st)
	default:
		return 0, discriminate.Unbounded
	}
}

func summarizeNumeric(it Item, st *summarizeState) (int, int) {
	if st.reachable {
		if it.NumConv != nil && (it.NumConv.Kind == NumConstKind || it.NumConv.Kind == NumFixedKind) {
			wire := it.NumConv.Const
			if it.NumConv.Kind == NumFixedKind {
				wire = it.NumConv.FixedFrom
			}
			recordLiteral(st, encodeInt(wire, it.Size, it.Endianness))
		} else {
			st.offset += it.Size
		}
	}
	return it.Size, it.Size
}

func summarizeBytes(it Item, st *summarizeState) (int, int) {
	if it.BytesConv != nil {
		switch it.BytesConv.Kind {
		case BytesConstKind:
			return summarizeFixedBytes(it, it.BytesConv.Const, st)
		case BytesFixedKind:
			return summarizeFixedBytes(it, it.BytesConv.FixedFrom, st)
		case BytesFixedObjectKind:
			wire, err := it.BytesConv.cachedObjectWire(func(m map[string]any) ([]byte, error) {
				return Serialize(*it.NestedLayout, m)
			})
			if err != nil {
				st.reachable = false
				n := it.LengthSize
				return n, discriminate.Unbounded
			}
			return summarizeFixedBytes(it, wire, st)
		default: // BytesCustomKind: wire shape is data-driven regardless of what's known structurally
			return summarizeUnknownBytesShape(it, st)
		}
	}
	if it.NestedLayout != nil {
		if it.HasBytesSize {
			if st.reachable {
				summarizeItems(itemsOf(*it.NestedLayout), st)
			}
			return it.BytesSize, it.BytesSize
		}
		return summarizeUnknownBytesShape(it, st)
	}
	return summarizeUnknownBytesShape(it, st)
}

// summarizeFixedBytes handles a bytes item whose payload is a known
// constant: both the length prefix (if any) and the payload itself are
// literal, so the oracle can record every byte of them.
func summarizeFixedBytes(it Item, payload []byte, st *summarizeState) (int, int) {
	size := it.LengthSize + len(payload)
	if st.reachable {
		if it.LengthSize > 0 {
			recordLiteral(st, encodeUint(len(payload), it.LengthSize, it.LengthEndianness))
		}
		recordLiteral(st, payload)
	}
	return size, size
}

// summarizeUnknownBytesShape covers pure-fixed raw bytes, length-prefixed
// bytes (count is data-chosen), boundless bytes, and any custom
// conversion: the payload bytes are data, never literal.
func summarizeUnknownBytesShape(it Item, st *summarizeState) (int, int) {
	switch {
	case it.HasBytesSize:
		if st.reachable {
			st.offset += it.BytesSize
		}
		return it.BytesSize, it.BytesSize
	case it.LengthSize > 0:
		if st.reachable {
			st.offset += it.LengthSize
			st.reachable = false
		}
		return it.LengthSize, discriminate.Unbounded
	default: // boundless
		st.reachable = false
		return 0, discriminate.Unbounded
	}
}

func summarizeArray(it Item, st *summarizeState) (int, int) {
	switch {
	case it.HasLength:
		minTotal, maxTotal := 0, 0
		unbounded := false
		for i := 0; i < it.Length; i++ {
			mn, mx := summarizeItems(itemsOf(*it.Element), st)
			minTotal += mn
			if unbounded {
				continue
			}
			if mx == discriminate.Unbounded {
				unbounded = true
				continue
			}
			maxTotal += mx
		}
		if unbounded {
			return minTotal, discriminate.Unbounded
		}
		return minTotal, maxTotal
	case it.ArrayLengthSize > 0:
		if st.reachable {
			st.offset += it.ArrayLengthSize
			st.reachable = false
		}
		return it.ArrayLengthSize, discriminate.Unbounded
	default: // boundless
		st.reachable = false
		return 0, discriminate.Unbounded
	}
}

func summarizeSwitch(it Item, st *summarizeState) (int, int) {
	if st.reachable {
		encoded := make([][]byte, len(it.Branches))
		for i, br := range it.Branches {
			encoded[i] = encodeInt(br.WireID, it.IDSize, it.IDEndianness)
		}
		// Every branch's id bytes share the same offsets; record the union
		// of values each branch can carry at each byte position.
		for k := 0; k < it.IDSize; k++ {
			values := make(map[byte]bool)
			for _, enc := range encoded {
				values[enc[k]] = true
			}
			st.oracle[st.offset+k] = values
		}
		st.offset += it.IDSize
	}
	st.reachable = false

	branchMin := 0
	branchMax := 0
	unbounded := false
	for i, br := range it.Branches {
		mn, mx := boundsOnly(br.Layout)
		if i == 0 || mn < branchMin {
			branchMin = mn
		}
		if mx == discriminate.Unbounded {
			unbounded = true
		} else if !unbounded && mx > branchMax {
			branchMax = mx
		}
	}
	if unbounded {
		return it.IDSize + branchMin, discriminate.Unbounded
	}
	return it.IDSize + branchMin, it.IDSize + branchMax
}

func recordLiteral(st *summarizeState, b []byte) {
	for i, v := range b {
		st.oracle[st.offset+i] = map[byte]bool{v: true}
	}
	st.offset += len(b)
}
