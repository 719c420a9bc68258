package binlayout

// SetEndianness returns a deep copy of l with every numeric, length-prefix,
// and switch-id field's byte order set to order. Fields of width 1 are left
// alone since a single byte has no order to rewrite (spec.md §4.F); nested
// and branch layouts are rewritten recursively so the whole tree shares one
// byte order.
func SetEndianness(l Layout, order Endianness) Layout {
	items := make([]Item, len(l.Items))
	for i, it := range l.Items {
		items[i] = rewriteItemEndianness(it, order)
	}
	return Layout{bare: l.bare, Items: items}
}

func rewriteItemEndianness(it Item, order Endianness) Item {
	out := it
	switch it.Kind {
	case KindInt, KindUint:
		if out.Size > 1 {
			out.Endianness = order
		}
	case KindBytes:
		if out.LengthSize > 1 {
			out.LengthEndianness = order
		}
		if out.NestedLayout != nil {
			nested := SetEndianness(*out.NestedLayout, order)
			out.NestedLayout = &nested
			// BytesFixedObjectKind memoizes its wire encoding against the
			// NestedLayout it was built with (conversion.go's
			// cachedObjectWire); since NestedLayout's endianness just
			// changed, the rewritten item needs its own uncached
			// conversion rather than sharing the original's *BytesConversion
			// and its already-fired sync.Once.
			if out.BytesConv != nil {
				src := out.BytesConv
				out.BytesConv = &BytesConversion{
					Kind:       src.Kind,
					Const:      src.Const,
					Omit:       src.Omit,
					FixedFrom:  src.FixedFrom,
					FixedTo:    src.FixedTo,
					ObjectFrom: src.ObjectFrom,
					CustomTo:   src.CustomTo,
					CustomFrom: src.CustomFrom,
				}
			}
		}
	case KindArray:
		if out.ArrayLengthSize > 1 {
			out.ArrayLenEndian = order
		}
		if out.Element != nil {
			elem := SetEndianness(*out.Element, order)
			out.Element = &elem
		}
	case KindSwitch:
		if out.IDSize > 1 {
			out.IDEndianness = order
		}
		if len(out.Branches) > 0 {
			branches := make([]SwitchBranch, len(out.Branches))
			for i, br := range out.Branches {
				branches[i] = SwitchBranch{
					WireID: br.WireID,
					Label:  br.Label,
					Layout: SetEndianness(br.Layout, order),
				}
			}
			out.Branches = branches
		}
	}
	return out
}
