package binlayout

import (
	"fmt"
	"math/big"

	"github.com/scigolib/binlayout/internal/checks"
)

// findBranch implements component B's findIdLayoutPair: it locates the
// (id, layout) pair whose discriminant matches data[idTag], comparing
// against either the plain wire id or the user-label half of a remapped
// id. A missing match is a caller-level error (spec.md §4.B).
func findBranch(it Item, data any) (*SwitchBranch, error) {
	m, err := asMap(data)
	if err != nil {
		return nil, err
	}
	tag := it.idTag()
	want, err := field(m, tag)
	if err != nil {
		return nil, err
	}
	for i := range it.Branches {
		br := &it.Branches[i]
		if equalsDiscriminant(want, br) {
			return br, nil
		}
	}
	return nil, fmt.Errorf("%w: no branch matches %s=%v", checks.ErrUnknownSwitchID, tag, want)
}

// findBranchByWireID locates the branch whose wire id equals wire, used by
// the deserialize engine after reading the id straight off the buffer.
func findBranchByWireID(it Item, wire *big.Int) (*SwitchBranch, error) {
	for i := range it.Branches {
		br := &it.Branches[i]
		if br.WireID.Cmp(wire) == 0 {
			return br, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", checks.ErrUnknownSwitchID, wire.String())
}

// discriminantLabel returns the decoded-side value for a branch: its Label
// if one was given, else its WireID narrowed the same way a plain numeric
// item would be.
func discriminantLabel(br *SwitchBranch) any {
	if br.Label != nil {
		return br.Label
	}
	return fromBigInt(br.WireID, 6)
}

func equalsDiscriminant(want any, br *SwitchBranch) bool {
	if n, err := toBigInt(want); err == nil {
		if br.Label == nil {
			return n.Cmp(br.WireID) == 0
		}
		if ln, err2 := toBigInt(br.Label); err2 == nil {
			return n.Cmp(ln) == 0
		}
	}
	return comparableEquals(want, br.Label)
}

func comparableEquals(a, b any) (eq bool) {
	if b == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
