package discriminate

import "testing"

func sizeOracle(size int, oracle map[int]map[byte]bool) Summary {
	return Summary{MinSize: size, MaxSize: size, Oracle: oracle}
}

func oracleByte(pos int, v byte) map[int]map[byte]bool {
	return map[int]map[byte]bool{pos: {v: true}}
}

// TestBuild_SameFamilySizes mirrors the "same-family IPs" scenario: two
// fixed-size candidates distinguished purely by length, plus an input that
// matches neither.
func TestBuild_SameFamilySizes(t *testing.T) {
	ipv4 := Summary{MinSize: 4, MaxSize: 4}
	ipv6 := Summary{MinSize: 16, MaxSize: 16}
	tree := Build([]Summary{ipv4, ipv6})

	tests := []struct {
		size     int
		wantIdx  int
		wantBool bool
	}{
		{4, 0, true},
		{16, 1, true},
		{5, 0, false},
	}
	for _, tt := range tests {
		idx, ok := tree.Classify(make([]byte, tt.size))
		if ok != tt.wantBool || (ok && idx != tt.wantIdx) {
			t.Errorf("Classify(size=%d) = (%d, %v), want (%d, %v)", tt.size, idx, ok, tt.wantIdx, tt.wantBool)
		}
	}
}

// TestBuild_ByteAndSize mirrors the "byte + size" scenario: A and B share
// size 3 but are distinguished by byte 0; C is the only size-2 candidate.
func TestBuild_ByteAndSize(t *testing.T) {
	a := sizeOracle(3, oracleByte(0, 0))
	b := sizeOracle(3, oracleByte(0, 1))
	c := Summary{MinSize: 2, MaxSize: 2}
	tree := Build([]Summary{a, b, c})

	tests := []struct {
		buf      []byte
		wantIdx  int
		wantBool bool
	}{
		{[]byte{0, 0, 0}, 0, true},
		{[]byte{1, 1, 0}, 1, true},
		{[]byte{0, 0}, 2, true},
		{[]byte{0, 1, 0}, 0, true},
		{[]byte{1, 0, 0}, 1, true},
		{[]byte{2, 0, 0}, 0, false},
		{[]byte{1, 0, 0, 0}, 0, false},
		{[]byte{0}, 0, false},
	}
	for _, tt := range tests {
		idx, ok := tree.Classify(tt.buf)
		if ok != tt.wantBool || (ok && idx != tt.wantIdx) {
			t.Errorf("Classify(%v) = (%d, %v), want (%d, %v)", tt.buf, idx, ok, tt.wantIdx, tt.wantBool)
		}
	}
}

func TestBuild_EmptySetIsNone(t *testing.T) {
	tree := Build(nil)
	_, ok := tree.Classify([]byte{1, 2, 3})
	if ok {
		t.Errorf("Classify on an empty candidate set must never match")
	}
}

func TestBuild_SingleCandidateAlwaysMatches(t *testing.T) {
	tree := Build([]Summary{{MinSize: 1, MaxSize: Unbounded}})
	idx, ok := tree.Classify([]byte{9, 9, 9})
	if !ok || idx != 0 {
		t.Errorf("Classify = (%d, %v), want (0, true)", idx, ok)
	}
}

// TestBuild_IndistinguishableCandidatesReturnNone verifies spec.md's
// explicit "never an arbitrary tie-break winner" rule: two candidates with
// identical summaries must classify every input as none.
func TestBuild_IndistinguishableCandidatesReturnNone(t *testing.T) {
	x := Summary{MinSize: 2, MaxSize: 2}
	y := Summary{MinSize: 2, MaxSize: 2}
	tree := Build([]Summary{x, y})
	_, ok := tree.Classify([]byte{1, 2})
	if ok {
		t.Errorf("two structurally identical candidates must never resolve to a winner")
	}
}

// TestSizeGrouping_ExcludesFlexibleCandidateOutOfRange verifies that a
// flexible (non-exact-size) candidate is only bucketed under an exact size
// that actually falls within its own MinSize..MaxSize range.
func TestSizeGrouping_ExcludesFlexibleCandidateOutOfRange(t *testing.T) {
	fixed4 := candidate{index: 0, summary: Summary{MinSize: 4, MaxSize: 4}}
	flexibleInRange := candidate{index: 1, summary: Summary{MinSize: 4, MaxSize: 8}}
	flexibleOutOfRange := candidate{index: 2, summary: Summary{MinSize: 10, MaxSize: 20}}

	g, ok := sizeGrouping([]candidate{fixed4, flexibleInRange, flexibleOutOfRange})
	if !ok {
		t.Fatalf("sizeGrouping should succeed on a mixed fixed/flexible set")
	}
	bucket, ok := g.buckets[4]
	if !ok {
		t.Fatalf("expected a bucket keyed by size 4")
	}
	if len(bucket) != 2 {
		t.Fatalf("bucket[4] = %d candidates, want 2 (fixed4 + flexibleInRange, not flexibleOutOfRange)", len(bucket))
	}
	for _, c := range bucket {
		if c.index == 2 {
			t.Errorf("flexibleOutOfRange (MinSize 10) must not appear in the size-4 bucket")
		}
	}
}

func TestSummary_ExactSize(t *testing.T) {
	n, ok := Summary{MinSize: 4, MaxSize: 4}.exactSize()
	if !ok || n != 4 {
		t.Errorf("exactSize() = (%d, %v), want (4, true)", n, ok)
	}
	_, ok = Summary{MinSize: 4, MaxSize: Unbounded}.exactSize()
	if ok {
		t.Errorf("exactSize() on an unbounded summary must report false")
	}
}

func TestSummary_SizeCompatible(t *testing.T) {
	s := Summary{MinSize: 4, MaxSize: 8}
	if s.sizeCompatible(3) {
		t.Errorf("sizeCompatible(3) should be false below MinSize")
	}
	if !s.sizeCompatible(6) {
		t.Errorf("sizeCompatible(6) should be true within range")
	}
	if s.sizeCompatible(9) {
		t.Errorf("sizeCompatible(9) should be false above MaxSize")
	}
	unbounded := Summary{MinSize: 4, MaxSize: Unbounded}
	if !unbounded.sizeCompatible(1000) {
		t.Errorf("an unbounded summary must accept any size at or above MinSize")
	}
}
