package binlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEndianness_RewritesMultiByteFields(t *testing.T) {
	l := Seq(UInt("a", 4), UInt("b", 1))
	le := SetEndianness(l, Little)
	assert.Equal(t, Little, le.Items[0].Endianness)
	assert.Equal(t, Big, le.Items[1].Endianness, "width-1 fields have no order to rewrite")
}

func TestSetEndianness_DoesNotMutateOriginal(t *testing.T) {
	l := Seq(UInt("a", 4))
	_ = SetEndianness(l, Little)
	assert.Equal(t, Big, l.Items[0].Endianness)
}

func TestSetEndianness_Idempotent(t *testing.T) {
	l := Seq(UInt("a", 4), Bytes("b", WithLengthPrefix(2)), Array("c", Single(UInt("", 4)), WithLengthPrefix(2)))
	once := SetEndianness(l, Little)
	twice := SetEndianness(once, Little)
	assert.Equal(t, once, twice)
}

func TestSetEndianness_RewritesLengthPrefixAndNested(t *testing.T) {
	nested := Seq(UInt("x", 4))
	l := Seq(Bytes("b", WithLengthPrefix(2), WithNestedLayout(nested)))
	le := SetEndianness(l, Little)
	assert.Equal(t, Little, le.Items[0].LengthEndianness)
	assert.Equal(t, Little, le.Items[0].NestedLayout.Items[0].Endianness)
}

func TestSetEndianness_RewritesArrayLengthAndElement(t *testing.T) {
	l := Seq(Array("a", Single(UInt("", 4)), WithLengthPrefix(2)))
	le := SetEndianness(l, Little)
	assert.Equal(t, Little, le.Items[0].ArrayLenEndian)
	assert.Equal(t, Little, le.Items[0].Element.item().Endianness)
}

func TestSetEndianness_FixedObjectBytesDoesNotShareCacheWithOriginal(t *testing.T) {
	nested := Seq(UInt("x", 4))
	l := Seq(Bytes("obj", WithNestedLayout(nested), WithBytesConv(FixedObjectBytes(map[string]any{"x": 1}, nil))))

	// Force the original layout's conversion cache to populate using its
	// (default) big-endian nested encoding.
	bufBig, err := Serialize(l, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, bufBig)

	le := SetEndianness(l, Little)
	bufLittle, err := Serialize(le, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, bufLittle, "rewritten layout must not reuse the original's memoized big-endian wire bytes")

	// The original layout's own cache must still be unaffected.
	bufBigAgain, err := Serialize(l, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, bufBigAgain)
}

func TestSetEndianness_RewritesSwitchIDAndBranches(t *testing.T) {
	l := Seq(Switch("s", 4, []SwitchBranch{
		{WireID: bigN(1), Layout: Seq(UInt("x", 4))},
	}))
	le := SetEndianness(l, Little)
	assert.Equal(t, Little, le.Items[0].IDEndianness)
	assert.Equal(t, Little, le.Items[0].Branches[0].Layout.Items[0].Endianness)
}
