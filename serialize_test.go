package binlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/binlayout/internal/checks"
)

func TestSerialize_FixedNumerics(t *testing.T) {
	l := Seq(UInt("a", 2, Endian(Big)), Int("b", 2, Endian(Little)))
	buf, err := Serialize(l, map[string]any{"a": 1, "b": -2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 254, 255}, buf)
}

func TestSerialize_ConstantOmittedField(t *testing.T) {
	l := Seq(UInt("magic", 1, WithNumConv(ConstNumOmit(42))), UInt("n", 1))
	buf, err := Serialize(l, map[string]any{"n": 5})
	require.NoError(t, err)
	assert.Equal(t, []byte{42, 5}, buf)
}

func TestSerialize_ConstantMismatchRejected(t *testing.T) {
	l := Seq(UInt("magic", 1, WithNumConv(ConstNum(42))))
	_, err := Serialize(l, map[string]any{"magic": 7})
	assert.ErrorIs(t, err, checks.ErrConstantMismatch)
}

func TestSerialize_ConstantFieldRejectsNonNumericData(t *testing.T) {
	l := Seq(UInt("magic", 1, WithNumConv(ConstNum(42))))
	_, err := Serialize(l, map[string]any{"magic": "oops"})
	require.Error(t, err)
	assert.ErrorIs(t, err, checks.ErrOutOfRange)
}

func TestSerialize_OutOfRange(t *testing.T) {
	l := Seq(UInt("n", 1))
	_, err := Serialize(l, map[string]any{"n": 256})
	assert.ErrorIs(t, err, checks.ErrOutOfRange)
}

func TestSerialize_SignedRangeSymmetric(t *testing.T) {
	l := Seq(Int("n", 1))
	_, err := Serialize(l, map[string]any{"n": -129})
	assert.ErrorIs(t, err, checks.ErrOutOfRange)

	buf, err := Serialize(l, map[string]any{"n": -128})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, buf)

	buf, err = Serialize(l, map[string]any{"n": 127})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7f}, buf)

	_, err = Serialize(l, map[string]any{"n": 128})
	assert.ErrorIs(t, err, checks.ErrOutOfRange)
}

func TestSerialize_LengthPrefixedBytes(t *testing.T) {
	l := Seq(Bytes("payload", WithLengthPrefix(1)))
	buf, err := Serialize(l, map[string]any{"payload": []byte("hi")})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 'h', 'i'}, buf)
}

func TestSerialize_FixedSizeBytesMismatch(t *testing.T) {
	l := Seq(Bytes("payload", WithFixedSize(4)))
	_, err := Serialize(l, map[string]any{"payload": []byte("ab")})
	assert.ErrorIs(t, err, checks.ErrSizeMismatch)
}

func TestSerialize_ArrayFixedElements(t *testing.T) {
	l := Seq(Array("octets", Single(UInt("", 1)), WithElements(4)))
	buf, err := Serialize(l, map[string]any{"octets": []any{int64(127), int64(0), int64(0), int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{127, 0, 0, 1}, buf)
}

func TestSerialize_ArrayLengthPrefixed(t *testing.T) {
	l := Seq(Array("xs", Single(UInt("", 1)), WithLengthPrefix(1)))
	buf, err := Serialize(l, map[string]any{"xs": []any{int64(1), int64(2)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 1, 2}, buf)
}

func TestSerialize_ArrayBoundless(t *testing.T) {
	l := Seq(UInt("n", 1), Array("rest", Single(UInt("", 1))))
	buf, err := Serialize(l, map[string]any{"n": 9, "rest": []any{int64(1), int64(2), int64(3)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 1, 2, 3}, buf)
}

func TestSerializeInto_BufferTooSmall(t *testing.T) {
	l := Seq(UInt("a", 4))
	_, err := SerializeInto(l, map[string]any{"a": 1}, make([]byte, 2))
	assert.ErrorIs(t, err, checks.ErrUnderWrite)
}

func TestSerializeInto_LargerBufferOK(t *testing.T) {
	l := Seq(UInt("a", 2))
	buf := make([]byte, 8)
	n, err := SerializeInto(l, map[string]any{"a": 1}, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0, 1}, buf[:2])
}

func TestSerialize_NestedLayoutBytes(t *testing.T) {
	inner := Seq(UInt("x", 1), UInt("y", 1))
	l := Seq(Bytes("point", WithNestedLayout(inner)))
	buf, err := Serialize(l, map[string]any{"point": map[string]any{"x": 1, "y": 2}})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, buf)
}

func TestSerialize_BytesFixedObjectConversionCached(t *testing.T) {
	inner := Seq(UInt("x", 1))
	conv := FixedObjectBytes(map[string]any{"x": int64(7)}, "seven")
	l := Seq(Bytes("tag", WithNestedLayout(inner), WithBytesConv(conv)))
	buf1, err := Serialize(l, nil)
	require.NoError(t, err)
	buf2, err := Serialize(l, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, buf1)
	assert.Equal(t, buf1, buf2)
}

func TestSerialize_FixedObjectNestedCustomBytesDoesNotDesyncSiblingQueue(t *testing.T) {
	// The fixed-object field's nested layout has its own custom-bytes item,
	// which used to register onto the shared conversion queue during the
	// size pass even though the serialize pass never drains it (it replays
	// the memoized cached wire bytes instead). That left the "tail" field
	// below reading the wrong queue slot.
	innerConv := CustomBytes(
		func(wire any) (any, error) { return wire, nil },
		func(value any) (any, error) { return []byte{0xaa}, nil },
	)
	inner := Seq(Bytes("k", WithBytesConv(innerConv)))
	objConv := FixedObjectBytes(map[string]any{"k": []byte{0xaa}}, nil)
	tailConv := CustomBytes(
		func(wire any) (any, error) { return wire, nil },
		func(value any) (any, error) { return []byte{0xbb}, nil },
	)
	l := Seq(
		Bytes("obj", WithNestedLayout(inner), WithBytesConv(objConv)),
		Bytes("tail", WithBytesConv(tailConv)),
	)
	buf, err := Serialize(l, map[string]any{"tail": "anything"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, buf)
}
