package binlayout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicErrors_MatchInternalSentinelsByIdentity(t *testing.T) {
	// External callers can only ever see the public var, so errors.Is
	// against it must succeed for whatever the engines actually return.
	l := Seq(UInt("n", 1, WithNumConv(ConstNum(5))))
	_, err := Deserialize(l, []byte{9})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstantMismatch))

	var ie *ItemError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "n", ie.Name)
}

func TestPublicErrors_TruncatedReadSurfacesPublicSentinel(t *testing.T) {
	l := Seq(UInt("a", 4))
	_, err := Deserialize(l, []byte{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
}
