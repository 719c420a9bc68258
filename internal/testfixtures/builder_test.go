package testfixtures

import (
	"bytes"
	"testing"
)

func TestBuilder_Chains(t *testing.T) {
	got := NewBuilder().
		U8(1).
		U16BE(0x0203).
		U16LE(0x0405).
		U32BE(0x06070809).
		Bytes(0xaa, 0xbb).
		Repeat(0, 2).
		Build()

	want := []byte{1, 2, 3, 5, 4, 6, 7, 8, 9, 0xaa, 0xbb, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Build() = %#v, want %#v", got, want)
	}
}

func TestBuilder_Empty(t *testing.T) {
	if got := NewBuilder().Build(); len(got) != 0 {
		t.Errorf("NewBuilder().Build() = %#v, want empty", got)
	}
}
