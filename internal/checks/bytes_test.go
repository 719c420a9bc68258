package checks

import (
	"errors"
	"testing"
)

func TestCheckBytesEqual_WholeSlice(t *testing.T) {
	if err := CheckBytesEqual([]byte{1, 2, 3}, []byte{1, 2, 3}, nil, nil); err != nil {
		t.Errorf("CheckBytesEqual(equal slices) = %v, want nil", err)
	}
	err := CheckBytesEqual([]byte{1, 2, 3}, []byte{1, 2, 4}, nil, nil)
	if !errors.Is(err, ErrConstantMismatch) {
		t.Errorf("CheckBytesEqual(unequal) = %v, want ErrConstantMismatch", err)
	}
}

func TestCheckBytesEqual_SubRanges(t *testing.T) {
	observed := []byte{0xff, 1, 2, 3, 0xff}
	err := CheckBytesEqual([]byte{1, 2, 3}, observed, nil, &[2]int{1, 4})
	if err != nil {
		t.Errorf("CheckBytesEqual with an observed sub-range = %v, want nil", err)
	}
}
