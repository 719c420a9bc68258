package checks

import (
	"bytes"
	"fmt"
)

// CheckBytesEqual compares constant against observed, byte for byte, with
// an optional sub-range applied to either side before comparison. A nil
// range means "use the whole slice"; the engines pass nil for both, since
// they compare payloads already carved to the item's extent.
func CheckBytesEqual(constant, observed []byte, constantRange, observedRange *[2]int) error {
	c := slice(constant, constantRange)
	o := slice(observed, observedRange)
	if !bytes.Equal(c, o) {
		return fmt.Errorf("%w: expected %x, got %x", ErrConstantMismatch, c, o)
	}
	return nil
}

func slice(b []byte, r *[2]int) []byte {
	if r == nil {
		return b
	}
	return b[r[0]:r[1]]
}
