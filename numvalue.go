package binlayout

import (
	"fmt"
	"math/big"

	"github.com/scigolib/binlayout/internal/checks"
)

// toBigInt normalizes any Go numeric value a caller might supply for an
// int/uint item into an arbitrary-precision integer, per spec.md §9:
// "A target language should compute arithmetic in arbitrary-precision
// internally, narrowing only at the API boundary." float64 is accepted only
// when it carries no fractional part, matching "reject non-integer
// numerics" (spec.md §4.D).
func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return big.NewInt(int64(n)), nil
	case uint16:
		return big.NewInt(int64(n)), nil
	case uint32:
		return big.NewInt(int64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("%w: %v is not an integer", checks.ErrOutOfRange, n)
		}
		return big.NewInt(int64(n)), nil
	case float32:
		return toBigInt(float64(n))
	default:
		return nil, fmt.Errorf("%w: %T is not a numeric value", checks.ErrOutOfRange, v)
	}
}

// fromBigInt narrows an arbitrary-precision result to a small integer when
// it safely fits (size <= 6, the 64-bit-safe threshold of spec.md §3),
// otherwise returns the *big.Int itself.
func fromBigInt(v *big.Int, size int) any {
	if size <= 6 && v.IsInt64() {
		return v.Int64()
	}
	return v
}
