package binlayout

import "math/big"

// bigN is shorthand for constructing *big.Int wire ids/constants in tests.
func bigN(n int64) *big.Int { return big.NewInt(n) }
