package binlayout

import "math/big"

// encodeInt writes v as a two's-complement integer of size bytes in order,
// computing the arithmetic in arbitrary precision regardless of size so
// the 1..32 byte range shares one code path (spec.md §9). The returned
// slice is freshly allocated and safe for the caller to retain.
func encodeInt(v *big.Int, size int, order Endianness) []byte {
	buf := make([]byte, size)
	encodeIntInto(buf, v, order)
	return buf
}

// encodeIntInto is encodeInt's in-place form: buf must be exactly size
// bytes. Used on the serialize engine's hot path, where the encoded bytes
// are copied into the output buffer and discarded immediately, so buf can
// be pool-borrowed scratch space rather than a fresh allocation per field.
func encodeIntInto(buf []byte, v *big.Int, order Endianness) {
	size := len(buf)
	uval := v
	if v.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*size))
		uval = new(big.Int).Add(mod, v)
	}
	for i := range buf {
		buf[i] = 0
	}
	b := uval.Bytes()
	copy(buf[size-len(b):], b)
	if order == Little {
		reverseBytes(buf)
	}
}

// decodeInt is encodeInt's inverse: it reads size bytes of buf in order and
// reconstructs the arbitrary-precision value, sign-extending from the high
// bit of the most-significant byte when signed is set.
func decodeInt(buf []byte, order Endianness, signed bool) *big.Int {
	size := len(buf)
	tmp := make([]byte, size)
	copy(tmp, buf)
	if order == Little {
		reverseBytes(tmp)
	}
	uval := new(big.Int).SetBytes(tmp)
	if signed && size > 0 && tmp[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*size))
		uval = new(big.Int).Sub(uval, mod)
	}
	return uval
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func encodeUint(v int, size int, order Endianness) []byte {
	return encodeInt(big.NewInt(int64(v)), size, order)
}

func decodeUint(buf []byte, order Endianness) int {
	return int(decodeInt(buf, order, false).Int64())
}
