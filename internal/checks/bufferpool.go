package checks

import "sync"

var scratchPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 64)
	},
}

// GetScratch returns a byte slice of exactly size bytes from the pool. The
// serialize engine uses this for per-item numeric encoding scratch space so
// numeric fields do not each allocate an encoding buffer; switch ids and
// length prefixes are still encoded into freshly allocated slices.
func GetScratch(size int) []byte {
	buf := scratchPool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

// ReleaseScratch returns buf to the pool.
func ReleaseScratch(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	scratchPool.Put(buf[:0])
}
