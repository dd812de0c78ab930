// File: api/pool.go
// License: Apache-2.0
//
// Defines the abstract pooling API: reusable []byte windows for all
// high-intensity read paths.

package api

// BytePool provides reusable []byte buffers for read windows and other
// short-lived scratch space.
type BytePool interface {
	// Acquire returns a slice of at least n bytes.
	Acquire(n int) []byte

	// Release returns a buffer to the pool.
	Release(buf []byte)
}
