// File: pool/bytepool.go
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/platformatic/http-handler/api"
)

// DefaultWindowSize is the window size of the shared default pool,
// matching the decoder's read window.
const DefaultWindowSize = 8 << 10 // 8 KiB

// BytePool hands out fixed-size []byte windows backed by sync.Pool.
// Requests larger than the window size fall through to plain allocation.
type BytePool struct {
	size int
	p    sync.Pool
}

var _ api.BytePool = (*BytePool)(nil)

// NewBytePool creates a pool of size-byte windows.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.p.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return bp
}

// Acquire returns a slice of at least n bytes.
func (b *BytePool) Acquire(n int) []byte {
	if n > b.size {
		return make([]byte, n)
	}
	return *b.p.Get().(*[]byte)
}

// Release returns a buffer to the pool. Oversized or foreign buffers are
// dropped for the GC to handle.
func (b *BytePool) Release(buf []byte) {
	if cap(buf) < b.size {
		return
	}
	buf = buf[:b.size]
	b.p.Put(&buf)
}

var (
	defaultPool     *BytePool
	defaultPoolOnce sync.Once
)

// Default returns the shared process-wide pool of DefaultWindowSize
// windows.
func Default() *BytePool {
	defaultPoolOnce.Do(func() {
		defaultPool = NewBytePool(DefaultWindowSize)
	})
	return defaultPool
}
