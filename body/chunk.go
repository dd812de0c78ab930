// File: body/chunk.go
// Package body implements the chunk-oriented read adapter.
// License: Apache-2.0

package body

import (
	"io"

	"github.com/platformatic/http-handler/api"
)

// ChunkReader adapts a body's read half to the host's chunk-polling
// contract: each Next call yields up to one window of bytes, and a
// zero-byte read signals logical end-of-body.
type ChunkReader struct {
	body   *Body
	pool   api.BytePool
	window int
}

var _ api.ChunkSource = (*ChunkReader)(nil)

// Next returns the next chunk of body data, suspending until bytes are
// available. At end-of-body it returns (nil, io.EOF). The returned slice
// is owned by the caller; the pooled window is recycled internally.
func (cr *ChunkReader) Next() ([]byte, error) {
	win := cr.pool.Acquire(cr.window)
	defer cr.pool.Release(win)

	n, err := cr.body.Read(win[:cr.window])
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, win[:n])
		return chunk, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}
