// File: api/body.go
// License: Apache-2.0
//
// Defines the collaborator contract for message bodies: the host framework
// drains a body's read half as a generic chunked byte source and feeds its
// write half as a generic byte sink with half-close.

package api

import "io"

// ChunkSource is a pull-oriented chunked byte source.
// Next yields the next chunk of body data, or io.EOF at end-of-body.
type ChunkSource interface {
	Next() ([]byte, error)
}

// ByteSink is the write-side contract of a streaming body: a byte sink
// whose write direction can be shut down independently of the read side.
type ByteSink interface {
	io.Writer

	// CloseWrite half-closes the write direction. It is idempotent.
	CloseWrite() error
}
