// File: protocol/errors.go
// Package protocol defines the decode error taxonomy.
// License: Apache-2.0
//
// ErrIncompleteFrame is the only resumable error: the caller buffers more
// bytes and retries. Every other decode error is fatal for the session;
// the codec never resynchronizes after one.

package protocol

import "errors"

var (
	// ErrIncompleteFrame reports that the buffer does not yet hold a
	// whole frame. Resumable: retry once more bytes arrive.
	ErrIncompleteFrame = errors.New("incomplete websocket frame")

	// Fatal protocol violations.
	ErrInvalidOpcode          = errors.New("invalid websocket opcode")
	ErrControlFrameTooLarge   = errors.New("control frame payload exceeds 125 bytes")
	ErrControlFrameFragmented = errors.New("control frame is fragmented")
	ErrReservedBitsSet        = errors.New("reserved bits set without extension")
	ErrInvalidUTF8            = errors.New("invalid utf-8 in text frame")
	ErrFrameTooLarge          = errors.New("frame too large")
	ErrUnexpectedContinuation = errors.New("continuation frame without message in progress")
	ErrUnmaskedFrame          = errors.New("unmasked frame received in masked-only mode")
)

// IsFatal reports whether err terminates the decode session.
// ErrIncompleteFrame is the sole resumable decode error.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrIncompleteFrame)
}

// IOError wraps a transport failure surfaced through the decoder or
// encoder, carrying the underlying cause.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "websocket i/o error: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
