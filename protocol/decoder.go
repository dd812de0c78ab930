// File: protocol/decoder.go
// Package protocol implements the session-level message decoder.
// License: Apache-2.0
//
// MessageDecoder drives a FrameCodec against a live byte stream: parse a
// message if the buffer holds one, otherwise read more bytes. The stream
// read is the sole suspension point. The type exclusively owns its reader,
// codec and buffer and must not be shared across concurrent callers.

package protocol

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/platformatic/http-handler/api"
)

// MessageDecoder reads and reassembles WebSocket messages from a stream.
type MessageDecoder struct {
	r     io.Reader
	codec *FrameCodec
	buf   []byte

	pool   api.BytePool
	window int
	log    *zap.Logger

	// Sticky fatal error: after a protocol violation the session is
	// dead and every subsequent call reports the same failure.
	err error
}

// NewMessageDecoder creates a decoder owning one read-direction stream.
func NewMessageDecoder(r io.Reader, opts ...Option) *MessageDecoder {
	cfg := applyOptions(opts)
	return &MessageDecoder{
		r:      r,
		codec:  NewFrameCodec(opts...),
		pool:   cfg.pool,
		window: cfg.window,
		log:    cfg.logger,
	}
}

// ReadMessage returns the next complete message frame, or (nil, nil) once
// the stream has ended. Control frames surface as messages of their own.
// Fatal protocol errors and transport failures terminate the session;
// only the internal "need more bytes" condition is retried.
func (d *MessageDecoder) ReadMessage() (*Frame, error) {
	if d.err != nil {
		return nil, d.err
	}

	for {
		f, n, err := d.codec.Decode(d.buf)
		if err != nil {
			d.err = err
			return nil, err
		}
		if n > 0 {
			d.buf = d.buf[n:]
			if len(d.buf) == 0 {
				d.buf = nil
			}
		}
		if f != nil {
			d.log.Debug("message decoded",
				zap.Uint8("opcode", uint8(f.Opcode)),
				zap.Int("payload_len", len(f.Payload)))
			return f, nil
		}
		if n > 0 {
			// A fragment was consumed; the buffer may already hold
			// the next frame.
			continue
		}

		win := d.pool.Acquire(d.window)
		m, rerr := d.r.Read(win[:d.window])
		if m > 0 {
			d.buf = append(d.buf, win[:m]...)
		}
		d.pool.Release(win)

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil, nil
			}
			d.err = &IOError{Err: rerr}
			return nil, d.err
		}
		if m == 0 {
			// Zero-length read: the stream ended.
			return nil, nil
		}
	}
}
