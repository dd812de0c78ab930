// File: protocol/encoder.go
// Package protocol implements the session-level message encoder.
// License: Apache-2.0
//
// MessageEncoder serializes concurrent writers over one write-direction
// stream: the codec is guarded by its own mutex, released before any I/O,
// and the stream is guarded separately so a text writer and a close
// writer racing from different goroutines stay well-ordered.

package protocol

import (
	"sync"

	"go.uber.org/zap"

	"github.com/platformatic/http-handler/api"
)

// MessageEncoder generates and writes WebSocket frames.
type MessageEncoder struct {
	codecMu sync.Mutex
	codec   *FrameCodec

	writeMu   sync.Mutex
	w         api.ByteSink
	closeSent bool

	log *zap.Logger
}

// NewMessageEncoder creates an encoder over a write-direction stream.
func NewMessageEncoder(w api.ByteSink, opts ...Option) *MessageEncoder {
	cfg := applyOptions(opts)
	return &MessageEncoder{
		codec: NewFrameCodec(opts...),
		w:     w,
		log:   cfg.logger,
	}
}

// WriteText writes a single-frame Text message.
func (e *MessageEncoder) WriteText(text string) error {
	return e.writeFrame(NewTextFrame(text, true))
}

// WriteBinary writes a single-frame Binary message.
func (e *MessageEncoder) WriteBinary(data []byte) error {
	return e.writeFrame(NewBinaryFrame(data, true))
}

// WritePing writes a Ping frame.
func (e *MessageEncoder) WritePing(data []byte) error {
	return e.writeFrame(NewPingFrame(data))
}

// WritePong writes a Pong frame.
func (e *MessageEncoder) WritePong(data []byte) error {
	return e.writeFrame(NewPongFrame(data))
}

// WriteClose writes a Close frame and half-closes the write direction.
// Any later write, including a second WriteClose, fails with
// api.ErrStreamClosed.
func (e *MessageEncoder) WriteClose(code *uint16, reason string) error {
	data := e.encode(NewCloseFrame(code, reason))

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.closeSent {
		return api.ErrStreamClosed
	}
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	e.closeSent = true
	if err := e.w.CloseWrite(); err != nil {
		return err
	}
	e.log.Debug("close frame sent", zap.Int("payload_len", len(data)))
	return nil
}

// End half-closes the write direction without sending a Close frame.
// Idempotent: every call succeeds.
func (e *MessageEncoder) End() error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if err := e.w.CloseWrite(); err != nil {
		return err
	}
	e.log.Debug("write direction ended")
	return nil
}

func (e *MessageEncoder) writeFrame(f *Frame) error {
	data := e.encode(f)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.closeSent {
		return api.ErrStreamClosed
	}
	_, err := e.w.Write(data)
	return err
}

// encode serializes under the codec guard, released before I/O.
func (e *MessageEncoder) encode(f *Frame) []byte {
	e.codecMu.Lock()
	defer e.codecMu.Unlock()
	return e.codec.Encode(f, nil)
}

// Closed reports whether a Close frame has been sent on this encoder.
func (e *MessageEncoder) Closed() bool {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.closeSent
}
