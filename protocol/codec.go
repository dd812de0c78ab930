// File: protocol/codec.go
// Package protocol implements the stateful per-direction frame codec.
// License: Apache-2.0
//
// FrameCodec turns a raw byte buffer into fully assembled message frames,
// reassembling fragmented messages, and turns outgoing frames into bytes.
// One codec instance serves one direction of one connection; decode state
// persists across partial reads.

package protocol

import (
	"errors"

	"github.com/eapache/queue"
)

// FrameCodec assembles complete messages from a stream of frames.
//
// Fragmentation state is a FIFO of pending payload fragments plus the
// opcode of the message's first frame. Both are set and cleared together:
// a final fragment drains them into one assembled message, and a fatal
// decode error discards them.
type FrameCodec struct {
	fragments     *queue.Queue
	msgOpcode     Opcode
	assembling    bool
	requireMasked bool
}

// NewFrameCodec creates a codec with idle fragmentation state.
func NewFrameCodec(opts ...Option) *FrameCodec {
	cfg := applyOptions(opts)
	return &FrameCodec{
		fragments:     queue.New(),
		requireMasked: cfg.requireMasked,
	}
}

// Decode attempts to produce the next complete message frame from data.
//
// It returns (nil, 0, nil) when the buffer does not yet hold enough bytes
// for a frame, and (nil, n, nil) when a whole frame was consumed but the
// message it belongs to is still incomplete. The caller must advance its
// buffer by n in both consuming cases. Control frames are returned
// immediately and never disturb an in-progress fragmented message.
//
// Any fatal parse or protocol error aborts decoding for good: the
// fragmentation state is discarded and the connection must not be reused.
func (c *FrameCodec) Decode(data []byte) (*Frame, int, error) {
	f, n, err := ParseFrame(data)
	if err != nil {
		if errors.Is(err, ErrIncompleteFrame) {
			return nil, 0, nil
		}
		c.reset()
		return nil, 0, err
	}

	if c.requireMasked && !f.Masked {
		c.reset()
		return nil, 0, ErrUnmaskedFrame
	}

	if f.Opcode.IsControl() {
		return f, n, nil
	}

	switch f.Opcode {
	case OpcodeText, OpcodeBinary:
		if f.Fin {
			// Single-frame message, complete immediately.
			return f, n, nil
		}
		// First fragment of a new message.
		c.reset()
		c.assembling = true
		c.msgOpcode = f.Opcode
		c.fragments.Add(f.Payload)
		return nil, n, nil

	default: // OpcodeContinuation
		if !c.assembling {
			return nil, 0, ErrUnexpectedContinuation
		}
		c.fragments.Add(f.Payload)
		if !f.Fin {
			return nil, n, nil
		}
		return c.assemble(), n, nil
	}
}

// Encode appends the wire bytes of f to dst and returns the extended
// slice. Outgoing frames from this side are never masked and never
// fragmented: every message leaves as one frame.
func (c *FrameCodec) Encode(f *Frame, dst []byte) []byte {
	return append(dst, f.Encode(nil)...)
}

// assemble concatenates all pending fragments in arrival order into one
// final frame carrying the original message opcode, clearing the state.
func (c *FrameCodec) assemble() *Frame {
	total := 0
	for i := 0; i < c.fragments.Length(); i++ {
		total += len(c.fragments.Get(i).([]byte))
	}
	payload := make([]byte, 0, total)
	for c.fragments.Length() > 0 {
		payload = append(payload, c.fragments.Remove().([]byte)...)
	}
	opcode := c.msgOpcode
	c.reset()
	return NewDataFrame(opcode, payload, true)
}

func (c *FrameCodec) reset() {
	for c.fragments.Length() > 0 {
		c.fragments.Remove()
	}
	c.msgOpcode = 0
	c.assembling = false
}
