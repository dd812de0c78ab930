// File: protocol/frame.go
// Package protocol implements the WebSocket frame model.
// License: Apache-2.0
//
// Frame parsing and encoding per RFC 6455 section 5.2:
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-------+-+-------------+-------------------------------+
//	|F|R|R|R| opcode|M| Payload len |    Extended payload length    |
//	|I|S|S|S|  (4)  |A|     (7)     |             (16/64)           |
//	|N|V|V|V|       |S|             |   (if payload len==126/127)   |
//	| |1|2|3|       |K|             |                               |
//	+-+-+-+-+-------+-+-------------+ - - - - - - - - - - - - - - - +
//	|     Extended payload length continued, if payload len == 127  |
//	+ - - - - - - - - - - - - - - - +-------------------------------+
//	|                               |Masking-key, if MASK set to 1  |
//	+-------------------------------+-------------------------------+
//	| Masking-key (continued)       |          Payload Data         |
//	+-------------------------------- - - - - - - - - - - - - - - - +

package protocol

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Frame is a single WebSocket transmission unit. Frames are ephemeral:
// one is produced per parse call and consumed per encode call.
type Frame struct {
	Fin    bool
	Rsv1   bool
	Rsv2   bool
	Rsv3   bool
	Opcode Opcode
	Masked bool
	// Payload holds the unmasked application data.
	Payload []byte
}

// ParseFrame parses one frame from data, returning the frame and the
// total number of bytes consumed (header, optional mask key, payload).
//
// ErrIncompleteFrame means more bytes are needed; the input is untouched
// and the call can be retried with a longer buffer. Any other error is a
// fatal protocol violation.
func ParseFrame(data []byte) (*Frame, int, error) {
	if len(data) < 2 {
		return nil, 0, ErrIncompleteFrame
	}

	b0 := data[0]
	fin := b0&finBit != 0
	rsv1 := b0&rsv1Bit != 0
	rsv2 := b0&rsv2Bit != 0
	rsv3 := b0&rsv3Bit != 0
	opcode := Opcode(b0 & opcodeBits)
	if !opcode.isValid() {
		return nil, 0, ErrInvalidOpcode
	}

	b1 := data[1]
	masked := b1&maskBit != 0
	length := uint64(b1 & lengthBits)
	offset := 2

	switch length {
	case len16Code:
		if len(data) < offset+2 {
			return nil, 0, ErrIncompleteFrame
		}
		length = uint64(binary.BigEndian.Uint16(data[offset:]))
		offset += 2
	case len64Code:
		if len(data) < offset+8 {
			return nil, 0, ErrIncompleteFrame
		}
		length = binary.BigEndian.Uint64(data[offset:])
		offset += 8
	}

	if length > uint64(math.MaxInt) {
		return nil, 0, ErrFrameTooLarge
	}
	payloadLen := int(length)

	if opcode.IsControl() {
		if payloadLen > MaxControlPayloadLen {
			return nil, 0, ErrControlFrameTooLarge
		}
		if !fin {
			return nil, 0, ErrControlFrameFragmented
		}
	}

	if rsv1 || rsv2 || rsv3 {
		return nil, 0, ErrReservedBitsSet
	}

	var maskKey [4]byte
	if masked {
		if len(data) < offset+4 {
			return nil, 0, ErrIncompleteFrame
		}
		copy(maskKey[:], data[offset:offset+4])
		offset += 4
	}

	if len(data) < offset+payloadLen {
		return nil, 0, ErrIncompleteFrame
	}
	payload := make([]byte, payloadLen)
	copy(payload, data[offset:offset+payloadLen])
	offset += payloadLen

	if masked {
		maskBytes(payload, maskKey)
	}

	if opcode == OpcodeText && fin && !utf8.Valid(payload) {
		return nil, 0, ErrInvalidUTF8
	}

	return &Frame{
		Fin:     fin,
		Rsv1:    rsv1,
		Rsv2:    rsv2,
		Rsv3:    rsv3,
		Opcode:  opcode,
		Masked:  masked,
		Payload: payload,
	}, offset, nil
}

// Encode serializes the frame. When mask is non-nil the mask bit is set,
// the key is emitted, and a masked copy of the payload follows; the frame
// itself is left untouched. Encode and ParseFrame round-trip byte-for-byte
// on the unmasked path.
func (f *Frame) Encode(mask *[4]byte) []byte {
	payloadLen := len(f.Payload)
	out := make([]byte, 0, MaxFrameHeaderLen+payloadLen)

	b0 := byte(f.Opcode)
	if f.Fin {
		b0 |= finBit
	}
	if f.Rsv1 {
		b0 |= rsv1Bit
	}
	if f.Rsv2 {
		b0 |= rsv2Bit
	}
	if f.Rsv3 {
		b0 |= rsv3Bit
	}
	out = append(out, b0)

	var b1 byte
	if mask != nil {
		b1 = maskBit
	}
	switch {
	case payloadLen < len16Code:
		out = append(out, b1|byte(payloadLen))
	case payloadLen <= math.MaxUint16:
		out = append(out, b1|len16Code)
		out = binary.BigEndian.AppendUint16(out, uint16(payloadLen))
	default:
		out = append(out, b1|len64Code)
		out = binary.BigEndian.AppendUint64(out, uint64(payloadLen))
	}

	if mask != nil {
		out = append(out, mask[:]...)
		start := len(out)
		out = append(out, f.Payload...)
		maskBytes(out[start:], *mask)
		return out
	}
	return append(out, f.Payload...)
}

// maskBytes applies the RFC 6455 section 5.3 transform in place: XOR with
// the 4-byte key repeating cyclically. The transform is its own inverse.
func maskBytes(b []byte, key [4]byte) {
	for i := range b {
		b[i] ^= key[i%4]
	}
}

// NewMaskKey returns a fresh random 4-byte masking key.
func NewMaskKey() [4]byte {
	var key [4]byte
	// rand.Read on the default source never fails.
	_, _ = rand.Read(key[:])
	return key
}

// NewDataFrame builds a Text, Binary or Continuation frame.
func NewDataFrame(opcode Opcode, payload []byte, fin bool) *Frame {
	return &Frame{Fin: fin, Opcode: opcode, Payload: payload}
}

// NewTextFrame builds a Text frame carrying text.
func NewTextFrame(text string, fin bool) *Frame {
	return NewDataFrame(OpcodeText, []byte(text), fin)
}

// NewBinaryFrame builds a Binary frame.
func NewBinaryFrame(data []byte, fin bool) *Frame {
	return NewDataFrame(OpcodeBinary, data, fin)
}

// NewContinuationFrame builds a Continuation frame.
func NewContinuationFrame(data []byte, fin bool) *Frame {
	return NewDataFrame(OpcodeContinuation, data, fin)
}

// NewCloseFrame builds a Close frame. With a nil code the payload is
// empty and the reason is dropped; otherwise the payload is the 2-byte
// big-endian code followed by the UTF-8 reason.
func NewCloseFrame(code *uint16, reason string) *Frame {
	var payload []byte
	if code != nil {
		payload = binary.BigEndian.AppendUint16(payload, *code)
		payload = append(payload, reason...)
	}
	return &Frame{Fin: true, Opcode: OpcodeClose, Payload: payload}
}

// NewPingFrame builds a Ping frame. Control payloads are expected to stay
// within 125 bytes by convention; construction does not enforce it.
func NewPingFrame(data []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodePing, Payload: data}
}

// NewPongFrame builds a Pong frame.
func NewPongFrame(data []byte) *Frame {
	return &Frame{Fin: true, Opcode: OpcodePong, Payload: data}
}

// IsText reports whether the frame is a Text frame.
func (f *Frame) IsText() bool { return f.Opcode == OpcodeText }

// IsBinary reports whether the frame is a Binary frame.
func (f *Frame) IsBinary() bool { return f.Opcode == OpcodeBinary }

// IsClose reports whether the frame is a Close frame.
func (f *Frame) IsClose() bool { return f.Opcode == OpcodeClose }

// Text returns the payload as a UTF-8 string. ok is false when the frame
// is not a Text frame or the payload is not valid UTF-8.
func (f *Frame) Text() (string, bool) {
	if !f.IsText() || !utf8.Valid(f.Payload) {
		return "", false
	}
	return string(f.Payload), true
}

// ClosePayload extracts the status code and reason from a Close frame.
// ok is false for non-Close frames and for payloads shorter than 2 bytes.
func (f *Frame) ClosePayload() (code uint16, reason string, ok bool) {
	if f.Opcode != OpcodeClose || len(f.Payload) < 2 {
		return 0, "", false
	}
	code = binary.BigEndian.Uint16(f.Payload[:2])
	return code, string(f.Payload[2:]), true
}
