// Package protocol
// License: Apache-2.0
//
// WebSocket wire protocol constants.

package protocol

// Opcode identifies the frame type carried in the low nibble of the first
// header byte.
type Opcode byte

const (
	OpcodeContinuation Opcode = 0x0
	OpcodeText         Opcode = 0x1
	OpcodeBinary       Opcode = 0x2
	OpcodeClose        Opcode = 0x8
	OpcodePing         Opcode = 0x9
	OpcodePong         Opcode = 0xA
)

// IsControl reports whether the opcode is Close, Ping or Pong.
func (o Opcode) IsControl() bool {
	return o == OpcodeClose || o == OpcodePing || o == OpcodePong
}

// IsData reports whether the opcode is Continuation, Text or Binary.
func (o Opcode) IsData() bool {
	return o == OpcodeContinuation || o == OpcodeText || o == OpcodeBinary
}

func (o Opcode) isValid() bool {
	return o.IsControl() || o.IsData()
}

const (
	// Frame limit settings
	MaxControlPayloadLen = 125
	MaxFrameHeaderLen    = 14 // extended 64-bit length plus mask key

	// Bit masks for the two fixed header bytes
	finBit     = 0x80
	rsv1Bit    = 0x40
	rsv2Bit    = 0x20
	rsv3Bit    = 0x10
	opcodeBits = 0x0F
	maskBit    = 0x80
	lengthBits = 0x7F

	// Length codes signalling extended payload lengths
	len16Code = 126
	len64Code = 127
)

// Close codes defined in RFC 6455, section 7.4.1.
const (
	CloseNormalClosure      = 1000
	CloseGoingAway          = 1001
	CloseProtocolError      = 1002
	CloseUnsupportedData    = 1003
	CloseNoStatusRcvd       = 1005
	CloseAbnormalClosure    = 1006
	CloseInvalidPayloadData = 1007
	ClosePolicyViolation    = 1008
	CloseMessageTooBig      = 1009
	CloseMissingExtension   = 1010
	CloseInternalServerErr  = 1011
)
