// Package protocol
// License: Apache-2.0
//
// Implements the WebSocket wire protocol (RFC 6455) for the http-handler
// core: byte-exact frame parsing and encoding, fragmentation reassembly,
// control-frame semantics, and payload masking.
//
// Includes:
//   - Frame model with parse/encode over byte slices (frame.go)
//   - Stateful per-direction codec with fragment reassembly (codec.go)
//   - Session-level message decoder and encoder (decoder.go, encoder.go)
//   - Strict decode error taxonomy: resumable vs fatal (errors.go)
//
// The package performs no I/O policy of its own: masking directionality,
// retries, and deadlines belong to the caller.
package protocol
