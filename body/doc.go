// Package body
// License: Apache-2.0
//
// StreamingBody: an independent, byte-pipe-backed message body with a
// read half and a write half, a configurable buffer capacity acting as
// the backpressure bound, and clone-shared access to both halves.
//
// A producer writes bytes (or WebSocket messages, through a
// protocol.MessageEncoder wrapping the write half) and a consumer drains
// the read half directly or through a protocol.MessageDecoder. The
// contract is one active reader and one active writer per half at a time;
// concurrent clones cannot corrupt state, but two racing readers will
// interleave bytes unpredictably, which is a caller error.
package body
