// File: body/body.go
// Package body implements the clonable streaming message body.
// License: Apache-2.0

package body

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/platformatic/http-handler/api"
)

// DefaultBufferSize is the backpressure bound of a body built without
// WithBufferSize.
const DefaultBufferSize = 64 << 10 // 64 KiB

// half is one direction of the duplex pipe with its own exclusive-access
// guard. Clones share halves by pointer; the guard serializes racing
// clones so a half cannot be corrupted, though the contract remains one
// active reader and one active writer per half. Half-closes bypass the
// guard on purpose: they only flip pipe flags and must be able to
// unblock a parked peer.
type half struct {
	mu sync.Mutex
	p  *pipe
}

// Body is a streaming message body: the read half and write half of one
// bounded duplex byte pipe. A Body is created once per request/response
// exchange and ends when explicitly half-closed or when all clones are
// dropped.
type Body struct {
	rd *half
	wr *half

	// consumed guards the one-shot Reader() hand-off, shared by clones.
	consumed *atomic.Bool

	bufferSize int
	pool       api.BytePool
	window     int
	log        *zap.Logger
}

var _ api.ByteSink = (*Body)(nil)

// New creates an empty streaming body whose writer blocks once
// bufferSize unread bytes are pending.
func New(opts ...Option) *Body {
	cfg := applyOptions(opts)
	return newBody(cfg, cfg.bufferSize)
}

// FromData creates a pre-buffered body: the payload is written
// synchronously and the write side is half-closed, so the read side
// yields exactly data followed by end-of-stream. The pipe is sized to
// hold the whole payload so the call never blocks.
func FromData(data []byte, opts ...Option) *Body {
	cfg := applyOptions(opts)
	capacity := cfg.bufferSize
	if len(data) > capacity {
		capacity = len(data)
	}
	b := newBody(cfg, capacity)
	if len(data) > 0 {
		// Cannot fail: the pipe is open and sized for the payload.
		_, _ = b.wr.p.Write(data)
	}
	_ = b.wr.p.CloseWrite()
	return b
}

func newBody(cfg options, capacity int) *Body {
	p := newPipe(capacity)
	return &Body{
		rd:         &half{p: p},
		wr:         &half{p: p},
		consumed:   &atomic.Bool{},
		bufferSize: cfg.bufferSize,
		pool:       cfg.pool,
		window:     cfg.window,
		log:        cfg.logger,
	}
}

// Clone shares both halves with the returned handle: handle duplication,
// not pipe duplication. The underlying pipe lives as long as any clone.
func (b *Body) Clone() *Body {
	return &Body{
		rd:         b.rd,
		wr:         b.wr,
		consumed:   b.consumed,
		bufferSize: b.bufferSize,
		pool:       b.pool,
		window:     b.window,
		log:        b.log,
	}
}

// Read drains the read half. Returns io.EOF after the write side is
// half-closed and all buffered bytes are consumed.
func (b *Body) Read(p []byte) (int, error) {
	b.rd.mu.Lock()
	defer b.rd.mu.Unlock()
	return b.rd.p.Read(p)
}

// Write feeds the write half, blocking while bufferSize unread bytes are
// pending until the reader frees capacity.
func (b *Body) Write(p []byte) (int, error) {
	b.wr.mu.Lock()
	defer b.wr.mu.Unlock()
	return b.wr.p.Write(p)
}

// WriteString writes s to the write half.
func (b *Body) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// CloseWrite half-closes the write direction. Idempotent.
func (b *Body) CloseWrite() error {
	return b.wr.p.CloseWrite()
}

// CloseRead half-closes the read direction, unblocking a parked writer.
// Idempotent.
func (b *Body) CloseRead() error {
	return b.rd.p.CloseRead()
}

// Close shuts down both directions.
func (b *Body) Close() error {
	err := multierr.Append(b.CloseWrite(), b.CloseRead())
	b.log.Debug("body closed", zap.Error(err))
	return err
}

// Buffered reports the number of unread bytes currently pending.
func (b *Body) Buffered() int {
	return b.rd.p.buffered()
}

// Reader hands off the chunk-oriented adapter over the read half.
// One-shot across all clones: the second and later calls fail loudly
// with api.ErrAlreadyConsumed instead of silently yielding nothing.
func (b *Body) Reader() (*ChunkReader, error) {
	if !b.consumed.CompareAndSwap(false, true) {
		return nil, api.NewError(api.ErrCodeAlreadyConsumed,
			"body reader already taken", api.ErrAlreadyConsumed)
	}
	return &ChunkReader{body: b, pool: b.pool, window: b.window}, nil
}
