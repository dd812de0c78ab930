// File: body/options.go
// Package body defines functional options for Body construction.
// License: Apache-2.0

package body

import (
	"go.uber.org/zap"

	"github.com/platformatic/http-handler/api"
	"github.com/platformatic/http-handler/pool"
)

type options struct {
	bufferSize int
	window     int
	pool       api.BytePool
	logger     *zap.Logger
}

// Option customizes Body construction.
type Option func(*options)

func applyOptions(opts []Option) options {
	cfg := options{
		bufferSize: DefaultBufferSize,
		window:     pool.DefaultWindowSize,
		pool:       pool.Default(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithBufferSize sets the backpressure bound: once this many unread
// bytes are pending, writers suspend until the reader drains.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithChunkWindow sets the maximum chunk size the ChunkReader polls.
func WithChunkWindow(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.window = n
		}
	}
}

// WithBytePool supplies the pool the chunk adapter draws windows from.
func WithBytePool(p api.BytePool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
