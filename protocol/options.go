// File: protocol/options.go
// Package protocol defines functional options for codec, decoder and encoder.
// License: Apache-2.0

package protocol

import (
	"go.uber.org/zap"

	"github.com/platformatic/http-handler/api"
	"github.com/platformatic/http-handler/pool"
)

// DefaultReadWindow is the per-iteration read size of MessageDecoder and
// the default window of the chunk-oriented body adapter.
const DefaultReadWindow = 8 << 10 // 8 KiB

type config struct {
	window        int
	pool          api.BytePool
	logger        *zap.Logger
	requireMasked bool
}

// Option customizes FrameCodec, MessageDecoder and MessageEncoder
// construction. Options not applicable to a type are ignored by it.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{
		window: DefaultReadWindow,
		pool:   pool.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithReadWindow overrides the decoder's per-read window size.
func WithReadWindow(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithBytePool supplies the pool that read windows are drawn from.
func WithBytePool(p api.BytePool) Option {
	return func(c *config) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequireMaskedInbound makes the codec treat any unmasked inbound
// frame as a fatal protocol error, enforcing the client-to-server masking
// rule of RFC 6455 for deployments that need it. Off by default: the
// decoder unmasks whatever arrives and leaves directionality policy to
// the collaborator.
func WithRequireMaskedInbound() Option {
	return func(c *config) {
		c.requireMasked = true
	}
}
