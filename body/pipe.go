// File: body/pipe.go
// Package body implements the bounded duplex byte pipe.
// License: Apache-2.0
//
// pipe is a circular byte buffer with blocking flow control: a writer
// that fills the buffer to capacity suspends until the reader frees
// space, and a reader on an empty buffer suspends until bytes arrive or
// the write side closes. Head/tail bookkeeping follows the classic
// bounded ring layout; blocking replaces the lock-free fail-fast variant
// because backpressure must park the caller, not drop bytes.

package body

import (
	"io"
	"sync"

	"github.com/platformatic/http-handler/api"
)

type pipe struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf   []byte
	head  int // read position
	count int // unread bytes

	wclosed bool
	rclosed bool
}

func newPipe(capacity int) *pipe {
	p := &pipe{buf: make([]byte, capacity)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Write appends b, blocking whenever the unread byte count is at
// capacity until the reader drains or a half closes.
func (p *pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for {
		if p.wclosed || p.rclosed {
			return total, api.ErrStreamClosed
		}
		if len(b) == 0 {
			return total, nil
		}
		free := len(p.buf) - p.count
		if free == 0 {
			p.cond.Wait()
			continue
		}

		n := free
		if n > len(b) {
			n = len(b)
		}
		w := (p.head + p.count) % len(p.buf)
		first := copy(p.buf[w:], b[:n])
		if first < n {
			copy(p.buf, b[first:n])
		}
		p.count += n
		total += n
		b = b[n:]
		p.cond.Broadcast()
	}
}

// Read fills b with unread bytes, blocking on an empty buffer. Once the
// write side is closed and the buffer drained it returns io.EOF.
func (p *pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if p.rclosed {
			return 0, api.ErrStreamClosed
		}
		if p.count > 0 {
			break
		}
		if p.wclosed {
			return 0, io.EOF
		}
		p.cond.Wait()
	}

	n := p.count
	if n > len(b) {
		n = len(b)
	}
	first := copy(b[:n], p.buf[p.head:])
	if first < n {
		copy(b[first:n], p.buf)
	}
	p.head = (p.head + n) % len(p.buf)
	p.count -= n
	p.cond.Broadcast()
	return n, nil
}

// CloseWrite half-closes the write direction. Idempotent.
func (p *pipe) CloseWrite() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wclosed = true
	p.cond.Broadcast()
	return nil
}

// CloseRead half-closes the read direction, unblocking any parked writer
// or reader. Idempotent.
func (p *pipe) CloseRead() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rclosed = true
	p.cond.Broadcast()
	return nil
}

// buffered reports the current number of unread bytes.
func (p *pipe) buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
