package channel

import (
	"sync"
	"sync/atomic"
)

// pipe guards a Go channel against sends after close
type pipe[T any] struct {
	mu      sync.RWMutex
	ch      chan T
	closed  bool
	dropped atomic.Int64
}

func (p *pipe[T]) Send(v T) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.ch <- v
}

func (p *pipe[T]) TrySend(v T) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.closed {
		select {
		case p.ch <- v:
			return true
		default:
		}
	}
	p.dropped.Add(1)
	return false
}

// Receive returns the receive-only channel
func (p *pipe[T]) Receive() <-chan T {
	return p.ch
}

// Dropped returns how many TrySend calls were rejected
func (p *pipe[T]) Dropped() int64 {
	return p.dropped.Load()
}

// Close closes the channel once; later calls do nothing. A blocked Send
// holds Close off until a receiver takes its value.
func (p *pipe[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}
