package eventbus

import (
	"sync"

	"github.com/kilianp07/motorsim/core/metrics"
)

// Bus is a fan-out pub/sub channel for simulation steps. Delivery is
// non-blocking: a slow subscriber drops events instead of stalling the
// simulation loop.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan metrics.StepResult
	closed bool
}

// New creates a Bus.
func New() *Bus { return &Bus{} }

// Publish sends the step to all subscribers.
func (b *Bus) Publish(r metrics.StepResult) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// Subscribe returns a channel receiving published steps.
func (b *Bus) Subscribe() <-chan metrics.StepResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan metrics.StepResult, 64)
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *Bus) Unsubscribe(sub <-chan metrics.StepResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
