// Package notify carries the change signal the UI layer listens on to know
// when to re-request a timeline. Delivery is fire-and-forget: a subscriber
// that is not draining its channel misses signals rather than blocking a
// mutation, so callers re-query after their own writes regardless.
package notify

import (
	"sync"
	"sync/atomic"
)

type Bus struct {
	mu      sync.Mutex
	subs    []chan struct{}
	dropped uint64
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel that receives a signal after each mutation.
// The channel has a buffer of one; coalesced signals are expected.
func (b *Bus) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
			atomic.AddUint64(&b.dropped, 1)
		}
	}
}

func (b *Bus) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}
