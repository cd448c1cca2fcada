// ABOUTME: Latest-value broadcast used for session and screen state
// ABOUTME: Subscribers get the current value first, then every change in order

package watch

import (
	"context"
	"sync"
)

// Value holds a value of type T and fans every change out to subscribers.
// A subscriber that falls behind only sees the newest value; it never sees
// an older value after a newer one.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[chan T]struct{}
}

// New creates a Value holding initial
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[chan T]struct{}),
	}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value. When Set returns, every live subscriber
// has the new value queued.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = val
	for ch := range v.subs {
		offer(ch, val)
	}
}

// Subscribe returns a channel that receives the current value immediately and
// each later value. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	ch <- v.current
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// offer replaces whatever is buffered in ch with val. Only publishers holding
// the lock send on ch, so the send after draining cannot block.
func offer[T any](ch chan T, val T) {
	select {
	case <-ch:
	default:
	}
	ch <- val
}
