// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"sync"
)

// Ring is the ring-transport future (spec.md §4.3 "LocalFut"): it is
// always cancel-safe because completion is delivered by the caller's own
// read loop popping a Reply payload out of the ring and materializing the
// response locally, rather than by a callee-owned callback writing into
// shared state. Dropping a Ring future at any point — before, during, or
// after a poll — is always safe; the read loop simply discards the
// materialized value if nobody is left to receive it.
type Ring[T any] struct {
	mu    sync.Mutex
	value T
	done  bool
	ready chan struct{}
	once  sync.Once
}

// NewRing creates a not-yet-complete ring future. The caller registers it
// (keyed by user_data) in a registry.Caller before sending the Call
// payload, and Complete is invoked by the read loop when the matching
// Reply arrives.
func NewRing[T any]() *Ring[T] {
	return &Ring[T]{ready: make(chan struct{})}
}

// Complete is called at most once, by the caller's read loop, with the
// materialized response. Calling it more than once is a protocol
// violation (duplicate reply for the same user_data) and panics.
func (f *Ring[T]) Complete(v T) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		panic("xcall: ring future completed twice")
	}
	f.value = v
	f.done = true
	f.mu.Unlock()
	f.once.Do(func() { close(f.ready) })
}

// Poll reports the response if the read loop has already delivered it.
func (f *Ring[T]) Poll() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.done
}

// Wait blocks until Complete is called or ctx is done. Cancelling ctx (or
// simply discarding the future) never leaks the registry entry on its
// own — the caller is still responsible for sending Drop once it stops
// waiting, per spec.md §4.6.
func (f *Ring[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ready:
		v, _ := f.Poll()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
