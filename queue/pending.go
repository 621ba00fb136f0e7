// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue implements WriteQueue (producer-side push with
// pending-task overflow) and ReadQueue (consumer-side handler loop with
// the yield-then-park policy), built on top of ringbuf.Ring (spec.md
// §4.4).
package queue

import "sync"

// waiterState is the pending task's tiny three-state cell: {None,
// Pending(waker), Finished} (spec.md §3 "Pending task").
type waiterState int32

const (
	waiterNone waiterState = iota
	waiterPending
	waiterFinished
)

// WakerSlot is the handle a caller awaits after a Push is deferred to the
// pending FIFO because the ring was full. SetWaker installs the waker
// that Finish will invoke; if Finish already ran, SetWaker invokes it
// immediately instead of storing it, so there is no missed-wakeup window
// whichever order the two calls race in.
type WakerSlot struct {
	mu    sync.Mutex
	state waiterState
	waker func()
}

// SetWaker installs f as the waker to call when the deferred push
// finally lands in the ring.
func (s *WakerSlot) SetWaker(f func()) {
	s.mu.Lock()
	if s.state == waiterFinished {
		s.mu.Unlock()
		f()
		return
	}
	s.state = waiterPending
	s.waker = f
	s.mu.Unlock()
}

// Finish marks the slot finished and invokes the waker if one was set.
func (s *WakerSlot) Finish() {
	s.mu.Lock()
	prev := s.state
	w := s.waker
	s.waker = nil
	s.state = waiterFinished
	s.mu.Unlock()
	if prev == waiterPending && w != nil {
		w()
	}
}

// Done reports whether the deferred push has landed.
func (s *WakerSlot) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == waiterFinished
}
