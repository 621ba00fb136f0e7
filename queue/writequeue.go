// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"sync"

	"code.hybscloud.com/xcall/payload"
	"code.hybscloud.com/xcall/ringbuf"
)

type pendingTask struct {
	item  payload.Payload
	waker *WakerSlot
}

// WriteQueue is the producer-side wrapper around a ringbuf.Ring: Push
// enqueues directly when there is room, and otherwise appends a pending
// task to a producer-local FIFO, setting the ring's stuck flag and
// returning a WakerSlot the caller can await. A background goroutine —
// the "unstuck handler" of spec.md §4.4 — parks on the ring's unstuck
// wake and drains the FIFO whenever the consumer signals capacity freed
// up.
type WriteQueue struct {
	ring *ringbuf.Ring

	mu      sync.Mutex
	pending []pendingTask

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWriteQueue wraps ring and starts its unstuck handler goroutine.
func NewWriteQueue(ring *ringbuf.Ring) *WriteQueue {
	q := &WriteQueue{ring: ring, stopCh: make(chan struct{})}
	go q.unstuckLoop()
	return q
}

// Close stops the unstuck handler goroutine. It does not close the
// underlying ring.
func (q *WriteQueue) Close() {
	q.stopOnce.Do(func() { close(q.stopCh) })
}

// Push enqueues item. If the ring has room, it is pushed immediately and
// Push returns (nil, true). Otherwise item is appended to the pending
// FIFO and Push returns a WakerSlot the caller can poll or attach a
// waker to; the unstuck handler will push it once the consumer frees
// capacity.
func (q *WriteQueue) Push(item payload.Payload) (*WakerSlot, bool) {
	if q.ring.Push(item) {
		q.wakeIfTransition()
		return nil, true
	}

	q.ring.SetStuck(true)
	ws := &WakerSlot{}
	q.mu.Lock()
	q.pending = append(q.pending, pendingTask{item: item, waker: ws})
	q.mu.Unlock()
	return ws, false
}

// wakeIfTransition wakes the consumer exactly on the working:0->1 edge,
// never on an already-working ring (spec.md §4.4 "Wake discipline").
func (q *WriteQueue) wakeIfTransition() {
	if q.ring.TrySetWorking(false, true) {
		_ = q.ring.WakeConsumer()
	}
}

func (q *WriteQueue) unstuckLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-q.stopCh
		cancel()
	}()

	for {
		if err := q.ring.WaitUnstuck(ctx); err != nil {
			return
		}
		select {
		case <-q.stopCh:
			return
		default:
		}
		q.drainPending()
	}
}

// drainPending pushes queued tasks into the ring until either the FIFO is
// empty or the ring is full again, waking each task's waiter on success.
func (q *WriteQueue) drainPending() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) > 0 {
		t := q.pending[0]
		if !q.ring.Push(t.item) {
			return
		}
		q.pending = q.pending[1:]
		q.wakeIfTransition()
		if t.waker != nil {
			t.waker.Finish()
		}
	}
}
