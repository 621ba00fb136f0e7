// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"context"
	"runtime"

	"code.hybscloud.com/xcall/payload"
	"code.hybscloud.com/xcall/ringbuf"
)

// yieldRounds absorbs brief busy periods without the syscall cost of
// parking, per spec.md §4.4 "Working state machine" rationale.
const yieldRounds = 3

// ReadQueue is the consumer-side wrapper around a ringbuf.Ring,
// implementing the yield-then-park policy: drain to empty, yield
// yieldRounds times rechecking emptiness after each, then clear the
// working flag and park on the working wake — re-checking emptiness
// after the clear so a push racing the clear is never lost until the
// next push (spec.md §4.4, §9 "Working/stuck flags").
type ReadQueue struct {
	ring *ringbuf.Ring
}

// NewReadQueue wraps ring, marking the consumer as working immediately.
func NewReadQueue(ring *ringbuf.Ring) *ReadQueue {
	ring.SetWorking(true)
	return &ReadQueue{ring: ring}
}

// Next blocks until a payload is available or ctx is done.
func (q *ReadQueue) Next(ctx context.Context) (payload.Payload, error) {
	for {
		if p, ok := q.popChecked(); ok {
			return p, nil
		}

		for i := 0; i < yieldRounds; i++ {
			runtime.Gosched()
			if p, ok := q.popChecked(); ok {
				return p, nil
			}
		}

		if !q.ring.TrySetWorking(true, false) {
			// Lost a race to set working ourselves (shouldn't happen with
			// a single consumer); retry the drain loop.
			continue
		}

		// Post-clear re-check under Acquire: a push between the last
		// empty-check and the CAS above must not be lost until the next
		// push. If one arrived, restore working without waking ourselves
		// and go back to draining.
		if !q.ring.Empty() {
			q.ring.TrySetWorking(false, true)
			continue
		}

		if err := q.ring.WaitWorking(ctx); err != nil {
			return payload.Payload{}, err
		}
		q.ring.SetWorking(true)
	}
}

// popChecked pops one item and, per spec.md §4.4 "this is the only time
// the consumer touches stuck", clears the producer's stuck flag and
// wakes it whenever a pop is observed while stuck=1.
func (q *ReadQueue) popChecked() (payload.Payload, bool) {
	p, ok := q.ring.Pop()
	if ok && q.ring.Stuck() {
		q.ring.SetStuck(false)
		_ = q.ring.WakeProducer()
	}
	return p, ok
}

// TryNext is the non-blocking variant: drains without yielding or
// parking, returning immediately if the ring is empty.
func (q *ReadQueue) TryNext() (payload.Payload, bool) {
	return q.popChecked()
}
