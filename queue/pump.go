// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"sync"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/xcall/payload"
)

// FaninWriteQueue lets multiple application goroutines submit calls
// through a single WriteQueue. Producers enqueue into a Fanin buffer;
// one pump goroutine drains it and is the only goroutine that ever
// touches the underlying WriteQueue, preserving the ring's single-writer
// invariant (spec.md §5).
type FaninWriteQueue struct {
	fanin *Fanin[payload.Payload]
	wq    *WriteQueue

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewFaninWriteQueue wraps wq with a Fanin buffer of the given capacity
// and starts its pump goroutine.
func NewFaninWriteQueue(wq *WriteQueue, capacity int) *FaninWriteQueue {
	f := &FaninWriteQueue{
		fanin:  NewFanin[payload.Payload](capacity),
		wq:     wq,
		stopCh: make(chan struct{}),
	}
	go f.pump()
	return f
}

// Push enqueues item for the pump goroutine to forward. Returns
// iox.ErrWouldBlock (via Fanin.Enqueue) if the fan-in buffer itself is
// full — distinct from, and checked before, the ring's own backpressure.
func (f *FaninWriteQueue) Push(item payload.Payload) error {
	return f.fanin.Enqueue(item)
}

// Close stops the pump goroutine. It does not close the wrapped
// WriteQueue.
func (f *FaninWriteQueue) Close() {
	f.stopOnce.Do(func() { close(f.stopCh) })
}

func (f *FaninWriteQueue) pump() {
	sw := spin.Wait{}
	for {
		select {
		case <-f.stopCh:
			return
		default:
		}
		item, err := f.fanin.Dequeue()
		if err != nil {
			sw.Once()
			continue
		}
		sw.Reset()
		f.wq.Push(item)
	}
}
