// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Fanin is a multi-producer single-consumer bounded buffer that lets
// several application goroutines share one WriteQueue safely, even
// though the ring transport itself is strictly single-writer (spec.md
// §5 "per-thread pairing"; Non-goals explicitly exclude a
// multi-producer ring). A dedicated pump goroutine is the Fanin's only
// consumer and is the one that actually calls WriteQueue.Push, so the
// ring still only ever sees one writer.
//
// The algorithm (FAA-based SCQ-style slot claiming, 2n physical slots
// for capacity n) is the teacher's own MPSC design, generalized from
// pinned-type queues to this package's payload.Payload fan-in use.
type Fanin[T any] struct {
	_        finPad
	head     atomix.Uint64
	_        finPad
	tail     atomix.Uint64
	_        finPad
	buffer   []faninSlot[T]
	capacity uint64
	size     uint64
	mask     uint64
}

type finPad [64]byte

type faninSlot[T any] struct {
	cycle atomix.Uint64
	data  T
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// NewFanin creates a Fanin of the given usable capacity (rounded up to
// the next power of 2).
func NewFanin[T any](capacity int) *Fanin[T] {
	n := uint64(roundToPow2(capacity))
	size := n * 2
	q := &Fanin[T]{
		buffer:   make([]faninSlot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}
	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}
	return q
}

// Enqueue adds elem (any number of producer goroutines may call this
// concurrently). Returns iox.ErrWouldBlock if the buffer is full.
func (q *Fanin[T]) Enqueue(elem T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadRelaxed()
		if tail >= head+q.capacity {
			return iox.ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1
		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity
		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			slot.data = elem
			slot.cycle.StoreRelease(expectedCycle + 1)
			return nil
		}
		if int64(slotCycle) < int64(expectedCycle) {
			return iox.ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns one element. Single-consumer only — the
// pump goroutine is the only caller. Returns iox.ErrWouldBlock if empty.
func (q *Fanin[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	cycle := head / q.capacity
	slot := &q.buffer[head&q.mask]

	slotCycle := slot.cycle.LoadAcquire()
	if slotCycle != cycle+1 {
		var zero T
		return zero, iox.ErrWouldBlock
	}

	elem := slot.data
	var zero T
	slot.data = zero
	slot.cycle.StoreRelease((head + q.size) / q.capacity)
	q.head.StoreRelaxed(head + 1)
	return elem, nil
}

// Cap returns the buffer's usable capacity.
func (q *Fanin[T]) Cap() int { return int(q.capacity) }
