// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringbuf implements the shared-memory SPSC ring transport:
// a bounded single-producer/single-consumer queue of fixed-size payloads,
// plus the working/stuck state words and wake descriptors that let the
// consumer park when idle and the producer back off when full, without
// either side busy-polling a syscall (spec.md §4.4).
//
// The push/pop hot path is the teacher's own Lamport ring-buffer
// algorithm (cached-index SPSC, see code.hybscloud.com/lfq's SPSC[T]),
// carried over unchanged and built out with the working/stuck machinery
// this spec adds on top.
package ringbuf

import (
	"context"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/xcall/notify"
	"code.hybscloud.com/xcall/payload"
)

// roundToPow2 rounds n up to the next power of 2 (same as the teacher's
// lfq.roundToPow2).
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

type pad [64]byte

// Ring is a bounded SPSC queue of payload.Payload, extended with
// working/stuck state words and OS wake descriptors (spec.md §3 "Ring",
// §4.4).
type Ring struct {
	_          pad
	head       atomix.Uint64 // consumer reads from here
	_          pad
	cachedTail uint64
	_          pad
	tail       atomix.Uint64 // producer writes here
	_          pad
	cachedHead uint64
	_          pad
	working    atomix.Int32 // 1 while the consumer is actively polling
	stuck      atomix.Int32 // 1 while the producer is waiting for capacity
	_          pad

	buffer []payload.Payload
	mask   uint64

	workingWake *notify.Pair // producer -> consumer
	unstuckWake *notify.Pair // consumer -> producer
	owner       bool
}

// New creates an owned ring of the given capacity (rounded up to the next
// power of 2), allocating its own wake descriptors.
func New(capacity int) (*Ring, error) {
	workingWake, err := notify.New()
	if err != nil {
		return nil, err
	}
	unstuckWake, err := notify.New()
	if err != nil {
		_ = workingWake.Close()
		return nil, err
	}
	n := uint64(roundToPow2(capacity))
	return &Ring{
		buffer:      make([]payload.Payload, n),
		mask:        n - 1,
		workingWake: workingWake,
		unstuckWake: unstuckWake,
		owner:       true,
	}, nil
}

// Meta returns the snapshot a peer reconstructs this ring from via
// NewFromMeta (spec.md §3 "QueueMeta").
func (r *Ring) Meta() payload.QueueMeta {
	return payload.QueueMeta{
		WorkingFD: r.workingWake.NotifyFD(),
		UnstuckFD: r.unstuckWake.NotifyFD(),
	}
}

// NewFromMeta reconstructs a non-owning handle to a peer's ring. Since
// this repo has no second process to map shared memory into, the
// non-owner is given the same in-process buffer/head/tail/working/stuck
// directly (see DESIGN.md Open Question 3) rather than the raw pointers
// QueueMeta nominally carries; only the wake descriptors genuinely cross
// an ownership boundary, and notify.FromRawFD wraps those as non-owning.
func NewFromMeta(owned *Ring, meta payload.QueueMeta) *Ring {
	return &Ring{
		buffer:      owned.buffer,
		mask:        owned.mask,
		workingWake: notify.FromRawFD(meta.WorkingFD),
		unstuckWake: notify.FromRawFD(meta.UnstuckFD),
		owner:       false,
	}
}

// Cap returns the ring's capacity in slots.
func (r *Ring) Cap() int { return int(r.mask + 1) }

// Close releases the ring's own wake descriptors. A no-op for a
// non-owner handle (spec.md §3 Ring lifecycle).
func (r *Ring) Close() error {
	if !r.owner {
		return nil
	}
	err := r.workingWake.Close()
	if err2 := r.unstuckWake.Close(); err2 != nil && err == nil {
		err = err2
	}
	return err
}

// push is the raw Lamport push: returns false if the ring is full. It
// does not touch working/stuck or wake anyone — callers use WriteQueue
// for the full producer protocol (spec.md §4.4).
func (r *Ring) push(item payload.Payload) bool {
	tail := r.tail.LoadRelaxed()
	if tail-r.cachedHead > r.mask {
		r.cachedHead = r.head.LoadAcquire()
		if tail-r.cachedHead > r.mask {
			return false
		}
	}
	r.buffer[tail&r.mask] = item
	r.tail.StoreRelease(tail + 1)
	return true
}

// pop is the raw Lamport pop: returns false if the ring is empty.
func (r *Ring) pop() (payload.Payload, bool) {
	head := r.head.LoadRelaxed()
	if head >= r.cachedTail {
		r.cachedTail = r.tail.LoadAcquire()
		if head >= r.cachedTail {
			return payload.Payload{}, false
		}
	}
	item := r.buffer[head&r.mask]
	r.head.StoreRelease(head + 1)
	return item, true
}

// Empty reports whether the ring currently has nothing to pop, using an
// Acquire load of tail against a Relaxed load of head — the ordering the
// working-state-machine post-clear re-check requires (spec.md §4.4).
func (r *Ring) Empty() bool {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadAcquire()
	return head >= tail
}

// Push attempts the raw enqueue; exported for WriteQueue.
func (r *Ring) Push(item payload.Payload) bool { return r.push(item) }

// Pop attempts the raw dequeue; exported for ReadQueue.
func (r *Ring) Pop() (payload.Payload, bool) { return r.pop() }

// Working reports the consumer's working flag (1 = actively polling).
func (r *Ring) Working() bool { return r.working.LoadAcquire() != 0 }

// TrySetWorking CAS-transitions working from old to new (as 0/1),
// returning whether it won the race. Used by the post-clear re-check in
// spec.md §4.4: a concurrent push between the empty-check and the
// flag-clear must restore working=1 without the consumer waking itself.
func (r *Ring) TrySetWorking(old, new bool) bool {
	return r.working.CompareAndSwapAcqRel(b2i(old), b2i(new))
}

// SetWorking unconditionally stores the working flag.
func (r *Ring) SetWorking(v bool) { r.working.StoreRelease(b2i(v)) }

// Stuck reports the producer's stuck flag.
func (r *Ring) Stuck() bool { return r.stuck.LoadAcquire() != 0 }

// SetStuck unconditionally stores the stuck flag.
func (r *Ring) SetStuck(v bool) { r.stuck.StoreRelease(b2i(v)) }

// WakeConsumer writes a wake token to working_fd, waking a consumer parked
// in WaitWorking.
func (r *Ring) WakeConsumer() error { return r.workingWake.Notify() }

// WaitWorking parks until WakeConsumer is called or ctx is done.
func (r *Ring) WaitWorking(ctx context.Context) error {
	return r.workingWake.Wait(ctx)
}

// WakeProducer writes a wake token to unstuck_fd, waking a producer parked
// in WaitUnstuck.
func (r *Ring) WakeProducer() error { return r.unstuckWake.Notify() }

// WaitUnstuck parks until WakeProducer is called or ctx is done.
func (r *Ring) WaitUnstuck(ctx context.Context) error {
	return r.unstuckWake.Wait(ctx)
}

func b2i(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
