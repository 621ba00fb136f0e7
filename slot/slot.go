// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package slot implements the completion slot: a one-shot
// single-producer/single-consumer rendezvous cell that joins a caller-side
// future to a callee-side writer, safe under arbitrary interleaving of
// reader drop, writer drop, value write, and value read across two
// independent schedulers.
package slot

import "code.hybscloud.com/atomix"

const (
	bitWriterDropped int32 = 1 << iota
	bitReaderDropped
	bitValueWritten
)

// cell is the heap object shared by exactly one Reader and one Writer
// handle. The last handle to drop frees it (by dropping its own
// reference; Go's GC reclaims it once both handles and any outstanding
// raw-pointer alias are gone).
type cell[T any] struct {
	state      atomix.Int32
	value      T
	attachment any
	waker      func()
}

// NewPair allocates a completion slot and returns its two unique handles.
func NewPair[T any]() (Reader[T], Writer[T]) {
	c := &cell[T]{}
	return Reader[T]{c: c}, Writer[T]{c: c}
}

// Reader is the caller-side handle, consumed by the response future.
type Reader[T any] struct {
	c       *cell[T]
	dropped bool
}

// Read returns the value if the writer has written it and then dropped
// its handle (W=1 implies no further writes will occur, so the value is
// fully observable). Returns (zero, false) otherwise.
func (r *Reader[T]) Read() (T, bool) {
	st := r.c.state.LoadAcquire()
	if st&bitValueWritten != 0 && st&bitWriterDropped != 0 {
		v := r.c.value
		var zero T
		r.c.value = zero
		return v, true
	}
	var zero T
	return zero, false
}

// ReadWithAttachment is like Read but also takes out the slot's
// attachment (e.g. the request tuple + its arena buffer), used by
// drop-safe(-ret) futures that must hand the original request back to
// the caller alongside the response.
func (r *Reader[T]) ReadWithAttachment() (T, any, bool) {
	v, ok := r.Read()
	if !ok {
		var zero T
		return zero, nil, false
	}
	a := r.c.attachment
	r.c.attachment = nil
	return v, a, true
}

// Drop releases the reader handle. Safe to call at most once; safe to
// never call the value out (cancellation): the writer may still fire
// later and will simply find the reader bit set and skip the wake.
func (r *Reader[T]) Drop() {
	if r.dropped {
		return
	}
	r.dropped = true
	r.c.state.AddAcqRel(bitReaderDropped)
}

// Writer is the callee-side handle, consumed by the stub callback.
type Writer[T any] struct {
	c       *cell[T]
	dropped bool
}

// Attach sets the slot's attachment. Must be called before the writer
// pointer crosses to the callee, i.e. before any possibility of Write.
func (w *Writer[T]) Attach(a any) { w.c.attachment = a }

// SetWaker installs the closure the write will invoke. Local only: the
// deprecated (data, vtable) cross-ABI waker representation is not carried
// forward (spec.md §9 open question, resolved: "implementers should adopt
// the [local] latter").
func (w *Writer[T]) SetWaker(f func()) { w.c.waker = f }

// Write stores v, marks it observable, wakes the waker if any, then
// drops the writer handle (setting W=1, the signal the reader needs to
// treat the value as fully written). Returns v unwritten if the slot was
// somehow already written (defensive: a correct stub never does this).
func (w *Writer[T]) Write(v T) (unwritten T, wrote bool) {
	old := w.c.state.LoadRelaxed()
	if old&bitValueWritten != 0 {
		// Someone already set V; defensive path, spec.md §4.2 — must not
		// happen in a correct design.
		return v, false
	}
	if !w.c.state.CompareAndSwapAcqRel(old, old|bitValueWritten) {
		return v, false
	}
	w.c.value = v
	if waker := w.c.waker; waker != nil {
		waker()
	}
	w.Drop()
	var zero T
	return zero, true
}

// Drop releases the writer handle, setting W=1.
func (w *Writer[T]) Drop() {
	if w.dropped {
		return
	}
	w.dropped = true
	w.c.state.AddAcqRel(bitWriterDropped)
}
