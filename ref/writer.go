// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ref

import "unsafe"

// Writer is a mutable byte cursor into pre-allocated arena capacity.
//
// There are no bounds checks: to_size's pre-pass guarantees the buffer
// is exactly large enough, the same way the teacher's SPSCPtr hot path
// trusts its own pre-computed indices instead of re-validating them.
type Writer struct {
	buf []byte
	off int
}

// NewWriter returns a Writer over buf, starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Offset returns the writer's current cursor position.
func (w *Writer) Offset() int { return w.off }

// Put writes v at the cursor (unaligned) and advances the cursor by
// sizeof(v). T must be a fixed-size POD (no pointers, no slices/strings
// other than the {ptr,len} reference-view shapes, which are POD too).
func Put[T any](w *Writer, v T) {
	n := int(unsafe.Sizeof(v))
	dst := w.buf[w.off : w.off+n]
	*(*T)(unsafe.Pointer(unsafe.SliceData(dst))) = v
	w.off += n
}

// PutBytes copies raw bytes at the cursor and advances past them.
func (w *Writer) PutBytes(p []byte) {
	n := copy(w.buf[w.off:w.off+len(p)], p)
	w.off += n
}

// Reserve forks a sub-writer over the next n bytes and advances the
// parent cursor past them. The child and parent never overlap again:
// children are laid out depth-first in emission order.
func (w *Writer) Reserve(n int) *Writer {
	child := &Writer{buf: w.buf[w.off : w.off+n]}
	w.off += n
	return child
}

// Bytes returns the full backing buffer (not just the written prefix);
// callers that need the written prefix use Offset().
func (w *Writer) Bytes() []byte { return w.buf }

// Get reads a T at byte offset off in buf without bounds checks beyond
// slicing. Used by FromRef implementations and tests to read child
// reference views back out of an arena by their byte offset.
func Get[T any](buf []byte, off int) T {
	var zero T
	n := int(unsafe.Sizeof(zero))
	src := buf[off : off+n]
	return *(*T)(unsafe.Pointer(unsafe.SliceData(src)))
}
