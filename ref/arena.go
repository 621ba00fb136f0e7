// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ref

import "unsafe"

// StringRef is the C-layout-equivalent mirror of a string: a pointer into
// either the owned value's own backing bytes (SimpleWrapper: zero arena
// cost) or, for CopyStruct trailers, into the arena. Empty strings use
// Ptr == nil, Len == 0; readers must accept that without dereferencing.
type StringRef struct {
	Ptr unsafe.Pointer
	Len uintptr
}

// ListRef is the C-layout-equivalent mirror of a list. For a list of
// Primitive elements, Ptr points directly at the owned slice's backing
// array. For a list of non-primitive elements (a Complex list), Ptr points
// into the arena at a block of len*sizeof(ChildRef) child reference views,
// written by the producer in element order. Empty lists use Ptr == nil,
// Len == 0.
type ListRef struct {
	Ptr unsafe.Pointer
	Len uintptr
}

// NewStringRef builds a StringRef over s with zero arena cost. Readers
// must not retain the pointer past the lifetime invariant in spec.md §3:
// the owned value (and hence s) must not move or be collected while a
// reference view over it exists.
func NewStringRef(s string) StringRef {
	if len(s) == 0 {
		return StringRef{}
	}
	return StringRef{Ptr: unsafe.Pointer(unsafe.StringData(s)), Len: uintptr(len(s))}
}

// FromStringRef materializes an owned string from a StringRef, treating
// the bytes as (possibly invalid) UTF-8 per spec.md §4.1 "Inverse
// operation". Empty/nil refs produce "".
func FromStringRef(r StringRef) string {
	if r.Ptr == nil || r.Len == 0 {
		return ""
	}
	return unsafe.String((*byte)(r.Ptr), int(r.Len))
}

// NewPrimitiveListRef builds a ListRef over a slice of primitives with
// zero arena cost: the pointer aliases the slice's own backing array.
func NewPrimitiveListRef[T any](s []T) ListRef {
	if len(s) == 0 {
		return ListRef{}
	}
	return ListRef{Ptr: unsafe.Pointer(unsafe.SliceData(s)), Len: uintptr(len(s))}
}

// FromPrimitiveListRef materializes an owned slice of primitives from a
// ListRef built by NewPrimitiveListRef (or an arena trailer of the same
// element layout). Returns nil for an empty/nil ref.
func FromPrimitiveListRef[T any](r ListRef) []T {
	if r.Ptr == nil || r.Len == 0 {
		return nil
	}
	return unsafe.Slice((*T)(r.Ptr), int(r.Len))
}

// Owned is implemented by generated owned types. R is the corresponding
// reference-view type (a TRef struct with one field per T field, C-layout
// compatible, primitives passed by value).
type Owned[R any] interface {
	// MemTag returns the compile-time complexity classification.
	MemTag() Tag
	// ToSize adds to *acc the bytes this value contributes to the arena
	// beyond its own head reference. Primitive/SimpleWrapper values must
	// not touch acc.
	ToSize(acc *int)
	// ToRef emits and returns the head reference view, writing any child
	// reference views into w as a side effect. Primitive/SimpleWrapper
	// implementations must not touch w.
	ToRef(w *Writer) R
}

// CalcRef runs ToSize, allocates a byte arena of exactly that capacity,
// runs ToRef into a Writer bound to that arena, and returns both. The
// returned buffer is the call's arena: it must be kept alive (as a
// keep-alive/attachment, per spec.md §4.2) for as long as the head
// reference may be dereferenced.
func CalcRef[R any, T Owned[R]](v T) ([]byte, R) {
	var size int
	v.ToSize(&size)
	buf := make([]byte, size)
	w := NewWriter(buf)
	head := v.ToRef(w)
	return buf, head
}

// ListToSize adds the arena contribution of a Complex-tagged list to acc:
// one ChildRef slot per element plus each element's own recursive
// contribution. childRefSize is sizeof of the element's reference-view
// type (e.g. unsafe.Sizeof(UserRef{})).
func ListToSize[T any](acc *int, childRefSize int, elems []T, elemToSize func(*T, *int)) {
	if len(elems) == 0 {
		return
	}
	*acc += len(elems) * childRefSize
	for i := range elems {
		elemToSize(&elems[i], acc)
	}
}

// ListToRef writes a Complex-tagged list's reference-view trailer: it
// reserves len(elems)*sizeof(ChildRef) bytes, then for each element (in
// order) computes the element's head reference — recursing into the
// element's own children further down the arena — and stores it in the
// reserved slot.
func ListToRef[T, R any](w *Writer, elems []T, elemToRef func(*T, *Writer) R) ListRef {
	if len(elems) == 0 {
		return ListRef{}
	}
	var zero R
	childSize := int(unsafe.Sizeof(zero))
	trailer := w.Reserve(len(elems) * childSize)
	for i := range elems {
		Put(trailer, elemToRef(&elems[i], w))
	}
	return ListRef{Ptr: unsafe.Pointer(unsafe.SliceData(trailer.buf)), Len: uintptr(len(elems))}
}

// CopyStruct reference-views a fixed tuple of fields and appends the head
// references contiguously at the end of the arena, returning a pointer to
// that trailer block. Used by the ring transport so the callee has a
// single pointer through which to locate all arguments (spec.md §4.1
// "Special handling").
//
// fieldSize is the sum of sizeof for every field's reference-view type,
// in the order writeFields will Put them.
func CopyStruct(w *Writer, fieldSize int, writeFields func(*Writer)) unsafe.Pointer {
	trailer := w.Reserve(fieldSize)
	base := unsafe.Pointer(unsafe.SliceData(trailer.buf))
	writeFields(trailer)
	return base
}
