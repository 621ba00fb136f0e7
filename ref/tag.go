// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ref provides the reference-view data model and arena writer
// used to cross the call boundary without heap allocation in the common
// case, and without more than one arena allocation in the worst case.
//
// An owned value (a user-domain record with strings, lists, and nested
// records) converts to a reference view: a flat, C-layout-compatible
// mirror where strings and lists become {ptr,len} pairs and nested
// records become their own reference-view type. Every field beyond the
// head reference lives in a single arena buffer sized by a pre-pass and
// filled by a write-pass that visits fields in the same order, so the
// two passes always agree on offsets.
package ref

// Tag classifies an owned type by how much heap data its reference view
// needs beyond the head reference itself. The arena writer uses the tag
// to skip allocation entirely for Primitive and SimpleWrapper types.
type Tag int8

const (
	// Primitive types have no heap data: numbers, bools, fixed arrays of
	// primitives. ToSize is always 0 and ToRef never touches a Writer.
	Primitive Tag = iota
	// SimpleWrapper types have exactly one indirection whose data is
	// already contiguous: a string, or a list of primitives. ToSize is
	// always 0 (the {ptr,len} pair points directly at the owned value's
	// own backing storage, not at arena-allocated data) and ToRef never
	// touches a Writer.
	SimpleWrapper
	// Complex types are a list of non-primitive elements, or any record
	// containing a Complex field. ToSize is the number of bytes the
	// value contributes to the arena beyond its own head reference.
	Complex
)

// Max returns the larger of the two tags. A record's tag is the maximum
// over its fields.
func (t Tag) Max(other Tag) Tag {
	if other > t {
		return other
	}
	return t
}

// Lifted returns the tag one list nesting level up, bounded at Complex:
// Primitive lifts to SimpleWrapper (a list of primitives aliases the
// owned slice's own backing array at zero arena cost); SimpleWrapper and
// Complex both lift to Complex (a list of non-primitive elements, even
// SimpleWrapper ones like strings, cannot alias the owned slice directly
// — its elements are not C-layout-compatible with their reference views
// — so it needs a written arena trailer of child reference views).
func (t Tag) Lifted() Tag {
	if t == Primitive {
		return SimpleWrapper
	}
	return Complex
}

// String renders the tag name, mainly for test failure messages.
func (t Tag) String() string {
	switch t {
	case Primitive:
		return "Primitive"
	case SimpleWrapper:
		return "SimpleWrapper"
	case Complex:
		return "Complex"
	default:
		return "Tag(?)"
	}
}
