// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ref

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestTagMaxAndLifted(t *testing.T) {
	require.Equal(t, SimpleWrapper, Primitive.Max(SimpleWrapper))
	require.Equal(t, Complex, SimpleWrapper.Max(Complex))
	require.Equal(t, Complex, Complex.Max(Primitive))

	require.Equal(t, SimpleWrapper, Primitive.Lifted())
	require.Equal(t, Complex, SimpleWrapper.Lifted())
	require.Equal(t, Complex, Complex.Lifted())

	require.Equal(t, "Primitive", Primitive.String())
	require.Equal(t, "SimpleWrapper", SimpleWrapper.String())
	require.Equal(t, "Complex", Complex.String())
}

func TestStringRefRoundTrip(t *testing.T) {
	require.Equal(t, "hello", FromStringRef(NewStringRef("hello")))
	require.Equal(t, "", FromStringRef(NewStringRef("")))
	require.Equal(t, StringRef{}, NewStringRef(""))
}

func TestPrimitiveListRefRoundTrip(t *testing.T) {
	in := []int64{1, 2, 3, 4}
	out := FromPrimitiveListRef[int64](NewPrimitiveListRef(in))
	require.Equal(t, in, out)

	require.Nil(t, FromPrimitiveListRef[int64](NewPrimitiveListRef[int64](nil)))
	require.Equal(t, ListRef{}, NewPrimitiveListRef[int64](nil))
}

// simpleRecord is a SimpleWrapper owned type: zero arena cost.
type simpleRecord struct {
	ID   uint64
	Name string
}

type simpleRecordRef struct {
	ID   uint64
	Name StringRef
}

func (simpleRecord) MemTag() Tag { return SimpleWrapper }
func (simpleRecord) ToSize(*int) {}
func (r simpleRecord) ToRef(*Writer) simpleRecordRef {
	return simpleRecordRef{ID: r.ID, Name: NewStringRef(r.Name)}
}

func TestCalcRefSimpleWrapperUsesNoArena(t *testing.T) {
	v := simpleRecord{ID: 7, Name: "seven"}
	buf, head := CalcRef[simpleRecordRef](v)
	require.Empty(t, buf)
	require.Equal(t, uint64(7), head.ID)
	require.Equal(t, "seven", FromStringRef(head.Name))
}

// complexElem is SimpleWrapper on its own (one string field), which is
// exactly what makes complexList below Complex: a list of non-primitive
// elements cannot alias the owned slice's backing array (a []complexElem
// does not share complexElemRef's {ptr,len} layout), so Tag.Lifted lifts
// SimpleWrapper to Complex and the list needs a written arena trailer.
type complexElem struct {
	Label string
}

type complexElemRef struct {
	Label StringRef
}

func (complexElem) MemTag() Tag          { return SimpleWrapper }
func (complexElem) ToSize(*int)          {}
func (e complexElem) ToRef(*Writer) complexElemRef { return complexElemRef{Label: NewStringRef(e.Label)} }

type complexList struct {
	Items []complexElem
}

type complexListRef struct {
	Items ListRef
}

func (complexList) MemTag() Tag { return complexElem{}.MemTag().Lifted() }

func (c complexList) ToSize(acc *int) {
	ListToSize(acc, int(unsafe.Sizeof(complexElemRef{})), c.Items, func(e *complexElem, acc *int) { e.ToSize(acc) })
}

func (c complexList) ToRef(w *Writer) complexListRef {
	return complexListRef{Items: ListToRef(w, c.Items, func(e *complexElem, w *Writer) complexElemRef { return e.ToRef(w) })}
}

func TestCalcRefComplexListWritesArenaTrailer(t *testing.T) {
	v := complexList{Items: []complexElem{{Label: "a"}, {Label: "bb"}, {Label: "ccc"}}}
	buf, head := CalcRef[complexListRef](v)

	childSize := int(unsafe.Sizeof(complexElemRef{}))
	require.Len(t, buf, 3*childSize)
	require.Equal(t, uintptr(3), head.Items.Len)

	for i, want := range v.Items {
		got := Get[complexElemRef](buf, i*childSize)
		require.Equal(t, want.Label, FromStringRef(got.Label))
	}
}

func TestCalcRefComplexListEmptyHasNoArena(t *testing.T) {
	v := complexList{}
	buf, head := CalcRef[complexListRef](v)
	require.Empty(t, buf)
	require.Equal(t, ListRef{}, head.Items)
}

func TestCopyStructWritesContiguousTrailer(t *testing.T) {
	buf := make([]byte, int(unsafe.Sizeof(StringRef{}))+int(unsafe.Sizeof(uint64(0))))
	w := NewWriter(buf)

	name := "trailer"
	base := CopyStruct(w, int(unsafe.Sizeof(StringRef{}))+int(unsafe.Sizeof(uint64(0))), func(tw *Writer) {
		Put(tw, NewStringRef(name))
		Put(tw, uint64(42))
	})

	require.NotNil(t, base)
	gotName := Get[StringRef](buf, 0)
	gotID := Get[uint64](buf, int(unsafe.Sizeof(StringRef{})))
	require.Equal(t, name, FromStringRef(gotName))
	require.Equal(t, uint64(42), gotID)
}
