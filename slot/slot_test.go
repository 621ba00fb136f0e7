// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteThenRead(t *testing.T) {
	r, w := NewPair[int]()
	_, wrote := w.Write(42)
	assert.True(t, wrote)

	v, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestReadBeforeWriteIsNotReady(t *testing.T) {
	r, _ := NewPair[int]()
	_, ok := r.Read()
	assert.False(t, ok)
}

func TestDoubleWriteFails(t *testing.T) {
	r, w := NewPair[int]()
	_, wrote := w.Write(1)
	assert.True(t, wrote)

	unwritten, wrote := w.Write(2)
	assert.False(t, wrote)
	assert.Equal(t, 2, unwritten)

	v, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestWakerCalledOnWrite(t *testing.T) {
	r, w := NewPair[string]()
	woke := false
	w.SetWaker(func() { woke = true })
	_, wrote := w.Write("hi")
	assert.True(t, wrote)
	assert.True(t, woke)

	v, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, "hi", v)
}

func TestReaderDropBeforeWriteDoesNotPanicWriter(t *testing.T) {
	r, w := NewPair[int]()
	r.Drop()

	// Writer fires after the reader already dropped: must not panic, and
	// the value is simply unobservable.
	_, wrote := w.Write(7)
	assert.True(t, wrote)
}

func TestAttachmentReturnedWithValue(t *testing.T) {
	r, w := NewPair[int]()
	type reqTuple struct{ n int }
	w.Attach(reqTuple{n: 9})
	_, _ = w.Write(10)

	v, att, ok := r.ReadWithAttachment()
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, reqTuple{n: 9}, att)

	// Attachment is taken exactly once.
	_, att2, ok2 := r.ReadWithAttachment()
	assert.False(t, ok2)
	assert.Nil(t, att2)
}

func TestDropIsIdempotent(t *testing.T) {
	r, w := NewPair[int]()
	r.Drop()
	r.Drop()
	w.Drop()
	w.Drop()
	// No panic, no crash: both sides may drop any number of times.
}
