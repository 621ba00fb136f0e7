// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/xcall/payload"
)

func TestFIFOOrdering(t *testing.T) {
	r, err := New(8)
	require.NoError(t, err)
	defer r.Close()

	for i := uint32(0); i < 8; i++ {
		ok := r.Push(payload.Payload{CallID: i})
		require.True(t, ok)
	}

	for i := uint32(0); i < 8; i++ {
		p, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, i, p.CallID)
	}
}

func TestPushFailsAtCapacity(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Push(payload.Payload{CallID: 1}))
	require.True(t, r.Push(payload.Payload{CallID: 2}))
	require.False(t, r.Push(payload.Payload{CallID: 3}))

	_, _ = r.Pop()
	require.True(t, r.Push(payload.Payload{CallID: 3}))
}

func TestCapacityRoundsUpToPow2(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 4, r.Cap())
}

func TestEmptyReflectsPops(t *testing.T) {
	r, err := New(4)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Empty())
	r.Push(payload.Payload{CallID: 1})
	require.False(t, r.Empty())
	r.Pop()
	require.True(t, r.Empty())
}

func TestCapacityOneAlternatesWithoutDeadlock(t *testing.T) {
	// capacity rounds up to 2, the minimum; alternate push/pop many times.
	r, err := New(1)
	require.NoError(t, err)
	defer r.Close()

	for i := uint32(0); i < 1000; i++ {
		require.True(t, r.Push(payload.Payload{CallID: i}))
		p, ok := r.Pop()
		require.True(t, ok)
		require.Equal(t, i, p.CallID)
	}
}
