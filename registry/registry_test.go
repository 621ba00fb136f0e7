// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallerInsertTakeRoundTrip(t *testing.T) {
	c := NewCaller()
	e := &CallerEntry{Arena: []byte{1, 2, 3}}
	key := c.Insert(e)
	require.Equal(t, 1, c.Len())

	got, ok := c.Take(key)
	require.True(t, ok)
	require.Same(t, e, got)
	require.Equal(t, 0, c.Len())

	_, ok = c.Take(key)
	require.False(t, ok)
}

func TestCallerKeysNeverRepeat(t *testing.T) {
	c := NewCaller()
	k1 := c.Insert(&CallerEntry{})
	_, _ = c.Take(k1)
	k2 := c.Insert(&CallerEntry{})
	require.NotEqual(t, k1, k2)
}

func TestCalleeInsertTakeRoundTrip(t *testing.T) {
	c := NewCallee()
	key := c.Insert([]byte{9, 9})
	entry, ok := c.Take(key)
	require.True(t, ok)
	require.Equal(t, []byte{9, 9}, entry.Arena)
}
