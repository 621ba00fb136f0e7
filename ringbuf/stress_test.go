// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringbuf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/xcall/internal/raceflag"
	"code.hybscloud.com/xcall/payload"
)

// TestConcurrentProducerConsumerStress drives one real producer goroutine
// against one real consumer goroutine for many iterations, the way an
// actual WriteQueue/ReadQueue pair would. It is skipped under the race
// detector: the Lamport algorithm's happens-before relationships are
// carried entirely by the atomix Acquire/Release loads and stores on
// head/tail, which the race detector does not model (see
// internal/raceflag).
func TestConcurrentProducerConsumerStress(t *testing.T) {
	if raceflag.Enabled {
		t.Skip("lock-free ordering is not observable to the race detector")
	}

	r, err := New(64)
	require.NoError(t, err)
	defer r.Close()

	const n = 200_000
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := uint32(0); i < n; {
			if r.Push(payload.Payload{CallID: i}) {
				i++
			}
		}
	}()

	for i := uint32(0); i < n; {
		p, ok := r.Pop()
		if !ok {
			continue
		}
		require.Equal(t, i, p.CallID)
		i++
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("producer goroutine never finished")
	}
}
