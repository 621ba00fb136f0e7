// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapPackagesBothDirections(t *testing.T) {
	req := QueueMeta{WorkingFD: 3, UnstuckFD: 4}
	resp := QueueMeta{WorkingFD: 5, UnstuckFD: 6}

	hs, err := Bootstrap(req, resp)
	require.NoError(t, err)
	require.Equal(t, req, hs.Request)
	require.Equal(t, resp, hs.Response)
}

func TestBootstrapRejectsMissingWakeDescriptors(t *testing.T) {
	_, err := Bootstrap(QueueMeta{WorkingFD: -1, UnstuckFD: 4}, QueueMeta{WorkingFD: 5, UnstuckFD: 6})
	require.ErrorIs(t, err, ErrInvalidQueueMeta)

	_, err = Bootstrap(QueueMeta{WorkingFD: 3, UnstuckFD: 4}, QueueMeta{WorkingFD: 5, UnstuckFD: -1})
	require.ErrorIs(t, err, ErrInvalidQueueMeta)
}
