// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package payload

import "errors"

// ErrInvalidQueueMeta is returned by Bootstrap when a QueueMeta's wake
// descriptors are missing, which would otherwise surface much later as a
// mysterious hang on the first stuck producer instead of a clear failure
// at connection setup.
var ErrInvalidQueueMeta = errors.New("xcall: invalid queue meta")

// Handshake is the pair of QueueMeta values exchanged once per connection,
// before either side's steady-state ring loop starts: the request-direction
// ring and the response-direction ring, both owned by the initiator.
type Handshake struct {
	Request  QueueMeta
	Response QueueMeta
}

// Bootstrap performs the peer_init(request QueueMeta, response QueueMeta)
// exchange (spec §6): it validates and packages the local side's two ring
// descriptors into the single value that crosses to the peer. The peer
// calls Bootstrap again over the pair it receives to validate it before
// reconstructing its non-owning ring handles with ringbuf.NewFromMeta.
func Bootstrap(request, response QueueMeta) (Handshake, error) {
	if request.WorkingFD < 0 || request.UnstuckFD < 0 {
		return Handshake{}, ErrInvalidQueueMeta
	}
	if response.WorkingFD < 0 || response.UnstuckFD < 0 {
		return Handshake{}, ErrInvalidQueueMeta
	}
	return Handshake{Request: request, Response: response}, nil
}
