// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upgrade

import (
	"context"
	"io"

	"github.com/bitmark-inc/ferryd/packet"
)

// Request - the outcome of a negotiation
type Request struct {
	Role   Role
	Packet *packet.Upgrade
}

// Bootstrapper - runs the transfer over the assigned transport
type Bootstrapper interface {
	Bootstrap(ctx context.Context, request Request) error
}

// BootstrapperFunc - adapt a function to a Bootstrapper
type BootstrapperFunc func(ctx context.Context, request Request) error

// Bootstrap - call f
func (f BootstrapperFunc) Bootstrap(ctx context.Context, request Request) error {
	return f(ctx, request)
}

// Peer - the discovery transport connection used to negotiate
//
// readers returned by Incoming should have a SetReadDeadline(time.Time)
// error method and are then read under deadlines; any other reader is
// read from a separate goroutine and must be an io.Closer, it is closed
// when a wait times out or is cancelled so that goroutine can end
//
// a reader with a DiscardPending() int method has unread data left by
// a failed negotiation dropped
type Peer interface {
	ID() string
	Initiator() bool
	SendBytes(channel string, data []byte) error
	Incoming(channel string) io.Reader
}
