// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group

//go:generate mockgen -source=transport.go -destination=mocks/transport.go -package=mocks

import (
	"fmt"
	"net"
)

// Transport - the radio driver
//
// each request completes by calling its callback exactly once with nil
// or one of fault.ErrResourceBusy, fault.ErrResourceFailed or
// fault.ErrResourceUnsupported; the callback may run on any goroutine
type Transport interface {
	Create(name string, passphrase string, callback func(error))
	Connect(name string, passphrase string, callback func(error))
	Remove(callback func(error))
	States() <-chan State
}

// State - a group state broadcast by the radio
type State struct {
	Formed       bool
	IsOwner      bool
	OwnerAddress net.IP
}

func (s State) String() string {
	if !s.Formed {
		return "not formed"
	}
	if s.IsOwner {
		return fmt.Sprintf("formed owner: %s", s.OwnerAddress)
	}
	return fmt.Sprintf("formed member owner: %s", s.OwnerAddress)
}
