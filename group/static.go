// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group

import (
	"net"
	"sync"

	"github.com/bitmark-inc/ferryd/fault"
)

// for networks that already exist, e.g. a shared LAN: every request
// succeeds at once and the group owner is fixed
type staticTransport struct {
	sync.Mutex
	ownerAddress net.IP
	formed       bool
	states       chan State
}

// NewStaticTransport - a Transport whose group is always ownerAddress
func NewStaticTransport(ownerAddress net.IP) Transport {
	return &staticTransport{
		ownerAddress: ownerAddress,
		states:       make(chan State, 16),
	}
}

func (t *staticTransport) Create(name string, passphrase string, callback func(error)) {
	t.form(true, callback)
}

func (t *staticTransport) Connect(name string, passphrase string, callback func(error)) {
	t.form(false, callback)
}

func (t *staticTransport) form(isOwner bool, callback func(error)) {
	t.Lock()
	t.formed = true
	t.Unlock()

	go func() {
		callback(nil)
		t.states <- State{
			Formed:       true,
			IsOwner:      isOwner,
			OwnerAddress: t.ownerAddress,
		}
	}()
}

func (t *staticTransport) Remove(callback func(error)) {
	t.Lock()
	formed := t.formed
	t.formed = false
	t.Unlock()

	go func() {
		if !formed {
			callback(fault.ErrResourceFailed)
			return
		}
		callback(nil)
		t.states <- State{}
	}()
}

func (t *staticTransport) States() <-chan State {
	return t.states
}
