// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package radio

// EventKind - what happened to a peer
type EventKind int

// peer events
const (
	Connected EventKind = iota
	Disconnected
)

func (kind EventKind) String() string {
	switch kind {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "*Unknown*"
	}
}

// Event - a change in peer reachability
type Event struct {
	Kind EventKind
	Peer Peer
}

// Transport - source of peers
type Transport interface {
	Events() <-chan Event
}
