// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group

// a state type for a request
type opState int

// progress of a create or connect
const (
	stateIdle opState = iota
	stateRequesting
	stateRetrying
	stateConfirming
	stateDone
	stateFailed
)

func (state opState) String() string {
	switch state {
	case stateIdle:
		return "Idle"
	case stateRequesting:
		return "Requesting"
	case stateRetrying:
		return "Retrying"
	case stateConfirming:
		return "Confirming"
	case stateDone:
		return "Done"
	case stateFailed:
		return "Failed"
	default:
		return "*Unknown*"
	}
}

// kind of request
type opKind int

const (
	opCreate opKind = iota
	opConnect
	opRemove
)

func (op opKind) String() string {
	switch op {
	case opCreate:
		return "create"
	case opConnect:
		return "connect"
	case opRemove:
		return "remove"
	default:
		return "*unknown*"
	}
}

// the broadcast that confirms a request
func (op opKind) confirmedBy(s State) bool {
	switch op {
	case opCreate:
		return s.Formed && s.IsOwner
	case opConnect:
		return s.Formed && !s.IsOwner && nil != s.OwnerAddress
	default:
		return false
	}
}
