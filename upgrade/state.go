// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upgrade

// State - progress of one negotiation
type State int

// negotiation states
const (
	StateIdle State = iota
	StateAdvertised
	StateUpgradeSent
	StateUpgradeAcked
	StateTransportAssigned
	StateDone
	StateFailed
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "Idle"
	case StateAdvertised:
		return "Advertised"
	case StateUpgradeSent:
		return "UpgradeSent"
	case StateUpgradeAcked:
		return "UpgradeAcked"
	case StateTransportAssigned:
		return "TransportAssigned"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "*Unknown*"
	}
}

// Role - the side of the high bandwidth transport
type Role int

// transport roles
const (
	RoleUKE  Role = iota // group owner, listens
	RoleSEME             // group member, dials
)

func (role Role) String() string {
	switch role {
	case RoleUKE:
		return "UKE"
	case RoleSEME:
		return "SEME"
	default:
		return "*Unknown*"
	}
}
