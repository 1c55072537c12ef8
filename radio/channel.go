// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package radio

import (
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
)

// MTU - largest fragment carried in one write
const MTU = 512

// wire identifiers of the characteristics
const (
	advertiseChannel byte = 0x01
	upgradeChannel   byte = 0x02
)

var channels = map[string]byte{
	constants.AdvertiseChannelUUID: advertiseChannel,
	constants.UpgradeChannelUUID:   upgradeChannel,
}

func channelID(uuid string) (byte, error) {
	id, ok := channels[uuid]
	if !ok {
		return 0, fault.ErrInvalidChannel
	}
	return id, nil
}
