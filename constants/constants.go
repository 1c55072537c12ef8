// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// well-known port for the bulk transfer listener
const (
	BulkTransferPort = 7575
)

// block sizing
const (
	DefaultBlockSize  = 512 * 1024
	MaximumBlockSize  = 8 * 1024 * 1024
	MaximumFrameSize  = 16 * 1024 * 1024
	MaximumInlineBody = 4 * 1024 * 1024
)

// discovery service and its two characteristics
const (
	ServiceUUID          = "9a21e79f-4a6d-4e28-95c6-257f5e47fd90"
	AdvertiseChannelUUID = "9a22e79f-4a6d-4e28-95c6-257f5e47fd90"
	UpgradeChannelUUID   = "9a24e79f-4a6d-4e28-95c6-257f5e47fd90"
)

// upgrade metadata keys
const (
	KeyGroupName       = "p2p-groupname"
	KeyGroupPassphrase = "p2p-passphrase"
)

// group credentials
const (
	DefaultGroupName = "DIRECT-fy-ferry"
	PassphraseBytes  = 16
)

// default mime type for a header that does not set one
const (
	DefaultMimeType = "application/octet-stream"
)

// handshake and resource timing
const (
	AdvertiseTimeout   = 5 * time.Second
	AckTimeout         = 5 * time.Second
	ConfirmTimeout     = 10 * time.Second
	AcceptTimeout      = 10 * time.Second
	DialTimeout        = 10 * time.Second
	DialRetryInterval  = 250 * time.Millisecond
	MaximumRetries     = 10
	RetryDelay         = 100 * time.Millisecond
	ImportSuppression  = 2 * time.Second
	PeerCooldown       = 2 * time.Minute
	PeerFailedCooldown = 15 * time.Second
)

// default number of stored messages and identities offered per connection
const (
	DefaultOutgoingLimit = 100
	DefaultIdentityLimit = 100
)

// limits on the connection preamble
const (
	MaximumDeclaredHashes = 512
	MaximumIdentityName   = 256
)
