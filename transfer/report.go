// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"fmt"

	"github.com/bitmark-inc/ferryd/counter"
	"github.com/bitmark-inc/ferryd/upgrade"
)

// Tally - traffic in one direction
type Tally struct {
	Identities counter.Counter
	Messages   counter.Counter
	Blocks     counter.Counter
	Bytes      counter.Counter
}

func (t *Tally) String() string {
	return fmt.Sprintf("identities: %d  messages: %d  blocks: %d  bytes: %d", t.Identities.Uint64(), t.Messages.Uint64(), t.Blocks.Uint64(), t.Bytes.Uint64())
}

// Report - outcome of one exchange
//
// each direction fails on its own, a nil error means the direction
// ended with an end of stream header
type Report struct {
	Role      upgrade.Role
	SessionID int32
	Sent      Tally
	Received  Tally
	Outbound  error
	Inbound   error
}

// Err - the first direction error, outbound before inbound
func (r *Report) Err() error {
	if nil != r.Outbound {
		return r.Outbound
	}
	return r.Inbound
}
