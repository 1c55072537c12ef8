// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package radio - the low bandwidth discovery transport
//
// A peer carries two independent channels identified by their GATT
// characteristic UUIDs, one for capability advertisements and one
// for upgrade proposals.  Over a stream connection the channels are
// multiplexed as fragments:
//
//   channel byte ++ BE16 length ++ fragment
//
// where a fragment is at most one MTU.  Each channel is delivered to
// its reader as a byte stream in the order it was sent.
package radio
