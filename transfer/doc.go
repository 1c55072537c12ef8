// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transfer - exchange stored content over the upgraded transport
//
// The UKE side forms the group, listens on the bulk transfer port at
// the owner address, and accepts exactly one connection.  The SEME side
// joins the group and dials that address.  Each side then relays its
// outgoing content while reading the peer's; a stream ends with an
// end-of-stream header followed by a half-close.  The group is
// released when the exchange ends, whatever the outcome.
package transfer
