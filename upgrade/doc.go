// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package upgrade - negotiate a high bandwidth transport with one peer
//
// Both sides send their capability advertisement on the advertise
// channel.  The proposer then picks the first of its capabilities
// that the peer also provides, other than the discovery transport
// itself, and sends an upgrade packet with a random session id and
// fresh group credentials on the upgrade channel.  The acceptor
// replies with the same capability and session id.
//
// The proposer takes the UKE role (group owner, listens) and the
// acceptor the SEME role (member, dials).  A negotiation that fails
// is discarded; trying again is the caller's job.
package upgrade
