// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package discovery - negotiate with peers as they appear
//
// Negotiations run one at a time since the high bandwidth resource is
// single.  A peer is not tried again until its cooldown expires, the
// cooldown after a failure is shorter than after a success; a peer
// still connected when its cooldown expires is queued again.
package discovery
