// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockstream - chunked transfer of a header and its blocks
//
// an outbound transfer hashes its source before sending so the header
// (with one hash per block) can be signed and sent first; an inbound
// transfer checks every block against the header as it arrives and
// stops at the first mismatch
package blockstream
