// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockdigest - per-block content hashing
//
// each block is hashed together with its sequence number using
// unkeyed BLAKE2b-256 so that a block moved to another index fails
// verification
package blockdigest
