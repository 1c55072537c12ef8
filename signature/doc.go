// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - ed25519 detached signatures over header bytes
// and the fingerprints that name the signing identities
package signature
