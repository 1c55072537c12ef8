// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - content store for received and local transfers
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. id           = global hash: BLAKE2b-256 over the concatenated block hashes
// 4. fingerprint  = BLAKE2b-256 of an ed25519 public key
//
// Content:
//
//   M ++ id                    - header of a complete transfer
//                                data: header frame
//   D ++ id                    - body held in the database
//                                data: concatenated blocks
//   F ++ id                    - body held in the cache directory
//                                data: file name relative to the cache directory
//
// Identities:
//
//   I ++ fingerprint           - known sender
//                                data: ed25519 public key
//
// a header is only written after its body is complete, so the
// presence of M ++ id means the content is available
package storage
