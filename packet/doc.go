// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package packet - the packet kinds exchanged between peers
//
// every packet travels in a frame:
//
//   length  uint32 big endian  size of payload
//   payload protobuf           one of the messages in packet.proto
//   crc     uint32 big endian  CRC32 (IEEE) of payload
//
// the CRC is checked before the payload is parsed
package packet
