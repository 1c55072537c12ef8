// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockdigest

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/ferryd/fault"
)

// Length - number of bytes in the digest
const Length = blake2b.Size256

// Digest - type for a digest
type Digest [Length]byte

// New - hash of a block at a given index
func New(sequence int32, data []byte) Digest {
	h, _ := blake2b.New256(nil) // unkeyed never fails

	var seq [4]byte
	binary.BigEndian.PutUint32(seq[:], uint32(sequence))
	h.Write(seq[:])
	h.Write(data)

	var digest Digest
	copy(digest[:], h.Sum(nil))
	return digest
}

// Verify - constant time check of a block against its expected hash
func Verify(sequence int32, data []byte, expected []byte) bool {
	if Length != len(expected) {
		return false
	}
	d := New(sequence, data)
	return 1 == subtle.ConstantTimeCompare(d[:], expected)
}

// Global - content identifier derived from a complete hash list
func Global(hashList [][]byte) Digest {
	h, _ := blake2b.New256(nil)
	for _, item := range hashList {
		h.Write(item)
	}
	var digest Digest
	copy(digest[:], h.Sum(nil))
	return digest
}

// Bytes - digest as a freshly allocated byte slice
func (digest Digest) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, digest[:])
	return b
}

// String - convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - convert a binary digest to hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<BLAKE2b:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.ErrInvalidHashLength
	}
	_, err := hex.Decode(digest[:], s)
	return err
}

// DigestFromBytes - convert and validate a binary byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.ErrInvalidHashLength
	}
	copy(digest[:], buffer)
	return nil
}
