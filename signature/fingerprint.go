// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/ferryd/fault"
)

// FingerprintLength - number of bytes in a fingerprint
const FingerprintLength = blake2b.Size256

// Fingerprint - short name of a public key
type Fingerprint [FingerprintLength]byte

// NewFingerprint - fingerprint of a public key
func NewFingerprint(publicKey []byte) Fingerprint {
	return Fingerprint(blake2b.Sum256(publicKey))
}

// FingerprintFromBytes - convert and validate a binary fingerprint
func FingerprintFromBytes(fp *Fingerprint, buffer []byte) error {
	if FingerprintLength != len(buffer) {
		return fault.ErrInvalidFingerprint
	}
	copy(fp[:], buffer)
	return nil
}

// Bytes - fingerprint as a freshly allocated byte slice
func (fp Fingerprint) Bytes() []byte {
	b := make([]byte, FingerprintLength)
	copy(b, fp[:])
	return b
}

// String - hex form for the fmt package (for %s)
func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:])
}

// Base58 - compact display form
func (fp Fingerprint) Base58() string {
	return base58.Encode(fp[:])
}

// MarshalText - convert fingerprint to hex text
func (fp Fingerprint) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(FingerprintLength))
	hex.Encode(b, fp[:])
	return b, nil
}

// UnmarshalText - convert hex text into a fingerprint
func (fp *Fingerprint) UnmarshalText(s []byte) error {
	if hex.EncodedLen(FingerprintLength) != len(s) {
		return fault.ErrInvalidFingerprint
	}
	_, err := hex.Decode(fp[:], s)
	return err
}
