// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/ferryd/fault"
)

// key sizes
const (
	PublicKeySize = ed25519.PublicKeySize
	SecretKeySize = ed25519.PrivateKeySize
	Size          = ed25519.SignatureSize
)

// Signature - the type for a detached signature
type Signature []byte

// Sign - detached signature of message, the secret key must be the
// full 64 byte form
func Sign(secretKey []byte, message []byte) (Signature, error) {
	if SecretKeySize != len(secretKey) {
		return nil, fault.ErrInvalidSecretKeyLength
	}
	return ed25519.Sign(ed25519.PrivateKey(secretKey), message), nil
}

// Verify - true only for a correctly sized key and signature that match message
func Verify(publicKey []byte, message []byte, sig []byte) bool {
	if PublicKeySize != len(publicKey) || Size != len(sig) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, sig)
}

// String - convert a binary signature to hex string for use by the fmt package (for %s)
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// GoString - convert a binary signature to hex string for use by the fmt package (for %#v)
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// MarshalText - convert signature to text
func (signature Signature) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(signature))
	b := make([]byte, size)
	hex.Encode(b, signature)
	return b, nil
}

// UnmarshalText - convert text into a signature
func (signature *Signature) UnmarshalText(s []byte) error {
	sig := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(sig, s)
	if nil != err {
		return err
	}
	*signature = sig[:byteCount]
	return nil
}
