// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/ferryd/fault"
)

// Identity - local signing identity
type Identity struct {
	PublicKey   []byte
	SecretKey   []byte
	Fingerprint Fingerprint
}

// NewIdentity - generate a fresh identity
func NewIdentity() (*Identity, error) {
	publicKey, secretKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return &Identity{
		PublicKey:   publicKey,
		SecretKey:   secretKey,
		Fingerprint: NewFingerprint(publicKey),
	}, nil
}

// IdentityFromSeed - rebuild an identity from its 32 byte seed
func IdentityFromSeed(seed []byte) (*Identity, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.ErrInvalidSecretKeyLength
	}
	secretKey := ed25519.NewKeyFromSeed(seed)
	publicKey := secretKey.Public().(ed25519.PublicKey)
	return &Identity{
		PublicKey:   publicKey,
		SecretKey:   secretKey,
		Fingerprint: NewFingerprint(publicKey),
	}, nil
}

// Seed - the 32 byte seed of the secret key
func (identity *Identity) Seed() []byte {
	return ed25519.PrivateKey(identity.SecretKey).Seed()
}

// LoadIdentity - read a hex seed file
func LoadIdentity(fileName string) (*Identity, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	seed, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if nil != err {
		return nil, err
	}
	return IdentityFromSeed(seed)
}

// LoadOrCreateIdentity - read a hex seed file, creating it on first use
func LoadOrCreateIdentity(fileName string) (*Identity, bool, error) {
	identity, err := LoadIdentity(fileName)
	if nil == err {
		return identity, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	identity, err = NewIdentity()
	if nil != err {
		return nil, false, err
	}
	err = identity.Save(fileName)
	if nil != err {
		return nil, false, err
	}
	return identity, true, nil
}

// Save - write the seed as hex, refusing to overwrite an existing file
func (identity *Identity) Save(fileName string) error {
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(hex.EncodeToString(identity.Seed()) + "\n")
	return err
}
