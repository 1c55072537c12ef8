// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
)

// Credentials - name and passphrase of a group
type Credentials struct {
	Name       string
	Passphrase string
}

// GenerateCredentials - fresh random passphrase for the default group name
func GenerateCredentials() (Credentials, error) {
	b := make([]byte, constants.PassphraseBytes)
	if _, err := rand.Read(b); nil != err {
		return Credentials{}, err
	}
	return Credentials{
		Name:       constants.DefaultGroupName,
		Passphrase: base64.StdEncoding.EncodeToString(b),
	}, nil
}

// CredentialsFromMetadata - both keys must be present and not empty
func CredentialsFromMetadata(metadata map[string]string) (Credentials, error) {
	name := metadata[constants.KeyGroupName]
	if "" == name {
		return Credentials{}, fault.ErrMissingGroupName
	}
	passphrase := metadata[constants.KeyGroupPassphrase]
	if "" == passphrase {
		return Credentials{}, fault.ErrMissingPassphrase
	}
	return Credentials{
		Name:       name,
		Passphrase: passphrase,
	}, nil
}

// Metadata - the upgrade metadata that carries the credentials
func (c Credentials) Metadata() map[string]string {
	return map[string]string{
		constants.KeyGroupName:       c.Name,
		constants.KeyGroupPassphrase: c.Passphrase,
	}
}
