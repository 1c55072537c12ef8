// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/group"
)

func TestGenerateCredentials(t *testing.T) {
	c1, err := group.GenerateCredentials()
	assert.NoError(t, err, "generate")
	assert.Equal(t, constants.DefaultGroupName, c1.Name, "name")

	b, err := base64.StdEncoding.DecodeString(c1.Passphrase)
	assert.NoError(t, err, "decode passphrase")
	assert.Equal(t, constants.PassphraseBytes, len(b), "passphrase length")

	c2, err := group.GenerateCredentials()
	assert.NoError(t, err, "generate")
	assert.NotEqual(t, c1.Passphrase, c2.Passphrase, "passphrases repeat")
}

func TestCredentialsMetadata(t *testing.T) {
	c, err := group.CredentialsFromMetadata(testCredentials.Metadata())
	assert.NoError(t, err, "from metadata")
	assert.Equal(t, testCredentials, c, "credentials")

	_, err = group.CredentialsFromMetadata(map[string]string{
		constants.KeyGroupPassphrase: "x",
	})
	assert.Equal(t, fault.ErrMissingGroupName, err, "missing name")

	_, err = group.CredentialsFromMetadata(map[string]string{
		constants.KeyGroupName:       "x",
		constants.KeyGroupPassphrase: "",
	})
	assert.Equal(t, fault.ErrMissingPassphrase, err, "missing passphrase")
}
