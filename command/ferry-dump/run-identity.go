// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ferryd/signature"
)

type identityInfo struct {
	FileName    string                `json:"file_name"`
	PublicKey   string                `json:"public_key"`
	Fingerprint signature.Fingerprint `json:"fingerprint"`
	Base58      string                `json:"base58"`
}

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	identity, err := signature.NewIdentity()
	if nil != err {
		return err
	}
	if err := identity.Save(fileName); nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "generated identity: %s\n", fileName)
	}
	return printJson(m.w, describe(fileName, identity))
}

func runFingerprint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	identity, err := signature.LoadIdentity(fileName)
	if nil != err {
		return err
	}
	return printJson(m.w, describe(fileName, identity))
}

func describe(fileName string, identity *signature.Identity) identityInfo {
	return identityInfo{
		FileName:    fileName,
		PublicKey:   hex.EncodeToString(identity.PublicKey),
		Fingerprint: identity.Fingerprint,
		Base58:      identity.Fingerprint.Base58(),
	}
}
