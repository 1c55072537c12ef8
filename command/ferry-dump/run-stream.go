// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/signature"
)

// identities given on the command line
type identityKeys map[signature.Fingerprint][]byte

func (k identityKeys) PublicKey(fingerprint []byte) ([]byte, bool) {
	var fp signature.Fingerprint
	if nil != signature.FingerprintFromBytes(&fp, fingerprint) {
		return nil, false
	}
	publicKey, ok := k[fp]
	return publicKey, ok
}

func loadKeys(fileNames []string) (identityKeys, error) {
	keys := make(identityKeys)
	for _, fileName := range fileNames {
		identity, err := signature.LoadIdentity(fileName)
		if nil != err {
			return nil, err
		}
		keys[identity.Fingerprint] = identity.PublicKey
	}
	return keys, nil
}

type transferSummary struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	Filename    string `json:"filename,omitempty"`
	Mime        string `json:"mime"`
	BlockSize   int32  `json:"block_size"`
	Blocks      int    `json:"blocks"`
	Bytes       int64  `json:"bytes"`
	ToDisk      bool   `json:"to_disk"`
	Verified    bool   `json:"verified"`
	EndOfStream bool   `json:"end_of_stream,omitempty"`
	SessionID   int32  `json:"session_id,omitempty"`
}

func runStream(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	keys, err := loadKeys(c.StringSlice("identity"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "decoding stream: %s  known identities: %d\n", fileName, len(keys))
	}

	file, err := os.Open(fileName)
	if nil != err {
		return err
	}
	defer file.Close()

	r := bufio.NewReader(file)
	if c.Bool("preamble") {
		summary, err := dumpPreamble(r, keys)
		if nil != err {
			return err
		}
		printJson(m.w, summary)
	}

	summaries, err := dumpStream(r, keys)
	for _, s := range summaries {
		printJson(m.w, s)
	}
	return err
}

type identitySummary struct {
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	Verified    bool   `json:"verified"`
}

type preambleSummary struct {
	Identities []identitySummary `json:"identities"`
	OptOut     bool              `json:"opt_out"`
	Declared   []string          `json:"declared"`
}

// identities and the hash declaration that open a connection, identities
// with a valid signature are added to keys
func dumpPreamble(r io.Reader, keys identityKeys) (*preambleSummary, error) {
	summary := &preambleSummary{
		Identities: make([]identitySummary, 0),
		Declared:   make([]string, 0),
	}
	for {
		identity, err := packet.ReadIdentity(r)
		if io.EOF == err || io.ErrUnexpectedEOF == err {
			return summary, ErrIncompleteTransfer
		}
		if nil != err {
			return summary, err
		}
		if identity.End() {
			break
		}
		verified := identity.Verify()
		if verified {
			keys[identity.Fingerprint()] = identity.PublicKey()
		}
		summary.Identities = append(summary.Identities, identitySummary{
			Name:        identity.Name(),
			Fingerprint: identity.Fingerprint().Base58(),
			Verified:    verified,
		})
	}

	declared, err := packet.ReadDeclareHashes(r)
	if io.EOF == err || io.ErrUnexpectedEOF == err {
		return summary, ErrIncompleteTransfer
	}
	if nil != err {
		return summary, err
	}
	summary.OptOut = declared.OptOut()
	for _, id := range declared.Hashes() {
		summary.Declared = append(summary.Declared, id.String())
	}
	return summary, nil
}

// read transfers until the end of stream marker or end of file,
// every block is verified against its header
func dumpStream(r io.Reader, keys blockstream.Keys) ([]transferSummary, error) {
	summaries := make([]transferSummary, 0)
	for {
		in, err := blockstream.ReadInbound(r, keys)
		if io.EOF == err {
			return summaries, nil
		}
		if io.ErrUnexpectedEOF == err {
			return summaries, ErrIncompleteTransfer
		}
		if nil != err {
			return summaries, err
		}

		header := in.Header()
		if header.EndOfStream() {
			summaries = append(summaries, transferSummary{
				EndOfStream: true,
				SessionID:   header.SessionID(),
			})
			return summaries, nil
		}

		err = in.Drain()
		summaries = append(summaries, transferSummary{
			ID:        header.GlobalHash().String(),
			From:      senderName(header.From()),
			Filename:  header.Filename(),
			Mime:      header.Mime(),
			BlockSize: header.BlockSize(),
			Blocks:    in.Blocks(),
			Bytes:     in.Bytes(),
			ToDisk:    header.ToDisk(),
			Verified:  in.Verified(),
			SessionID: header.SessionID(),
		})
		if nil != err {
			return summaries, err
		}
	}
}

// base58 fingerprint, or hex for a malformed sender field
func senderName(from []byte) string {
	var fp signature.Fingerprint
	if nil != signature.FingerprintFromBytes(&fp, from) {
		return fmt.Sprintf("%x", from)
	}
	return fp.Base58()
}

func runPacket(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	kind, err := packet.ParseKind(c.String("kind"))
	if nil != err {
		return err
	}

	file, err := os.Open(fileName)
	if nil != err {
		return err
	}
	defer file.Close()

	p, err := packet.Read(file, kind)
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s: %s\n", p.Kind(), p)
	return nil
}
