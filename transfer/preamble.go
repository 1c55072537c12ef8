// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"io"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
)

// before any content each side sends:
//
//   identity ...     known self signed identities
//   identity{end}    end marker
//   declare          ids of stored content, opt out when empty
//
// the write lane must not choose content until the peer's declaration
// is read

// offer known identities and declare stored content
func (c *Coordinator) writePreamble(w io.Writer, tally *Tally) error {
	identities, err := c.store.Identities(c.identityLimit)
	if nil != err {
		return err
	}
	for _, identity := range identities {
		if err := packet.Write(w, identity); nil != err {
			return err
		}
		tally.Identities.Increment()
	}
	if err := packet.Write(w, packet.NewEndOfIdentities()); nil != err {
		return err
	}

	hashes, err := c.store.Hashes(constants.MaximumDeclaredHashes)
	if nil != err {
		return err
	}
	declared := packet.NewDeclareHashes(hashes)
	c.log.Debugf("declare: %s", declared)
	return packet.Write(w, declared)
}

// store the peer's identities and return its declaration
//
// an identity that does not verify is skipped, the rest of the stream
// is still usable
func (c *Coordinator) readPreamble(r io.Reader, tally *Tally) (*packet.DeclareHashes, error) {
	log := c.log
	for n := 0; ; n += 1 {
		identity, err := packet.ReadIdentity(r)
		if io.EOF == err || io.ErrUnexpectedEOF == err {
			return nil, fault.ErrUnexpectedEndOfStream
		}
		if nil != err {
			return nil, err
		}
		if identity.End() {
			break
		}
		if n >= c.identityLimit {
			log.Debugf("identity over limit: %s", identity)
			continue
		}
		if err := c.store.InsertIdentity(identity); nil != err {
			log.Warnf("skip identity: %s  error: %s", identity, err)
			continue
		}
		tally.Identities.Increment()
	}

	declared, err := packet.ReadDeclareHashes(r)
	if io.EOF == err || io.ErrUnexpectedEOF == err {
		return nil, fault.ErrUnexpectedEndOfStream
	}
	if nil != err {
		return nil, err
	}
	log.Debugf("peer declared: %s", declared)
	return declared, nil
}
