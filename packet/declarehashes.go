// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
)

// DeclareHashes - global hashes of content the sender already holds,
// the peer does not send these
//
// an empty declaration is an opt out: the sender holds nothing
type DeclareHashes struct {
	optOut bool
	hashes []blockdigest.Digest
	index  map[blockdigest.Digest]struct{}
}

// NewDeclareHashes - declare at most MaximumDeclaredHashes ids, any
// beyond that are dropped
func NewDeclareHashes(hashes []blockdigest.Digest) *DeclareHashes {
	if len(hashes) > constants.MaximumDeclaredHashes {
		hashes = hashes[:constants.MaximumDeclaredHashes]
	}
	d := &DeclareHashes{
		optOut: 0 == len(hashes),
		hashes: make([]blockdigest.Digest, len(hashes)),
	}
	copy(d.hashes, hashes)
	d.makeIndex()
	return d
}

func (d *DeclareHashes) makeIndex() {
	d.index = make(map[blockdigest.Digest]struct{}, len(d.hashes))
	for _, h := range d.hashes {
		d.index[h] = struct{}{}
	}
}

// OptOut - true if nothing was declared
func (d *DeclareHashes) OptOut() bool {
	return d.optOut
}

// Hashes - a copy of the declared ids
func (d *DeclareHashes) Hashes() []blockdigest.Digest {
	hashes := make([]blockdigest.Digest, len(d.hashes))
	copy(hashes, d.hashes)
	return hashes
}

// Contains - true if id was declared, a nil declaration contains nothing
func (d *DeclareHashes) Contains(id blockdigest.Digest) bool {
	if nil == d {
		return false
	}
	_, ok := d.index[id]
	return ok
}

// Kind - for the Packet interface
func (d *DeclareHashes) Kind() Kind {
	return KindDeclareHashes
}

func (d *DeclareHashes) String() string {
	return fmt.Sprintf("declare{opt out: %t hashes: %d}", d.optOut, len(d.hashes))
}

func (d *DeclareHashes) message() proto.Message {
	hashes := make([][]byte, len(d.hashes))
	for i, h := range d.hashes {
		hashes[i] = h.Bytes()
	}
	return &wireDeclareHashes{
		OptOut: d.optOut,
		Hashes: hashes,
	}
}

func fromWireDeclareHashes(m *wireDeclareHashes) (*DeclareHashes, error) {
	if len(m.Hashes) > constants.MaximumDeclaredHashes {
		return nil, fault.ErrTooManyHashes
	}
	d := &DeclareHashes{
		optOut: m.OptOut,
		hashes: make([]blockdigest.Digest, len(m.Hashes)),
	}
	for i, h := range m.Hashes {
		if err := blockdigest.DigestFromBytes(&d.hashes[i], h); nil != err {
			return nil, err
		}
	}
	d.makeIndex()
	return d, nil
}

// DecodeDeclareHashes - parse exactly one frame
func DecodeDeclareHashes(frame []byte) (*DeclareHashes, error) {
	m := &wireDeclareHashes{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return fromWireDeclareHashes(m)
}

// ReadDeclareHashes - read the next frame from a stream
func ReadDeclareHashes(r io.Reader) (*DeclareHashes, error) {
	m := &wireDeclareHashes{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return fromWireDeclareHashes(m)
}
