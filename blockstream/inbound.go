// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockstream

import (
	"io"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
)

// Keys - lookup of known sender public keys by fingerprint
type Keys interface {
	PublicKey(fingerprint []byte) ([]byte, bool)
}

// Inbound - a transfer being received
type Inbound struct {
	r        io.Reader
	header   *packet.BlockHeader
	verified bool
	next     int
	bytes    int64
	err      error
}

// ReadInbound - read and check the header of the next transfer
//
// a sender whose key is known must have signed the header, a header
// from an unknown sender is accepted but not marked as verified
func ReadInbound(r io.Reader, keys Keys) (*Inbound, error) {
	header, err := packet.ReadBlockHeader(r)
	if nil != err {
		return nil, err
	}

	in := &Inbound{
		r:      r,
		header: header,
	}

	if header.EndOfStream() {
		return in, nil
	}

	if header.BlockSize() > constants.MaximumBlockSize {
		return nil, fault.ErrInvalidBlockSize
	}

	if nil != keys {
		if publicKey, ok := keys.PublicKey(header.From()); ok {
			if !header.Verify(publicKey) {
				return nil, fault.ErrInvalidSignature
			}
			in.verified = true
		}
	}
	return in, nil
}

// Header - the received header
func (in *Inbound) Header() *packet.BlockHeader {
	return in.header
}

// Verified - true if the header signature was checked against a known key
func (in *Inbound) Verified() bool {
	return in.verified
}

// Blocks - number of blocks received so far
func (in *Inbound) Blocks() int {
	return in.next
}

// Bytes - number of data bytes received so far
func (in *Inbound) Bytes() int64 {
	return in.bytes
}

// Complete - true once every block arrived intact
func (in *Inbound) Complete() bool {
	return nil == in.err && in.next == in.header.HashCount()
}

// Next - the next verified block, io.EOF after the last one
//
// any failure is permanent and returned by every later call
func (in *Inbound) Next() ([]byte, error) {
	if nil != in.err {
		return nil, in.err
	}
	if in.next == in.header.HashCount() {
		return nil, io.EOF
	}

	s, err := packet.ReadBlockSequence(in.r)
	if io.EOF == err || io.ErrUnexpectedEOF == err {
		err = fault.ErrUnexpectedEndOfStream
	}
	if nil != err {
		in.err = err
		return nil, err
	}

	if int(s.SequenceNumber()) != in.next {
		in.err = fault.ErrSequenceOutOfOrder
		return nil, in.err
	}

	data := s.Data()
	if len(data) > int(in.header.BlockSize()) || !blockdigest.Verify(s.SequenceNumber(), data, in.header.Hash(in.next)) {
		in.err = &fault.CorruptBlockError{Sequence: in.next}
		return nil, in.err
	}

	in.next += 1
	in.bytes += int64(len(data))
	return data, nil
}

// Close - the stream belongs to the caller and stays open, later calls
// to Next fail unless every block was already read
func (in *Inbound) Close() error {
	if nil == in.err && in.next < in.header.HashCount() {
		in.err = fault.ErrTransferIncomplete
	}
	return nil
}

// Drain - read and verify the remaining blocks, discarding them
func (in *Inbound) Drain() error {
	for {
		_, err := in.Next()
		if io.EOF == err {
			return nil
		}
		if nil != err {
			return err
		}
	}
}
