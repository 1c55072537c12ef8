// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/ferryd/fault"
)

// BlockSequence - one block of a transfer
type BlockSequence struct {
	sequenceNumber int32
	data           []byte
}

// NewBlockSequence - data is not copied and must not be modified afterwards
func NewBlockSequence(sequenceNumber int32, data []byte) (*BlockSequence, error) {
	if sequenceNumber < 0 {
		return nil, fault.ErrInvalidSequenceNumber
	}
	return newBlockSequence(sequenceNumber, data), nil
}

func newBlockSequence(sequenceNumber int32, data []byte) *BlockSequence {
	if 0 == len(data) {
		data = nil
	}
	return &BlockSequence{
		sequenceNumber: sequenceNumber,
		data:           data,
	}
}

// SequenceNumber - index of the block in its transfer
func (s *BlockSequence) SequenceNumber() int32 {
	return s.sequenceNumber
}

// Data - the block contents, shared with the packet
func (s *BlockSequence) Data() []byte {
	return s.data
}

// Kind - for the Packet interface
func (s *BlockSequence) Kind() Kind {
	return KindBlockSequence
}

func (s *BlockSequence) String() string {
	return fmt.Sprintf("sequence{%d bytes: %d}", s.sequenceNumber, len(s.data))
}

func (s *BlockSequence) message() proto.Message {
	return &wireBlockSequence{
		Seqnum: s.sequenceNumber,
		Data:   s.data,
	}
}

// DecodeBlockSequence - parse exactly one frame
func DecodeBlockSequence(frame []byte) (*BlockSequence, error) {
	m := &wireBlockSequence{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return fromWireSequence(m)
}

// ReadBlockSequence - read the next frame from a stream
func ReadBlockSequence(r io.Reader) (*BlockSequence, error) {
	m := &wireBlockSequence{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return fromWireSequence(m)
}

func fromWireSequence(m *wireBlockSequence) (*BlockSequence, error) {
	if m.Seqnum < 0 {
		return nil, fault.ErrInvalidSequenceNumber
	}
	return newBlockSequence(m.Seqnum, m.Data), nil
}
