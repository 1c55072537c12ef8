// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
)

const (
	lengthSize = 4
	crcSize    = 4
)

// Packet - any of the four packet kinds
type Packet interface {
	Kind() Kind
	message() proto.Message
}

// Encode - a complete frame for a packet
func Encode(p Packet) ([]byte, error) {
	payload, err := proto.Marshal(p.message())
	if nil != err {
		return nil, err
	}
	if len(payload) > constants.MaximumFrameSize {
		return nil, fault.ErrFrameTooLarge
	}

	frame := make([]byte, lengthSize+len(payload)+crcSize)
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[lengthSize:], payload)
	binary.BigEndian.PutUint32(frame[lengthSize+len(payload):], crc32.ChecksumIEEE(payload))
	return frame, nil
}

// Write - encode a packet and write it as a single frame
func Write(w io.Writer, p Packet) error {
	frame, err := Encode(p)
	if nil != err {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// ReadFrame - read one frame and return its verified payload
//
// io.EOF is only returned if the stream ended cleanly before a frame
func ReadFrame(r io.Reader) ([]byte, error) {
	var length [lengthSize]byte
	if _, err := io.ReadFull(r, length[:]); nil != err {
		return nil, err
	}

	size := binary.BigEndian.Uint32(length[:])
	if size > constants.MaximumFrameSize {
		return nil, fault.ErrFrameTooLarge
	}

	buffer := make([]byte, int(size)+crcSize)
	if _, err := io.ReadFull(r, buffer); nil != err {
		if io.EOF == err {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	payload := buffer[:size]
	expected := binary.BigEndian.Uint32(buffer[size:])
	if crc32.ChecksumIEEE(payload) != expected {
		return nil, fault.ErrCorruptFrame
	}
	return payload, nil
}

// read a frame an unmarshal the payload
func readMessage(r io.Reader, m proto.Message) error {
	payload, err := ReadFrame(r)
	if nil != err {
		return err
	}
	if err := proto.Unmarshal(payload, m); nil != err {
		return fault.ErrMalformedPacket
	}
	return nil
}

// decoding from a buffer must consume it exactly
func decodeMessage(frame []byte, m proto.Message) error {
	r := bytes.NewReader(frame)
	err := readMessage(r, m)
	if io.EOF == err {
		return io.ErrUnexpectedEOF
	}
	if nil != err {
		return err
	}
	if 0 != r.Len() {
		return fault.ErrMalformedPacket
	}
	return nil
}
