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

// Upgrade - a proposal (or its acknowledgement) to move to a
// high-bandwidth transport
type Upgrade struct {
	provides  Provides
	sessionID int32
	metadata  map[string]string
}

// NewUpgrade - metadata is copied, keys and values must be UTF-8
func NewUpgrade(provides Provides, sessionID int32, metadata map[string]string) (*Upgrade, error) {
	if !provides.IsKnown() {
		return nil, fault.ErrUnsupportedCapability
	}
	for k, v := range metadata {
		if !validStrings(k, v) {
			return nil, fault.ErrInvalidString
		}
	}
	return newUpgrade(provides, sessionID, metadata), nil
}

func newUpgrade(provides Provides, sessionID int32, metadata map[string]string) *Upgrade {
	m := make(map[string]string, len(metadata))
	for k, v := range metadata {
		m[k] = v
	}
	return &Upgrade{
		provides:  provides,
		sessionID: sessionID,
		metadata:  m,
	}
}

// Provides - the proposed transport
func (u *Upgrade) Provides() Provides {
	return u.provides
}

// SessionID - pairs a proposal with its acknowledgement
func (u *Upgrade) SessionID() int32 {
	return u.sessionID
}

// Metadata - a copy of the key/value metadata
func (u *Upgrade) Metadata() map[string]string {
	m := make(map[string]string, len(u.metadata))
	for k, v := range u.metadata {
		m[k] = v
	}
	return m
}

// Value - a single metadata item
func (u *Upgrade) Value(key string) (string, bool) {
	v, ok := u.metadata[key]
	return v, ok
}

// Kind - for the Packet interface
func (u *Upgrade) Kind() Kind {
	return KindUpgrade
}

func (u *Upgrade) String() string {
	return fmt.Sprintf("upgrade{%s session: %d metadata keys: %d}", u.provides, u.sessionID, len(u.metadata))
}

func (u *Upgrade) message() proto.Message {
	return &wireUpgrade{
		Provides:  u.provides,
		SessionId: u.sessionID,
		Metadata:  u.metadata,
	}
}

// DecodeUpgrade - parse exactly one frame
func DecodeUpgrade(frame []byte) (*Upgrade, error) {
	m := &wireUpgrade{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return newUpgrade(m.Provides, m.SessionId, m.Metadata), nil
}

// ReadUpgrade - read the next frame from a stream
func ReadUpgrade(r io.Reader) (*Upgrade, error) {
	m := &wireUpgrade{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return newUpgrade(m.Provides, m.SessionId, m.Metadata), nil
}
