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

// Advertise - ordered set of capabilities offered by a peer
type Advertise struct {
	provides []Provides
}

// NewAdvertise - duplicates are dropped, first occurrence keeps its position
func NewAdvertise(provides ...Provides) (*Advertise, error) {
	for _, p := range provides {
		if !p.IsKnown() {
			return nil, fault.ErrUnsupportedCapability
		}
	}
	return newAdvertise(provides)
}

func newAdvertise(provides []Provides) (*Advertise, error) {
	list := make([]Provides, 0, len(provides))
	seen := make(map[Provides]struct{}, len(provides))
	for _, p := range provides {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		list = append(list, p)
	}
	if 0 == len(list) {
		return nil, fault.ErrMissingProvides
	}
	return &Advertise{provides: list}, nil
}

// Provides - copy of the capability list in advertised order
func (a *Advertise) Provides() []Provides {
	list := make([]Provides, len(a.provides))
	copy(list, a.provides)
	return list
}

// Supports - true if the capability was advertised
func (a *Advertise) Supports(p Provides) bool {
	for _, item := range a.provides {
		if item == p {
			return true
		}
	}
	return false
}

// Kind - for the Packet interface
func (a *Advertise) Kind() Kind {
	return KindAdvertise
}

func (a *Advertise) String() string {
	return fmt.Sprintf("advertise%v", a.provides)
}

func (a *Advertise) message() proto.Message {
	return &wireAdvertise{Provides: a.provides}
}

// DecodeAdvertise - parse exactly one frame
func DecodeAdvertise(frame []byte) (*Advertise, error) {
	m := &wireAdvertise{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return newAdvertise(m.Provides)
}

// ReadAdvertise - read the next frame from a stream
func ReadAdvertise(r io.Reader) (*Advertise, error) {
	m := &wireAdvertise{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return newAdvertise(m.Provides)
}
