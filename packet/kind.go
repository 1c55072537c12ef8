// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"io"

	"github.com/bitmark-inc/ferryd/fault"
)

// Kind - identifies the message carried by a frame
//
// frames do not carry their kind, the reader must know what the
// protocol expects next
type Kind int

// packet kinds
const (
	KindAdvertise Kind = iota
	KindUpgrade
	KindBlockHeader
	KindBlockSequence
	KindDeclareHashes
	KindIdentity
)

func (k Kind) String() string {
	switch k {
	case KindAdvertise:
		return "advertise"
	case KindUpgrade:
		return "upgrade"
	case KindBlockHeader:
		return "header"
	case KindBlockSequence:
		return "sequence"
	case KindDeclareHashes:
		return "declare"
	case KindIdentity:
		return "identity"
	default:
		return "*unknown*"
	}
}

// ParseKind - convert a kind name as produced by String
func ParseKind(s string) (Kind, error) {
	for k := KindAdvertise; k <= KindIdentity; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fault.ErrUnknownPacketKind
}

// Read - read a single packet of the given kind
func Read(r io.Reader, kind Kind) (Packet, error) {
	switch kind {
	case KindAdvertise:
		p, err := ReadAdvertise(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	case KindUpgrade:
		p, err := ReadUpgrade(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	case KindBlockHeader:
		p, err := ReadBlockHeader(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	case KindBlockSequence:
		p, err := ReadBlockSequence(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	case KindDeclareHashes:
		p, err := ReadDeclareHashes(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	case KindIdentity:
		p, err := ReadIdentity(r)
		if nil != err {
			return nil, err
		}
		return p, nil
	default:
		return nil, fault.ErrUnknownPacketKind
	}
}
