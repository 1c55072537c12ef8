// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/signature"
)

// Identity - a self signed name and public key, relayed so that
// receivers can verify content from senders they never met
//
// a sequence of identities is terminated by an end marker
type Identity struct {
	name      string
	publicKey []byte
	signature []byte
	end       bool
}

// NewIdentity - unsigned identity for a public key
func NewIdentity(name string, publicKey []byte) (*Identity, error) {
	if signature.PublicKeySize != len(publicKey) {
		return nil, fault.ErrInvalidPublicKeyLength
	}
	if "" == name || len(name) > constants.MaximumIdentityName {
		return nil, fault.ErrInvalidName
	}
	if !validStrings(name) {
		return nil, fault.ErrInvalidString
	}
	return &Identity{
		name:      name,
		publicKey: cloneBytes(publicKey),
	}, nil
}

// NewEndOfIdentities - marker that terminates a sequence of identities
func NewEndOfIdentities() *Identity {
	return &Identity{
		end: true,
	}
}

// Name - the human readable name chosen by the key holder
func (i *Identity) Name() string {
	return i.name
}

// PublicKey - a copy of the key
func (i *Identity) PublicKey() []byte {
	return cloneBytes(i.publicKey)
}

// Fingerprint - the fingerprint block headers carry as their sender
func (i *Identity) Fingerprint() signature.Fingerprint {
	return signature.NewFingerprint(i.publicKey)
}

// Signature - a copy of the signature
func (i *Identity) Signature() []byte {
	return cloneBytes(i.signature)
}

// End - true for the end marker
func (i *Identity) End() bool {
	return i.end
}

// SigningBytes - the name followed by the fixed length public key
func (i *Identity) SigningBytes() []byte {
	var b bytes.Buffer
	b.WriteString(i.name)
	b.Write(i.publicKey)
	return b.Bytes()
}

// Sign - sign with the secret key matching the public key
func (i *Identity) Sign(secretKey []byte) error {
	if i.end {
		return fault.ErrIdentityEndMarker
	}
	sig, err := signature.Sign(secretKey, i.SigningBytes())
	if nil != err {
		return err
	}
	i.signature = sig
	return nil
}

// Verify - true if the identity was signed by its own key
func (i *Identity) Verify() bool {
	if i.end || 0 == len(i.signature) {
		return false
	}
	return signature.Verify(i.publicKey, i.SigningBytes(), i.signature)
}

// Kind - for the Packet interface
func (i *Identity) Kind() Kind {
	return KindIdentity
}

func (i *Identity) String() string {
	if i.end {
		return "identity{end}"
	}
	return fmt.Sprintf("identity{%q fingerprint: %s}", i.name, i.Fingerprint())
}

func (i *Identity) message() proto.Message {
	return &wireIdentity{
		Name:      i.name,
		PublicKey: i.publicKey,
		Sig:       i.signature,
		End:       i.end,
	}
}

func fromWireIdentity(m *wireIdentity) (*Identity, error) {
	if m.End {
		return NewEndOfIdentities(), nil
	}
	i, err := NewIdentity(m.Name, m.PublicKey)
	if nil != err {
		return nil, err
	}
	i.signature = cloneBytes(m.Sig)
	return i, nil
}

// DecodeIdentity - parse exactly one frame
func DecodeIdentity(frame []byte) (*Identity, error) {
	m := &wireIdentity{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return fromWireIdentity(m)
}

// ReadIdentity - read the next frame from a stream
func ReadIdentity(r io.Reader) (*Identity, error) {
	m := &wireIdentity{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return fromWireIdentity(m)
}
