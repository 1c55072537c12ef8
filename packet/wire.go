// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"github.com/gogo/protobuf/proto"
)

// message layouts matching packet.proto

type wireAdvertise struct {
	Provides []Provides `protobuf:"varint,1,rep,packed,name=provides,proto3,enum=ferry.Provides" json:"provides,omitempty"`
}

func (m *wireAdvertise) Reset()         { *m = wireAdvertise{} }
func (m *wireAdvertise) String() string { return proto.CompactTextString(m) }
func (*wireAdvertise) ProtoMessage()    {}

type wireUpgrade struct {
	Provides  Provides          `protobuf:"varint,1,opt,name=provides,proto3,enum=ferry.Provides" json:"provides,omitempty"`
	SessionId int32             `protobuf:"varint,2,opt,name=session_id,json=sessionId,proto3" json:"session_id,omitempty"`
	Metadata  map[string]string `protobuf:"bytes,3,rep,name=metadata,proto3" json:"metadata,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

func (m *wireUpgrade) Reset()         { *m = wireUpgrade{} }
func (m *wireUpgrade) String() string { return proto.CompactTextString(m) }
func (*wireUpgrade) ProtoMessage()    {}

type wireBlockHeader struct {
	FromFingerprint []byte   `protobuf:"bytes,1,opt,name=from_fingerprint,json=fromFingerprint,proto3" json:"from_fingerprint,omitempty"`
	ToFingerprint   []byte   `protobuf:"bytes,2,opt,name=to_fingerprint,json=toFingerprint,proto3" json:"to_fingerprint,omitempty"`
	Application     []byte   `protobuf:"bytes,3,opt,name=application,proto3" json:"application,omitempty"`
	Sig             []byte   `protobuf:"bytes,4,opt,name=sig,proto3" json:"sig,omitempty"`
	ToDisk          bool     `protobuf:"varint,5,opt,name=to_disk,json=toDisk,proto3" json:"to_disk,omitempty"`
	SessionId       int32    `protobuf:"varint,6,opt,name=session_id,json=sessionId,proto3" json:"session_id,omitempty"`
	Hashes          [][]byte `protobuf:"bytes,7,rep,name=hashes,proto3" json:"hashes,omitempty"`
	Extension       string   `protobuf:"bytes,8,opt,name=extension,proto3" json:"extension,omitempty"`
	Mime            string   `protobuf:"bytes,9,opt,name=mime,proto3" json:"mime,omitempty"`
	Filename        string   `protobuf:"bytes,10,opt,name=filename,proto3" json:"filename,omitempty"`
	BlockSize       int32    `protobuf:"varint,11,opt,name=block_size,json=blockSize,proto3" json:"block_size,omitempty"`
	EndOfStream     bool     `protobuf:"varint,12,opt,name=end_of_stream,json=endOfStream,proto3" json:"end_of_stream,omitempty"`
}

func (m *wireBlockHeader) Reset()         { *m = wireBlockHeader{} }
func (m *wireBlockHeader) String() string { return proto.CompactTextString(m) }
func (*wireBlockHeader) ProtoMessage()    {}

type wireBlockSequence struct {
	Seqnum int32  `protobuf:"varint,1,opt,name=seqnum,proto3" json:"seqnum,omitempty"`
	Data   []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *wireBlockSequence) Reset()         { *m = wireBlockSequence{} }
func (m *wireBlockSequence) String() string { return proto.CompactTextString(m) }
func (*wireBlockSequence) ProtoMessage()    {}

type wireDeclareHashes struct {
	OptOut bool     `protobuf:"varint,1,opt,name=optout,proto3" json:"optout,omitempty"`
	Hashes [][]byte `protobuf:"bytes,2,rep,name=hashes,proto3" json:"hashes,omitempty"`
}

func (m *wireDeclareHashes) Reset()         { *m = wireDeclareHashes{} }
func (m *wireDeclareHashes) String() string { return proto.CompactTextString(m) }
func (*wireDeclareHashes) ProtoMessage()    {}

type wireIdentity struct {
	Name      string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	PublicKey []byte `protobuf:"bytes,2,opt,name=public_key,json=publicKey,proto3" json:"public_key,omitempty"`
	Sig       []byte `protobuf:"bytes,3,opt,name=sig,proto3" json:"sig,omitempty"`
	End       bool   `protobuf:"varint,4,opt,name=end,proto3" json:"end,omitempty"`
}

func (m *wireIdentity) Reset()         { *m = wireIdentity{} }
func (m *wireIdentity) String() string { return proto.CompactTextString(m) }
func (*wireIdentity) ProtoMessage()    {}

func init() {
	proto.RegisterEnum("ferry.Provides", providesName, providesValue)
	proto.RegisterType((*wireAdvertise)(nil), "ferry.Advertise")
	proto.RegisterType((*wireUpgrade)(nil), "ferry.Upgrade")
	proto.RegisterType((*wireBlockHeader)(nil), "ferry.BlockHeader")
	proto.RegisterType((*wireBlockSequence)(nil), "ferry.BlockSequence")
	proto.RegisterType((*wireDeclareHashes)(nil), "ferry.DeclareHashes")
	proto.RegisterType((*wireIdentity)(nil), "ferry.Identity")
}
