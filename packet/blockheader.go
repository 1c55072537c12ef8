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

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/signature"
)

// HeaderParams - everything needed to build a header
type HeaderParams struct {
	From        []byte
	To          []byte
	Application []byte
	Extension   string
	Mime        string
	Filename    string
	SessionID   int32
	BlockSize   int32
	ToDisk      bool
	HashList    [][]byte
	EndOfStream bool
}

// BlockHeader - describes a transfer: its metadata, one hash per
// block and a signature over the immutable part
type BlockHeader struct {
	from        []byte
	to          []byte
	application []byte
	extension   string
	mime        string
	filename    string
	sessionID   int32
	blockSize   int32
	toDisk      bool
	hashList    [][]byte
	signature   []byte
	endOfStream bool
}

// NewBlockHeader - validate and copy the parameters, the result is unsigned
func NewBlockHeader(params HeaderParams) (*BlockHeader, error) {
	if !params.EndOfStream {
		if 0 == len(params.Application) {
			return nil, fault.ErrMissingApplication
		}
		if params.BlockSize <= 0 {
			return nil, fault.ErrInvalidBlockSize
		}
	} else if params.BlockSize < 0 {
		return nil, fault.ErrInvalidBlockSize
	}

	for _, h := range params.HashList {
		if blockdigest.Length != len(h) {
			return nil, fault.ErrInvalidHashLength
		}
	}

	if !validStrings(params.Extension, params.Mime, params.Filename) {
		return nil, fault.ErrInvalidString
	}

	mime := params.Mime
	if "" == mime && !params.EndOfStream {
		mime = constants.DefaultMimeType
	}

	return &BlockHeader{
		from:        cloneBytes(params.From),
		to:          cloneBytes(params.To),
		application: cloneBytes(params.Application),
		extension:   params.Extension,
		mime:        mime,
		filename:    params.Filename,
		sessionID:   params.SessionID,
		blockSize:   params.BlockSize,
		toDisk:      params.ToDisk,
		hashList:    cloneHashes(params.HashList),
		endOfStream: params.EndOfStream,
	}, nil
}

// NewEndOfStream - marker header that terminates a sequence of transfers
func NewEndOfStream(sessionID int32) *BlockHeader {
	return &BlockHeader{
		sessionID:   sessionID,
		endOfStream: true,
	}
}

// From - sender fingerprint
func (h *BlockHeader) From() []byte { return cloneBytes(h.from) }

// To - recipient fingerprint
func (h *BlockHeader) To() []byte { return cloneBytes(h.to) }

// Application - name of the application owning the content
func (h *BlockHeader) Application() []byte { return cloneBytes(h.application) }

func (h *BlockHeader) Extension() string { return h.extension }
func (h *BlockHeader) Mime() string      { return h.mime }
func (h *BlockHeader) Filename() string  { return h.filename }
func (h *BlockHeader) SessionID() int32  { return h.sessionID }
func (h *BlockHeader) BlockSize() int32  { return h.blockSize }
func (h *BlockHeader) ToDisk() bool      { return h.toDisk }
func (h *BlockHeader) EndOfStream() bool { return h.endOfStream }

// HashCount - number of blocks that follow the header
func (h *BlockHeader) HashCount() int {
	return len(h.hashList)
}

// Hash - expected hash of block i
func (h *BlockHeader) Hash(i int) []byte {
	return cloneBytes(h.hashList[i])
}

// HashList - copy of all block hashes
func (h *BlockHeader) HashList() [][]byte {
	return cloneHashes(h.hashList)
}

// Signature - nil until signed
func (h *BlockHeader) Signature() []byte {
	return cloneBytes(h.signature)
}

// IsSigned - true if a signature is present, it may still be invalid
func (h *BlockHeader) IsSigned() bool {
	return 0 != len(h.signature)
}

// GlobalHash - content identifier over the hash list
func (h *BlockHeader) GlobalHash() blockdigest.Digest {
	return blockdigest.Global(h.hashList)
}

// SigningBytes - the byte string covered by the signature
//
// session id, block size and the end of stream flag are not covered
func (h *BlockHeader) SigningBytes() []byte {
	var b bytes.Buffer
	b.Write(h.from)
	b.Write(h.to)
	b.Write(h.application)
	b.WriteString(h.extension)
	b.WriteString(h.mime)
	b.WriteString(h.filename)
	if h.toDisk {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	for _, item := range h.hashList {
		b.Write(item)
	}
	return b.Bytes()
}

// Sign - replace any signature with one from secretKey
func (h *BlockHeader) Sign(secretKey []byte) error {
	sig, err := signature.Sign(secretKey, h.SigningBytes())
	if nil != err {
		return err
	}
	h.signature = sig
	return nil
}

// Verify - true if the header carries a valid signature by publicKey
func (h *BlockHeader) Verify(publicKey []byte) bool {
	if 0 == len(h.signature) {
		return false
	}
	return signature.Verify(publicKey, h.SigningBytes(), h.signature)
}

// MarkEndOfStream - set the end of stream flag
//
// the signature is discarded and the header must be signed again
func (h *BlockHeader) MarkEndOfStream() {
	h.endOfStream = true
	h.signature = nil
}

// Kind - for the Packet interface
func (h *BlockHeader) Kind() Kind {
	return KindBlockHeader
}

func (h *BlockHeader) String() string {
	if h.endOfStream {
		return fmt.Sprintf("header{end of stream session: %d}", h.sessionID)
	}
	return fmt.Sprintf("header{%q %s blocks: %d size: %d disk: %v signed: %v}",
		h.filename, h.mime, len(h.hashList), h.blockSize, h.toDisk, h.IsSigned())
}

func (h *BlockHeader) message() proto.Message {
	return &wireBlockHeader{
		FromFingerprint: h.from,
		ToFingerprint:   h.to,
		Application:     h.application,
		Sig:             h.signature,
		ToDisk:          h.toDisk,
		SessionId:       h.sessionID,
		Hashes:          h.hashList,
		Extension:       h.extension,
		Mime:            h.mime,
		Filename:        h.filename,
		BlockSize:       h.blockSize,
		EndOfStream:     h.endOfStream,
	}
}

// DecodeBlockHeader - parse exactly one frame
func DecodeBlockHeader(frame []byte) (*BlockHeader, error) {
	m := &wireBlockHeader{}
	if err := decodeMessage(frame, m); nil != err {
		return nil, err
	}
	return fromWireHeader(m)
}

// ReadBlockHeader - read the next frame from a stream
func ReadBlockHeader(r io.Reader) (*BlockHeader, error) {
	m := &wireBlockHeader{}
	if err := readMessage(r, m); nil != err {
		return nil, err
	}
	return fromWireHeader(m)
}

func fromWireHeader(m *wireBlockHeader) (*BlockHeader, error) {
	h, err := NewBlockHeader(HeaderParams{
		From:        m.FromFingerprint,
		To:          m.ToFingerprint,
		Application: m.Application,
		Extension:   m.Extension,
		Mime:        m.Mime,
		Filename:    m.Filename,
		SessionID:   m.SessionId,
		BlockSize:   m.BlockSize,
		ToDisk:      m.ToDisk,
		HashList:    m.Hashes,
		EndOfStream: m.EndOfStream,
	})
	if nil != err {
		return nil, err
	}
	h.signature = cloneBytes(m.Sig)
	return h, nil
}

func cloneBytes(b []byte) []byte {
	if 0 == len(b) {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

func cloneHashes(list [][]byte) [][]byte {
	if 0 == len(list) {
		return nil
	}
	c := make([][]byte, len(list))
	for i, item := range list {
		c[i] = cloneBytes(item)
	}
	return c
}
