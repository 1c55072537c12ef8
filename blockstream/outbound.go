// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockstream

import (
	"io"
	"math"
	"sync"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
)

// Source - content and descriptive fields of a new transfer
type Source struct {
	From        []byte
	To          []byte
	Application []byte
	Extension   string
	Mime        string
	Filename    string
	SessionID   int32
	ToDisk      bool
	Body        io.Reader
}

// Outbound - a header and the blocks it describes, sent once
type Outbound struct {
	sync.Mutex
	header   *packet.BlockHeader
	chunks   Chunks
	mismatch func(sequence int) error
	sent     bool
}

// NewOutbound - hash the body, build the header and sign it
//
// a body that can seek is read twice: once to hash and once to send,
// any other body is held in memory
func NewOutbound(source Source, blockSize int, secretKey []byte) (*Outbound, error) {
	if blockSize <= 0 || blockSize > constants.MaximumBlockSize || blockSize > math.MaxInt32 {
		return nil, fault.ErrInvalidBlockSize
	}

	body := source.Body
	if nil == body {
		body = emptyReader{}
	}

	var hashList [][]byte
	var chunks Chunks

	if seeker, ok := body.(io.ReadSeeker); ok {
		start, err := seeker.Seek(0, io.SeekCurrent)
		if nil != err {
			return nil, err
		}
		hashList, err = hashReader(seeker, blockSize)
		if nil != err {
			return nil, err
		}
		if _, err := seeker.Seek(start, io.SeekStart); nil != err {
			return nil, err
		}
		chunks = NewReaderChunks(seeker, blockSize)
	} else {
		blocks, err := readBlocks(body, blockSize)
		if nil != err {
			return nil, err
		}
		for i, b := range blocks {
			d := blockdigest.New(int32(i), b)
			hashList = append(hashList, d[:])
		}
		chunks = NewSliceChunks(blocks)
	}

	header, err := packet.NewBlockHeader(packet.HeaderParams{
		From:        source.From,
		To:          source.To,
		Application: source.Application,
		Extension:   source.Extension,
		Mime:        source.Mime,
		Filename:    source.Filename,
		SessionID:   source.SessionID,
		BlockSize:   int32(blockSize),
		ToDisk:      source.ToDisk,
		HashList:    hashList,
	})
	if nil != err {
		return nil, err
	}

	if err := header.Sign(secretKey); nil != err {
		return nil, err
	}

	return &Outbound{
		header:   header,
		chunks:   chunks,
		mismatch: func(int) error { return fault.ErrSourceChanged },
	}, nil
}

// NewRelay - forward a stored header, already signed by its author,
// with its stored blocks
func NewRelay(header *packet.BlockHeader, chunks Chunks) *Outbound {
	return &Outbound{
		header: header,
		chunks: chunks,
		mismatch: func(sequence int) error {
			return &fault.CorruptBlockError{Sequence: sequence}
		},
	}
}

// Close - release the block source of a transfer that will not be sent
func (o *Outbound) Close() error {
	o.Lock()
	defer o.Unlock()

	if o.sent {
		return nil
	}
	o.sent = true
	return o.chunks.Close()
}

// Header - the header that is sent first
func (o *Outbound) Header() *packet.BlockHeader {
	return o.header
}

// Chunks - the verified blocks without framing, for local delivery
//
// like WriteTo this consumes the transfer, the caller must Close the
// result if it stops before io.EOF
func (o *Outbound) Chunks() Chunks {
	o.Lock()
	defer o.Unlock()

	if o.sent {
		return &failedChunks{err: fault.ErrAlreadySent}
	}
	o.sent = true
	return &verifiedChunks{outbound: o}
}

type verifiedChunks struct {
	outbound *Outbound
	next     int
	err      error
}

// the source is closed as soon as the last hashed block is read or
// anything fails, a source longer than the header is not read to its end
func (v *verifiedChunks) Next() ([]byte, error) {
	if nil != v.err {
		return nil, v.err
	}
	o := v.outbound
	if v.next == o.header.HashCount() {
		o.chunks.Close()
		return nil, io.EOF
	}
	data, err := o.chunks.Next()
	if io.EOF == err {
		err = fault.ErrTransferIncomplete
	} else if nil == err && !blockdigest.Verify(int32(v.next), data, o.header.Hash(v.next)) {
		err = o.mismatch(v.next)
	}
	if nil != err {
		o.chunks.Close()
		v.err = err
		return nil, err
	}
	v.next += 1
	if v.next == o.header.HashCount() {
		o.chunks.Close()
	}
	return data, nil
}

func (v *verifiedChunks) Close() error {
	if nil == v.err && v.next < v.outbound.header.HashCount() {
		v.err = fault.ErrTransferIncomplete
	}
	return v.outbound.chunks.Close()
}

type failedChunks struct {
	err error
}

func (f *failedChunks) Next() ([]byte, error) {
	return nil, f.err
}

func (f *failedChunks) Close() error {
	return nil
}

// WriteTo - send the header followed by every block in order
//
// each block is checked against the header again while sending, the
// block source is closed on return whatever the outcome
func (o *Outbound) WriteTo(w io.Writer) (int64, error) {
	o.Lock()
	defer o.Unlock()

	if o.sent {
		return 0, fault.ErrAlreadySent
	}
	o.sent = true

	chunks := &verifiedChunks{outbound: o}
	defer chunks.Close()

	counter := &countingWriter{w: w}

	if err := packet.Write(counter, o.header); nil != err {
		return counter.n, err
	}

	for {
		sequence := int32(chunks.next)
		data, err := chunks.Next()
		if io.EOF == err {
			return counter.n, nil
		}
		if nil != err {
			return counter.n, err
		}

		s, err := packet.NewBlockSequence(sequence, data)
		if nil != err {
			return counter.n, err
		}
		if err := packet.Write(counter, s); nil != err {
			return counter.n, err
		}
	}
}

// pre-pass: hash without keeping the blocks
func hashReader(r io.Reader, blockSize int) ([][]byte, error) {
	var hashList [][]byte
	buffer := make([]byte, blockSize)
	for i := 0; ; i++ {
		n, err := io.ReadFull(r, buffer)
		if io.EOF == err {
			return hashList, nil
		}
		if nil != err && io.ErrUnexpectedEOF != err {
			return nil, err
		}
		d := blockdigest.New(int32(i), buffer[:n])
		hashList = append(hashList, d[:])
		if io.ErrUnexpectedEOF == err {
			return hashList, nil
		}
	}
}

func readBlocks(r io.Reader, blockSize int) ([][]byte, error) {
	var blocks [][]byte
	chunks := NewReaderChunks(r, blockSize)
	for {
		b, err := chunks.Next()
		if io.EOF == err {
			return blocks, nil
		}
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, b)
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, io.EOF }

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
