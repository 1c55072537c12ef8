// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockstream

import (
	"bytes"
	"io"
)

// Chunks - a single pass sequence of blocks, Next returns io.EOF
// after the last block
//
// Close releases whatever the blocks are read from and may be called
// more than once; a consumer that stops before io.EOF must call it
type Chunks interface {
	Next() ([]byte, error)
	Close() error
}

type sliceChunks struct {
	blocks [][]byte
}

// NewSliceChunks - chunks from blocks that are already in memory
func NewSliceChunks(blocks [][]byte) Chunks {
	return &sliceChunks{blocks: blocks}
}

func (s *sliceChunks) Next() ([]byte, error) {
	if 0 == len(s.blocks) {
		return nil, io.EOF
	}
	b := s.blocks[0]
	s.blocks = s.blocks[1:]
	return b, nil
}

func (s *sliceChunks) Close() error {
	s.blocks = nil
	return nil
}

type readerChunks struct {
	r         io.Reader
	blockSize int
	done      bool
	closed    bool
}

// NewReaderChunks - split a reader into blocks of blockSize, only the
// last block may be shorter; a reader that is also an io.Closer is
// closed by Close, or once the end is reached or a read fails
func NewReaderChunks(r io.Reader, blockSize int) Chunks {
	return &readerChunks{
		r:         r,
		blockSize: blockSize,
	}
}

func (c *readerChunks) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}
	buffer := make([]byte, c.blockSize)
	n, err := io.ReadFull(c.r, buffer)
	switch err {
	case nil:
		return buffer, nil
	case io.ErrUnexpectedEOF:
		c.finish()
		return buffer[:n], nil
	case io.EOF:
		c.finish()
		return nil, io.EOF
	default:
		c.finish()
		return nil, err
	}
}

func (c *readerChunks) finish() error {
	c.done = true
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *readerChunks) Close() error {
	return c.finish()
}

// Collect - concatenate all remaining blocks
func Collect(chunks Chunks) ([]byte, error) {
	defer chunks.Close()

	var buffer bytes.Buffer
	for {
		b, err := chunks.Next()
		if io.EOF == err {
			return buffer.Bytes(), nil
		}
		if nil != err {
			return nil, err
		}
		buffer.Write(b)
	}
}
