// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"bufio"
	"context"
	"io"
	"io/ioutil"
	"net"
	"sync"

	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
)

const bufferSize = 64 * 1024

type closeWriter interface {
	CloseWrite() error
}

// run both directions to completion then close the connection
func (c *Coordinator) exchange(ctx context.Context, conn net.Conn, report *Report) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	// the read lane hands over the peer's declaration, nil if its
	// preamble could not be read
	declared := make(chan *packet.DeclareHashes, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Outbound = c.send(conn, report.SessionID, declared, &report.Sent)
	}()
	go func() {
		defer wg.Done()
		report.Inbound = c.receive(conn, declared, &report.Received)
	}()
	wg.Wait()

	close(done)
	conn.Close()

	if nil != ctx.Err() {
		if nil == report.Outbound {
			report.Outbound = ctx.Err()
		}
		if nil == report.Inbound {
			report.Inbound = ctx.Err()
		}
	}
}

// write lane: the preamble, stored content the peer did not declare,
// then the end of stream
func (c *Coordinator) send(conn net.Conn, sessionID int32, declared <-chan *packet.DeclareHashes, tally *Tally) error {
	log := c.log

	// the peer's read lane needs the half-close in every case
	defer func() {
		if cw, ok := conn.(closeWriter); ok {
			_ = cw.CloseWrite()
		}
	}()

	w := bufio.NewWriterSize(conn, bufferSize)
	if err := c.writePreamble(w, tally); nil != err {
		return err
	}
	if err := w.Flush(); nil != err {
		return err
	}

	var headers []*packet.BlockHeader
	if peer := <-declared; nil != peer {
		var err error
		headers, err = c.store.Outgoing(c.outgoingLimit, peer)
		if nil != err {
			return err
		}
	} else {
		log.Debug("no peer declaration, sending no content")
	}

	for _, header := range headers {
		chunks, err := c.store.ReadByHeader(header)
		if nil != err {
			log.Warnf("skip: %s  error: %s", header.GlobalHash(), err)
			continue
		}

		n, err := blockstream.NewRelay(header, chunks).WriteTo(w)
		tally.Bytes.Add(uint64(n))
		if nil != err {
			return err
		}
		tally.Messages.Increment()
		tally.Blocks.Add(uint64(header.HashCount()))
		log.Debugf("sent: %s  %q", header.GlobalHash(), header.Filename())
	}

	if err := packet.Write(w, packet.NewEndOfStream(sessionID)); nil != err {
		return err
	}
	return w.Flush()
}

// read lane: one transfer at a time until the end of stream header
//
// after an error the rest of the stream is discarded so the peer's
// write lane can finish
func (c *Coordinator) receive(conn net.Conn, declared chan<- *packet.DeclareHashes, tally *Tally) error {
	r := bufio.NewReaderSize(conn, bufferSize)

	peer, err := c.readPreamble(r, tally)
	declared <- peer
	if nil == err {
		err = c.receiveAll(r, tally)
	}
	if nil != err {
		_, _ = io.Copy(ioutil.Discard, r)
	}
	return err
}

func (c *Coordinator) receiveAll(r io.Reader, tally *Tally) error {
	log := c.log
	for {
		in, err := blockstream.ReadInbound(r, c.store)
		if io.EOF == err || io.ErrUnexpectedEOF == err {
			return fault.ErrUnexpectedEndOfStream
		}
		if nil != err {
			return err
		}

		header := in.Header()
		if header.EndOfStream() {
			return nil
		}

		if err := c.store.Insert(header, in); nil != err {
			tally.Bytes.Add(uint64(in.Bytes()))
			return err
		}
		tally.Messages.Increment()
		tally.Blocks.Add(uint64(in.Blocks()))
		tally.Bytes.Add(uint64(in.Bytes()))
		log.Debugf("received: %s  %q  verified: %t", header.GlobalHash(), header.Filename(), in.Verified())
	}
}
