// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package radio

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

const fragmentHeaderSize = 3

// Peer - a device reachable over the discovery transport
type Peer interface {
	ID() string

	// true on the side that opened the connection
	Initiator() bool

	// SendBytes - queue data on a channel, identified by UUID
	SendBytes(channel string, data []byte) error

	// Incoming - the stream of data received on a channel; the reader
	// also has SetReadDeadline(time.Time) error and DiscardPending() int
	// methods
	Incoming(channel string) io.Reader

	Close() error
}

type muxPeer struct {
	log       *logger.L
	id        string
	initiator bool
	conn      io.ReadWriteCloser

	writeLock sync.Mutex
	inboxes   map[byte]*inbox

	closeOnce sync.Once
	onClose   func(*muxPeer)
}

// start the receive loop at once, onClose may be nil
func newMuxPeer(id string, initiator bool, conn io.ReadWriteCloser, onClose func(*muxPeer)) *muxPeer {
	p := &muxPeer{
		log:       logger.New("radio"),
		id:        id,
		initiator: initiator,
		conn:      conn,
		inboxes:   make(map[byte]*inbox),
		onClose:   onClose,
	}
	for _, ch := range channels {
		p.inboxes[ch] = newInbox()
	}
	go p.receive()
	return p
}

// Pipe - two connected in-memory peers, the first is the initiator
func Pipe() (Peer, Peer) {
	a, b := net.Pipe()
	return newMuxPeer("pipe-b", true, a, nil), newMuxPeer("pipe-a", false, b, nil)
}

func (p *muxPeer) ID() string {
	return p.id
}

func (p *muxPeer) Initiator() bool {
	return p.initiator
}

func (p *muxPeer) SendBytes(channel string, data []byte) error {
	ch, err := channelID(channel)
	if nil != err {
		return err
	}

	p.writeLock.Lock()
	defer p.writeLock.Unlock()

	buffer := make([]byte, fragmentHeaderSize+MTU)
	for len(data) > 0 {
		n := len(data)
		if n > MTU {
			n = MTU
		}
		buffer[0] = ch
		binary.BigEndian.PutUint16(buffer[1:], uint16(n))
		copy(buffer[fragmentHeaderSize:], data[:n])
		if _, err := p.conn.Write(buffer[:fragmentHeaderSize+n]); nil != err {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Incoming - an unknown channel gives a reader that always fails
func (p *muxPeer) Incoming(channel string) io.Reader {
	ch, err := channelID(channel)
	if nil != err {
		return errorReader{err: err}
	}
	return p.inboxes[ch]
}

func (p *muxPeer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.conn.Close()
		for _, b := range p.inboxes {
			b.close()
		}
		if nil != p.onClose {
			p.onClose(p)
		}
	})
	return err
}

func (p *muxPeer) receive() {
	log := p.log

	header := make([]byte, fragmentHeaderSize)
	for {
		if _, err := io.ReadFull(p.conn, header); nil != err {
			if io.EOF != err {
				log.Debugf("peer: %s  receive error: %s", p.id, err)
			}
			break
		}
		size := binary.BigEndian.Uint16(header[1:])
		if size > MTU {
			log.Warnf("peer: %s  fragment size: %d exceeds MTU", p.id, size)
			break
		}
		fragment := make([]byte, size)
		if _, err := io.ReadFull(p.conn, fragment); nil != err {
			log.Debugf("peer: %s  receive error: %s", p.id, err)
			break
		}

		b, ok := p.inboxes[header[0]]
		if !ok {
			log.Warnf("peer: %s  discard fragment for channel: %d", p.id, header[0])
			continue
		}
		if !b.push(fragment) {
			break
		}
	}
	p.Close()
}

type errorReader struct {
	err error
}

func (r errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

// channel readers honour deadlines and can be emptied
var _ interface {
	io.Reader
	SetReadDeadline(time.Time) error
	DiscardPending() int
} = (*inbox)(nil)
