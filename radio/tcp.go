// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package radio

import (
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/counter"
)

const (
	eventQueueSize = 16
	redialInterval = 5 * time.Second
	maximumPeers   = 32
	tcpKeepAlive   = 3 * time.Minute
)

// TCPTransport - the discovery transport emulated over TCP
//
// configured peers are dialled until connected, any peer may connect
// to the listener
type TCPTransport struct {
	log      *logger.L
	listener net.Listener
	peers    []string
	events   chan Event
	count    counter.Counter

	sync.Mutex
	connected map[string]*muxPeer
	shutdown  bool
}

// NewTCPTransport - listen at once, dialling starts with Run
func NewTCPTransport(listen string, peers []string) (*TCPTransport, error) {
	log := logger.New("radio")

	listener, err := net.Listen("tcp", listen)
	if nil != err {
		log.Errorf("listen: %q  error: %s", listen, err)
		return nil, err
	}
	log.Infof("listening on: %s", listener.Addr())

	return &TCPTransport{
		log:       log,
		listener:  listener,
		peers:     peers,
		events:    make(chan Event, eventQueueSize),
		connected: make(map[string]*muxPeer),
	}, nil
}

// Addr - the bound listen address
func (t *TCPTransport) Addr() net.Addr {
	return t.listener.Addr()
}

// Events - connected and disconnected peers
func (t *TCPTransport) Events() <-chan Event {
	return t.events
}

// Run - background process for accepting and dialling
func (t *TCPTransport) Run(args interface{}, shutdown <-chan struct{}) {
	log := t.log
	log.Info("starting…")

	go t.accept()

	t.dialAll()
	ticker := time.NewTicker(redialInterval)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			t.dialAll()
		}
	}
	ticker.Stop()

	t.Lock()
	t.shutdown = true
	peers := make([]*muxPeer, 0, len(t.connected))
	for _, p := range t.connected {
		peers = append(peers, p)
	}
	t.Unlock()

	_ = t.listener.Close()
	for _, p := range peers {
		p.Close()
	}
	log.Info("stopped")
}

func (t *TCPTransport) accept() {
	log := t.log
	for {
		conn, err := t.listener.Accept()
		if nil != err {
			log.Debugf("accept terminated: %s", err)
			return
		}
		if t.count.Uint64() >= maximumPeers {
			log.Warnf("reject: %s  peer limit: %d", conn.RemoteAddr(), maximumPeers)
			_ = conn.Close()
			continue
		}
		keepAlive(conn)
		t.add(conn.RemoteAddr().String(), false, conn)
	}
}

func (t *TCPTransport) dialAll() {
	log := t.log
	for _, address := range t.peers {
		t.Lock()
		_, ok := t.connected[address]
		t.Unlock()
		if ok {
			continue
		}

		conn, err := net.DialTimeout("tcp", address, constants.DialTimeout)
		if nil != err {
			log.Debugf("dial: %s  error: %s", address, err)
			continue
		}
		keepAlive(conn)
		t.add(address, true, conn)
	}
}

func (t *TCPTransport) add(id string, initiator bool, conn net.Conn) {
	t.Lock()
	if t.shutdown {
		t.Unlock()
		_ = conn.Close()
		return
	}
	p := newMuxPeer(id, initiator, conn, t.remove)
	t.connected[id] = p
	t.Unlock()

	t.count.Increment()
	t.log.Infof("connected: %s  initiator: %t", id, initiator)
	t.events <- Event{Kind: Connected, Peer: p}
}

// called once when a peer closes
func (t *TCPTransport) remove(p *muxPeer) {
	t.Lock()
	if t.connected[p.id] == p {
		delete(t.connected, p.id)
	}
	t.Unlock()

	t.count.Decrement()
	t.log.Infof("disconnected: %s", p.id)
	select {
	case t.events <- Event{Kind: Disconnected, Peer: p}:
	default:
		t.log.Warnf("event queue full, drop disconnect: %s", p.id)
	}
}

func keepAlive(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAlive(true)
		_ = tc.SetKeepAlivePeriod(tcpKeepAlive)
	}
}
