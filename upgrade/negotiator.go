// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upgrade

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
)

// DiscoveryTransport - the capability the negotiation runs over, it is
// never chosen as the upgrade
const DiscoveryTransport = packet.ProvidesBLE

// Timeouts - bound of each wait, zero selects the default
type Timeouts struct {
	Advertise time.Duration
	Ack       time.Duration
}

// Negotiator - one handshake with one peer, single use
type Negotiator struct {
	log          *logger.L
	peer         Peer
	local        *packet.Advertise
	bootstrapper Bootstrapper
	timeouts     Timeouts

	sync.Mutex
	started bool
	state   State
	request *Request
}

type deadliner interface {
	SetReadDeadline(time.Time) error
}

// a channel reader that can drop data left from an earlier attempt
type pendingDiscarder interface {
	DiscardPending() int
}

// New - negotiator advertising local to peer
func New(peer Peer, local *packet.Advertise, bootstrapper Bootstrapper, timeouts Timeouts) *Negotiator {
	if timeouts.Advertise <= 0 {
		timeouts.Advertise = constants.AdvertiseTimeout
	}
	if timeouts.Ack <= 0 {
		timeouts.Ack = constants.AckTimeout
	}
	return &Negotiator{
		log:          logger.New("upgrade"),
		peer:         peer,
		local:        local,
		bootstrapper: bootstrapper,
		timeouts:     timeouts,
		state:        StateIdle,
	}
}

// State - current state
func (n *Negotiator) State() State {
	n.Lock()
	defer n.Unlock()
	return n.state
}

// Request - the assigned role and packet, once the transport is assigned
func (n *Negotiator) Request() (Request, bool) {
	n.Lock()
	defer n.Unlock()
	if nil == n.request {
		return Request{}, false
	}
	return *n.request, true
}

// Run - propose if this side opened the discovery connection,
// otherwise accept
func (n *Negotiator) Run(ctx context.Context) error {
	if n.peer.Initiator() {
		return n.Propose(ctx)
	}
	return n.Accept(ctx)
}

// Propose - choose an upgrade and take the UKE role
func (n *Negotiator) Propose(ctx context.Context) error {
	if err := n.begin(); nil != err {
		return err
	}
	log := n.log

	remote, err := n.exchange(ctx)
	if nil != err {
		return n.fail(err)
	}

	provides, ok := n.choose(remote)
	if !ok {
		log.Infof("peer: %s  local: %s  remote: %s  no common capability", n.peer.ID(), n.local, remote)
		return n.fail(fault.ErrUnsupportedCapability)
	}

	sessionID, err := newSessionID()
	if nil != err {
		return n.fail(err)
	}
	credentials, err := group.GenerateCredentials()
	if nil != err {
		return n.fail(err)
	}
	proposal, err := packet.NewUpgrade(provides, sessionID, credentials.Metadata())
	if nil != err {
		return n.fail(err)
	}

	if err := n.send(constants.UpgradeChannelUUID, proposal); nil != err {
		return n.fail(err)
	}
	n.setState(StateUpgradeSent)

	if err := n.awaitAck(ctx, proposal); nil != err {
		return n.fail(err)
	}
	n.setState(StateUpgradeAcked)

	return n.assign(ctx, Request{
		Role:   RoleUKE,
		Packet: proposal,
	})
}

// Accept - wait for a proposal, acknowledge it and take the SEME role
func (n *Negotiator) Accept(ctx context.Context) error {
	if err := n.begin(); nil != err {
		return err
	}
	log := n.log

	if _, err := n.exchange(ctx); nil != err {
		return n.fail(err)
	}

	var proposal *packet.Upgrade
	err := n.within(ctx, constants.UpgradeChannelUUID, n.timeouts.Ack, func(r io.Reader) error {
		u, err := packet.ReadUpgrade(r)
		proposal = u
		return err
	})
	if nil != err {
		return n.fail(err)
	}

	p := proposal.Provides()
	if DiscoveryTransport == p || !n.local.Supports(p) {
		log.Infof("peer: %s  proposed: %s  not supported", n.peer.ID(), p)
		return n.fail(fault.ErrUnsupportedCapability)
	}
	if _, err := group.CredentialsFromMetadata(proposal.Metadata()); nil != err {
		log.Infof("peer: %s  proposal metadata: %s", n.peer.ID(), err)
		return n.fail(fault.ErrInvalidMetadata)
	}

	ack, err := packet.NewUpgrade(p, proposal.SessionID(), nil)
	if nil != err {
		return n.fail(err)
	}
	if err := n.send(constants.UpgradeChannelUUID, ack); nil != err {
		return n.fail(err)
	}
	n.setState(StateUpgradeAcked)

	return n.assign(ctx, Request{
		Role:   RoleSEME,
		Packet: proposal,
	})
}

// only the first call runs
//
// upgrade packets for this attempt follow the advertisements, so any
// already waiting are left from an earlier attempt and are dropped; the
// advertise channel is kept as the peer may have advertised already
func (n *Negotiator) begin() error {
	n.Lock()
	if n.started {
		n.Unlock()
		return fault.ErrAlreadyInitialised
	}
	n.started = true
	n.Unlock()

	n.discard(constants.UpgradeChannelUUID)
	return nil
}

// drop unread data, including a partly read frame
func (n *Negotiator) discard(channels ...string) {
	for _, channel := range channels {
		d, ok := n.peer.Incoming(channel).(pendingDiscarder)
		if !ok {
			continue
		}
		if discarded := d.DiscardPending(); discarded > 0 {
			n.log.Debugf("peer: %s  channel: %s  discarded stale bytes: %d", n.peer.ID(), channel, discarded)
		}
	}
}

// send the local advertisement and read the remote one
func (n *Negotiator) exchange(ctx context.Context) (*packet.Advertise, error) {
	if err := n.send(constants.AdvertiseChannelUUID, n.local); nil != err {
		return nil, err
	}

	var remote *packet.Advertise
	err := n.within(ctx, constants.AdvertiseChannelUUID, n.timeouts.Advertise, func(r io.Reader) error {
		a, err := packet.ReadAdvertise(r)
		remote = a
		return err
	})
	if nil != err {
		return nil, err
	}

	n.log.Debugf("peer: %s  remote: %s", n.peer.ID(), remote)
	n.setState(StateAdvertised)
	return remote, nil
}

// first local capability, in local order, that the remote provides
func (n *Negotiator) choose(remote *packet.Advertise) (packet.Provides, bool) {
	for _, p := range n.local.Provides() {
		if DiscoveryTransport != p && remote.Supports(p) {
			return p, true
		}
	}
	return 0, false
}

// acknowledgements for other sessions are stale and skipped
func (n *Negotiator) awaitAck(ctx context.Context, proposal *packet.Upgrade) error {
	log := n.log
	return n.within(ctx, constants.UpgradeChannelUUID, n.timeouts.Ack, func(r io.Reader) error {
		for {
			ack, err := packet.ReadUpgrade(r)
			if nil != err {
				return err
			}
			if ack.SessionID() != proposal.SessionID() {
				log.Debugf("peer: %s  ignore stale session: %d", n.peer.ID(), ack.SessionID())
				continue
			}
			if ack.Provides() != proposal.Provides() {
				return fault.ErrUnsupportedCapability
			}
			return nil
		}
	})
}

func (n *Negotiator) assign(ctx context.Context, request Request) error {
	n.Lock()
	n.state = StateTransportAssigned
	n.request = &request
	n.Unlock()

	n.log.Infof("peer: %s  role: %s  provides: %s  session: %d", n.peer.ID(), request.Role, request.Packet.Provides(), request.Packet.SessionID())

	if err := n.bootstrapper.Bootstrap(ctx, request); nil != err {
		return n.fail(err)
	}
	n.setState(StateDone)
	return nil
}

func (n *Negotiator) send(channel string, p packet.Packet) error {
	frame, err := packet.Encode(p)
	if nil != err {
		return err
	}
	return n.peer.SendBytes(channel, frame)
}

// run read against a channel bounded by timeout and the context
func (n *Negotiator) within(ctx context.Context, channel string, timeout time.Duration, read func(io.Reader) error) error {
	r := n.peer.Incoming(channel)

	d, ok := r.(deadliner)
	if !ok {
		result := make(chan error, 1)
		go func() {
			result <- read(r)
		}()
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		// the reader is closed to end the read, it cannot be used again
		abandon := func(err error) error {
			if closer, ok := r.(io.Closer); ok {
				_ = closer.Close()
			} else {
				n.log.Warnf("peer: %s  channel: %s  reader cannot be closed, read abandoned", n.peer.ID(), channel)
			}
			return err
		}
		select {
		case err := <-result:
			return readError(ctx, err)
		case <-timer.C:
			return abandon(fault.ErrHandshakeTimeout)
		case <-ctx.Done():
			return abandon(ctx.Err())
		}
	}

	if err := d.SetReadDeadline(time.Now().Add(timeout)); nil != err {
		return err
	}

	// cancellation expires the deadline
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			_ = d.SetReadDeadline(time.Unix(1, 0))
		case <-stop:
		}
	}()

	err := read(r)
	close(stop)
	<-stopped
	_ = d.SetReadDeadline(time.Time{})

	return readError(ctx, err)
}

func readError(ctx context.Context, err error) error {
	if nil == err {
		return nil
	}
	if nil != ctx.Err() {
		return ctx.Err()
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return fault.ErrHandshakeTimeout
	}
	if io.EOF == err || io.ErrUnexpectedEOF == err {
		return fault.ErrNotConnected
	}
	return err
}

func (n *Negotiator) setState(state State) {
	n.Lock()
	n.state = state
	n.Unlock()
}

// whatever is unread belongs to this failed attempt
func (n *Negotiator) fail(err error) error {
	n.Lock()
	from := n.state
	n.state = StateFailed
	n.Unlock()

	n.discard(constants.AdvertiseChannelUUID, constants.UpgradeChannelUUID)

	n.log.Warnf("peer: %s  %s → %s  error: %s", n.peer.ID(), from, StateFailed, err)
	return err
}

func newSessionID() (int32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); nil != err {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:]) & 0x7fffffff), nil
}
