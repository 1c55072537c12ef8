// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upgrade_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/radio"
	"github.com/bitmark-inc/ferryd/upgrade"
)

var shortTimeouts = upgrade.Timeouts{
	Advertise: 100 * time.Millisecond,
	Ack:       100 * time.Millisecond,
}

func TestNegotiation(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	both := advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P)
	ra := &recorder{}
	rb := &recorder{}
	proposer := upgrade.New(a, both, ra, upgrade.Timeouts{})
	acceptor := upgrade.New(b, both, rb, upgrade.Timeouts{})

	result := make(chan error, 1)
	go func() {
		result <- acceptor.Run(context.Background())
	}()
	assert.NoError(t, proposer.Run(context.Background()), "proposer")
	assert.NoError(t, <-result, "acceptor")

	assert.Equal(t, upgrade.StateDone, proposer.State(), "proposer state")
	assert.Equal(t, upgrade.StateDone, acceptor.State(), "acceptor state")

	pr, ok := proposer.Request()
	assert.True(t, ok, "proposer request")
	ar, ok := acceptor.Request()
	assert.True(t, ok, "acceptor request")

	assert.Equal(t, upgrade.RoleUKE, pr.Role, "proposer role")
	assert.Equal(t, upgrade.RoleSEME, ar.Role, "acceptor role")
	assert.Equal(t, packet.ProvidesWifiP2P, pr.Packet.Provides(), "provides")
	assert.Equal(t, pr.Packet.SessionID(), ar.Packet.SessionID(), "session")
	assert.Equal(t, pr.Packet.Metadata(), ar.Packet.Metadata(), "metadata")

	c, err := group.CredentialsFromMetadata(ar.Packet.Metadata())
	assert.NoError(t, err, "credentials")
	assert.Equal(t, constants.DefaultGroupName, c.Name, "group name")

	assert.Equal(t, 1, ra.count(), "proposer bootstraps")
	assert.Equal(t, 1, rb.count(), "acceptor bootstraps")
}

func TestNoCommonCapabilitySendsNoUpgrade(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	r := &recorder{}
	proposer := upgrade.New(a, advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P), r, shortTimeouts)

	// remote only has the discovery transport
	send(t, b, constants.AdvertiseChannelUUID, advertise(t, packet.ProvidesBLE))

	err := proposer.Propose(context.Background())
	assert.Equal(t, fault.ErrUnsupportedCapability, err, "error")
	assert.Equal(t, upgrade.StateFailed, proposer.State(), "state")
	assert.Equal(t, 0, r.count(), "bootstrapped")

	_, ok := proposer.Request()
	assert.False(t, ok, "request assigned")

	assertSilent(t, b, constants.UpgradeChannelUUID, 50*time.Millisecond)
}

func TestStaleAckIgnored(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	r := &recorder{}
	proposer := upgrade.New(a, advertise(t, packet.ProvidesWifiP2P), r, upgrade.Timeouts{})

	result := make(chan error, 1)
	go func() {
		result <- proposer.Propose(context.Background())
	}()

	// the remote side by hand
	send(t, b, constants.AdvertiseChannelUUID, advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P))
	_, err := packet.ReadAdvertise(b.Incoming(constants.AdvertiseChannelUUID))
	assert.NoError(t, err, "read advertise")
	proposal, err := packet.ReadUpgrade(b.Incoming(constants.UpgradeChannelUUID))
	if !assert.NoError(t, err, "read proposal") {
		return
	}

	stale, _ := packet.NewUpgrade(packet.ProvidesWifiP2P, proposal.SessionID()^1, nil)
	send(t, b, constants.UpgradeChannelUUID, stale)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, upgrade.StateUpgradeSent, proposer.State(), "state after stale ack")

	ack, _ := packet.NewUpgrade(packet.ProvidesWifiP2P, proposal.SessionID(), nil)
	send(t, b, constants.UpgradeChannelUUID, ack)

	assert.NoError(t, <-result, "propose")
	assert.Equal(t, upgrade.StateDone, proposer.State(), "state")
}

func TestAckTimeout(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	proposer := upgrade.New(a, advertise(t, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	send(t, b, constants.AdvertiseChannelUUID, advertise(t, packet.ProvidesWifiP2P))

	assert.Equal(t, fault.ErrHandshakeTimeout, proposer.Propose(context.Background()), "error")
	assert.Equal(t, upgrade.StateFailed, proposer.State(), "state")
}

func TestAdvertiseTimeout(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	acceptor := upgrade.New(b, advertise(t, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrHandshakeTimeout, acceptor.Accept(context.Background()), "error")
	assert.Equal(t, upgrade.StateFailed, acceptor.State(), "state")
}

func TestAcceptorRejectsMissingMetadata(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	r := &recorder{}
	acceptor := upgrade.New(b, advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P), r, shortTimeouts)
	result := acceptInBackground(t, acceptor, a, advertise(t, packet.ProvidesWifiP2P))

	proposal, _ := packet.NewUpgrade(packet.ProvidesWifiP2P, 1234, map[string]string{
		constants.KeyGroupName: "DIRECT-fy-x",
	})
	send(t, a, constants.UpgradeChannelUUID, proposal)

	assert.Equal(t, fault.ErrInvalidMetadata, <-result, "error")
	assert.Equal(t, 0, r.count(), "bootstrapped")
	assertSilent(t, a, constants.UpgradeChannelUUID, 50*time.Millisecond)
}

func TestAcceptorRejectsUnsupported(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	acceptor := upgrade.New(b, advertise(t, packet.ProvidesBLE), &recorder{}, shortTimeouts)
	result := acceptInBackground(t, acceptor, a, advertise(t, packet.ProvidesWifiP2P))

	credentials, _ := group.GenerateCredentials()
	proposal, _ := packet.NewUpgrade(packet.ProvidesWifiP2P, 99, credentials.Metadata())
	send(t, a, constants.UpgradeChannelUUID, proposal)

	assert.Equal(t, fault.ErrUnsupportedCapability, <-result, "error")
}

func TestCorruptAdvertise(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	frame, _ := packet.Encode(advertise(t, packet.ProvidesWifiP2P))
	frame[len(frame)-1] ^= 0x01
	assert.NoError(t, b.SendBytes(constants.AdvertiseChannelUUID, frame), "send")

	proposer := upgrade.New(a, advertise(t, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrCorruptFrame, proposer.Propose(context.Background()), "error")
	assert.Equal(t, upgrade.StateFailed, proposer.State(), "state")
}

func TestBootstrapFailure(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	failure := errors.New("bootstrap failed")
	both := advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P)
	proposer := upgrade.New(a, both, &recorder{err: failure}, shortTimeouts)
	acceptor := upgrade.New(b, both, &recorder{}, shortTimeouts)

	result := make(chan error, 1)
	go func() {
		result <- acceptor.Run(context.Background())
	}()

	assert.Equal(t, failure, proposer.Run(context.Background()), "proposer")
	assert.NoError(t, <-result, "acceptor")
	assert.Equal(t, upgrade.StateFailed, proposer.State(), "proposer state")

	// the role was assigned before the failure
	_, ok := proposer.Request()
	assert.True(t, ok, "request")
}

func TestSingleUse(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	proposer := upgrade.New(a, advertise(t, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrHandshakeTimeout, proposer.Propose(context.Background()), "first")
	assert.Equal(t, fault.ErrAlreadyInitialised, proposer.Propose(context.Background()), "second")
}

func TestCancel(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	proposer := upgrade.New(a, advertise(t, packet.ProvidesWifiP2P), &recorder{}, upgrade.Timeouts{})

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	assert.Equal(t, context.Canceled, proposer.Propose(ctx), "error")
}

func TestRetryOnSamePeerAfterTimeout(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	both := advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P)

	// the first attempt gets no answer and leaves its advertisement,
	// plus a proposal for a dead session, unread at the acceptor
	first := upgrade.New(a, both, &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrHandshakeTimeout, first.Propose(context.Background()), "first attempt")
	credentials, _ := group.GenerateCredentials()
	stale, _ := packet.NewUpgrade(packet.ProvidesWifiP2P, 1, credentials.Metadata())
	send(t, a, constants.UpgradeChannelUUID, stale)
	time.Sleep(20 * time.Millisecond)

	ra := &recorder{}
	rb := &recorder{}
	proposer := upgrade.New(a, both, ra, upgrade.Timeouts{})
	acceptor := upgrade.New(b, both, rb, upgrade.Timeouts{})

	result := make(chan error, 1)
	go func() {
		result <- acceptor.Accept(context.Background())
	}()
	assert.NoError(t, proposer.Propose(context.Background()), "second attempt")
	assert.NoError(t, <-result, "acceptor")

	pr, ok := proposer.Request()
	assert.True(t, ok, "proposer request")
	ar, ok := acceptor.Request()
	assert.True(t, ok, "acceptor request")
	assert.Equal(t, pr.Packet.SessionID(), ar.Packet.SessionID(), "fresh session")
	assert.NotEqual(t, int32(1), ar.Packet.SessionID(), "not the stale session")
	assert.Equal(t, 1, ra.count(), "proposer bootstraps")
	assert.Equal(t, 1, rb.count(), "acceptor bootstraps")
}

func TestFailureDiscardsUnread(t *testing.T) {
	a, b := radio.Pipe()
	defer a.Close()
	defer b.Close()

	// two advertisements, only the first is read before the failure
	send(t, b, constants.AdvertiseChannelUUID, advertise(t, packet.ProvidesBLE))
	send(t, b, constants.AdvertiseChannelUUID, advertise(t, packet.ProvidesBLE))
	time.Sleep(20 * time.Millisecond)

	proposer := upgrade.New(a, advertise(t, packet.ProvidesBLE, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrUnsupportedCapability, proposer.Propose(context.Background()), "error")

	assertSilent(t, a, constants.AdvertiseChannelUUID, 50*time.Millisecond)
}

// a peer whose readers have no deadline
type plainPeer struct {
	initiator bool
	readers   map[string]*io.PipeReader
	writers   map[string]*io.PipeWriter
}

func newPlainPeer(initiator bool) *plainPeer {
	p := &plainPeer{
		initiator: initiator,
		readers:   make(map[string]*io.PipeReader),
		writers:   make(map[string]*io.PipeWriter),
	}
	for _, channel := range []string{constants.AdvertiseChannelUUID, constants.UpgradeChannelUUID} {
		p.readers[channel], p.writers[channel] = io.Pipe()
	}
	return p
}

func (p *plainPeer) ID() string                        { return "plain" }
func (p *plainPeer) Initiator() bool                   { return p.initiator }
func (p *plainPeer) SendBytes(string, []byte) error    { return nil }
func (p *plainPeer) Incoming(channel string) io.Reader { return p.readers[channel] }

func TestTimeoutClosesPlainReader(t *testing.T) {
	peer := newPlainPeer(true)
	proposer := upgrade.New(peer, advertise(t, packet.ProvidesWifiP2P), &recorder{}, shortTimeouts)
	assert.Equal(t, fault.ErrHandshakeTimeout, proposer.Propose(context.Background()), "error")

	// the abandoned read has ended
	_, err := peer.writers[constants.AdvertiseChannelUUID].Write([]byte{1})
	assert.Equal(t, io.ErrClosedPipe, err, "reader closed")
}

func TestNames(t *testing.T) {
	assert.Equal(t, "TransportAssigned", upgrade.StateTransportAssigned.String(), "state")
	assert.Equal(t, "*Unknown*", upgrade.State(42).String(), "unknown state")
	assert.Equal(t, "UKE", upgrade.RoleUKE.String(), "uke")
	assert.Equal(t, "SEME", upgrade.RoleSEME.String(), "seme")
}
