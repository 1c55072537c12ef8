// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/upgrade"
)

// Configuration - zero values select the defaults
type Configuration struct {
	Port          int
	AcceptTimeout time.Duration
	DialTimeout   time.Duration
	OutgoingLimit int
	IdentityLimit int
}

// Coordinator - runs the exchange for an assigned role
type Coordinator struct {
	log           *logger.L
	store         Store
	group         Group
	port          int
	acceptTimeout time.Duration
	dialTimeout   time.Duration
	outgoingLimit int
	identityLimit int
}

// NewCoordinator - create a coordinator
func NewCoordinator(store Store, g Group, configuration Configuration) *Coordinator {
	c := &Coordinator{
		log:           logger.New("transfer"),
		store:         store,
		group:         g,
		port:          configuration.Port,
		acceptTimeout: configuration.AcceptTimeout,
		dialTimeout:   configuration.DialTimeout,
		outgoingLimit: configuration.OutgoingLimit,
		identityLimit: configuration.IdentityLimit,
	}
	if c.port <= 0 {
		c.port = constants.BulkTransferPort
	}
	if c.acceptTimeout <= 0 {
		c.acceptTimeout = constants.AcceptTimeout
	}
	if c.dialTimeout <= 0 {
		c.dialTimeout = constants.DialTimeout
	}
	if c.outgoingLimit <= 0 {
		c.outgoingLimit = constants.DefaultOutgoingLimit
	}
	if c.identityLimit <= 0 {
		c.identityLimit = constants.DefaultIdentityLimit
	}
	return c
}

// Bootstrapper - adapt to the negotiator
func (c *Coordinator) Bootstrapper() upgrade.Bootstrapper {
	return upgrade.BootstrapperFunc(func(ctx context.Context, request upgrade.Request) error {
		_, err := c.Bootstrap(ctx, request)
		return err
	})
}

// Bootstrap - acquire the group for the role and exchange content
//
// the report is returned whenever a connection was made, the error is
// then the first direction error
func (c *Coordinator) Bootstrap(ctx context.Context, request upgrade.Request) (*Report, error) {
	log := c.log

	if nil == request.Packet {
		return nil, fault.ErrInvalidMetadata
	}
	credentials, err := group.CredentialsFromMetadata(request.Packet.Metadata())
	if nil != err {
		log.Warnf("session: %d  metadata: %s", request.Packet.SessionID(), err)
		return nil, fault.ErrInvalidMetadata
	}

	var connect func(context.Context, group.Credentials) (net.Conn, error)
	switch request.Role {
	case upgrade.RoleUKE:
		connect = c.serve
	case upgrade.RoleSEME:
		connect = c.dial
	default:
		return nil, fault.ErrInvalidRole
	}

	// acquisition may have partly succeeded
	defer c.release()

	conn, err := connect(ctx, credentials)
	if nil != err {
		log.Warnf("session: %d  role: %s  connect error: %s", request.Packet.SessionID(), request.Role, err)
		return nil, err
	}

	report := &Report{
		Role:      request.Role,
		SessionID: request.Packet.SessionID(),
	}
	c.exchange(ctx, conn, report)

	log.Infof("session: %d  role: %s  sent: %s  received: %s", report.SessionID, report.Role, &report.Sent, &report.Received)
	if nil != report.Outbound {
		log.Warnf("session: %d  outbound error: %s", report.SessionID, report.Outbound)
	}
	if nil != report.Inbound {
		log.Warnf("session: %d  inbound error: %s", report.SessionID, report.Inbound)
	}
	return report, report.Err()
}

// UKE: form the group and accept one connection at the owner address
func (c *Coordinator) serve(ctx context.Context, credentials group.Credentials) (net.Conn, error) {
	state, err := c.group.Create(ctx, credentials)
	if nil != err {
		return nil, err
	}

	address := net.JoinHostPort(state.OwnerAddress.String(), strconv.Itoa(c.port))
	listener, err := net.Listen("tcp", address)
	if nil != err {
		return nil, err
	}
	defer listener.Close()
	c.log.Debugf("listening on: %s", address)

	if tl, ok := listener.(*net.TCPListener); ok {
		_ = tl.SetDeadline(time.Now().Add(c.acceptTimeout))
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			listener.Close()
		case <-stop:
		}
	}()

	conn, err := listener.Accept()
	if nil != err {
		if nil != ctx.Err() {
			return nil, ctx.Err()
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, fault.ErrAcceptTimeout
		}
		return nil, err
	}
	c.log.Infof("accepted: %s", conn.RemoteAddr())
	return conn, nil
}

// SEME: join the group and dial the owner, the listener may not be
// ready at once
func (c *Coordinator) dial(ctx context.Context, credentials group.Credentials) (net.Conn, error) {
	state, err := c.group.Connect(ctx, credentials)
	if nil != err {
		return nil, err
	}

	address := net.JoinHostPort(state.OwnerAddress.String(), strconv.Itoa(c.port))
	deadline := time.Now().Add(c.dialTimeout)
	for attempt := 1; ; attempt += 1 {
		dialer := net.Dialer{
			Deadline: deadline,
		}
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if nil == err {
			c.log.Infof("connected: %s  attempts: %d", address, attempt)
			return conn, nil
		}
		if nil != ctx.Err() {
			return nil, ctx.Err()
		}
		if !time.Now().Add(constants.DialRetryInterval).Before(deadline) {
			c.log.Debugf("dial: %s  error: %s", address, err)
			return nil, fault.ErrDialTimeout
		}

		timer := time.NewTimer(constants.DialRetryInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

func (c *Coordinator) release() {
	if err := c.group.Remove(context.Background()); nil != err {
		c.log.Errorf("release group error: %s", err)
	}
}
