// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
)

// Configuration - retry and confirmation limits
type Configuration struct {
	Retries        int
	RetryDelay     time.Duration
	ConfirmTimeout time.Duration
}

// Manager - serialises access to a Transport
type Manager struct {
	log            *logger.L
	transport      Transport
	retries        int
	retryDelay     time.Duration
	confirmTimeout time.Duration

	create  slot
	connect slot

	sync.Mutex
	last    State
	waiters map[*waiter]struct{}
}

// one in-flight request per kind, late callers share its result
type slot struct {
	sync.Mutex
	inFlight int32
	current  *request
}

type request struct {
	done  chan struct{}
	state State
	err   error
}

// receives the broadcasts that confirm one request
type waiter struct {
	op opKind
	ch chan State
}

// NewManager - zero configuration values select the defaults
func NewManager(transport Transport, configuration Configuration) *Manager {
	m := &Manager{
		log:            logger.New("group"),
		transport:      transport,
		retries:        configuration.Retries,
		retryDelay:     configuration.RetryDelay,
		confirmTimeout: configuration.ConfirmTimeout,
		waiters:        make(map[*waiter]struct{}),
	}
	if m.retries <= 0 {
		m.retries = constants.MaximumRetries
	}
	if m.retryDelay <= 0 {
		m.retryDelay = constants.RetryDelay
	}
	if m.confirmTimeout <= 0 {
		m.confirmTimeout = constants.ConfirmTimeout
	}
	return m
}

// Run - background process to distribute state broadcasts
func (m *Manager) Run(args interface{}, shutdown <-chan struct{}) {
	log := m.log
	log.Info("starting…")

	states := m.transport.States()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case s, ok := <-states:
			if !ok {
				break loop
			}
			log.Debugf("state: %s", s)
			m.publish(s)
		}
	}
	log.Info("stopped")
}

// Last - most recent broadcast state
func (m *Manager) Last() State {
	m.Lock()
	defer m.Unlock()
	return m.last
}

// Create - form a group as owner
//
// concurrent calls share one request and see the same result; the
// request runs under the context of the call that started it
func (m *Manager) Create(ctx context.Context, credentials Credentials) (State, error) {
	return m.coalesce(ctx, &m.create, opCreate, credentials)
}

// Connect - join the group described by credentials
func (m *Manager) Connect(ctx context.Context, credentials Credentials) (State, error) {
	return m.coalesce(ctx, &m.connect, opConnect, credentials)
}

// Remove - leave or dissolve any group
//
// removing when there is no group is not an error
func (m *Manager) Remove(ctx context.Context) error {
	for attempt := 0; ; attempt += 1 {
		err := m.call(ctx, opRemove, Credentials{})
		switch {
		case nil == err, fault.ErrResourceFailed == err:
			m.Lock()
			m.last = State{}
			m.Unlock()
			return nil
		case fault.ErrResourceBusy == err:
			if attempt >= m.retries {
				return fault.ErrRetriesExhausted
			}
			if err := m.delay(ctx); nil != err {
				return err
			}
		default:
			return err
		}
	}
}

func (m *Manager) coalesce(ctx context.Context, s *slot, op opKind, credentials Credentials) (State, error) {
	s.Lock()
	if atomic.CompareAndSwapInt32(&s.inFlight, 0, 1) {
		r := &request{
			done: make(chan struct{}),
		}
		s.current = r
		s.Unlock()

		defer func() {
			s.Lock()
			s.current = nil
			atomic.StoreInt32(&s.inFlight, 0)
			s.Unlock()
			close(r.done)
		}()

		r.state, r.err = m.execute(ctx, op, credentials)
		return r.state, r.err
	}
	r := s.current
	s.Unlock()

	m.log.Debugf("%s: join in-flight request", op)
	select {
	case <-r.done:
		return r.state, r.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// request, retry, then wait for confirmation
func (m *Manager) execute(ctx context.Context, op opKind, credentials Credentials) (State, error) {
	log := m.log

	if opCreate == op && m.Last().Formed {
		log.Info("create: remove existing group")
		if err := m.Remove(ctx); nil != err {
			log.Warnf("create: remove existing group error: %s", err)
		}
	}

	// subscribe first, the broadcast can arrive before the callback
	w := m.subscribe(op)
	defer m.unsubscribe(w)

	state := stateRequesting
	for attempt := 0; stateRequesting == state || stateRetrying == state; {
		log.Debugf("%s: %s  attempt: %d", op, state, attempt)

		err := m.call(ctx, op, credentials)
		switch {
		case nil == err:
			state = stateConfirming

		case fault.IsRetryable(err):
			attempt += 1
			if attempt > m.retries {
				log.Warnf("%s: %s after %d attempts", op, fault.ErrRetriesExhausted, attempt)
				return State{}, fault.ErrRetriesExhausted
			}
			state = stateRetrying
			if err := m.delay(ctx); nil != err {
				return State{}, err
			}

		default:
			log.Warnf("%s: %s  error: %s", op, stateFailed, err)
			return State{}, err
		}
	}

	log.Debugf("%s: %s", op, state)
	timer := time.NewTimer(m.confirmTimeout)
	defer timer.Stop()

	select {
	case s := <-w.ch:
		log.Infof("%s: %s  %s", op, stateDone, s)
		return s, nil
	case <-timer.C:
		log.Warnf("%s: %s", op, fault.ErrConfirmTimeout)
		return State{}, fault.ErrConfirmTimeout
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// issue one request and wait for its callback
func (m *Manager) call(ctx context.Context, op opKind, credentials Credentials) error {
	result := make(chan error, 1)
	callback := func(err error) {
		select {
		case result <- err:
		default:
		}
	}

	switch op {
	case opCreate:
		m.transport.Create(credentials.Name, credentials.Passphrase, callback)
	case opConnect:
		m.transport.Connect(credentials.Name, credentials.Passphrase, callback)
	case opRemove:
		m.transport.Remove(callback)
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) delay(ctx context.Context) error {
	timer := time.NewTimer(m.retryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) subscribe(op opKind) *waiter {
	w := &waiter{
		op: op,
		ch: make(chan State, 1),
	}
	m.Lock()
	m.waiters[w] = struct{}{}
	m.Unlock()
	return w
}

func (m *Manager) unsubscribe(w *waiter) {
	m.Lock()
	delete(m.waiters, w)
	m.Unlock()
}

func (m *Manager) publish(s State) {
	m.Lock()
	defer m.Unlock()

	m.last = s
	for w := range m.waiters {
		if !w.op.confirmedBy(s) {
			continue
		}
		select {
		case w.ch <- s:
		default:
		}
	}
}
