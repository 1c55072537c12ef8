// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package radio

import (
	"io"
	"sync"
	"time"
)

const inboxFragments = 256

// the net.Error returned when a read deadline passes
type timeoutError struct{}

func (timeoutError) Error() string   { return "radio: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// inbox - receive side of one channel
//
// a single reader is assumed, fragments are pushed by the peer's
// receive loop
type inbox struct {
	sync.Mutex
	deadline time.Time

	pending   []byte
	fragments chan []byte
	wake      chan struct{}
	closed    chan struct{}
	once      sync.Once
}

func newInbox() *inbox {
	return &inbox{
		fragments: make(chan []byte, inboxFragments),
		wake:      make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
}

// blocks while the inbox is full
func (b *inbox) push(fragment []byte) bool {
	select {
	case b.fragments <- fragment:
		return true
	case <-b.closed:
		return false
	}
}

func (b *inbox) close() {
	b.once.Do(func() {
		close(b.closed)
	})
}

// SetReadDeadline - a zero time removes the deadline, a blocked Read
// sees the new value at once
func (b *inbox) SetReadDeadline(t time.Time) error {
	b.Lock()
	b.deadline = t
	b.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}

func (b *inbox) Read(p []byte) (int, error) {
	for 0 == len(b.pending) {
		b.Lock()
		deadline := b.deadline
		b.Unlock()

		var timer *time.Timer
		var timeout <-chan time.Time
		if !deadline.IsZero() {
			d := time.Until(deadline)
			if d <= 0 {
				return 0, timeoutError{}
			}
			timer = time.NewTimer(d)
			timeout = timer.C
		}

		var err error
		select {
		case f := <-b.fragments:
			b.pending = f
		case <-b.closed:
			// deliver anything that arrived before the close
			select {
			case f := <-b.fragments:
				b.pending = f
			default:
				err = io.EOF
			}
		case <-timeout:
			err = timeoutError{}
		case <-b.wake:
		}
		if nil != timer {
			timer.Stop()
		}
		if nil != err {
			return 0, err
		}
	}

	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

// DiscardPending - drop everything received but not yet read, returns
// the number of bytes dropped
func (b *inbox) DiscardPending() int {
	n := len(b.pending)
	b.pending = nil
	for {
		select {
		case f := <-b.fragments:
			n += len(f)
		default:
			return n
		}
	}
}
