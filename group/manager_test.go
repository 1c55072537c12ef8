// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package group_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/group"
)

var (
	ownerState = group.State{
		Formed:       true,
		IsOwner:      true,
		OwnerAddress: net.ParseIP("192.168.49.1"),
	}
	memberState = group.State{
		Formed:       true,
		IsOwner:      false,
		OwnerAddress: net.ParseIP("192.168.49.1"),
	}
)

func TestConcurrentCreateSharesOneRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	release := make(chan struct{})
	transport.EXPECT().
		Create(testCredentials.Name, testCredentials.Passphrase, gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			go func() {
				<-release
				callback(nil)
				states <- ownerState
			}()
		}).
		Times(1)

	const callers = 8
	results := make([]group.State, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Create(context.Background(), testCredentials)
		}(i)
	}

	// all callers are waiting on the single request
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i += 1 {
		assert.NoError(t, errs[i], "caller: %d", i)
		assert.Equal(t, ownerState, results[i], "caller: %d", i)
	}
}

func TestConcurrentConnectSharesOneRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	release := make(chan struct{})
	transport.EXPECT().
		Connect(testCredentials.Name, testCredentials.Passphrase, gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			go func() {
				<-release
				callback(nil)
				states <- memberState
			}()
		}).
		Times(1)

	const callers = 8
	results := make([]group.State, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Connect(context.Background(), testCredentials)
		}(i)
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i += 1 {
		assert.NoError(t, errs[i], "caller: %d", i)
		assert.Equal(t, memberState, results[i], "caller: %d", i)
	}
}

func TestCreateBusyExhaustsRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, _, m, stop := setupManager(ctrl)
	defer stop()

	// first attempt plus ten retries
	transport.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			callback(fault.ErrResourceBusy)
		}).
		Times(11)

	_, err := m.Create(context.Background(), testCredentials)
	assert.Equal(t, fault.ErrRetriesExhausted, err, "error")
}

func TestCreateRecoversAfterBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	gomock.InOrder(
		transport.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(name string, passphrase string, callback func(error)) {
				callback(fault.ErrResourceFailed)
			}).
			Times(3),
		transport.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(name string, passphrase string, callback func(error)) {
				callback(nil)
				states <- ownerState
			}),
	)

	s, err := m.Create(context.Background(), testCredentials)
	assert.NoError(t, err, "create")
	assert.Equal(t, ownerState, s, "state")
}

func TestCreateUnsupportedFailsAtOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, _, m, stop := setupManager(ctrl)
	defer stop()

	transport.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			callback(fault.ErrResourceUnsupported)
		}).
		Times(1)

	_, err := m.Create(context.Background(), testCredentials)
	assert.Equal(t, fault.ErrResourceUnsupported, err, "error")
}

func TestCreateConfirmTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, _, m, stop := setupManager(ctrl)
	defer stop()

	transport.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			callback(nil)
		})

	_, err := m.Create(context.Background(), testCredentials)
	assert.Equal(t, fault.ErrConfirmTimeout, err, "error")
}

func TestConnectIgnoresOwnerBroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	transport.EXPECT().
		Connect(testCredentials.Name, testCredentials.Passphrase, gomock.Any()).
		Do(func(name string, passphrase string, callback func(error)) {
			callback(nil)
			states <- ownerState
			states <- memberState
		})

	s, err := m.Connect(context.Background(), testCredentials)
	assert.NoError(t, err, "connect")
	assert.Equal(t, memberState, s, "state")
}

func TestCreateRemovesExistingGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	states <- memberState
	waitFormed(t, m)

	gomock.InOrder(
		transport.EXPECT().
			Remove(gomock.Any()).
			Do(func(callback func(error)) {
				callback(nil)
			}),
		transport.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(name string, passphrase string, callback func(error)) {
				callback(nil)
				states <- ownerState
			}),
	)

	s, err := m.Create(context.Background(), testCredentials)
	assert.NoError(t, err, "create")
	assert.Equal(t, ownerState, s, "state")
}

func TestCancelledCreateReleasesSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, states, m, stop := setupManager(ctrl)
	defer stop()

	gomock.InOrder(
		// callback never arrives
		transport.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()),
		transport.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(name string, passphrase string, callback func(error)) {
				callback(nil)
				states <- ownerState
			}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Create(ctx, testCredentials)
	assert.Equal(t, context.DeadlineExceeded, err, "error")

	s, err := m.Create(context.Background(), testCredentials)
	assert.NoError(t, err, "second create")
	assert.Equal(t, ownerState, s, "state")
}

func TestRemoveWithoutGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, _, m, stop := setupManager(ctrl)
	defer stop()

	transport.EXPECT().
		Remove(gomock.Any()).
		Do(func(callback func(error)) {
			callback(fault.ErrResourceFailed)
		}).
		Times(2)

	assert.NoError(t, m.Remove(context.Background()), "first remove")
	assert.NoError(t, m.Remove(context.Background()), "second remove")
	assert.False(t, m.Last().Formed, "formed")
}

func TestRemoveBusyExhaustsRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport, _, m, stop := setupManager(ctrl)
	defer stop()

	transport.EXPECT().
		Remove(gomock.Any()).
		Do(func(callback func(error)) {
			callback(fault.ErrResourceBusy)
		}).
		Times(11)

	assert.Equal(t, fault.ErrRetriesExhausted, m.Remove(context.Background()), "error")
}
