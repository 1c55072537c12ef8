// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer_test

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/signature"
	"github.com/bitmark-inc/ferryd/storage"
	"github.com/bitmark-inc/ferryd/upgrade"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	removeFiles()
	os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "transfer.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "trace",
		},
	}

	if err := logger.Initialise(logging); nil != err {
		panic(fmt.Sprintf("logger initialization failed: %s", err))
	}

	rc := m.Run()

	logger.Finalise()
	removeFiles()
	os.Exit(rc)
}

func removeFiles() {
	os.RemoveAll(testingDirName)
}

var loopback = net.ParseIP("127.0.0.1")

func openStore(t *testing.T) (*storage.Store, func()) {
	dir, err := ioutil.TempDir(testingDirName, "store")
	if nil != err {
		t.Fatalf("TempDir error: %s", err)
	}
	s, err := storage.Open(storage.Configuration{
		Database:       filepath.Join(dir, "ferry.leveldb"),
		CacheDirectory: filepath.Join(dir, "cache"),
		InlineLimit:    256,
	})
	if nil != err {
		t.Fatalf("Open error: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func newIdentity(t *testing.T) *signature.Identity {
	identity, err := signature.NewIdentity()
	if nil != err {
		t.Fatalf("NewIdentity error: %s", err)
	}
	return identity
}

func outbound(t *testing.T, identity *signature.Identity, name string, body []byte, toDisk bool) *blockstream.Outbound {
	out, err := blockstream.NewOutbound(blockstream.Source{
		From:        identity.Fingerprint.Bytes(),
		Application: []byte("transfer-test"),
		Extension:   "bin",
		Filename:    name,
		ToDisk:      toDisk,
		Body:        bytes.NewReader(body),
	}, 16, identity.SecretKey)
	if nil != err {
		t.Fatalf("NewOutbound error: %s", err)
	}
	return out
}

// a port that was free a moment ago
func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if nil != err {
		t.Fatalf("listen error: %s", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func request(t *testing.T, role upgrade.Role) upgrade.Request {
	credentials, err := group.GenerateCredentials()
	if nil != err {
		t.Fatalf("credentials error: %s", err)
	}
	proposal, err := packet.NewUpgrade(packet.ProvidesWifiP2P, 77, credentials.Metadata())
	if nil != err {
		t.Fatalf("upgrade error: %s", err)
	}
	return upgrade.Request{
		Role:   role,
		Packet: proposal,
	}
}

// keep dialling while the listener starts
func dialRetry(t *testing.T, port int) *net.TCPConn {
	address := net.JoinHostPort(loopback.String(), strconv.Itoa(port))
	for i := 0; i < 100; i += 1 {
		conn, err := net.Dial("tcp", address)
		if nil == err {
			return conn.(*net.TCPConn)
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("cannot dial: %s", address)
	return nil
}
