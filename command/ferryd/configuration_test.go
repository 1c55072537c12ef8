// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/packet"
)

func writeConfiguration(t *testing.T, text string) (string, string, func()) {
	dir, err := ioutil.TempDir("", "ferryd")
	if nil != err {
		t.Fatalf("TempDir error: %s", err)
	}
	fileName := filepath.Join(dir, "ferryd.conf")
	if err := ioutil.WriteFile(fileName, []byte(text), 0600); nil != err {
		t.Fatalf("WriteFile error: %s", err)
	}
	return dir, fileName, func() {
		os.RemoveAll(dir)
	}
}

func TestConfigurationDefaults(t *testing.T) {
	dir, fileName, done := writeConfiguration(t, `return { data_directory = "." }`)
	defer done()

	options, err := getConfiguration(fileName)
	if !assert.NoError(t, err, "configuration") {
		return
	}

	assert.Equal(t, dir+"/", options.DataDirectory, "data directory")
	assert.Equal(t, filepath.Join(dir, defaultIdentityFile), options.Identity, "identity")
	assert.Equal(t, defaultIdentityName, options.Name, "identity name")
	assert.Equal(t, filepath.Join(dir, defaultDatabase), options.Storage.Database, "database")
	assert.Equal(t, constants.BulkTransferPort, options.Transfer.Port, "port")
	assert.Equal(t, "", options.PidFile, "no pid file")

	for _, d := range []string{defaultCacheDirectory, defaultImportDirectory, defaultLogDirectory} {
		info, err := os.Stat(filepath.Join(dir, d))
		if assert.NoError(t, err, "stat: %s", d) {
			assert.True(t, info.IsDir(), "directory: %s", d)
		}
	}

	local, err := options.advertise()
	if assert.NoError(t, err, "advertise") {
		assert.Equal(t, []packet.Provides{packet.ProvidesBLE, packet.ProvidesWifiP2P}, local.Provides(), "provides")
	}

	// unset intervals leave the component defaults in force
	assert.Equal(t, time.Duration(0), options.discoveryConfiguration().Cooldown, "cooldown")
}

func TestConfigurationSections(t *testing.T) {
	_, fileName, done := writeConfiguration(t, `
local M = {}
M.data_directory = "."
M.pidfile = "ferryd.pid"
M.name = "relay-7"
M.discovery = {
    listen = "127.0.0.1:9000",
    connect = { "127.0.0.1:9001" },
    provides = { "wifip2p" },
    cooldown = 30,
}
M.group = {
    owner_address = "192.168.49.1",
    retry_delay = 250,
}
M.transfer = {
    port = 9100,
    dial_timeout = 3,
    identity_limit = 20,
}
return M
`)
	defer done()

	options, err := getConfiguration(fileName)
	if !assert.NoError(t, err, "configuration") {
		return
	}

	assert.True(t, filepath.IsAbs(options.PidFile), "pid file absolute")
	assert.Equal(t, []string{"127.0.0.1:9001"}, options.Discovery.Connect, "connect")
	assert.Equal(t, []string{"wifip2p"}, options.Discovery.Provides, "provides")
	assert.Equal(t, 30*time.Second, options.discoveryConfiguration().Cooldown, "cooldown")
	assert.Equal(t, 250*time.Millisecond, options.groupConfiguration().RetryDelay, "retry delay")
	assert.Equal(t, 9100, options.transferConfiguration().Port, "port")
	assert.Equal(t, 3*time.Second, options.transferConfiguration().DialTimeout, "dial timeout")
	assert.Equal(t, 20, options.transferConfiguration().IdentityLimit, "identity limit")
	assert.Equal(t, "relay-7", options.Name, "identity name")
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no data directory", `return {}`},
		{"missing data directory", `return { data_directory = "/no/such/directory" }`},
		{"bad owner", `return { data_directory = ".", group = { owner_address = "owner" } }`},
		{"bad provides", `return { data_directory = ".", discovery = { provides = { "NFC" } } }`},
		{"block size", `return { data_directory = ".", transfer = { block_size = -1 } }`},
	}

	for _, test := range tests {
		_, fileName, done := writeConfiguration(t, test.text)
		_, err := getConfiguration(fileName)
		assert.Error(t, err, test.name)
		done()
	}
}
