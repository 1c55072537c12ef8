// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/configuration"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/discovery"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/storage"
	"github.com/bitmark-inc/ferryd/transfer"
	"github.com/bitmark-inc/ferryd/upgrade"
	"github.com/bitmark-inc/ferryd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultIdentityFile = "ferryd.identity"
	defaultIdentityName = "ferryd"
	defaultApplication  = "ferryd"

	defaultDatabase        = "ferryd.leveldb"
	defaultCacheDirectory  = "cache"
	defaultImportDirectory = "outgoing"

	defaultListen       = "127.0.0.1:7576"
	defaultOwnerAddress = "127.0.0.1"

	defaultLogDirectory = "log"
	defaultLogFile      = "ferryd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// path expanded or calculated defaults
var (
	defaultLogLevels = map[string]string{
		logger.DefaultTag: "critical",
	}
	defaultProvides = []string{"BLE", "WIFIP2P"}
)

// DiscoveryType - emulated radio and negotiation pacing
type DiscoveryType struct {
	Listen         string   `gluamapper:"listen" json:"listen"`
	Connect        []string `gluamapper:"connect" json:"connect"`
	Provides       []string `gluamapper:"provides" json:"provides"`
	Rate           float64  `gluamapper:"rate" json:"rate"`
	Burst          int      `gluamapper:"burst" json:"burst"`
	Cooldown       int      `gluamapper:"cooldown" json:"cooldown"`               // seconds
	FailedCooldown int      `gluamapper:"failed_cooldown" json:"failed_cooldown"` // seconds
	AdvertiseWait  int      `gluamapper:"advertise_timeout" json:"advertise_timeout"`
	AckWait        int      `gluamapper:"ack_timeout" json:"ack_timeout"`
}

// GroupType - high bandwidth link
type GroupType struct {
	OwnerAddress   string `gluamapper:"owner_address" json:"owner_address"`
	Retries        int    `gluamapper:"retries" json:"retries"`
	RetryDelay     int    `gluamapper:"retry_delay" json:"retry_delay"`         // milliseconds
	ConfirmTimeout int    `gluamapper:"confirm_timeout" json:"confirm_timeout"` // seconds
}

// TransferType - bulk exchange
type TransferType struct {
	Port          int    `gluamapper:"port" json:"port"`
	BlockSize     int    `gluamapper:"block_size" json:"block_size"`
	AcceptTimeout int    `gluamapper:"accept_timeout" json:"accept_timeout"` // seconds
	DialTimeout   int    `gluamapper:"dial_timeout" json:"dial_timeout"`     // seconds
	OutgoingLimit int    `gluamapper:"outgoing_limit" json:"outgoing_limit"`
	IdentityLimit int    `gluamapper:"identity_limit" json:"identity_limit"`
	Application   string `gluamapper:"application" json:"application"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Identity      string                `gluamapper:"identity" json:"identity"`
	Name          string                `gluamapper:"name" json:"name"`
	Discovery     DiscoveryType         `gluamapper:"discovery" json:"discovery"`
	Group         GroupType             `gluamapper:"group" json:"group"`
	Transfer      TransferType          `gluamapper:"transfer" json:"transfer"`
	Storage       storage.Configuration `gluamapper:"storage" json:"storage"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Identity:      defaultIdentityFile,
		Name:          defaultIdentityName,

		Discovery: DiscoveryType{
			Listen: defaultListen,
		},

		Group: GroupType{
			OwnerAddress: defaultOwnerAddress,
		},

		Transfer: TransferType{
			Port:        constants.BulkTransferPort,
			BlockSize:   constants.DefaultBlockSize,
			Application: defaultApplication,
		},

		Storage: storage.Configuration{
			Database:        defaultDatabase,
			CacheDirectory:  defaultCacheDirectory,
			ImportDirectory: defaultImportDirectory,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// list defaults are applied after parsing
	if 0 == len(options.Discovery.Provides) {
		options.Discovery.Provides = defaultProvides
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Identity,
		&options.Storage.Database,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// directories are created if missing
	err = util.EnsureDirectories(options.DataDirectory,
		&options.Storage.CacheDirectory,
		&options.Storage.ImportDirectory,
		&options.Logging.Directory,
	)
	if nil != err {
		return nil, err
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	if nil == net.ParseIP(options.Group.OwnerAddress) {
		return nil, fmt.Errorf("group owner address: %q is not an IP address", options.Group.OwnerAddress)
	}
	if _, err := options.advertise(); nil != err {
		return nil, err
	}
	if options.Transfer.BlockSize <= 0 || options.Transfer.BlockSize > constants.MaximumBlockSize {
		return nil, fmt.Errorf("block size: %d is outside 1..%d", options.Transfer.BlockSize, constants.MaximumBlockSize)
	}

	return options, nil
}

// capabilities offered to every peer
func (options *Configuration) advertise() (*packet.Advertise, error) {
	provides := make([]packet.Provides, 0, len(options.Discovery.Provides))
	for _, s := range options.Discovery.Provides {
		p, err := packet.ParseProvides(s)
		if nil != err {
			return nil, fmt.Errorf("provides: %q error: %s", s, err)
		}
		provides = append(provides, p)
	}
	return packet.NewAdvertise(provides...)
}

func (options *Configuration) groupConfiguration() group.Configuration {
	return group.Configuration{
		Retries:        options.Group.Retries,
		RetryDelay:     time.Duration(options.Group.RetryDelay) * time.Millisecond,
		ConfirmTimeout: seconds(options.Group.ConfirmTimeout),
	}
}

func (options *Configuration) transferConfiguration() transfer.Configuration {
	return transfer.Configuration{
		Port:          options.Transfer.Port,
		AcceptTimeout: seconds(options.Transfer.AcceptTimeout),
		DialTimeout:   seconds(options.Transfer.DialTimeout),
		OutgoingLimit: options.Transfer.OutgoingLimit,
		IdentityLimit: options.Transfer.IdentityLimit,
	}
}

func (options *Configuration) discoveryConfiguration() discovery.Configuration {
	return discovery.Configuration{
		Rate:           options.Discovery.Rate,
		Burst:          options.Discovery.Burst,
		Cooldown:       seconds(options.Discovery.Cooldown),
		FailedCooldown: seconds(options.Discovery.FailedCooldown),
		Timeouts: upgrade.Timeouts{
			Advertise: seconds(options.Discovery.AdvertiseWait),
			Ack:       seconds(options.Discovery.AckWait),
		},
	}
}

// zero stays zero so the component default applies
func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
