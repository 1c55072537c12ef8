// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/background"
	"github.com/bitmark-inc/ferryd/discovery"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/radio"
	"github.com/bitmark-inc/ferryd/signature"
	"github.com/bitmark-inc/ferryd/storage"
	"github.com/bitmark-inc/ferryd/transfer"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// signing identity
	identity, created, err := signature.LoadOrCreateIdentity(theConfiguration.Identity)
	if nil != err {
		log.Criticalf("identity: %q  error: %s", theConfiguration.Identity, err)
		exitwithstatus.Message("identity: %q  error: %s", theConfiguration.Identity, err)
	}
	if created {
		log.Warnf("created identity: %q", theConfiguration.Identity)
	}
	log.Infof("fingerprint: %s", identity.Fingerprint.Base58())

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Storage)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	// our own transfers must verify on the receiving side of a relay
	published, err := packet.NewIdentity(theConfiguration.Name, identity.PublicKey)
	if nil == err {
		err = published.Sign(identity.SecretKey)
	}
	if nil == err {
		err = store.InsertIdentity(published)
	}
	if nil != err {
		log.Criticalf("storage add identity: %q  error: %s", theConfiguration.Name, err)
		exitwithstatus.Message("storage add identity: %q  error: %s", theConfiguration.Name, err)
	}

	importer, err := storage.NewImporter(
		store,
		identity,
		theConfiguration.Storage.ImportDirectory,
		theConfiguration.Transfer.Application,
		theConfiguration.Transfer.BlockSize,
		0,
	)
	if nil != err {
		log.Criticalf("importer initialise error: %s", err)
		exitwithstatus.Message("importer initialise error: %s", err)
	}

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, theConfiguration, store, importer) {
		return
	}

	// high bandwidth group
	ownerAddress := net.ParseIP(theConfiguration.Group.OwnerAddress)
	manager := group.NewManager(group.NewStaticTransport(ownerAddress), theConfiguration.groupConfiguration())

	coordinator := transfer.NewCoordinator(store, manager, theConfiguration.transferConfiguration())

	// emulated discovery link
	log.Infof("discovery listen: %s  connect: %v", theConfiguration.Discovery.Listen, theConfiguration.Discovery.Connect)
	transport, err := radio.NewTCPTransport(theConfiguration.Discovery.Listen, theConfiguration.Discovery.Connect)
	if nil != err {
		log.Criticalf("radio initialise error: %s", err)
		exitwithstatus.Message("radio initialise error: %s", err)
	}

	local, err := theConfiguration.advertise()
	if nil != err {
		log.Criticalf("advertise error: %s", err)
		exitwithstatus.Message("advertise error: %s", err)
	}
	log.Infof("advertise: %s", local)

	loop := discovery.New(transport, local, coordinator.Bootstrapper(), theConfiguration.discoveryConfiguration())

	processes := background.Start(background.Processes{
		manager,
		importer,
		transport,
		loop,
	}, nil)
	defer processes.Stop()

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		go memstats(loop)
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
