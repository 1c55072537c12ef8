// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/signature"
	"github.com/bitmark-inc/ferryd/storage"
	"github.com/bitmark-inc/ferryd/util"
)

const (
	identityFilename = "ferryd.identity"
)

// setup command handler
//
// commands that run to create key files, these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-identity", "id":
		fileName := identityFilename
		if len(arguments) > 0 {
			fileName = arguments[0]
		}

		if util.EnsureFileExists(fileName) {
			fmt.Printf("generate identity: %q error: %s\n", fileName, fault.ErrIdentityFileExists)
			exitwithstatus.Exit(1)
		}

		identity, err := signature.NewIdentity()
		if nil != err {
			fmt.Printf("generate identity: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		if err := identity.Save(fileName); nil != err {
			fmt.Printf("generate identity: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated identity: %q  fingerprint: %s\n", fileName, identity.Fingerprint.Base58())

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "list", "ls", "import", "add", "count":
		return false // defer processing until database is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-identity [FILE]        (id)     - create signing identity in: %q\n", identityFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  count                               - number of stored transfers\n")
		fmt.Printf("\n")

		fmt.Printf("  list [N]                   (ls)     - show up to N stored headers\n")
		fmt.Printf("\n")

		fmt.Printf("  import FILE...             (add)    - sign and store files for sending\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the store is open so these commands can access and/or change it
func processDataCommand(log *logger.L, arguments []string, options *Configuration, store *storage.Store, importer *storage.Importer) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "count":
		n, err := store.Count()
		if nil != err {
			exitwithstatus.Message("count error: %s", err)
		}
		fmt.Printf("%d\n", n)

	case "list", "ls":
		limit := options.Transfer.OutgoingLimit
		if len(arguments) > 0 {
			if _, err := fmt.Sscan(arguments[0], &limit); nil != err || limit <= 0 {
				exitwithstatus.Message("invalid count: %q", arguments[0])
			}
		}
		headers, err := store.Outgoing(limit, nil)
		if nil != err {
			exitwithstatus.Message("list error: %s", err)
		}
		for _, h := range headers {
			fmt.Printf("%s  %s\n", h.GlobalHash(), h)
		}

	case "import", "add":
		if 0 == len(arguments) {
			exitwithstatus.Message("missing file argument")
		}
		for _, fileName := range arguments {
			if err := importer.Import(fileName); nil != err {
				log.Errorf("import: %q  error: %s", fileName, err)
				exitwithstatus.Message("import: %q  error: %s", fileName, err)
			}
			fmt.Printf("imported: %q\n", fileName)
		}

	default:
		exitwithstatus.Message("error: no such command: %q", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}
