// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ferryd/constants"
)

type metadata struct {
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "ferry-dump"
	app.Usage = "inspect ferry streams, files and identities"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "stream",
			Usage:     "decode a captured transfer stream",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*stream `FILE`",
				},
				cli.StringSliceFlag{
					Name:  "identity, i",
					Usage: " known sender identity `FILE`, may be repeated",
				},
				cli.BoolFlag{
					Name:  "preamble, p",
					Usage: " stream starts with identities and a hash declaration",
				},
			},
			Action: runStream,
		},
		{
			Name:      "packet",
			Usage:     "decode a single framed packet",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*packet `FILE`",
				},
				cli.StringFlag{
					Name:  "kind, k",
					Value: "advertise",
					Usage: " packet `KIND` [advertise|upgrade|header|sequence|declare|identity]",
				},
			},
			Action: runPacket,
		},
		{
			Name:      "hash",
			Usage:     "block hashes and global hash of a file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*content `FILE`",
				},
				cli.IntFlag{
					Name:  "block-size, b",
					Value: constants.DefaultBlockSize,
					Usage: " block `SIZE` in bytes",
				},
				cli.BoolFlag{
					Name:  "go, g",
					Usage: " print as Go byte slices",
				},
			},
			Action: runHash,
		},
		{
			Name:      "generate",
			Usage:     "create a new signing identity",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*identity `FILE`, must not exist",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "fingerprint",
			Usage:     "show the fingerprint of an identity",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*identity `FILE`",
				},
			},
			Action: runFingerprint,
		},
		{
			Name:  "version",
			Usage: "display ferry-dump version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
