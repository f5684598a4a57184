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

	"github.com/bitmark-inc/anchord/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "anchor-cli"
	app.Usage = "anchor content hashes to the ledger and verify them"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config-file, c",
			Value: "",
			Usage: "*anchord configuration `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "anchor",
			Usage:     "anchor a content hash, waits for confirmation",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "hash, x",
					Value: "",
					Usage: "*content hash `HEX` (64 hex characters)",
				},
				cli.StringFlag{
					Name:  "subject, s",
					Value: "",
					Usage: "*subject identifier `STRING`",
				},
				cli.StringFlag{
					Name:  "instance, i",
					Value: "",
					Usage: "*instance identifier `STRING`",
				},
				cli.StringFlag{
					Name:  "schema, m",
					Value: "1.0",
					Usage: " record schema version `STRING`",
				},
				cli.Uint64Flag{
					Name:  "observed-at, o",
					Value: 0,
					Usage: " observation time, unix milliseconds `TIMESTAMP` (default now)",
				},
			},
			Action: runAnchor,
		},
		{
			Name:      "verify",
			Usage:     "scan the ledger for an anchored hash",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "hash, x",
					Value: "",
					Usage: "*content hash `HEX` (64 hex characters)",
				},
			},
			Action: runVerify,
		},
		{
			Name:   "status",
			Usage:  "funding pool and node status",
			Flags:  []cli.Flag{},
			Action: runStatus,
		},
		{
			Name:      "generate",
			Usage:     "generate an agent key pair, will not store in config file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "network, n",
					Value: "testing",
					Usage: " generate for `NETWORK` [live|testing|local]",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "scripthash",
			Usage:     "hash an authorization script and show its addresses",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "script, s",
					Value: "",
					Usage: "*compiled authorization script `HEX`",
				},
			},
			Action: runScriptHash,
		},
	}

	app.Metadata = map[string]interface{}{
		"config": &metadata{
			e: app.ErrWriter,
			w: app.Writer,
		},
	}

	app.Before = func(c *cli.Context) error {
		m := c.App.Metadata["config"].(*metadata)
		m.file = c.GlobalString("config-file")
		m.verbose = c.GlobalBool("verbose")
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
