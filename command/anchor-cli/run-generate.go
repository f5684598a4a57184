// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/anchord/agent"
)

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	credentials, seedHex, err := agent.Generate(c.String("network"))
	if nil != err {
		return err
	}

	type generateReply struct {
		PrivateKey string `json:"privateKey"`
		Address    string `json:"address"`
		Testing    bool   `json:"testing"`
	}

	return printJson(m.w, generateReply{
		PrivateKey: seedHex,
		Address:    credentials.Address(),
		Testing:    credentials.IsTesting(),
	})
}
