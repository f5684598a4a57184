// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/anchord/fundpool"
)

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	anchorer, client, err := m.anchorer()
	if nil != err {
		return err
	}

	info, err := client.Info()
	if nil != err {
		return err
	}

	if err := anchorer.RefreshPool(); nil != err {
		return err
	}

	type statusReply struct {
		Chain       string          `json:"chain"`
		Blocks      uint64          `json:"blocks"`
		Destination string          `json:"destination"`
		Pool        fundpool.Status `json:"pool"`
	}

	return printJson(m.w, statusReply{
		Chain:       info.Chain,
		Blocks:      info.Blocks,
		Destination: anchorer.Destination(),
		Pool:        anchorer.PoolStatus(),
	})
}
