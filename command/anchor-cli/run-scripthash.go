// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/scriptaddress"
)

func runScriptHash(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	scriptHex := c.String("script")
	if "" == scriptHex {
		return fmt.Errorf("script is required")
	}
	script, err := hex.DecodeString(scriptHex)
	if nil != err {
		return fmt.Errorf("script is not hex: %s", err)
	}

	digest := scriptaddress.ScriptHash(script)

	addresses := make(map[string]string, 3)
	for _, name := range []string{chain.Live, chain.Testing, chain.Local} {
		address, err := scriptaddress.Derive(script, name)
		if nil != err {
			return err
		}
		addresses[name] = address
	}

	type scriptHashReply struct {
		Hash      string            `json:"hash"`
		Addresses map[string]string `json:"addresses"`
	}

	return printJson(m.w, scriptHashReply{
		Hash:      hex.EncodeToString(digest[:]),
		Addresses: addresses,
	})
}
