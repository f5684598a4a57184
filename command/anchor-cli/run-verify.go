// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	hash := c.String("hash")
	if "" == hash {
		return fmt.Errorf("hash is required")
	}

	anchorer, _, err := m.anchorer()
	if nil != err {
		return err
	}

	result, err := anchorer.Verify(hash)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}
