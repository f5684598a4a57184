// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/anchord/anchorrecord"
)

func runAnchor(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	hash := c.String("hash")
	if "" == hash {
		return fmt.Errorf("hash is required")
	}
	subjectId := c.String("subject")
	if "" == subjectId {
		return fmt.Errorf("subject is required")
	}
	instanceId := c.String("instance")
	if "" == instanceId {
		return fmt.Errorf("instance is required")
	}

	observedAt := c.Uint64("observed-at")
	if 0 == observedAt {
		observedAt = uint64(time.Now().UnixNano() / int64(time.Millisecond))
	}

	record := &anchorrecord.AnchorRecord{
		Hash:          hash,
		SubjectId:     subjectId,
		InstanceId:    instanceId,
		ObservedAt:    observedAt,
		SchemaVersion: c.String("schema"),
	}

	anchorer, _, err := m.anchorer()
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "anchoring to: %s\n", anchorer.Destination())
	}

	receipt, err := anchorer.Anchor(record)
	if nil != err {
		return err
	}

	return printJson(m.w, receipt)
}
