// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/anchor"
	"github.com/bitmark-inc/anchord/configuration"
	"github.com/bitmark-inc/anchord/ledger"
)

// load the daemon's configuration file once per invocation
func (m *metadata) configuration() (*configuration.Configuration, error) {
	if nil != m.config {
		return m.config, nil
	}
	if "" == m.file {
		return nil, fmt.Errorf("config-file is required")
	}
	config, err := configuration.GetConfiguration(m.file)
	if nil != err {
		return nil, err
	}
	m.config = config
	return config, nil
}

// assemble the anchoring pipeline from the configuration
//
// logging goes to the console only; this is an interactive tool
func (m *metadata) anchorer() (*anchor.Anchorer, *ledger.RPCClient, error) {

	config, err := m.configuration()
	if nil != err {
		return nil, nil, err
	}

	level := "error"
	if m.verbose {
		level = "info"
	}
	err = logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "anchor-cli.log",
		Size:      1048576,
		Count:     2,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err {
		return nil, nil, err
	}

	client, err := ledger.NewClient(&config.Node)
	if nil != err {
		return nil, nil, err
	}

	credentials, err := agent.FromPrivateKeyHex(config.Agent.PrivateKey, config.Chain)
	if nil != err {
		return nil, nil, err
	}

	script, err := config.Payment.Script()
	if nil != err {
		return nil, nil, err
	}

	anchorer, err := anchor.New(
		client,
		credentials,
		script,
		config.Chain,
		config.Payment.LockUnits(),
		config.Payment.FeeRate,
		config.Payment.Timeout(),
		config.Node.SubscribeEndpoint,
	)
	if nil != err {
		return nil, nil, err
	}

	return anchorer, client, nil
}
