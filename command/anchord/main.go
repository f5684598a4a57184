// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/anchor"
	"github.com/bitmark-inc/anchord/background"
	"github.com/bitmark-inc/anchord/configuration"
	"github.com/bitmark-inc/anchord/ledger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 || len(arguments) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--version] --config-file=FILE", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]

	masterConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// start logging
	if err = logger.Initialise(masterConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != masterConfiguration.PidFile {
		lockFile, err := os.OpenFile(masterConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, masterConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(masterConfiguration.PidFile)
	}

	client, err := ledger.NewClient(&masterConfiguration.Node)
	if nil != err {
		exitwithstatus.Message("%s: node client setup failed with error: %s", program, err)
	}

	// sanity check: node must serve the configured chain
	info, err := client.Info()
	if nil != err {
		exitwithstatus.Message("%s: node is not reachable, error: %s", program, err)
	}
	if info.Chain != masterConfiguration.Chain {
		exitwithstatus.Message("%s: node chain: %q does not match configuration: %q", program, info.Chain, masterConfiguration.Chain)
	}
	log.Infof("node chain: %s  blocks: %d", info.Chain, info.Blocks)

	credentials, err := agent.FromPrivateKeyHex(masterConfiguration.Agent.PrivateKey, masterConfiguration.Chain)
	if nil != err {
		exitwithstatus.Message("%s: agent credentials failed with error: %s", program, err)
	}
	log.Infof("agent address: %s", credentials.Address())

	script, err := masterConfiguration.Payment.Script()
	if nil != err {
		exitwithstatus.Message("%s: authorization script failed with error: %s", program, err)
	}

	anchorer, err := anchor.New(
		client,
		credentials,
		script,
		masterConfiguration.Chain,
		masterConfiguration.Payment.LockUnits(),
		masterConfiguration.Payment.FeeRate,
		masterConfiguration.Payment.Timeout(),
		masterConfiguration.Node.SubscribeEndpoint,
	)
	if nil != err {
		exitwithstatus.Message("%s: anchorer setup failed with error: %s", program, err)
	}
	log.Infof("anchoring address: %s", anchorer.Destination())

	// initial pool load
	if err := anchorer.RefreshPool(); nil != err {
		log.Warnf("initial pool refresh failed: %s", err)
	}

	watcher, err := newFeeWatcher(configurationFile, anchorer)
	if nil != err {
		exitwithstatus.Message("%s: configuration watcher failed with error: %s", program, err)
	}

	processes := background.Processes{
		"reconciler":  &reconciler{anchorer: anchorer, interval: masterConfiguration.Payment.PollInterval()},
		"fee-watcher": watcher,
	}
	register := background.Start(processes, nil)
	defer register.Stop()

	// unblock any confirmation wait before the processes stop
	defer anchorer.Stop()

	// wait for termination
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
}
