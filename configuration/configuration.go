// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - Lua based daemon configuration
//
// the configuration file is a Lua program returning one table; this
// allows simple computed settings (per chain sections, environment
// lookups) without inventing a template language
package configuration

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/ledger"
	"github.com/bitmark-inc/anchord/util"
)

// basic defaults (directories and files are relative to the
// "DataDirectory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLogDirectory = "log"
	defaultLogFile      = "anchord.log"
	defaultLogCount     = 10          // number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when log exceeds this size

	defaultConfirmationTimeout = 10 * time.Minute
	defaultPollInterval        = 60 * time.Second
)

// AgentConfiguration - the anchoring agent's key material
type AgentConfiguration struct {
	PrivateKey string `gluamapper:"private_key" json:"private_key"`
}

// PaymentConfiguration - amounts and the authorization script
type PaymentConfiguration struct {
	FeeRate             uint64 `gluamapper:"fee_rate" json:"fee_rate"`
	LockAmount          string `gluamapper:"lock_amount" json:"lock_amount"` // decimal coins, e.g. "0.0001"
	AuthorizationScript string `gluamapper:"authorization_script" json:"authorization_script"`
	ConfirmationTimeout int    `gluamapper:"confirmation_timeout" json:"confirmation_timeout"` // seconds
	PoolPollInterval    int    `gluamapper:"pool_poll_interval" json:"pool_poll_interval"`     // seconds
}

// Configuration - the full anchord configuration
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Chain         string               `gluamapper:"chain" json:"chain"`
	Node          ledger.Configuration `gluamapper:"node" json:"node"`
	Agent         AgentConfiguration   `gluamapper:"agent" json:"agent"`
	Payment       PaymentConfiguration `gluamapper:"payment" json:"payment"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read, decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Testing,

		Payment: PaymentConfiguration{
			ConfirmationTimeout: int(defaultConfirmationTimeout / time.Second),
			PoolPollInterval:    int(defaultPollInterval / time.Second),
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fault.ErrInvalidChain
	}

	if "" == options.Node.URL {
		return nil, fault.ErrRequiredNodeURL
	}
	if "" == options.Agent.PrivateKey {
		return nil, fault.ErrRequiredAgentKey
	}
	if _, err := options.Payment.Script(); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	fileInfo, err := os.Stat(options.DataDirectory)
	if nil != err {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Node.CACertificate,
		&options.Node.Certificate,
		&options.Node.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	return options, nil
}

// Script - the compiled authorization script bytes
func (payment *PaymentConfiguration) Script() ([]byte, error) {
	if "" == payment.AuthorizationScript {
		return nil, fault.ErrRequiredAuthorizationHex
	}
	script, err := hex.DecodeString(payment.AuthorizationScript)
	if nil != err {
		return nil, fault.ErrInvalidAuthorizationScript
	}
	if 0 == len(script) {
		return nil, fault.ErrInvalidAuthorizationScript
	}
	return script, nil
}

// LockUnits - the lock amount in integer base units
func (payment *PaymentConfiguration) LockUnits() uint64 {
	return util.ToBaseUnits([]byte(payment.LockAmount))
}

// Timeout - confirmation timeout as a duration
func (payment *PaymentConfiguration) Timeout() time.Duration {
	if payment.ConfirmationTimeout <= 0 {
		return defaultConfirmationTimeout
	}
	return time.Duration(payment.ConfirmationTimeout) * time.Second
}

// PollInterval - pool reconciliation interval as a duration
func (payment *PaymentConfiguration) PollInterval() time.Duration {
	if payment.PoolPollInterval <= 0 {
		return defaultPollInterval
	}
	return time.Duration(payment.PoolPollInterval) * time.Second
}
