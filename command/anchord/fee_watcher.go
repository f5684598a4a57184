// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/anchord/anchor"
	"github.com/bitmark-inc/anchord/configuration"
)

// feeWatcher - apply fee rate changes from the configuration file
// without a restart
//
// only the fee rate is hot reloadable; chain, key and node changes
// need a restart and are deliberately ignored here
type feeWatcher struct {
	anchorer *anchor.Anchorer
	filePath string
	watcher  *fsnotify.Watcher
}

func newFeeWatcher(configurationFile string, anchorer *anchor.Anchorer) (*feeWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(configurationFile))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filePath)
	if nil != err {
		watcher.Close()
		return nil, err
	}

	return &feeWatcher{
		anchorer: anchorer,
		filePath: filePath,
		watcher:  watcher,
	}, nil
}

func (w *feeWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := logger.New("fee-watcher")

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if 0 == event.Op&(fsnotify.Write|fsnotify.Create) {
				continue loop
			}
			log.Infof("configuration changed: %v", event)
			w.reload(log)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watch error: %s", err)
		}
	}
	w.watcher.Close()
}

func (w *feeWatcher) reload(log *logger.L) {
	options, err := configuration.GetConfiguration(w.filePath)
	if nil != err {
		// keep running on the old rate
		log.Errorf("reload failed: %s", err)
		return
	}

	if options.Payment.FeeRate != w.anchorer.FeeRate() {
		w.anchorer.SetFeeRate(options.Payment.FeeRate)
	}
}
