// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/anchor"
)

// periodic pool reconciliation
//
// confirmed change outputs become spendable again and stale
// allocations whose transactions confirmed after a timeout are
// cleared out
type reconciler struct {
	anchorer *anchor.Anchorer
	interval time.Duration
}

func (r *reconciler) Run(args interface{}, shutdown <-chan struct{}) {
	log := logger.New("reconciler")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(r.interval):
		}

		if err := r.anchorer.RefreshPool(); nil != err {
			log.Warnf("refresh failed: %s", err)
			continue loop
		}

		status := r.anchorer.PoolStatus()
		log.Infof("pool: %d available (%d units)  %d allocated (%d units)",
			status.AvailableValue, status.Available,
			status.AllocatedValue, status.Allocated)
	}
}
