// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run and stop a set of daemon goroutines
package background

import (
	"github.com/bitmark-inc/logger"
)

// Process - a single daemon loop
//
// the loop must exit promptly once the shutdown channel closes
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - name to process, started together, stopped together
type Processes map[string]Process

type task struct {
	name     string
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle to a running set
type T struct {
	log   *logger.L
	tasks []task
}

// Start - launch all processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		log:   logger.New("background"),
		tasks: make([]task, 0, len(processes)),
	}

	for name, p := range processes {
		t := task{
			name:     name,
			shutdown: make(chan struct{}),
			finished: make(chan struct{}),
		}
		register.tasks = append(register.tasks, t)
		register.log.Infof("starting: %s", name)

		go func(p Process, t task) {
			p.Run(args, t.shutdown)
			close(t.finished)
		}(p, t)
	}
	return register
}

// Stop - signal all processes and wait for them to finish
func (register *T) Stop() {
	if nil == register {
		return
	}

	for _, t := range register.tasks {
		register.log.Infof("stopping: %s", t.name)
		close(t.shutdown)
	}

	for _, t := range register.tasks {
		<-t.finished
		register.log.Infof("stopped: %s", t.name)
	}
}
