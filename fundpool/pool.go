// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fundpool

import (
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/ledger"
)

// State - lifecycle state of a funding unit
type State int

// Available → Allocated → Spent; spent units are pruned
const (
	StateAvailable State = iota
	StateAllocated State = iota
	StateSpent     State = iota
)

func (state State) String() string {
	switch state {
	case StateAvailable:
		return "Available"
	case StateAllocated:
		return "Allocated"
	case StateSpent:
		return "Spent"
	default:
		return fmt.Sprintf("State(%d)", int(state))
	}
}

// Unit - one spendable value unit owned by the anchoring agent
type Unit struct {
	TxId  string
	Index uint32
	Value uint64
}

// Identifier - unique reference: origin transaction and output index
func (unit *Unit) Identifier() string {
	return fmt.Sprintf("%s:%d", unit.TxId, unit.Index)
}

// internal tracking
type unitEntry struct {
	unit  Unit
	state State
}

// Pool - the set of funding units owned by one agent address
//
// a Pool instance is the only mutable shared state in the anchoring
// core; every mutation below runs under the one mutex so concurrent
// anchoring requests can never allocate the same unit
//
// the pool is not ambient: callers construct one and inject it
type Pool struct {
	sync.Mutex

	log    *logger.L
	client ledger.Client
	owner  string
	units  map[string]*unitEntry
}

// Status - snapshot of the pool for logs and operator queries
type Status struct {
	Available      int    `json:"available"`
	Allocated      int    `json:"allocated"`
	AvailableValue uint64 `json:"availableValue"`
	AllocatedValue uint64 `json:"allocatedValue"`
}

// New - create a pool for the holdings of an owner address
//
// the pool starts empty; call Refresh to load current holdings
func New(client ledger.Client, ownerAddress string) (*Pool, error) {
	log := logger.New("fundpool")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	pool := &Pool{
		log:    log,
		client: client,
		owner:  ownerAddress,
		units:  make(map[string]*unitEntry),
	}
	return pool, nil
}

// Refresh - reconcile pool state with the agent's current holdings
//
// newly observed outputs (e.g. change from a confirmed anchoring
// transaction) become Available; units no longer present on the
// ledger are dropped - an Allocated unit disappearing means its
// in-flight transaction confirmed after a timeout, so its value is
// simply gone from the pool
func (pool *Pool) Refresh() error {
	unspent, err := pool.client.ListUnspent(pool.owner)
	if nil != err {
		return err
	}

	pool.Lock()
	defer pool.Unlock()

	present := make(map[string]struct{}, len(unspent))

	for _, u := range unspent {
		unit := Unit{
			TxId:  u.TxId,
			Index: u.Index,
			Value: u.Value,
		}
		id := unit.Identifier()
		present[id] = struct{}{}

		if _, ok := pool.units[id]; !ok {
			pool.units[id] = &unitEntry{
				unit:  unit,
				state: StateAvailable,
			}
			pool.log.Infof("new unit: %s value: %d", id, unit.Value)
		}
	}

	for id, entry := range pool.units {
		if _, ok := present[id]; !ok {
			pool.log.Infof("dropping %s unit: %s", entry.state, id)
			delete(pool.units, id)
		}
	}

	return nil
}

// Allocate - atomically take one Available unit out of the pool
//
// the unit with the smallest sufficient value wins, to keep large
// units intact for later; ties break on identifier so allocation is
// deterministic given identical pool state
func (pool *Pool) Allocate(minimumValue uint64) (*Unit, error) {
	pool.Lock()
	defer pool.Unlock()

	var best *unitEntry
	for _, entry := range pool.units {
		if StateAvailable != entry.state || entry.unit.Value < minimumValue {
			continue
		}
		if nil == best ||
			entry.unit.Value < best.unit.Value ||
			(entry.unit.Value == best.unit.Value &&
				entry.unit.Identifier() < best.unit.Identifier()) {
			best = entry
		}
	}

	if nil == best {
		return nil, fault.ErrNoFundsAvailable
	}

	best.state = StateAllocated
	unit := best.unit // copy so the caller cannot mutate pool state
	pool.log.Debugf("allocated: %s value: %d", unit.Identifier(), unit.Value)
	return &unit, nil
}

// Release - return an Allocated unit to Available
//
// used when a build or submission definitely failed before the
// transaction could reach the ledger
func (pool *Pool) Release(unit *Unit) error {
	if nil == unit {
		return fault.ErrUnitNotFound
	}

	pool.Lock()
	defer pool.Unlock()

	entry, ok := pool.units[unit.Identifier()]
	if !ok {
		return fault.ErrUnitNotFound
	}
	if StateAllocated != entry.state {
		return fault.ErrUnitNotAllocated
	}

	entry.state = StateAvailable
	pool.log.Debugf("released: %s", unit.Identifier())
	return nil
}

// Commit - mark an Allocated unit Spent after its transaction
// confirmed, and prune it from the active pool
func (pool *Pool) Commit(unit *Unit) error {
	if nil == unit {
		return fault.ErrUnitNotFound
	}

	pool.Lock()
	defer pool.Unlock()

	entry, ok := pool.units[unit.Identifier()]
	if !ok {
		return fault.ErrUnitNotFound
	}
	if StateAllocated != entry.state {
		return fault.ErrUnitNotAllocated
	}

	entry.state = StateSpent
	delete(pool.units, unit.Identifier())
	pool.log.Debugf("committed: %s", unit.Identifier())
	return nil
}

// CurrentStatus - per-state counts and value totals
func (pool *Pool) CurrentStatus() Status {
	pool.Lock()
	defer pool.Unlock()

	status := Status{}
	for _, entry := range pool.units {
		switch entry.state {
		case StateAvailable:
			status.Available += 1
			status.AvailableValue += entry.unit.Value
		case StateAllocated:
			status.Allocated += 1
			status.AllocatedValue += entry.unit.Value
		}
	}
	return status
}
