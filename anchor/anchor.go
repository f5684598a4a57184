// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package anchor - the anchoring facade
//
// ties the funding pool, transaction builder, submitter and verifier
// together behind the two operations operators actually call: anchor
// a hash, verify a hash
package anchor

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/anchorrecord"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/fundpool"
	"github.com/bitmark-inc/anchord/ledger"
	"github.com/bitmark-inc/anchord/scriptaddress"
	"github.com/bitmark-inc/anchord/submission"
	"github.com/bitmark-inc/anchord/txbuilder"
	"github.com/bitmark-inc/anchord/verifier"
)

// Receipt - proof material returned after a confirmed anchoring
type Receipt struct {
	TxId        string                     `json:"txId"`
	Address     string                     `json:"address"`
	Record      *anchorrecord.AnchorRecord `json:"record"`
	BlockHeight uint64                     `json:"blockHeight"`
	TxIndex     uint32                     `json:"txIndex"`
}

// Anchorer - the assembled anchoring pipeline
type Anchorer struct {
	sync.RWMutex // feeRate is hot reloadable

	log                 *logger.L
	pool                *fundpool.Pool
	submitter           *submission.Submitter
	verifier            *verifier.Verifier
	destination         string
	changeAddress       string
	lockAmount          uint64
	feeRate             uint64
	confirmationTimeout time.Duration
}

// New - assemble the pipeline
//
// the destination is derived from the authorization script and the
// chain once, here; everything downstream treats it as an opaque
// address
func New(
	client ledger.Client,
	credentials *agent.Credentials,
	authorizationScript []byte,
	chainName string,
	lockAmount uint64,
	feeRate uint64,
	confirmationTimeout time.Duration,
	subscribeEndpoint string,
) (*Anchorer, error) {

	destination, err := scriptaddress.CachedDerive(authorizationScript, chainName)
	if nil != err {
		return nil, err
	}

	changeAddress := credentials.Address()

	pool, err := fundpool.New(client, changeAddress)
	if nil != err {
		return nil, err
	}

	return &Anchorer{
		log:                 logger.New("anchor"),
		pool:                pool,
		submitter:           submission.New(client, credentials, subscribeEndpoint),
		verifier:            verifier.New(client),
		destination:         destination,
		changeAddress:       changeAddress,
		lockAmount:          lockAmount,
		feeRate:             feeRate,
		confirmationTimeout: confirmationTimeout,
	}, nil
}

// Anchor - anchor one record to the ledger
//
// on success the record is confirmed and its funding unit consumed;
// on a definite failure the unit returns to the pool; on an ambiguous
// outcome (submission or confirmation timeout) the unit stays
// allocated so it cannot fund a second, conflicting transaction, and
// the next pool refresh settles its fate
func (anchorer *Anchorer) Anchor(record *anchorrecord.AnchorRecord) (*Receipt, error) {

	feeRate := anchorer.FeeRate()

	minimum, err := txbuilder.EstimateMinimum(record, anchorer.lockAmount, feeRate)
	if nil != err {
		return nil, err
	}

	unit, err := anchorer.pool.Allocate(minimum)
	if fault.IsErrProcess(err) {
		// the pool may simply be stale
		if err := anchorer.pool.Refresh(); nil != err {
			return nil, err
		}
		unit, err = anchorer.pool.Allocate(minimum)
	}
	if nil != err {
		return nil, err
	}

	tx, err := txbuilder.Build(unit, anchorer.destination, anchorer.lockAmount, record, anchorer.changeAddress, feeRate)
	if nil != err {
		anchorer.release(unit)
		return nil, err
	}

	txId, err := anchorer.submitter.Submit(tx)
	if nil != err {
		if fault.IsErrRejected(err) {
			// never reached the ledger, the unit is still spendable
			anchorer.release(unit)
		} else {
			anchorer.log.Warnf("ambiguous submission for unit %s: %s", unit.Identifier(), err)
		}
		return nil, err
	}

	status, err := anchorer.submitter.AwaitConfirmation(txId, anchorer.confirmationTimeout)
	switch {
	case nil == err:
		if e := anchorer.pool.Commit(unit); nil != e {
			anchorer.log.Warnf("commit of unit %s failed: %s", unit.Identifier(), e)
		}
	case fault.IsErrRejected(err):
		anchorer.release(unit)
		return nil, err
	default:
		// timed out still pending, keep the unit locked
		anchorer.log.Warnf("unsettled transaction %s holds unit %s", txId, unit.Identifier())
		return nil, err
	}

	unpacked, err := tx.AuxData.Unpack()
	if nil != err {
		return nil, err
	}

	anchorer.log.Infof("anchored %s as %s", unpacked.Hash, txId)

	return &Receipt{
		TxId:        txId,
		Address:     anchorer.destination,
		Record:      unpacked,
		BlockHeight: status.BlockHeight,
		TxIndex:     status.TxIndex,
	}, nil
}

// a failed release means the pool lost track of the unit, the next
// refresh rebuilds the holdings
func (anchorer *Anchorer) release(unit *fundpool.Unit) {
	if err := anchorer.pool.Release(unit); nil != err {
		anchorer.log.Warnf("release of unit %s failed: %s", unit.Identifier(), err)
	}
}

// Stop - interrupt any confirmation wait in progress
//
// used at shutdown; an interrupted Anchor returns
// fault.ErrConfirmationTimeout with its funding unit held
func (anchorer *Anchorer) Stop() {
	anchorer.submitter.Stop()
}

// Verify - scan the ledger for an anchored hash
func (anchorer *Anchorer) Verify(hash string) (*verifier.Result, error) {
	return anchorer.verifier.FindByHash(hash)
}

// RefreshPool - reconcile the funding pool with the ledger
func (anchorer *Anchorer) RefreshPool() error {
	return anchorer.pool.Refresh()
}

// PoolStatus - current funding levels
func (anchorer *Anchorer) PoolStatus() fundpool.Status {
	return anchorer.pool.CurrentStatus()
}

// Destination - the anchoring address in use
func (anchorer *Anchorer) Destination() string {
	return anchorer.destination
}

// FeeRate - the current fee rate
func (anchorer *Anchorer) FeeRate() uint64 {
	anchorer.RLock()
	defer anchorer.RUnlock()
	return anchorer.feeRate
}

// SetFeeRate - adjust the fee rate without a restart
func (anchorer *Anchorer) SetFeeRate(feeRate uint64) {
	anchorer.Lock()
	anchorer.feeRate = feeRate
	anchorer.Unlock()
	anchorer.log.Infof("fee rate now: %d", feeRate)
}
