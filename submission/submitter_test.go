// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submission_test

import (
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/anchorrecord"
	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/fixtures"
	"github.com/bitmark-inc/anchord/fundpool"
	"github.com/bitmark-inc/anchord/ledger"
	"github.com/bitmark-inc/anchord/submission"
	"github.com/bitmark-inc/anchord/txbuilder"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// scripted node behaviour for one test
//
// status queries may arrive from several goroutines at once
type nodeScript struct {
	sendErrors  []error // consumed one per SendRawTransaction before success
	sendCount   int
	statuses    []ledger.Status // consumed one per TransactionStatus, last repeats
	statusCount int32
	statusLock  sync.Mutex
}

func (node *nodeScript) ListUnspent(address string) ([]ledger.Unspent, error) {
	return nil, nil
}

func (node *nodeScript) SendRawTransaction(hexTx string) (string, error) {
	node.sendCount += 1
	if _, err := hex.DecodeString(hexTx); nil != err {
		return "", fault.ErrTransactionRejected
	}
	if len(node.sendErrors) > 0 {
		err := node.sendErrors[0]
		node.sendErrors = node.sendErrors[1:]
		return "", err
	}
	return "deadbeef", nil
}

func (node *nodeScript) TransactionStatus(txId string) (ledger.Status, error) {
	atomic.AddInt32(&node.statusCount, 1)
	node.statusLock.Lock()
	defer node.statusLock.Unlock()
	if 0 == len(node.statuses) {
		return ledger.Status{}, nil
	}
	status := node.statuses[0]
	if len(node.statuses) > 1 {
		node.statuses = node.statuses[1:]
	}
	return status, nil
}

func (node *nodeScript) ListTagged(tag uint64, offset uint64, count int) ([]ledger.TaggedEntry, error) {
	return nil, nil
}

func (node *nodeScript) Info() (ledger.Info, error) {
	return ledger.Info{}, nil
}

type countingSigner struct {
	inner agent.Signer
	calls int
}

func (signer *countingSigner) Sign(message []byte) ([]byte, error) {
	signer.calls += 1
	return signer.inner.Sign(message)
}

func (signer *countingSigner) PublicKey() []byte {
	return signer.inner.PublicKey()
}

func testTransaction(t *testing.T) *txbuilder.UnsignedTransaction {
	record := &anchorrecord.AnchorRecord{
		Hash:          "adc83b19e793491b1c6ea0fd8b46cd9f32e592fc2d6a2f552ba6e8df3609b0b5",
		SubjectId:     "item-7781",
		InstanceId:    "2026-08-12T09:14:02Z",
		ObservedAt:    1765000000,
		SchemaVersion: "1.0",
	}
	unit := &fundpool.Unit{
		TxId:  "8f4b5cf17472e6b0ca63fad1f44385e91f507cd0b1222eed953d0e042dbfa915",
		Index: 0,
		Value: 2000000,
	}
	tx, err := txbuilder.Build(unit, "e5b4rmGEFkx3uBXLTdavANMYGiM3BJZ81MKvPdJcuAt7Zq6wnP", 1000, record, "aKQVyKWr3FzTtGCKSuGnyeYWGATTphoHXxi9uM2rpDt9HsxLBK", 10)
	assert.Nil(t, err, "wrong error")
	return tx
}

func newSigner(t *testing.T) *countingSigner {
	credentials, _, err := agent.Generate(chain.Testing)
	assert.Nil(t, err, "wrong error")
	return &countingSigner{inner: credentials}
}

func TestSubmitSignsOnce(t *testing.T) {
	node := &nodeScript{
		sendErrors: []error{
			fault.ErrSubmissionFailed,
			fault.ErrSubmissionFailed,
		},
	}
	signer := newSigner(t)
	submitter := submission.New(node, signer, "")

	txId, err := submitter.Submit(testTransaction(t))
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, "deadbeef", txId, "wrong transaction id")
	assert.Equal(t, 3, node.sendCount, "wrong broadcast count")
	assert.Equal(t, 1, signer.calls, "transaction signed more than once")
}

func TestSubmitRejectionIsFinal(t *testing.T) {
	node := &nodeScript{
		sendErrors: []error{fault.ErrTransactionRejected},
	}
	submitter := submission.New(node, newSigner(t), "")

	_, err := submitter.Submit(testTransaction(t))
	assert.Equal(t, fault.ErrTransactionRejected, err, "wrong error")
	assert.Equal(t, 1, node.sendCount, "rejection was retried")
}

func TestAwaitConfirmationConfirmed(t *testing.T) {
	node := &nodeScript{
		statuses: []ledger.Status{
			{Known: true, State: ledger.StateConfirmed, BlockHeight: 1203, TxIndex: 4},
		},
	}
	submitter := submission.New(node, newSigner(t), "")

	status, err := submitter.AwaitConfirmation("deadbeef", 5*time.Second)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, ledger.StateConfirmed, status.State, "wrong state")
	assert.Equal(t, uint64(1203), status.BlockHeight, "wrong block height")
}

func TestAwaitConfirmationRejected(t *testing.T) {
	node := &nodeScript{
		statuses: []ledger.Status{
			{Known: true, State: ledger.StateRejected, Reason: "input already spent"},
		},
	}
	submitter := submission.New(node, newSigner(t), "")

	status, err := submitter.AwaitConfirmation("deadbeef", 5*time.Second)
	assert.Equal(t, fault.ErrTransactionRejected, err, "wrong error")
	assert.Equal(t, "input already spent", status.Reason, "wrong reason")
}

func TestStopInterruptsAwait(t *testing.T) {
	node := &nodeScript{
		statuses: []ledger.Status{
			{Known: true, State: ledger.StatePending},
		},
	}
	submitter := submission.New(node, newSigner(t), "")

	go func() {
		time.Sleep(50 * time.Millisecond)
		submitter.Stop()
	}()

	start := time.Now()
	_, err := submitter.AwaitConfirmation("deadbeef", 30*time.Second)
	assert.Equal(t, fault.ErrConfirmationTimeout, err, "wrong error")
	assert.True(t, time.Since(start) < time.Second, "stop did not interrupt the wait")
}

func TestStopWakesConcurrentWaits(t *testing.T) {
	node := &nodeScript{
		statuses: []ledger.Status{
			{Known: true, State: ledger.StatePending},
		},
	}
	submitter := submission.New(node, newSigner(t), "")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := time.Now()
	for i := 0; i < 2; i += 1 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = submitter.AwaitConfirmation(fmt.Sprintf("tx-%d", i), 30*time.Second)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	submitter.Stop()
	wg.Wait()

	assert.True(t, time.Since(start) < time.Second, "stop left a wait blocked")
	for i, err := range errs {
		assert.Equal(t, fault.ErrConfirmationTimeout, err, "wait %d: wrong error", i)
	}
}

func TestAwaitConfirmationTimeout(t *testing.T) {
	node := &nodeScript{
		statuses: []ledger.Status{
			{Known: true, State: ledger.StatePending},
		},
	}
	submitter := submission.New(node, newSigner(t), "")

	_, err := submitter.AwaitConfirmation("deadbeef", 100*time.Millisecond)
	assert.Equal(t, fault.ErrConfirmationTimeout, err, "wrong error")
	assert.True(t, atomic.LoadInt32(&node.statusCount) >= 1, "status never queried")
}
