// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package submission - sign, broadcast and confirm anchoring
// transactions
//
// a transaction is signed exactly once; only the broadcast of those
// same bytes is ever retried, so a flaky connection can never produce
// two competing spends of one funding unit
package submission

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/cenkalti/backoff/v4"
	zmq "github.com/pebbe/zmq4"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/ledger"
	"github.com/bitmark-inc/anchord/txbuilder"
	"github.com/bitmark-inc/anchord/util"
	"github.com/bitmark-inc/anchord/zmqutil"
)

// timing constants
const (
	submitInitialInterval = 500 * time.Millisecond
	submitMaxElapsedTime  = 2 * time.Minute

	statusPollInterval = 2 * time.Second
	minimumQueryGap    = 250 * time.Millisecond
)

// Submitter - broadcasts signed transactions and tracks confirmation
type Submitter struct {
	log               *logger.L
	client            ledger.Client
	signer            agent.Signer
	subscribeEndpoint string
	signal            string
	stop              *zmq.Socket
	stopped           int32
}

// each submitter gets its own broadcast endpoint
var signalCounter uint64

// New - create a submitter
//
// subscribeEndpoint is the node's confirmation publisher; empty
// disables push notifications and confirmation falls back to polling
func New(client ledger.Client, signer agent.Signer, subscribeEndpoint string) *Submitter {
	submitter := &Submitter{
		log:               logger.New("submission"),
		client:            client,
		signer:            signer,
		subscribeEndpoint: subscribeEndpoint,
	}

	signal := fmt.Sprintf("inproc://submission-signal-%d", atomic.AddUint64(&signalCounter, 1))
	stop, err := zmqutil.NewSignalPublisher(signal)
	if nil != err {
		// confirmation waits fall back to plain sleeps
		submitter.log.Warnf("signal publisher failed: %s", err)
		return submitter
	}
	submitter.signal = signal
	submitter.stop = stop

	return submitter
}

// Stop - wake every confirmation wait blocked in AwaitConfirmation
//
// each interrupted wait returns fault.ErrConfirmationTimeout; the
// transaction outcomes stay unknown until the next pool refresh. The
// stopped flag covers waits that start after the broadcast.
func (submitter *Submitter) Stop() {
	atomic.StoreInt32(&submitter.stopped, 1)
	if nil != submitter.stop {
		_, err := submitter.stop.SendMessage("stop")
		if nil != err {
			submitter.log.Errorf("stop signal failed: %s", err)
		}
	}
}

// Submit - sign once and broadcast with retries
//
// transient transport errors are retried with exponential backoff; a
// node rejection is final and returned immediately. On retry
// exhaustion the last transient error is returned, leaving the
// outcome ambiguous for the caller to resolve.
func (submitter *Submitter) Submit(tx *txbuilder.UnsignedTransaction) (string, error) {

	packed := tx.Pack()
	signature, err := submitter.signer.Sign(packed)
	if nil != err {
		return "", err
	}

	l := util.ToVarint64(uint64(len(signature)))
	signed := append(packed, l...)
	signed = append(signed, signature...)
	signedHex := hex.EncodeToString(signed)

	txId := ""
	broadcast := func() error {
		id, err := submitter.client.SendRawTransaction(signedHex)
		if nil != err {
			if fault.IsErrRejected(err) {
				return backoff.Permanent(err)
			}
			submitter.log.Warnf("broadcast failed, will retry: %s", err)
			return err
		}
		txId = id
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = submitInitialInterval
	policy.MaxElapsedTime = submitMaxElapsedTime

	err = backoff.Retry(broadcast, policy)
	if nil != err {
		return "", err
	}

	submitter.log.Infof("broadcast: %s", txId)
	return txId, nil
}

// AwaitConfirmation - block until the node settles the transaction or
// the timeout passes
//
// returns the final status with a nil error when confirmed,
// fault.ErrTransactionRejected when the node rejected it after
// broadcast, and fault.ErrConfirmationTimeout when time ran out with
// the transaction still pending; on timeout nothing is known about
// the eventual outcome
func (submitter *Submitter) AwaitConfirmation(txId string, timeout time.Duration) (ledger.Status, error) {

	deadline := time.Now().Add(timeout)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	// floor on the status query rate, pushes can arrive in bursts
	limiter := rate.NewLimiter(rate.Every(minimumQueryGap), 1)

	poller := zmq.NewPoller()
	pollable := 0

	// zmq sockets are single goroutine, so each wait connects its own
	// subscription to the stop broadcast
	var stopSocket *zmq.Socket
	if "" != submitter.signal {
		socket, err := zmqutil.NewSubscriber(submitter.signal, "")
		if nil == err {
			defer socket.Close()
			poller.Add(socket, zmq.POLLIN)
			stopSocket = socket
			pollable += 1
		} else {
			submitter.log.Warnf("stop subscribe failed: %s", err)
		}
	}
	if "" != submitter.subscribeEndpoint {
		socket, err := zmqutil.NewSubscriber(submitter.subscribeEndpoint, txId)
		if nil == err {
			defer socket.Close()
			poller.Add(socket, zmq.POLLIN)
			pollable += 1
		} else {
			// polling still settles the transaction
			submitter.log.Warnf("subscribe to %q failed: %s", submitter.subscribeEndpoint, err)
		}
	}

	last := ledger.Status{State: ledger.StatePending}

loop:
	for {
		if 0 != atomic.LoadInt32(&submitter.stopped) {
			submitter.log.Infof("wait for %s interrupted", txId)
			break loop
		}

		if err := limiter.Wait(ctx); nil != err {
			break loop
		}

		status, err := submitter.client.TransactionStatus(txId)
		if nil != err {
			if !fault.IsErrTransient(err) {
				return last, err
			}
			submitter.log.Warnf("status query failed: %s", err)
		} else if status.Known {
			last = status
			switch status.State {
			case ledger.StateConfirmed:
				submitter.log.Infof("confirmed: %s in block %d", txId, status.BlockHeight)
				return status, nil
			case ledger.StateRejected:
				submitter.log.Warnf("rejected: %s: %s", txId, status.Reason)
				return status, fault.ErrTransactionRejected
			}
		}

		delay := statusPollInterval
		if remaining := time.Until(deadline); remaining < delay {
			delay = remaining
		}
		if delay <= 0 {
			break loop
		}

		if pollable > 0 {
			// a push wakes the loop early, drain and re-query
			polled, _ := poller.Poll(delay)
			for _, p := range polled {
				p.Socket.RecvMessageBytes(zmq.DONTWAIT)
				if p.Socket == stopSocket {
					submitter.log.Infof("wait for %s interrupted", txId)
					break loop
				}
			}
		} else {
			time.Sleep(delay)
		}
	}

	return last, fault.ErrConfirmationTimeout
}
