// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - socket helpers for the confirmation subscriber
package zmqutil

import (
	zmq "github.com/pebbe/zmq4"
)

// NewSignalPublisher - create the send half of an in-process broadcast
//
// a PUB socket bound over inproc; every subscriber connected through
// NewSubscriber receives each message, so one send wakes all polling
// loops at once
func NewSignalPublisher(signal string) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)

	err = socket.Bind(signal)
	if nil != err {
		socket.Close()
		return nil, err
	}

	return socket, nil
}

// NewSubscriber - connect a SUB socket to a node's event publisher
//
// topic filtering happens node side, so only matching events arrive
func NewSubscriber(endpoint string, topic string) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)

	err = socket.Connect(endpoint)
	if nil != err {
		socket.Close()
		return nil, err
	}

	err = socket.SetSubscribe(topic)
	if nil != err {
		socket.Close()
		return nil, err
	}

	return socket, nil
}
