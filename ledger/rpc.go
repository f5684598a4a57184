// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/anchord/fault"
)

// Configuration - connection settings for the node RPC
type Configuration struct {
	URL           string `gluamapper:"url" json:"url"`
	Username      string `gluamapper:"username" json:"username"`
	Password      string `gluamapper:"password" json:"password"`
	CACertificate string `gluamapper:"ca_certificate" json:"ca_certificate"`
	Certificate   string `gluamapper:"certificate" json:"certificate"`
	PrivateKey    string `gluamapper:"private_key" json:"private_key"`

	// optional zmq PUB endpoint for confirmation push
	SubscribeEndpoint string `gluamapper:"subscribe_endpoint" json:"subscribe_endpoint"`
}

// RPCClient - JSON-RPC over HTTP(S) implementation of Client
type RPCClient struct {
	sync.Mutex // the HTTP RPC cannot interleave calls and responses

	log      *logger.L
	client   *http.Client
	url      string
	username string
	password string
	id       uint64
}

// NewClient - create a client for a node endpoint
func NewClient(configuration *Configuration) (*RPCClient, error) {
	if "" == configuration.URL {
		return nil, fault.ErrRequiredNodeURL
	}
	if !strings.HasPrefix(configuration.URL, "http://") && !strings.HasPrefix(configuration.URL, "https://") {
		return nil, fault.ErrInvalidNodeURL
	}

	log := logger.New("ledger")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	client := &http.Client{}

	if "" != configuration.Certificate {
		keyPair, err := tls.LoadX509KeyPair(configuration.Certificate, configuration.PrivateKey)
		if nil != err {
			return nil, err
		}

		certificatePool := x509.NewCertPool()

		data, err := ioutil.ReadFile(configuration.CACertificate)
		if nil != err {
			log.Criticalf("failed to read certificate from: %q", configuration.CACertificate)
			return nil, err
		}

		if !certificatePool.AppendCertsFromPEM(data) {
			log.Criticalf("failed to parse certificate from: %q", configuration.CACertificate)
			return nil, fault.InvalidError("invalid CA certificate")
		}

		client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{keyPair},
					RootCAs:      certificatePool,
					MinVersion:   tls.VersionTLS12,
				},
			},
		}
	}

	r := &RPCClient{
		log:      log,
		client:   client,
		url:      configuration.URL,
		username: configuration.Username,
		password: configuration.Password,
	}
	return r, nil
}

// ListUnspent - current holdings of an address
func (r *RPCClient) ListUnspent(address string) ([]Unspent, error) {
	var reply []Unspent
	err := r.call("listunspent", []interface{}{address}, &reply)
	if nil != err {
		return nil, err
	}
	return reply, nil
}

// SendRawTransaction - submit a signed transaction
//
// transport failures come back as TransientError, an error reply
// from the node means the ledger refused the transaction and comes
// back as RejectedError
func (r *RPCClient) SendRawTransaction(hexTx string) (string, error) {
	var txId string
	err := r.call("sendrawtransaction", []interface{}{hexTx}, &txId)
	if nil != err {
		return "", err
	}
	return txId, nil
}

// TransactionStatus - confirmation status of a transaction
func (r *RPCClient) TransactionStatus(txId string) (Status, error) {
	var reply Status
	err := r.call("gettransactionstatus", []interface{}{txId}, &reply)
	if nil != err {
		return Status{}, err
	}
	return reply, nil
}

// one wire entry of listtagged; data is hex on the wire
type taggedReply struct {
	TxId        string `json:"txid"`
	BlockHeight uint64 `json:"height"`
	TxIndex     uint32 `json:"index"`
	Data        string `json:"data"`
}

// ListTagged - one page of entries under a tag, oldest first
//
// entries whose data is not valid hex are dropped here; the decision
// about unreadable record contents belongs to the verifier
func (r *RPCClient) ListTagged(tag uint64, offset uint64, count int) ([]TaggedEntry, error) {
	var reply []taggedReply
	err := r.call("listtagged", []interface{}{tag, offset, count}, &reply)
	if nil != err {
		return nil, err
	}

	entries := make([]TaggedEntry, 0, len(reply))
	for _, e := range reply {
		data, err := hex.DecodeString(e.Data)
		if nil != err {
			r.log.Warnf("listtagged: %s: undecodable hex dropped", e.TxId)
			continue
		}
		entries = append(entries, TaggedEntry{
			TxId:        e.TxId,
			BlockHeight: e.BlockHeight,
			TxIndex:     e.TxIndex,
			Data:        data,
		})
	}
	return entries, nil
}

// Info - node information
func (r *RPCClient) Info() (Info, error) {
	var reply Info
	err := r.call("getinfo", []interface{}{}, &reply)
	if nil != err {
		return Info{}, err
	}
	return reply, nil
}

// for encoding the RPC arguments
type rpcArguments struct {
	Id     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// the RPC error response
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// for decoding the RPC reply
type rpcReply struct {
	Id     uint64      `json:"id"`
	Result interface{} `json:"result"`
	Error  *rpcError   `json:"error"`
}

// high level call
func (r *RPCClient) call(method string, params []interface{}, reply interface{}) error {
	r.Lock()
	defer r.Unlock()

	r.id += 1

	arguments := rpcArguments{
		Id:     r.id,
		Method: method,
		Params: params,
	}
	response := rpcReply{
		Result: reply,
	}

	r.log.Debugf("rpc call: %s", method)
	err := r.rpc(&arguments, &response)
	if nil != err {
		r.log.Tracef("rpc transport error: %s", err)
		return fault.TransientError(err.Error())
	}

	if nil != response.Error {
		s := response.Error.Message
		if "sendrawtransaction" == method {
			return fault.RejectedError("ledger RPC error: " + s)
		}
		return fault.ProcessError("ledger RPC error: " + s)
	}
	return nil
}

// basic RPC - only use from call
func (r *RPCClient) rpc(arguments *rpcArguments, reply *rpcReply) error {

	s, err := json.Marshal(arguments)
	if nil != err {
		return err
	}

	r.log.Tracef("rpc send: %s", s)

	request, err := http.NewRequest("POST", r.url, bytes.NewBuffer(s))
	if nil != err {
		return err
	}
	if "" != r.username {
		request.SetBasicAuth(r.username, r.password)
	}

	response, err := r.client.Do(request)
	if nil != err {
		return err
	}
	defer response.Body.Close()
	body, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return err
	}

	r.log.Tracef("rpc receive: %s", body)

	return json.Unmarshal(body, reply)
}
