// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/fixtures"
	"github.com/bitmark-inc/anchord/ledger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type rpcRequest struct {
	Id     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// a node stub that answers a fixed set of methods
func newNode(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&request); nil != err {
			t.Errorf("bad request body: %s", err)
			return
		}

		reply := func(result interface{}) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":     request.Id,
				"result": result,
				"error":  nil,
			})
		}

		switch request.Method {
		case "listunspent":
			reply([]map[string]interface{}{
				{"txid": "aa00", "index": 0, "value": 150000},
				{"txid": "bb11", "index": 2, "value": 25000},
			})
		case "sendrawtransaction":
			hexTx := request.Params[0].(string)
			if "bad0" == hexTx {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"id":     request.Id,
					"result": nil,
					"error":  map[string]interface{}{"code": -26, "message": "missing inputs"},
				})
				return
			}
			reply("cc22")
		case "gettransactionstatus":
			reply(map[string]interface{}{
				"known": true, "state": "confirmed",
				"height": 120, "index": 3,
			})
		case "listtagged":
			reply([]map[string]interface{}{
				{"txid": "dd33", "height": 7, "index": 1, "data": "00ff"},
				{"txid": "ee44", "height": 9, "index": 0, "data": "zz"}, // not hex
			})
		case "getinfo":
			reply(map[string]interface{}{"chain": "testing", "blocks": 1234})
		default:
			t.Errorf("unexpected method: %q", request.Method)
		}
	}))
}

func newClient(t *testing.T, url string) *ledger.RPCClient {
	client, err := ledger.NewClient(&ledger.Configuration{URL: url})
	if nil != err {
		t.Fatalf("new client error: %s", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := ledger.NewClient(&ledger.Configuration{})
	assert.Equal(t, fault.ErrRequiredNodeURL, err, "missing url")

	_, err = ledger.NewClient(&ledger.Configuration{URL: "zmq://localhost"})
	assert.Equal(t, fault.ErrInvalidNodeURL, err, "bad scheme")
}

func TestListUnspent(t *testing.T) {
	node := newNode(t)
	defer node.Close()

	unspent, err := newClient(t, node.URL).ListUnspent("addr")
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, []ledger.Unspent{
		{TxId: "aa00", Index: 0, Value: 150000},
		{TxId: "bb11", Index: 2, Value: 25000},
	}, unspent, "wrong unspent set")
}

func TestSendRawTransaction(t *testing.T) {
	node := newNode(t)
	defer node.Close()

	client := newClient(t, node.URL)

	txId, err := client.SendRawTransaction("00aa")
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, "cc22", txId, "wrong transaction id")

	// an error reply is a ledger rejection, never transient
	_, err = client.SendRawTransaction("bad0")
	assert.True(t, fault.IsErrRejected(err), "rejection class: %v", err)
	assert.False(t, fault.IsErrTransient(err), "must not be transient")
}

func TestSendRawTransactionTransportFailure(t *testing.T) {
	node := newNode(t)
	node.Close() // connection refused from here on

	_, err := newClient(t, node.URL).SendRawTransaction("00aa")
	assert.True(t, fault.IsErrTransient(err), "transient class: %v", err)
}

func TestTransactionStatus(t *testing.T) {
	node := newNode(t)
	defer node.Close()

	status, err := newClient(t, node.URL).TransactionStatus("cc22")
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, ledger.Status{
		Known:       true,
		State:       ledger.StateConfirmed,
		BlockHeight: 120,
		TxIndex:     3,
	}, status, "wrong status")
}

// entries with undecodable hex are dropped by the client
func TestListTagged(t *testing.T) {
	node := newNode(t)
	defer node.Close()

	entries, err := newClient(t, node.URL).ListTagged(0x616e, 0, 100)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, []ledger.TaggedEntry{
		{TxId: "dd33", BlockHeight: 7, TxIndex: 1, Data: []byte{0x00, 0xff}},
	}, entries, "wrong entries")
}

func TestInfo(t *testing.T) {
	node := newNode(t)
	defer node.Close()

	info, err := newClient(t, node.URL).Info()
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, ledger.Info{Chain: "testing", Blocks: 1234}, info, "wrong info")
}
