// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// Unspent - one spendable output currently owned by an address
type Unspent struct {
	TxId  string `json:"txid"`
	Index uint32 `json:"index"`
	Value uint64 `json:"value"` // integer base units
}

// ConfirmationState - node reported transaction state
type ConfirmationState string

// states reported by gettransactionstatus
const (
	StatePending   ConfirmationState = "pending"
	StateConfirmed ConfirmationState = "confirmed"
	StateRejected  ConfirmationState = "rejected"
)

// Status - confirmation status of a submitted transaction
type Status struct {
	Known       bool              `json:"known"`
	State       ConfirmationState `json:"state"`
	Reason      string            `json:"reason"`
	BlockHeight uint64            `json:"height"`
	TxIndex     uint32            `json:"index"`
}

// TaggedEntry - one confirmed auxiliary data entry under a tag
//
// BlockHeight then TxIndex is the total "ledger position" order used
// by verification tie breaking
type TaggedEntry struct {
	TxId        string `json:"txid"`
	BlockHeight uint64 `json:"height"`
	TxIndex     uint32 `json:"index"`
	Data        []byte `json:"-"`
}

// Info - basic node information for the startup sanity check
type Info struct {
	Chain  string `json:"chain"`
	Blocks uint64 `json:"blocks"`
}

// Client - operations consumed from the ledger node
//
// errors returned by implementations carry fault classes so callers
// can separate transient transport failures (retryable) from ledger
// rejection (not retryable)
type Client interface {
	// current holdings of an address
	ListUnspent(address string) ([]Unspent, error)

	// submit a signed transaction (hex); returns transaction id
	SendRawTransaction(hexTx string) (string, error)

	// confirmation status of a previously submitted transaction
	TransactionStatus(txId string) (Status, error)

	// one page of confirmed entries filed under tag, oldest first;
	// a short page marks the end of the scan
	ListTagged(tag uint64, offset uint64, count int) ([]TaggedEntry, error)

	// node information
	Info() (Info, error)
}
