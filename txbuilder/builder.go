// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txbuilder - compose unsigned anchoring transactions
//
// one funding unit in, one locked output at the anchor address, the
// packed record as transaction-level auxiliary data, change back to
// the agent; nothing else influences the result, so a build is
// reproducible given identical inputs and fee rate
package txbuilder

import (
	"github.com/bitmark-inc/anchord/anchorrecord"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/fundpool"
	"github.com/bitmark-inc/anchord/util"
	"golang.org/x/crypto/ed25519"
)

// packing constants
const (
	transactionVersion = 1

	// signature plus its length prefix, added after signing
	signatureOverhead = ed25519.SignatureSize + 2

	// worst case growth of the fee and change varints relative to
	// the zero placeholders used during estimation
	varintSlack = 2 * (util.Varint64MaximumBytes - 1)
)

// Output - one transaction output
type Output struct {
	Address string `json:"address"`
	Value   uint64 `json:"value"`
}

// UnsignedTransaction - a fully determined, not yet signed anchoring
// transaction
type UnsignedTransaction struct {
	InputTxId  string              `json:"inputTxId"`
	InputIndex uint32              `json:"inputIndex"`
	InputValue uint64              `json:"inputValue"`
	Outputs    []Output            `json:"outputs"` // destination first, then change
	AuxData    anchorrecord.Packed `json:"auxData"`
	Fee        uint64              `json:"fee"`
}

// EstimateMinimum - the smallest funding unit value that can carry
// this record at the given lock amount and fee rate
//
// the facade allocates against this so a build after a successful
// allocation can only fail on a genuinely stale unit
func EstimateMinimum(record *anchorrecord.AnchorRecord, lockAmount uint64, feeRate uint64) (uint64, error) {
	auxData, err := record.Pack()
	if nil != err {
		return 0, err
	}
	return lockAmount + estimateFee(auxData, feeRate), nil
}

// Build - compose the transaction spending one allocated unit
//
// the caller owns the unit's lifecycle: release it if this fails
func Build(unit *fundpool.Unit, destination string, lockAmount uint64, record *anchorrecord.AnchorRecord, changeAddress string, feeRate uint64) (*UnsignedTransaction, error) {
	if nil == unit {
		return nil, fault.ErrUnitNotFound
	}
	if "" == destination || "" == changeAddress {
		return nil, fault.ErrAddressIsNil
	}

	auxData, err := record.Pack()
	if nil != err {
		return nil, err
	}

	fee := estimateFee(auxData, feeRate)
	if unit.Value < lockAmount+fee {
		return nil, fault.ErrInsufficientValue
	}

	outputs := []Output{
		{Address: destination, Value: lockAmount},
	}
	if change := unit.Value - lockAmount - fee; change > 0 {
		outputs = append(outputs, Output{Address: changeAddress, Value: change})
	}

	tx := &UnsignedTransaction{
		InputTxId:  unit.TxId,
		InputIndex: unit.Index,
		InputValue: unit.Value,
		Outputs:    outputs,
		AuxData:    auxData,
		Fee:        fee,
	}
	return tx, nil
}

// Pack - serialize for signing and submission
//
// Pack Varint64(version) followed by the single input, the outputs
// and the tagged auxiliary data; the signature is appended by the
// submitter afterwards
func (tx *UnsignedTransaction) Pack() []byte {
	message := util.ToVarint64(transactionVersion)

	message = appendString(message, tx.InputTxId)
	message = append(message, util.ToVarint64(uint64(tx.InputIndex))...)
	message = append(message, util.ToVarint64(tx.InputValue)...)

	message = append(message, util.ToVarint64(uint64(len(tx.Outputs)))...)
	for _, output := range tx.Outputs {
		message = appendString(message, output.Address)
		message = append(message, util.ToVarint64(output.Value)...)
	}

	message = append(message, util.ToVarint64(tx.Fee)...)
	message = appendBytes(message, tx.AuxData)

	return message
}

// the fee is linear in the estimated signed size; placeholders for
// value-dependent varints are padded to worst case so the estimate
// never depends on the amounts themselves
func estimateFee(auxData anchorrecord.Packed, feeRate uint64) uint64 {
	skeleton := &UnsignedTransaction{
		InputTxId: "0000000000000000000000000000000000000000000000000000000000000000",
		Outputs: []Output{
			{Address: "", Value: 0},
			{Address: "", Value: 0},
		},
		AuxData: auxData,
	}
	size := len(skeleton.Pack()) + signatureOverhead + varintSlack + 2*addressEstimate
	return feeRate * uint64(size)
}

// generous upper bound for a base58 address
const addressEstimate = 64

// append a string to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer []byte, s string) []byte {
	l := util.ToVarint64(uint64(len(s)))
	buffer = append(buffer, l...)
	return append(buffer, s...)
}

// append bytes to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer []byte, data []byte) []byte {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	return append(buffer, data...)
}
