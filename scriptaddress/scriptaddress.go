// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scriptaddress - deterministic anchoring destination
//
// The destination address commits to the compiled authorization
// script and the chain, nothing else. The current script is a
// permissive placeholder: any future validation logic replaces the
// compiled bytes and every derivation below keeps working unchanged.
package scriptaddress

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/fault"
)

// Version - the chain variant byte leading an address
type Version byte

// one version byte per chain so addresses cannot cross networks
const (
	Live    Version = 0x0d
	Testing Version = 0x6d
	Local   Version = 0x7d
	vNull   Version = 0xff
)

// address layout sizes
const (
	scriptHashLength = 20
	checksumLength   = 4
	addressLength    = 1 + scriptHashLength + checksumLength
)

// ScriptHash - digest of a compiled authorization script
//
// the first scriptHashLength bytes enter the address; the full
// digest is what operators compare when confirming a deployment
func ScriptHash(script []byte) [32]byte {
	return sha3.Sum256(script)
}

// Derive - compute the anchoring address for a script on a chain
//
// pure function of its two inputs, no network or state access
func Derive(script []byte, chainName string) (string, error) {
	if 0 == len(script) {
		return "", fault.ErrInvalidAuthorizationScript
	}

	version := vNull
	switch chainName {
	case chain.Live:
		version = Live
	case chain.Testing:
		version = Testing
	case chain.Local:
		version = Local
	default:
		return "", fault.ErrInvalidChain
	}

	digest := ScriptHash(script)

	payload := make([]byte, 0, addressLength)
	payload = append(payload, byte(version))
	payload = append(payload, digest[:scriptHashLength]...)
	payload = append(payload, checksum(payload)...)

	return base58.Encode(payload), nil
}

// ValidateAddress - check an address and return its version
func ValidateAddress(address string) (Version, error) {

	addr, err := base58.Decode(address)
	if nil != err {
		return vNull, fault.ErrChecksumMismatch
	}

	if addressLength != len(addr) {
		return vNull, fault.ErrChecksumMismatch
	}

	if !bytes.Equal(checksum(addr[:addressLength-checksumLength]), addr[addressLength-checksumLength:]) {
		return vNull, fault.ErrChecksumMismatch
	}

	switch Version(addr[0]) {
	case Live, Testing, Local:
		return Version(addr[0]), nil
	default:
		return vNull, fault.ErrInvalidChain
	}
}

// double sha256, truncated
func checksum(payload []byte) []byte {
	d := sha256.Sum256(payload)
	d = sha256.Sum256(d[:])
	return d[:checksumLength]
}
