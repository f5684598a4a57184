// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package agent - the anchoring agent's signing credentials
//
// signing is opaque to the rest of the protocol: the submitter only
// sees the Signer interface, so hardware or remote signing can
// substitute without touching anchoring logic
package agent

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/util"
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmED25519 = 0x01
	algorithmShift   = 4
)

// Signer - what the submitter needs from credentials
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
}

// Credentials - an in-process ed25519 signing key
type Credentials struct {
	test       bool
	privateKey ed25519.PrivateKey
}

// FromPrivateKeyHex - load credentials from configured key material
//
// accepts a 32 byte seed or a full 64 byte private key, hex encoded
func FromPrivateKeyHex(privateKeyHex string, chainName string) (*Credentials, error) {
	if !chain.Valid(chainName) {
		return nil, fault.ErrInvalidChain
	}

	raw, err := hex.DecodeString(privateKeyHex)
	if nil != err {
		return nil, fault.ErrInvalidPrivateKey
	}

	var privateKey ed25519.PrivateKey
	switch len(raw) {
	case ed25519.SeedSize:
		privateKey = ed25519.NewKeyFromSeed(raw)
	case ed25519.PrivateKeySize:
		privateKey = ed25519.PrivateKey(raw)
	default:
		return nil, fault.ErrInvalidPrivateKey
	}

	return &Credentials{
		test:       chain.Live != chainName,
		privateKey: privateKey,
	}, nil
}

// Generate - create fresh credentials, returning the seed hex for
// the configuration file
func Generate(chainName string) (*Credentials, string, error) {
	if !chain.Valid(chainName) {
		return nil, "", fault.ErrInvalidChain
	}

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, "", err
	}

	credentials := &Credentials{
		test:       chain.Live != chainName,
		privateKey: privateKey,
	}
	return credentials, hex.EncodeToString(privateKey.Seed()), nil
}

// Sign - sign a packed transaction, ed25519
func (credentials *Credentials) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(credentials.privateKey, message), nil
}

// PublicKey - raw public key bytes
func (credentials *Credentials) PublicKey() []byte {
	return credentials.privateKey.Public().(ed25519.PublicKey)
}

// IsTesting - true unless the key belongs to the live chain
func (credentials *Credentials) IsTesting() bool {
	return credentials.test
}

// Address - base58 agent address owning the funding pool
//
// layout: Varint64(key variant) + public key + first 4 bytes of the
// sha3-256 of the preceding bytes
func (credentials *Credentials) Address() string {
	keyVariant := uint64(algorithmED25519<<algorithmShift | publicKeyCode)
	if credentials.test {
		keyVariant |= testKeyCode
	}

	payload := util.ToVarint64(keyVariant)
	payload = append(payload, credentials.PublicKey()...)
	checksum := sha3.Sum256(payload)
	payload = append(payload, checksum[:checksumLength]...)

	return base58.Encode(payload)
}

// CheckSignature - verify a signature made by these credentials
func CheckSignature(publicKey []byte, message []byte, signature []byte) error {
	if ed25519.PublicKeySize != len(publicKey) || ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidPrivateKey
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return fault.ErrChecksumMismatch
	}
	return nil
}

// AddressPublicKey - recover the public key from an agent address
func AddressPublicKey(address string) ([]byte, bool, error) {
	decoded, err := base58.Decode(address)
	if nil != err {
		return nil, false, fault.ErrChecksumMismatch
	}

	keyVariant, keyVariantLength := util.FromVarint64(decoded)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, false, fault.ErrInvalidPrivateKey
	}
	isTest := 0 != keyVariant&testKeyCode

	if len(decoded) < keyVariantLength+checksumLength {
		return nil, false, fault.ErrInvalidPrivateKey
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return nil, false, fault.ErrChecksumMismatch
	}

	publicKey := decoded[keyVariantLength:checksumStart]
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, false, fault.ErrInvalidPrivateKey
	}
	return publicKey, isTest, nil
}
