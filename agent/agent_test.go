// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/anchord/agent"
	"github.com/bitmark-inc/anchord/chain"
	"github.com/bitmark-inc/anchord/fault"
)

func TestGenerateRoundTrip(t *testing.T) {
	credentials, seedHex, err := agent.Generate(chain.Testing)
	assert.Nil(t, err, "wrong error")

	reloaded, err := agent.FromPrivateKeyHex(seedHex, chain.Testing)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, credentials.Address(), reloaded.Address(), "address changed after reload")
	assert.True(t, reloaded.IsTesting(), "testing flag lost")
}

func TestSignVerify(t *testing.T) {
	credentials, _, err := agent.Generate(chain.Local)
	assert.Nil(t, err, "wrong error")

	message := []byte("packed transaction bytes")
	signature, err := credentials.Sign(message)
	assert.Nil(t, err, "wrong error")

	assert.Nil(t, agent.CheckSignature(credentials.PublicKey(), message, signature), "good signature rejected")

	message[0] ^= 0x01
	assert.Equal(t, fault.ErrChecksumMismatch,
		agent.CheckSignature(credentials.PublicKey(), message, signature),
		"tampered message accepted")
}

func TestAddressRoundTrip(t *testing.T) {
	credentials, _, err := agent.Generate(chain.Testing)
	assert.Nil(t, err, "wrong error")

	publicKey, isTest, err := agent.AddressPublicKey(credentials.Address())
	assert.Nil(t, err, "wrong error")
	assert.True(t, isTest, "wrong network bit")
	assert.Equal(t, credentials.PublicKey(), publicKey, "wrong public key")
}

func TestFromPrivateKeyHexValidation(t *testing.T) {
	_, err := agent.FromPrivateKeyHex("not hex", chain.Testing)
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "bad hex accepted")

	_, err = agent.FromPrivateKeyHex("00ff", chain.Testing)
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "short key accepted")

	_, err = agent.FromPrivateKeyHex("00", "petanet")
	assert.Equal(t, fault.ErrInvalidChain, err, "bad chain accepted")
}
