// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package anchorrecord

import (
	"github.com/bitmark-inc/anchord/fault"
)

// TagType - type code for ledger auxiliary data
type TagType uint64

// NamespaceTag - the single reserved tag for anchor records
//
// this is encoded as a Varint64 at the start of "Packed" and shared
// by the writer (txbuilder) and the reader (verifier); auxiliary data
// under any other tag is simply not a candidate record
const NamespaceTag = TagType(0x616e)

// DigestLength - exact number of lowercase hex characters in a digest
const DigestLength = 64

// byte sizes for various fields
const (
	maxSubjectIdLength     = 255
	maxInstanceIdLength    = 255
	maxSchemaVersionLength = 32
)

// Packed - packed records are just a byte slice
type Packed []byte

// AnchorRecord - the unpacked anchored fact
//
// the record is immutable once handed to the transaction builder and
// is never stored off-ledger by this module
type AnchorRecord struct {
	Hash          string `json:"hash"`                // lowercase hex
	SubjectId     string `json:"subjectId"`           // utf-8, originating form
	InstanceId    string `json:"instanceId"`          // utf-8, specific response
	ObservedAt    uint64 `json:"observedAt,string"`   // milliseconds
	SchemaVersion string `json:"schemaVersion"`       // utf-8
}

// NormalizeDigest - case normalize and validate a hex digest
//
// uppercase hex input is accepted and folded to lowercase; anything
// other than an exact length hex string is an error
func NormalizeDigest(digest string) (string, error) {
	if DigestLength != len(digest) {
		return "", fault.ErrDigestLength
	}
	normalized := make([]byte, DigestLength)
	for i := 0; i < DigestLength; i += 1 {
		c := digest[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 'a'
		default:
			return "", fault.ErrInvalidDigestCharacter
		}
		normalized[i] = c
	}
	return string(normalized), nil
}
