// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package anchorrecord

import (
	"unicode/utf8"

	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/util"
)

// Pack - pack an anchor record
//
// Pack Varint64(tag) followed by fields in order as struct above
//
// all length/charset invariants are enforced here so that nothing
// invalid can ever reach the transaction builder
func (record *AnchorRecord) Pack() (Packed, error) {

	hash, err := NormalizeDigest(record.Hash)
	if nil != err {
		return nil, err
	}

	if 0 == len(record.SubjectId) {
		return nil, fault.ErrRequiredSubjectId
	}
	if utf8.RuneCountInString(record.SubjectId) > maxSubjectIdLength {
		return nil, fault.ErrSubjectIdTooLong
	}

	if 0 == len(record.InstanceId) {
		return nil, fault.ErrRequiredInstanceId
	}
	if utf8.RuneCountInString(record.InstanceId) > maxInstanceIdLength {
		return nil, fault.ErrInstanceIdTooLong
	}

	if 0 == len(record.SchemaVersion) {
		return nil, fault.ErrRequiredSchemaVersion
	}
	if utf8.RuneCountInString(record.SchemaVersion) > maxSchemaVersionLength {
		return nil, fault.ErrSchemaVersionTooLong
	}

	// concatenate bytes
	message := util.ToVarint64(uint64(NamespaceTag))
	message = appendString(message, hash)
	message = appendString(message, record.SubjectId)
	message = appendString(message, record.InstanceId)
	message = appendUint64(message, record.ObservedAt)
	message = appendString(message, record.SchemaVersion)

	return message, nil
}

// append a string to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer Packed, s string) Packed {
	l := util.ToVarint64(uint64(len(s)))
	buffer = append(buffer, l...)
	return append(buffer, s...)
}

// append a Varint64 to buffer
func appendUint64(buffer Packed, value uint64) Packed {
	valueBytes := util.ToVarint64(value)
	buffer = append(buffer, valueBytes...)
	return buffer
}
