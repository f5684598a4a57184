// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package anchorrecord

import (
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/util"
)

// Unpack - turn a byte slice back into an anchor record
//
// decoding is permissive: any bytes following the five known fields
// belong to a future schema version and are ignored; data under a
// different tag yields ErrWrongNamespaceTag so the caller can drop
// the entry without treating it as damage
//
// Note: the recover is a backstop for out of range slicing on
//       truncated buffers
func (record Packed) Unpack() (t *AnchorRecord, e error) {

	defer func() {
		if r := recover(); nil != r {
			t = nil
			e = fault.ErrNotAnchorRecordPack
		}
	}()

	tag, n := util.FromVarint64(record)
	if 0 == n {
		return nil, fault.ErrNotAnchorRecordPack
	}
	if NamespaceTag != TagType(tag) {
		return nil, fault.ErrWrongNamespaceTag
	}

	// hash
	hashLength, hashOffset := util.ClippedVarint64(record[n:], 1, 8192)
	if 0 == hashOffset {
		return nil, fault.ErrRecordFieldMissing
	}
	n += hashOffset
	hash := string(record[n : n+hashLength])
	n += hashLength

	hash, err := NormalizeDigest(hash)
	if nil != err {
		return nil, err
	}

	// subjectId
	subjectLength, subjectOffset := util.ClippedVarint64(record[n:], 1, 8192)
	if 0 == subjectOffset {
		return nil, fault.ErrRecordFieldMissing
	}
	n += subjectOffset
	subjectId := string(record[n : n+subjectLength])
	n += subjectLength

	// instanceId
	instanceLength, instanceOffset := util.ClippedVarint64(record[n:], 1, 8192)
	if 0 == instanceOffset {
		return nil, fault.ErrRecordFieldMissing
	}
	n += instanceOffset
	instanceId := string(record[n : n+instanceLength])
	n += instanceLength

	// observedAt
	observedAt, observedAtLength := util.FromVarint64(record[n:])
	if 0 == observedAtLength {
		return nil, fault.ErrRecordFieldMissing
	}
	n += observedAtLength

	// schemaVersion
	versionLength, versionOffset := util.ClippedVarint64(record[n:], 1, 8192)
	if 0 == versionOffset {
		return nil, fault.ErrRecordFieldMissing
	}
	n += versionOffset
	schemaVersion := string(record[n : n+versionLength])
	n += versionLength

	r := &AnchorRecord{
		Hash:          hash,
		SubjectId:     subjectId,
		InstanceId:    instanceId,
		ObservedAt:    observedAt,
		SchemaVersion: schemaVersion,
	}
	return r, nil
}
