// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package anchorrecord_test

import (
	"strings"
	"testing"

	"github.com/bitmark-inc/anchord/anchorrecord"
	"github.com/bitmark-inc/anchord/fault"
	"github.com/bitmark-inc/anchord/util"
)

// a valid sixty four character lowercase hex digest
const digest = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

func makeRecord() *anchorrecord.AnchorRecord {
	return &anchorrecord.AnchorRecord{
		Hash:          digest,
		SubjectId:     "form-1",
		InstanceId:    "resp-1",
		ObservedAt:    1700000000000,
		SchemaVersion: "1.0",
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	r := makeRecord()

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}

	if *unpacked != *r {
		t.Fatalf("record mismatch: %+v  expected: %+v", unpacked, r)
	}
}

// the tag must lead the pack as a Varint64 so readers can reject
// foreign data before touching any field
func TestPackLeadsWithNamespaceTag(t *testing.T) {
	packed, err := makeRecord().Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	tag, n := util.FromVarint64(packed)
	if 0 == n {
		t.Fatal("missing tag varint")
	}
	if anchorrecord.NamespaceTag != anchorrecord.TagType(tag) {
		t.Fatalf("tag: %#x  expected: %#x", tag, uint64(anchorrecord.NamespaceTag))
	}

	// next varint must be the digest length
	l, _ := util.FromVarint64(packed[n:])
	if anchorrecord.DigestLength != int(l) {
		t.Fatalf("digest length prefix: %d  expected: %d", l, anchorrecord.DigestLength)
	}
}

func TestPackUppercaseDigestIsNormalized(t *testing.T) {
	r := makeRecord()
	r.Hash = strings.ToUpper(digest)

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	unpacked, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if digest != unpacked.Hash {
		t.Fatalf("digest: %q  expected lowercase: %q", unpacked.Hash, digest)
	}
}

func TestPackRejectsInvalidRecords(t *testing.T) {
	testData := []struct {
		modify func(r *anchorrecord.AnchorRecord)
		err    error
	}{
		{func(r *anchorrecord.AnchorRecord) { r.Hash = digest[1:] }, fault.ErrDigestLength},
		{func(r *anchorrecord.AnchorRecord) { r.Hash = digest + "00" }, fault.ErrDigestLength},
		{func(r *anchorrecord.AnchorRecord) { r.Hash = "g" + digest[1:] }, fault.ErrInvalidDigestCharacter},
		{func(r *anchorrecord.AnchorRecord) { r.SubjectId = "" }, fault.ErrRequiredSubjectId},
		{func(r *anchorrecord.AnchorRecord) { r.InstanceId = "" }, fault.ErrRequiredInstanceId},
		{func(r *anchorrecord.AnchorRecord) { r.SchemaVersion = "" }, fault.ErrRequiredSchemaVersion},
		{func(r *anchorrecord.AnchorRecord) { r.SubjectId = strings.Repeat("s", 256) }, fault.ErrSubjectIdTooLong},
		{func(r *anchorrecord.AnchorRecord) { r.InstanceId = strings.Repeat("i", 256) }, fault.ErrInstanceIdTooLong},
		{func(r *anchorrecord.AnchorRecord) { r.SchemaVersion = strings.Repeat("9.", 17) }, fault.ErrSchemaVersionTooLong},
	}

	for i, item := range testData {
		r := makeRecord()
		item.modify(r)
		_, err := r.Pack()
		if item.err != err {
			t.Errorf("%d: error: %v  expected: %v", i, err, item.err)
		}
	}
}

// data under any other tag must not decode as an anchor record
func TestUnpackForeignTag(t *testing.T) {
	foreign := util.ToVarint64(uint64(anchorrecord.NamespaceTag) + 1)
	foreign = append(foreign, 0x40)
	foreign = append(foreign, []byte(digest)...)

	_, err := anchorrecord.Packed(foreign).Unpack()
	if fault.ErrWrongNamespaceTag != err {
		t.Fatalf("error: %v  expected: %v", err, fault.ErrWrongNamespaceTag)
	}
}

// bytes after the known fields belong to a future schema version
func TestUnpackIgnoresUnknownTrailingFields(t *testing.T) {
	packed, err := makeRecord().Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	extended := append(anchorrecord.Packed{}, packed...)
	extended = append(extended, 0x03, 'n', 'e', 'w')

	unpacked, err := extended.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if *unpacked != *makeRecord() {
		t.Fatalf("record mismatch: %+v", unpacked)
	}
}

func TestUnpackTruncated(t *testing.T) {
	packed, err := makeRecord().Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	for _, n := range []int{0, 1, 3, 10, len(packed) - 1} {
		// fresh copy so the unpacker cannot read past the
		// truncation point into the original backing array
		trunc := make(anchorrecord.Packed, n)
		copy(trunc, packed)
		_, err := trunc.Unpack()
		if nil == err {
			t.Errorf("truncation to %d bytes did not error", n)
		}
		if !fault.IsErrRecord(err) && !fault.IsErrLength(err) {
			t.Errorf("truncation to %d bytes: unexpected class: %v", n, err)
		}
	}
}

func TestNormalizeDigest(t *testing.T) {
	if _, err := anchorrecord.NormalizeDigest(strings.Repeat("0", 64)); nil != err {
		t.Fatalf("all zero digest rejected: %s", err)
	}
	if _, err := anchorrecord.NormalizeDigest(strings.Repeat("0", 63) + "G"); fault.ErrInvalidDigestCharacter != err {
		t.Fatalf("error: %v  expected: %v", err, fault.ErrInvalidDigestCharacter)
	}
}
