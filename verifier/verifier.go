// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verifier - prove a content hash is anchored
//
// scans every confirmed ledger entry filed under the namespace tag
// and reports the earliest record carrying the hash; no local index,
// no trust in the anchoring agent, only the public ledger
package verifier

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/anchord/anchorrecord"
	"github.com/bitmark-inc/anchord/ledger"
)

// scan constants
const (
	// entries fetched per listtagged call
	pageSize = 100

	// floor on the interval between listtagged calls, a long scan
	// must not monopolise the node
	scanQueryGap = 100 * time.Millisecond
)

// Result - outcome of a verification scan
//
// position fields are only meaningful when Matched is true
type Result struct {
	Matched     bool                       `json:"matched"`
	TxId        string                     `json:"txId,omitempty"`
	Record      *anchorrecord.AnchorRecord `json:"record,omitempty"`
	BlockHeight uint64                     `json:"blockHeight,omitempty"`
	TxIndex     uint32                     `json:"txIndex,omitempty"`
}

// Verifier - read-only verification against a ledger node
type Verifier struct {
	log     *logger.L
	client  ledger.Client
	found   *gocache.Cache
	limiter *rate.Limiter
}

// New - create a verifier
func New(client ledger.Client) *Verifier {
	return &Verifier{
		log:     logger.New("verifier"),
		client:  client,
		found:   gocache.New(gocache.NoExpiration, 0),
		limiter: rate.NewLimiter(rate.Every(scanQueryGap), 1),
	}
}

// FindByHash - scan the tagged entries for an anchored hash
//
// a malformed digest is an error; a clean scan with no match is a
// successful negative, Matched false with a nil error. When several
// records carry the same hash the one at the lowest (block height,
// transaction index) position wins.
func (verifier *Verifier) FindByHash(hash string) (*Result, error) {

	digest, err := anchorrecord.NormalizeDigest(hash)
	if nil != err {
		return nil, err
	}

	// a confirmed anchor is immutable; negatives are never cached
	// since the next block may carry the hash
	if cached, ok := verifier.found.Get(digest); ok {
		return copyResult(cached.(*Result)), nil
	}

	result := &Result{}

	offset := uint64(0)
scan:
	for {
		if err := verifier.limiter.Wait(context.Background()); nil != err {
			return nil, err
		}

		entries, err := verifier.client.ListTagged(uint64(anchorrecord.NamespaceTag), offset, pageSize)
		if nil != err {
			return nil, err
		}

		for _, entry := range entries {
			record, err := anchorrecord.Packed(entry.Data).Unpack()
			if nil != err {
				// a foreign or damaged entry under our tag is not
				// this scan's problem
				verifier.log.Debugf("skip undecodable entry %s: %s", entry.TxId, err)
				continue
			}
			if record.Hash != digest {
				continue
			}
			if result.Matched && !earlier(entry, result) {
				continue
			}
			result.Matched = true
			result.TxId = entry.TxId
			result.Record = record
			result.BlockHeight = entry.BlockHeight
			result.TxIndex = entry.TxIndex
		}

		// a short page ends the scan
		if len(entries) < pageSize {
			break scan
		}
		offset += pageSize
	}

	if result.Matched {
		verifier.found.Set(digest, copyResult(result), gocache.NoExpiration)
	}

	return result, nil
}

// the cache keeps its own copy so a caller mutating a returned result
// cannot poison later queries
func copyResult(result *Result) *Result {
	duplicate := *result
	if nil != result.Record {
		record := *result.Record
		duplicate.Record = &record
	}
	return &duplicate
}

// IsAnchored - convenience wrapper for yes/no checks
func (verifier *Verifier) IsAnchored(hash string) (bool, error) {
	result, err := verifier.FindByHash(hash)
	if nil != err {
		return false, err
	}
	return result.Matched, nil
}

// strict ledger position order
func earlier(entry ledger.TaggedEntry, current *Result) bool {
	if entry.BlockHeight != current.BlockHeight {
		return entry.BlockHeight < current.BlockHeight
	}
	return entry.TxIndex < current.TxIndex
}
